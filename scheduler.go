package main

import (
	"context"
	"time"
)

// Refresher keeps the default city's same-day cache entries warm by
// periodically fetching fresh payloads straight from the provider and
// rewriting the cache. It deliberately bypasses the cache lookup, since
// going through GetCurrentWeather would just hit the entry it is meant to
// renew.
// The refresher is optional; with no interval configured the fetch path is
// purely on-demand.
type Refresher struct {
	cfg         *apiConfig
	tick        <-chan time.Time
	stop        chan struct{}
	ticker      *time.Ticker
	refreshJobs func()
}

func NewRefresher(cfg *apiConfig, interval time.Duration) *Refresher {
	ticker := time.NewTicker(interval)
	rf := &Refresher{
		cfg:    cfg,
		tick:   ticker.C,
		stop:   make(chan struct{}),
		ticker: ticker,
	}
	rf.refreshJobs = rf.runRefreshJobs
	return rf
}

func (rf *Refresher) Start() {
	go func() {
		for {
			select {
			case <-rf.tick:
				rf.cfg.logger.Debug("refresher: running cache refresh")
				rf.refreshJobs()
			case <-rf.stop:
				rf.ticker.Stop()
				rf.cfg.logger.Debug("refresher: stopped")
				return
			}
		}
	}()
}

func (rf *Refresher) Stop() {
	close(rf.stop)
}

// runRefreshJobs renews the current-weather and forecast entries for the
// configured default city, sequentially, one provider call each.
func (rf *Refresher) runRefreshJobs() {
	cfg := rf.cfg
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	city, country := cfg.resolveCity(WeatherQuery{})

	raw, err := cfg.fetchPayload(ctx, cfg.httpClient, cfg.wrapForCurrentWeather(city, country), endpointCurrent)
	if err != nil {
		cfg.logger.Warn("refresher: current weather fetch failed", "city", city, "error", err)
	} else {
		cfg.storeCache(ctx, cacheKey(city, endpointCurrent, time.Now()), raw)
		cfg.logger.Debug("refresher: refreshed current weather", "city", city)
	}

	raw, err = cfg.fetchPayload(ctx, cfg.forecastClient, cfg.wrapForForecast(city, country, cfg.forecastDays), endpointForecast)
	if err != nil {
		cfg.logger.Warn("refresher: forecast fetch failed", "city", city, "error", err)
		return
	}
	cfg.storeCache(ctx, cacheKey(city, endpointForecast, time.Now()), raw)
	cfg.logger.Debug("refresher: refreshed forecast", "city", city)
}
