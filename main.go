package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config()
	cfg.logger.Debug("configuration loaded")

	if cfg.refreshInterval > 0 {
		refresher := NewRefresher(cfg, cfg.refreshInterval)
		cfg.logger.Info("starting cache refresher", "interval", cfg.refreshInterval.String())
		refresher.Start()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/currentweather", cfg.handlerCurrentWeather)
	mux.HandleFunc("/api/forecast", cfg.handlerForecast)
	mux.HandleFunc("/api/compare", cfg.handlerCompare)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.devMode {
		cfg.logger.Debug("development mode enabled. Registering /dev/flush-cache endpoint.")
		mux.HandleFunc("/dev/flush-cache", cfg.handlerFlushCache)
	}

	server := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: corsMiddleware(metricsMiddleware(requestIDMiddleware(mux))),
	}

	cfg.logger.Info("starting server", "port", cfg.port)
	err := server.ListenAndServe()
	if err != nil {
		cfg.logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
}
