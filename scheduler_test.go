package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresherRunsJobsOnTick(t *testing.T) {
	cfg := newTestConfig(t, "http://unused")

	tick := make(chan time.Time)
	rf := &Refresher{
		cfg:    cfg,
		tick:   tick,
		stop:   make(chan struct{}),
		ticker: time.NewTicker(time.Hour),
	}

	var runs atomic.Int32
	done := make(chan struct{}, 2)
	rf.refreshJobs = func() {
		runs.Add(1)
		done <- struct{}{}
	}

	rf.Start()
	defer rf.Stop()

	tick <- time.Now()
	tick <- time.Now()

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for refresh job to run")
		}
	}
	assert.Equal(t, int32(2), runs.Load())
}

func TestRefresherStop(t *testing.T) {
	cfg := newTestConfig(t, "http://unused")

	tick := make(chan time.Time)
	rf := &Refresher{
		cfg:    cfg,
		tick:   tick,
		stop:   make(chan struct{}),
		ticker: time.NewTicker(time.Hour),
	}
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	rf.refreshJobs = func() {
		runs.Add(1)
		done <- struct{}{}
	}

	rf.Start()

	tick <- time.Now()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for refresh job to run")
	}

	rf.Stop()
	// Give the goroutine time to observe the stop and exit; a tick sent
	// afterwards must go nowhere.
	time.Sleep(50 * time.Millisecond)
	select {
	case tick <- time.Now():
		t.Fatal("refresher still consuming ticks after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestRunRefreshJobsWarmsCache(t *testing.T) {
	var currentCalls, forecastCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/forecast" {
			forecastCalls.Add(1)
			w.Write([]byte(`{"cod": "200", "cnt": 40, "list": []}`))
			return
		}
		currentCalls.Add(1)
		w.Write([]byte(currentWeatherPayload("Guilin", 22.3)))
	}))
	defer server.Close()

	cfg := newTestConfig(t, server.URL)
	rf := NewRefresher(cfg, time.Hour)
	defer rf.Stop()

	rf.runRefreshJobs()

	require.Equal(t, int32(1), currentCalls.Load())
	require.Equal(t, int32(1), forecastCalls.Load())

	// The warmed entries serve subsequent lookups without new provider calls.
	_, err := cfg.GetCurrentWeather(context.Background(), WeatherQuery{})
	require.NoError(t, err)
	_, err = cfg.GetForecast(context.Background(), WeatherQuery{}, 0)
	require.NoError(t, err)

	assert.Equal(t, int32(1), currentCalls.Load())
	assert.Equal(t, int32(1), forecastCalls.Load())
}
