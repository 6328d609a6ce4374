package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics that are exposed by the application.

// httpRequestsTotal tracks the total number of HTTP requests, partitioned by
// the request's URL path, HTTP method, and the resulting status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tianqi_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// providerRequestsTotal counts outbound weather-provider requests by
// endpoint kind and response status ("network_error" when no response was
// received at all).
var providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tianqi_provider_requests_total",
	Help: "Total number of weather provider requests by endpoint and status.",
}, []string{"endpoint", "status"})

// cacheLookupsTotal counts cache lookups by endpoint kind and result. A
// stale entry counts as a miss, since it forces a provider request.
var cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tianqi_cache_lookups_total",
	Help: "Total number of cache lookups by endpoint and result.",
}, []string{"endpoint", "result"})
