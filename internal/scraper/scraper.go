// This file implements a standalone metrics scraper for the tianqi service.
// It is meant to run as a separate, serverless container (e.g. on Cloud Run)
// and be triggered periodically by a scheduler (e.g. Cloud Scheduler).
//
// On each trigger the scraper fetches the service's /metrics endpoint,
// parses the text-based Prometheus exposition format (counters, gauges and
// histograms), converts the samples into Google Cloud Monitoring TimeSeries,
// and ingests them. Running collection outside the service keeps scraping
// independent of the service's own lifecycle.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/genproto/googleapis/api/distribution"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("starting scraper", "port", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		scrapeHandler(w, r, logger)
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

// scrapeHandler handles one scheduler trigger: it runs the scrape/ingest
// cycle and reports the outcome.
func scrapeHandler(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	logger.Info("scrape request received")
	if err := scrapeAndIngest(r.Context(), logger); err != nil {
		logger.Error("error during scrape and ingest", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	logger.Info("successfully scraped and ingested metrics")
	fmt.Fprintln(w, "Success")
}

// scrapeAndIngest reads its targets from the environment, converts the
// scraped Prometheus metrics to Cloud Monitoring TimeSeries, and writes
// them.
func scrapeAndIngest(ctx context.Context, logger *slog.Logger) error {
	metricsURL := os.Getenv("METRICS_URL")
	if metricsURL == "" {
		return fmt.Errorf("environment variable METRICS_URL must be set")
	}
	projectID := os.Getenv("PROJECT_ID")
	if projectID == "" {
		return fmt.Errorf("environment variable PROJECT_ID must be set")
	}
	location := os.Getenv("SCRAPE_LOCATION")
	if location == "" {
		location = "asia-east2"
	}

	timeSeries, err := fetchAndConvertToTimeSeries(ctx, projectID, location, metricsURL, logger)
	if err != nil {
		return fmt.Errorf("failed to fetch and convert metrics: %w", err)
	}

	if len(timeSeries) == 0 {
		logger.Info("no metric samples found to ingest")
		return nil
	}

	if err := ingestMetrics(ctx, projectID, timeSeries); err != nil {
		return fmt.Errorf("failed to ingest metrics: %w", err)
	}

	return nil
}

// fetchAndConvertToTimeSeries scrapes a Prometheus endpoint and converts the
// samples into Cloud Monitoring's TimeSeries format. Counter, Gauge, Untyped
// and Histogram metric types are handled; summaries are skipped.
func fetchAndConvertToTimeSeries(ctx context.Context, projectID, location, url string, logger *slog.Logger) ([]*monitoringpb.TimeSeries, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request failed with status code %d", resp.StatusCode)
	}

	var parser expfmt.TextParser
	metricFamilies, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prometheus metrics: %w", err)
	}

	resource := &monitoredres.MonitoredResource{
		Type: "prometheus_target",
		Labels: map[string]string{
			"project_id": projectID,
			"location":   location,
			"cluster":    "__gce__",
			"namespace":  "tianqi",
			"job":        "tianqi",
			"instance":   url,
		},
	}

	var timeSeriesList []*monitoringpb.TimeSeries
	now := timestamppb.New(time.Now())

	for name, mf := range metricFamilies {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}

			ts := &monitoringpb.TimeSeries{
				Metric: &metric.Metric{
					Type:   "prometheus.googleapis.com/" + name,
					Labels: labels,
				},
				Resource: resource,
			}

			var point *monitoringpb.Point
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				point = createPoint(now, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				point = createPoint(now, m.GetGauge().GetValue())
			case dto.MetricType_UNTYPED:
				point = createPoint(now, m.GetUntyped().GetValue())
			case dto.MetricType_HISTOGRAM:
				point = createDistributionPoint(now, m.GetHistogram(), logger)
				if point == nil {
					logger.Warn("skipping histogram with no buckets", "metric", name)
					continue
				}
			case dto.MetricType_SUMMARY:
				logger.Debug("skipping metric with unhandled summary type", "metric", name)
				continue
			default:
				logger.Warn("skipping metric with unhandled type", "metric", name, "type", mf.GetType())
				continue
			}

			ts.Points = []*monitoringpb.Point{point}
			timeSeriesList = append(timeSeriesList, ts)
		}
	}
	return timeSeriesList, nil
}

// createPoint builds a TimeSeries point with a double value, used for
// counters, gauges and untyped samples.
func createPoint(timestamp *timestamppb.Timestamp, value float64) *monitoringpb.Point {
	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{
			EndTime: timestamp,
		},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DoubleValue{
				DoubleValue: value,
			},
		},
	}
}

// createDistributionPoint converts a Prometheus histogram DTO into a Cloud
// Monitoring Distribution value. Prometheus buckets are cumulative and end
// with +Inf; the conversion de-accumulates the counts and drops the +Inf
// upper bound. A histogram without buckets cannot be expressed as a
// Distribution and yields nil.
func createDistributionPoint(timestamp *timestamppb.Timestamp, h *dto.Histogram, logger *slog.Logger) *monitoringpb.Point {
	promBuckets := h.GetBucket()
	if len(promBuckets) == 0 {
		return nil
	}
	bounds := make([]float64, len(promBuckets)-1)
	bucketCounts := make([]int64, len(promBuckets))
	var lastCumulativeCount uint64

	for i, b := range promBuckets {
		if i < len(promBuckets)-1 {
			bounds[i] = b.GetUpperBound()
		}
		cumulativeCount := b.GetCumulativeCount()
		countInBucket := cumulativeCount - lastCumulativeCount
		if countInBucket > math.MaxInt64 {
			logger.Warn("histogram bucket count exceeds MaxInt64, capping value", "bucket", i, "value", countInBucket)
			bucketCounts[i] = math.MaxInt64
		} else {
			bucketCounts[i] = int64(countInBucket)
		}
		lastCumulativeCount = cumulativeCount
	}

	sampleCount := h.GetSampleCount()
	var finalSampleCount int64
	if sampleCount > math.MaxInt64 {
		logger.Warn("histogram sample count exceeds MaxInt64, capping value", "value", sampleCount)
		finalSampleCount = math.MaxInt64
	} else {
		finalSampleCount = int64(sampleCount)
	}

	var mean float64
	if sampleCount > 0 {
		mean = h.GetSampleSum() / float64(sampleCount)
	}

	dist := &distribution.Distribution{
		Count: finalSampleCount,
		Mean:  mean,
		BucketOptions: &distribution.Distribution_BucketOptions{
			Options: &distribution.Distribution_BucketOptions_ExplicitBuckets{
				ExplicitBuckets: &distribution.Distribution_BucketOptions_Explicit{
					Bounds: bounds,
				},
			},
		},
		BucketCounts: bucketCounts,
	}

	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{
			EndTime: timestamp,
		},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DistributionValue{
				DistributionValue: dist,
			},
		},
	}
}

// ingestMetrics writes the TimeSeries data to the Cloud Monitoring API.
func ingestMetrics(ctx context.Context, projectID string, timeSeries []*monitoringpb.TimeSeries) error {
	client, err := monitoring.NewMetricClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + projectID,
		TimeSeries: timeSeries,
	}

	if err := client.CreateTimeSeries(ctx, req); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}
