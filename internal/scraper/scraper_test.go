package main

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCreateDistributionPoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := timestamppb.New(time.Now())

	h := &dto.Histogram{
		SampleCount: proto.Uint64(4),
		SampleSum:   proto.Float64(10),
		Bucket: []*dto.Bucket{
			{UpperBound: proto.Float64(1), CumulativeCount: proto.Uint64(1)},
			{UpperBound: proto.Float64(5), CumulativeCount: proto.Uint64(3)},
			{UpperBound: proto.Float64(math.Inf(1)), CumulativeCount: proto.Uint64(4)},
		},
	}

	point := createDistributionPoint(now, h, logger)
	require.NotNil(t, point)

	dist := point.GetValue().GetDistributionValue()
	assert.Equal(t, int64(4), dist.GetCount())
	assert.Equal(t, 2.5, dist.GetMean())
	assert.Equal(t, []float64{1, 5}, dist.GetBucketOptions().GetExplicitBuckets().GetBounds(),
		"the +Inf upper bound is dropped")
	assert.Equal(t, []int64{1, 2, 1}, dist.GetBucketCounts(),
		"cumulative bucket counts are de-accumulated")
}

func TestCreateDistributionPointNoBuckets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := timestamppb.New(time.Now())

	h := &dto.Histogram{
		SampleCount: proto.Uint64(0),
		SampleSum:   proto.Float64(0),
	}

	assert.Nil(t, createDistributionPoint(now, h, logger))
}

func TestCreateDistributionPointZeroSamples(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := timestamppb.New(time.Now())

	h := &dto.Histogram{
		SampleCount: proto.Uint64(0),
		SampleSum:   proto.Float64(0),
		Bucket: []*dto.Bucket{
			{UpperBound: proto.Float64(math.Inf(1)), CumulativeCount: proto.Uint64(0)},
		},
	}

	point := createDistributionPoint(now, h, logger)
	require.NotNil(t, point)

	dist := point.GetValue().GetDistributionValue()
	assert.Equal(t, int64(0), dist.GetCount())
	assert.Zero(t, dist.GetMean(), "an empty histogram must not produce a NaN mean")
}
