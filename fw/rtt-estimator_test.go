/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func TestRttEstimatorSeedRto(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	// No samples: RTO derives from the seed, with undefined variance treated as zero
	assert.Equal(t, 500*time.Millisecond, est.ComputeRto())
}

func TestRttEstimatorSingleSample(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	sent := clk.Now()
	clk.Add(100 * time.Millisecond)
	rtt := est.AddMeasurement([]time.Time{sent})

	assert.InDelta(t, 100.0, rtt, 0.001)
	assert.InDelta(t, 100.0, est.Mean(), 0.001)
	assert.InDelta(t, 100.0, est.LastRtt(), 0.001)
}

func TestRttEstimatorClampBelowMinBeforeMinObserved(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	sent := clk.Now()
	clk.Add(5 * time.Millisecond)
	rtt := est.AddMeasurement([]time.Time{sent})

	// The returned sample is pre-clamping; the stored one is clamped to rttMin
	assert.InDelta(t, 5.0, rtt, 0.001)
	assert.InDelta(t, 10.0, est.LastRtt(), 0.001)
}

func TestRttEstimatorClampAboveMax(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	sent := clk.Now()
	clk.Add(5 * time.Second)
	rtt := est.AddMeasurement([]time.Time{sent})

	assert.InDelta(t, 5000.0, rtt, 0.001)
	assert.InDelta(t, 1000.0, est.LastRtt(), 0.001)
}

func TestRttEstimatorRetryScenario(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	// Interest sent at t0, retried at t0+120ms, satisfied at t0+200ms with no
	// observed minimum: the newest send wins, yielding an 80ms sample
	t0 := clk.Now()
	clk.Add(200 * time.Millisecond)
	rtt := est.AddMeasurement([]time.Time{t0, t0.Add(120 * time.Millisecond)})

	assert.InDelta(t, 80.0, rtt, 0.001)
	assert.InDelta(t, 80.0, est.Mean(), 0.001)
	assert.Equal(t, 480*time.Millisecond, est.ComputeRto())
}

func TestRttEstimatorRetrySampleRespectsObservedMin(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	// Establish a 100ms observed minimum with a non-retransmitted sample
	sent := clk.Now()
	clk.Add(100 * time.Millisecond)
	est.AddMeasurement([]time.Time{sent})

	// Retransmitted measurement whose newest candidate (50ms) is below the observed
	// minimum: the scan walks back to the 150ms candidate
	t0 := clk.Now()
	clk.Add(150 * time.Millisecond)
	rtt := est.AddMeasurement([]time.Time{t0, t0.Add(100 * time.Millisecond)})

	assert.InDelta(t, 150.0, rtt, 0.001)
}

func TestRttEstimatorRetryDoesNotLowerObservedMin(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	sent := clk.Now()
	clk.Add(100 * time.Millisecond)
	est.AddMeasurement([]time.Time{sent})
	assert.InDelta(t, 100.0, est.minObserved, 0.001)

	// A fast retransmitted sample must not move the observed minimum
	t0 := clk.Now()
	clk.Add(120 * time.Millisecond)
	est.AddMeasurement([]time.Time{t0, t0.Add(10 * time.Millisecond)})
	assert.InDelta(t, 100.0, est.minObserved, 0.001)
}

func TestRttEstimatorWindowBounded(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	for i := 0; i < 8; i++ {
		sent := clk.Now()
		clk.Add(time.Duration(20+i) * time.Millisecond)
		est.AddMeasurement([]time.Time{sent})
	}
	assert.LessOrEqual(t, len(est.window), rttSamples)
}

func TestRttEstimatorResetReturnsToSeed(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	sent := clk.Now()
	clk.Add(100 * time.Millisecond)
	est.AddMeasurement([]time.Time{sent})
	assert.NotEqual(t, 500*time.Millisecond, est.ComputeRto())

	est.Reset()
	assert.Equal(t, 500*time.Millisecond, est.ComputeRto())
	assert.Equal(t, -1.0, est.minObserved)
}

func TestRttEstimatorRtoFloor(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")

	// Even a string of minimal samples cannot push the RTO below the floor
	for i := 0; i < 6; i++ {
		sent := clk.Now()
		clk.Add(time.Nanosecond)
		est.AddMeasurement([]time.Time{sent})
	}
	assert.GreaterOrEqual(t, est.ComputeRto(), rtoFloor)
}

func TestRttEstimatorEmptyMeasurement(t *testing.T) {
	clk := clock.NewMock()
	est := NewRttEstimator(clk, "eth0")
	assert.Equal(t, -1.0, est.AddMeasurement(nil))
}
