/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/core/events"
)

// RTT estimator constants, in milliseconds unless noted.
const (
	rttMin        = 10.0
	rttMax        = 1000.0
	rtt0          = 250.0
	rttMultiplier = 2.0
	rttSamples    = 5
	rtoFloor      = 5 * time.Millisecond

	rttMeanWeightOld = 0.3
	rttMeanWeightNew = 0.7
	rttVarWeightOld  = 0.125
	rttVarWeightNew  = 0.875
)

// RttEstimator tracks a smoothed round-trip time estimate for a single network
// interface and derives the retransmission timeout from it.
//
// Retransmitted samples are accepted only if they are at least the smallest RTT ever
// observed on a non-retransmitted sample, so that an early retry coinciding with a
// delayed response cannot collapse the estimate.
type RttEstimator struct {
	clk           clock.Clock
	interfaceName string

	mean        float64 // -1 when undefined
	vari        float64 // -1 when undefined
	lastRtt     float64 // -1 when undefined
	minObserved float64 // -1 when undefined; only single-sample measurements may lower it

	window []float64
}

// NewRttEstimator creates an RTT estimator for the named interface.
func NewRttEstimator(clk clock.Clock, interfaceName string) *RttEstimator {
	r := new(RttEstimator)
	r.clk = clk
	r.interfaceName = interfaceName
	r.mean = -1
	r.vari = -1
	r.lastRtt = -1
	r.minObserved = -1
	return r
}

func (r *RttEstimator) String() string {
	return "RttEstimator-" + r.interfaceName
}

// Mean returns the smoothed mean RTT in milliseconds, or -1 if no sample has been accepted.
func (r *RttEstimator) Mean() float64 {
	return r.mean
}

// LastRtt returns the last accepted sample in milliseconds, or -1 if none.
func (r *RttEstimator) LastRtt() float64 {
	return r.lastRtt
}

// AddMeasurement feeds the estimator the transmission timestamps of a satisfied
// Interest (the first being the initial send, the rest retries) and returns the
// pre-clamping RTT sample in milliseconds, or -1 if the measurement is unusable.
func (r *RttEstimator) AddMeasurement(sendTimes []time.Time) float64 {
	if len(sendTimes) == 0 {
		// Data received without a sent Interest
		return -1
	}

	now := r.clk.Now()
	minAtEntry := r.minObserved

	var rtt float64
	if len(sendTimes) == 1 { // No retry
		rtt = durationMs(now.Sub(sendTimes[0]))

		// Only non-retransmitted samples may lower the observed minimum
		if r.minObserved == -1 || rtt < r.minObserved {
			r.minObserved = rtt
			events.Telemetry().Emit(events.EventRttMinCalc, r.minObserved)
		}
	} else { // At least one retry: walk newest to oldest
		for i := len(sendTimes); i > 0; i-- {
			rtt = durationMs(now.Sub(sendTimes[i-1]))
			if minAtEntry == -1 || rtt >= minAtEntry {
				break
			}
		}
	}

	rttOriginal := rtt

	// Clamp against the minimum known before this measurement
	if minAtEntry == -1 && rtt < rttMin {
		events.Telemetry().Emit(events.EventRttMin, rtt)
		rtt = rttMin
	} else if minAtEntry != -1 && rtt < minAtEntry {
		events.Telemetry().Emit(events.EventRttMin, rtt)
		rtt = minAtEntry
	}
	if rtt > rttMax {
		events.Telemetry().Emit(events.EventRttMax, rtt)
		rtt = rttMax
	}

	if len(r.window) >= rttSamples {
		r.window = r.window[len(r.window)-rttSamples+1:]
	}
	r.window = append(r.window, rtt)

	newMean := r.window[0]
	newVar := r.window[0] / 2
	for i := 1; i < len(r.window); i++ {
		newVar = newVar*rttVarWeightOld + math.Abs(r.window[i]-newMean)*rttVarWeightNew
		newMean = newMean*rttMeanWeightOld + r.window[i]*rttMeanWeightNew
	}

	r.lastRtt = rtt
	r.mean = newMean
	r.vari = newVar

	return rttOriginal
}

// ComputeRto returns the retransmission timeout derived from the current estimate.
// Without any accepted sample, the seed rtt0 stands in for the mean.
func (r *RttEstimator) ComputeRto() time.Duration {
	mean := r.mean
	if mean == -1 {
		mean = rtt0
	}
	vari := r.vari
	if vari == -1 {
		vari = 0
	}

	rto := time.Duration(math.Ceil(rttMultiplier*(mean+vari*4))) * time.Millisecond
	if rto < rtoFloor {
		rto = rtoFloor
	}
	return rto
}

// Reset clears the smoothed mean, the variance, the observed minimum and the sample
// window. The last accepted sample (LastRtt) is kept.
func (r *RttEstimator) Reset() {
	r.mean = -1
	r.vari = -1
	r.minObserved = -1
	r.window = nil
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
