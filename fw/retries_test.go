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
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/netmon"
	"github.com/named-data/minfd/table"
	"github.com/stretchr/testify/assert"
)

func TestRetriesRetryTimerResends(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/retry", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})
	assert.Len(t, faceA.sent, 1)

	// The seed RTO is 500ms; crossing it must re-issue the Interest on the same face
	clk.Add(510 * time.Millisecond)
	drainPosts(thread)
	assert.Len(t, faceA.sent, 2)

	// Send timestamps track every transmission on this nexthop
	assert.Len(t, s.pendingInterests, 1)
	var nextHop *NextHopRetries
	for _, nh := range s.pendingInterests[0].nextHops {
		if nh.Face == 1 {
			nextHop = nh
		}
	}
	assert.NotNil(t, nextHop)
	assert.Len(t, nextHop.SendTimes, 2)
}

func TestRetriesSatisfyCancelsTimersAndFeedsEstimator(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/satisfy", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})
	assert.Len(t, faceA.sent, 1)

	// Data arrives 80ms later on faceA
	clk.Add(80 * time.Millisecond)
	s.BeforeSatisfyInterest(pitEntry, 1, nil)

	assert.Empty(t, s.pendingInterests)
	assert.InDelta(t, 80.0, s.estimator("ifA").Mean(), 0.001)

	// The cancelled retry timer must not fire
	clk.Add(time.Second)
	drainPosts(thread)
	assert.Len(t, faceA.sent, 1)
}

func TestRetriesMeasurementFedAtMostOnce(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	newTestFace(1, "ifA", defn.Up)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/once", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})

	clk.Add(80 * time.Millisecond)
	s.BeforeSatisfyInterest(pitEntry, 1, nil)
	mean := s.estimator("ifA").Mean()

	// A second satisfaction of the same entry finds no pending record
	clk.Add(40 * time.Millisecond)
	s.BeforeSatisfyInterest(pitEntry, 1, nil)
	assert.Equal(t, mean, s.estimator("ifA").Mean())
}

func TestRetriesInterfaceFailover(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2, "ifB": 1}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	faceB := newTestFace(2, "ifB", defn.Up)
	defer dispatch.RemoveFace(1)
	defer dispatch.RemoveFace(2)

	niA := netmon.NewNetworkInterface("ifA", 1, 1500, false, true)

	interest, pitEntry := makePendingEntry(thread, "/test/failover", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest,
		[]*table.FibNextHopEntry{{Nexthop: 1}, {Nexthop: 2}})
	assert.Len(t, faceA.sent, 1)
	assert.Empty(t, faceB.sent)

	// 50ms later the interface behind faceA is lost with no Data yet: retries on A
	// are cancelled and the Interest is re-homed to B
	clk.Add(50 * time.Millisecond)
	faceA.state = defn.Down
	s.handleInterfaceStateChanged(niA, netmon.InterfaceRunning, netmon.InterfaceDown)

	assert.Len(t, faceB.sent, 1)
	pi := s.pendingInterests[0]
	for _, nextHop := range pi.nextHops {
		if nextHop.InterfaceName == "ifA" {
			assert.Empty(t, nextHop.SendTimes)
			assert.Nil(t, nextHop.retryEvent)
		}
	}

	// A's retry timer must not fire while it is down
	clk.Add(time.Second)
	drainPosts(thread)
	assert.Len(t, faceA.sent, 1)

	// When A returns to running, the pending Interest is resent on A and B's retry
	// timers are cancelled
	faceA.state = defn.Up
	s.handleInterfaceStateChanged(niA, netmon.InterfaceDown, netmon.InterfaceRunning)
	assert.Len(t, faceA.sent, 2)
	for _, nextHop := range pi.nextHops {
		if nextHop.InterfaceName == "ifB" {
			assert.Nil(t, nextHop.retryEvent)
			assert.Empty(t, nextHop.SendTimes)
		}
	}

	sentOnB := len(faceB.sent)
	clk.Add(2 * time.Second)
	drainPosts(thread)
	assert.Equal(t, sentOnB, len(faceB.sent))
}

func TestRetriesHeldInterestReplayedOnRecovery(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Down)
	defer dispatch.RemoveFace(1)

	niA := netmon.NewNetworkInterface("ifA", 1, 1500, false, true)

	// No face is selectable: the Interest is held
	interest, pitEntry := makePendingEntry(thread, "/test/held", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})
	assert.Empty(t, faceA.sent)
	assert.Len(t, s.pendingInterests, 1)

	// Interface recovery replays the held Interest
	faceA.state = defn.Up
	s.handleInterfaceStateChanged(niA, netmon.InterfaceDown, netmon.InterfaceRunning)
	assert.Len(t, faceA.sent, 1)
}

func TestRetriesInsertRemoveLeavesNoRecord(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	newTestFace(1, "ifA", defn.Up)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/insertremove", 99)
	s.InsertPendingInterest(interest, 0, []*table.FibNextHopEntry{{Nexthop: 1}}, pitEntry)
	assert.Len(t, s.pendingInterests, 1)

	pi := s.pendingInterests[0]
	s.removePendingInterest(pi)
	assert.Empty(t, s.pendingInterests)

	// Removing an already-removed record is a no-op
	s.removePendingInterest(pi)
	assert.Empty(t, s.pendingInterests)
}

func TestRetriesZombieTimeoutPurgesRecord(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	newTestFace(1, "ifA", defn.Down)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/zombie", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})
	assert.Len(t, s.pendingInterests, 1)

	// Lifetime plus the zombie grace elapses without satisfaction
	clk.Add(interest.Lifetime() + 200*time.Millisecond)
	drainPosts(thread)
	assert.Empty(t, s.pendingInterests)
}

func TestRetriesNameCollisionUpdatesInPlace(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	newTestFace(1, "ifA", defn.Up)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/collision", 99)
	nexthops := []*table.FibNextHopEntry{{Nexthop: 1}}
	s.AfterReceiveInterest(pitEntry, 99, interest, nexthops)
	assert.Len(t, s.pendingInterests, 1)

	// A second Interest with the same name refreshes the existing record
	s.AfterReceiveInterest(pitEntry, 99, interest, nexthops)
	assert.Len(t, s.pendingInterests, 1)
}

func TestRetriesInterfaceRemovedDropsEstimator(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	niA := netmon.NewNetworkInterface("ifA", 1, 1500, false, true)
	s.handleInterfaceAdded(niA)
	_, tracked := s.rttEstimators["ifA"]
	assert.True(t, tracked)

	s.handleInterfaceRemoved(niA)
	_, tracked = s.rttEstimators["ifA"]
	assert.False(t, tracked)
}
