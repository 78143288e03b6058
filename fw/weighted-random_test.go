/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"strconv"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/table"
	"github.com/stretchr/testify/assert"
)

func newWeightedRandom(t *Thread) *WeightedRandom {
	s := new(WeightedRandom)
	s.Instantiate(t)
	return s
}

func TestWeightedRandomPrefersTopTier(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2, "ifB": 1}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	faceB := newTestFace(2, "ifB", defn.Up)
	defer dispatch.RemoveFace(1)
	defer dispatch.RemoveFace(2)

	interest, pitEntry := makePendingEntry(thread, "/test/tier", 99)
	nexthops := []*table.FibNextHopEntry{{Nexthop: 1}, {Nexthop: 2}}

	s.AfterReceiveInterest(pitEntry, 99, interest, nexthops)

	// Tier 1 is never consulted while a tier-2 face is eligible
	assert.Len(t, faceA.sent, 1)
	assert.Empty(t, faceB.sent)
}

func TestWeightedRandomSingleCandidateDeterministic(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 1}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/single", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})

	assert.Len(t, faceA.sent, 1)
}

func TestWeightedRandomDistributionWithinTier(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2, "ifB": 2, "ifC": 1}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	faceB := newTestFace(2, "ifB", defn.Up)
	faceC := newTestFace(3, "ifC", defn.Up)
	defer dispatch.RemoveFace(1)
	defer dispatch.RemoveFace(2)
	defer dispatch.RemoveFace(3)

	nexthops := []*table.FibNextHopEntry{{Nexthop: 1}, {Nexthop: 2}, {Nexthop: 3}}
	for i := 0; i < 100; i++ {
		interest, pitEntry := makePendingEntry(thread, "/test/dist/"+strconv.Itoa(i), 99)
		s.AfterReceiveInterest(pitEntry, 99, interest, nexthops)
	}

	// Both tier-2 faces are drawn; the tier-1 face never is
	assert.NotEmpty(t, faceA.sent)
	assert.NotEmpty(t, faceB.sent)
	assert.Empty(t, faceC.sent)
	assert.Equal(t, 100, len(faceA.sent)+len(faceB.sent))
}

func TestWeightedRandomSkipsDownFaces(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2, "ifB": 1}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Down)
	faceB := newTestFace(2, "ifB", defn.Up)
	defer dispatch.RemoveFace(1)
	defer dispatch.RemoveFace(2)

	interest, pitEntry := makePendingEntry(thread, "/test/down", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest,
		[]*table.FibNextHopEntry{{Nexthop: 1}, {Nexthop: 2}})

	// A face whose transport is down is never chosen; selection falls through tiers
	assert.Empty(t, faceA.sent)
	assert.Len(t, faceB.sent, 1)
}

func TestWeightedRandomSkipsInboundFace(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2, "ifB": 1}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Up)
	faceB := newTestFace(2, "ifB", defn.Up)
	defer dispatch.RemoveFace(1)
	defer dispatch.RemoveFace(2)

	interest, pitEntry := makePendingEntry(thread, "/test/inbound", 1)
	s.AfterReceiveInterest(pitEntry, 1, interest,
		[]*table.FibNextHopEntry{{Nexthop: 1}, {Nexthop: 2}})

	assert.Empty(t, faceA.sent)
	assert.Len(t, faceB.sent, 1)
}

func TestWeightedRandomHoldsUnroutableInterest(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	faceA := newTestFace(1, "ifA", defn.Down)
	defer dispatch.RemoveFace(1)

	interest, pitEntry := makePendingEntry(thread, "/test/unroutable", 99)
	s.AfterReceiveInterest(pitEntry, 99, interest, []*table.FibNextHopEntry{{Nexthop: 1}})

	// Held, not dropped: a pending record exists with no transmissions
	assert.Empty(t, faceA.sent)
	assert.Len(t, s.pendingInterests, 1)
	for _, nextHop := range s.pendingInterests[0].nextHops {
		assert.Empty(t, nextHop.SendTimes)
	}
}

func TestWeightedRandomIsMainInterface(t *testing.T) {
	strategyInterfaceWeights = map[string]int{"ifA": 2, "ifB": 1, "ifC": 0}
	clk := clock.NewMock()
	thread := newTestThread(clk)
	s := newWeightedRandom(thread)

	assert.True(t, s.isMainInterface("ifA"))
	assert.False(t, s.isMainInterface("ifB"))
	assert.False(t, s.isMainInterface("ifC"))
	assert.False(t, s.isMainInterface("unknown"))
}
