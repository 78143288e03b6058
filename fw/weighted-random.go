/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"math/rand"
	"reflect"
	"sort"
	"strconv"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/table"
)

// WeightedRandom forwards each Interest to a nexthop drawn at random, biased by the
// static per-interface weight table, with tiered fall-through: only faces whose weight
// equals the highest tier with any eligible face participate in the draw. Unroutable
// Interests are held and replayed when an interface recovers.
type WeightedRandom struct {
	RetriesStrategy
	weights map[string]int
	randGen *rand.Rand
}

func init() {
	strategyTypes = append(strategyTypes, reflect.TypeOf(new(WeightedRandom)))
}

// Instantiate creates a new instance of the WeightedRandom strategy.
func (s *WeightedRandom) Instantiate(fwThread *Thread) {
	name, _ := ndn.NameFromString(StrategyPrefix + "/weighted-random/%FD%01")
	s.newRetriesStrategy(fwThread, name)
	s.weights = strategyInterfaceWeights
	s.randGen = rand.New(rand.NewSource(rand.Int63()))
	s.isMainInterface = func(interfaceName string) bool {
		return s.weights[interfaceName] == s.topTier()
	}
}

func (s *WeightedRandom) String() string {
	return "Strategy-WeightedRandom-" + strconv.Itoa(s.threadID)
}

func (s *WeightedRandom) interfaceWeight(face dispatch.Face) int {
	return s.weights[face.InterfaceName()]
}

// topTier returns the highest configured weight.
func (s *WeightedRandom) topTier() int {
	top := 0
	for _, weight := range s.weights {
		if weight > top {
			top = weight
		}
	}
	return top
}

// tiers returns the distinct positive weights in descending order.
func (s *WeightedRandom) tiers() []int {
	seen := make(map[int]bool)
	tiers := make([]int, 0, len(s.weights))
	for _, weight := range s.weights {
		if weight > 0 && !seen[weight] {
			seen[weight] = true
			tiers = append(tiers, weight)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiers)))
	return tiers
}

// eligibleNextHop determines whether a nexthop may be used at the given tier.
func eligibleNextHop(pitEntry *table.PitEntry, face dispatch.Face, inFace uint64,
	weight int, tier int) bool {
	// upstream is current downstream
	if face.FaceID() == inFace {
		return false
	}
	// forwarding would violate scope
	if pitEntry.ViolatesScope(face) {
		return false
	}
	if face.State() == defn.Down {
		return false
	}
	return weight == tier
}

// AfterReceiveInterest selects an outgoing face by tiered weighted random draw and
// registers the pending record. With no eligible face in any tier, the Interest is held
// until an interface recovers.
func (s *WeightedRandom) AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64,
	interest *ndn.Interest, nexthops []*table.FibNextHopEntry) {
	type candidate struct {
		prefixSum int
		face      uint64
	}

	for _, tier := range s.tiers() {
		totalWeight := 0
		eligible := make([]candidate, 0, len(nexthops))
		for _, hop := range nexthops {
			face := dispatch.GetFace(hop.Nexthop)
			if face == nil {
				continue
			}
			weight := s.interfaceWeight(face)
			if !eligibleNextHop(pitEntry, face, inFace, weight, tier) {
				continue
			}
			totalWeight += weight
			eligible = append(eligible, candidate{prefixSum: totalWeight, face: hop.Nexthop})
		}

		if len(eligible) == 0 {
			continue
		}

		randomValue := s.randGen.Intn(totalWeight) + 1
		for _, c := range eligible {
			if randomValue <= c.prefixSum {
				core.LogTrace(s, "Interest ", interest.Name(), " to face ", c.face)
				s.InsertPendingInterest(interest, c.face, nexthops, pitEntry)
				return
			}
		}
	}

	core.LogDebug(s, "No eligible faces for ", interest.Name(), " - holding for interface recovery")
	s.InsertPendingInterest(interest, 0, nexthops, pitEntry)
}
