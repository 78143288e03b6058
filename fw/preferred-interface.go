/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/table"
)

// PreferredInterface forwards each Interest to the first eligible face of the highest
// tier that has one, without a random draw. Retries and re-homing behave as in
// WeightedRandom.
type PreferredInterface struct {
	RetriesStrategy
	weights map[string]int
}

func init() {
	strategyTypes = append(strategyTypes, reflect.TypeOf(new(PreferredInterface)))
}

// Instantiate creates a new instance of the PreferredInterface strategy.
func (s *PreferredInterface) Instantiate(fwThread *Thread) {
	name, _ := ndn.NameFromString(StrategyPrefix + "/preferred-interface/%FD%01")
	s.newRetriesStrategy(fwThread, name)
	s.weights = strategyInterfaceWeights
	s.isMainInterface = func(interfaceName string) bool {
		top := 0
		for _, weight := range s.weights {
			if weight > top {
				top = weight
			}
		}
		return s.weights[interfaceName] == top
	}
}

func (s *PreferredInterface) String() string {
	return "Strategy-PreferredInterface-" + strconv.Itoa(s.threadID)
}

// AfterReceiveInterest picks the first eligible face, trying tiers from most preferred
// down. With no eligible face, the Interest is held until an interface recovers.
func (s *PreferredInterface) AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64,
	interest *ndn.Interest, nexthops []*table.FibNextHopEntry) {
	tiers := make([]int, 0, len(s.weights))
	seen := make(map[int]bool)
	for _, weight := range s.weights {
		if weight > 0 && !seen[weight] {
			seen[weight] = true
			tiers = append(tiers, weight)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiers)))

	for _, tier := range tiers {
		for _, hop := range nexthops {
			face := dispatch.GetFace(hop.Nexthop)
			if face == nil {
				continue
			}
			if eligibleNextHop(pitEntry, face, inFace, s.weights[face.InterfaceName()], tier) {
				core.LogTrace(s, "Interest ", interest.Name(), " to face ", hop.Nexthop)
				s.InsertPendingInterest(interest, hop.Nexthop, nexthops, pitEntry)
				return
			}
		}
	}

	core.LogDebug(s, "No eligible faces for ", interest.Name(), " - holding for interface recovery")
	s.InsertPendingInterest(interest, 0, nexthops, pitEntry)
}
