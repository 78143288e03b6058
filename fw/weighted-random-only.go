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
	"strconv"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/table"
)

// WeightedRandomOnly is the degenerate weighted random policy without retry scheduling,
// for hosts that provide their own retransmission. Unroutable Interests are either
// immediately Nacked and rejected or dropped, per the reject_unroutable knob.
type WeightedRandomOnly struct {
	StrategyBase
	weights          map[string]int
	randGen          *rand.Rand
	rejectUnroutable bool
}

func init() {
	strategyTypes = append(strategyTypes, reflect.TypeOf(new(WeightedRandomOnly)))
}

// Instantiate creates a new instance of the WeightedRandomOnly strategy.
func (s *WeightedRandomOnly) Instantiate(fwThread *Thread) {
	name, _ := ndn.NameFromString(StrategyPrefix + "/weighted-random-only/%FD%01")
	s.NewStrategyBase(fwThread, name)
	s.weights = strategyInterfaceWeights
	s.randGen = rand.New(rand.NewSource(rand.Int63()))
	s.rejectUnroutable = rejectUnroutable
}

func (s *WeightedRandomOnly) String() string {
	return "Strategy-WeightedRandomOnly-" + strconv.Itoa(s.threadID)
}

// AfterReceiveInterest draws one eligible face weighted by the interface table, in a
// single pass with no tier descent and no retry bookkeeping.
func (s *WeightedRandomOnly) AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64,
	interest *ndn.Interest, nexthops []*table.FibNextHopEntry) {
	type candidate struct {
		prefixSum int
		face      uint64
	}

	totalWeight := 0
	eligible := make([]candidate, 0, len(nexthops))
	for _, hop := range nexthops {
		face := dispatch.GetFace(hop.Nexthop)
		if face == nil {
			continue
		}
		weight := s.weights[face.InterfaceName()]
		if weight <= 0 || !eligibleNextHop(pitEntry, face, inFace, weight, weight) {
			continue
		}
		totalWeight += weight
		eligible = append(eligible, candidate{prefixSum: totalWeight, face: hop.Nexthop})
	}

	if len(eligible) > 0 {
		randomValue := s.randGen.Intn(totalWeight) + 1
		for _, c := range eligible {
			if randomValue <= c.prefixSum {
				core.LogTrace(s, "Interest ", interest.Name(), " to face ", c.face)
				s.SendInterest(pitEntry, interest, c.face, inFace, false)
				return
			}
		}
	}

	core.LogTrace(s, "No eligible faces for ", interest.Name(), " - Interest rejected")
	if s.rejectUnroutable {
		s.SendNack(pitEntry, inFace, NackReasonDuplicate)
		s.RejectPendingInterest(pitEntry)
	}
}

// AfterReceiveData forwards Data downstream.
func (s *WeightedRandomOnly) AfterReceiveData(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
	for faceID := range pitEntry.InRecords {
		s.SendData(data, pitEntry, faceID, inFace)
	}
}

// BeforeSatisfyInterest does nothing in WeightedRandomOnly.
func (s *WeightedRandomOnly) BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
}
