/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"io"
	"time"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/core/events"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/netmon"
	"github.com/named-data/minfd/table"
)

// NextHopRetries tracks the transmissions of one pending Interest on one nexthop face.
type NextHopRetries struct {
	Face          uint64
	InterfaceName string
	SendTimes     []time.Time

	retryEvent *ScheduledEvent
	dead       bool
}

// PendingInterest is an outstanding Interest still being forwarded. It snapshots the
// FIB entry's nexthops at insertion; the FIB is not re-consulted during retries.
type PendingInterest struct {
	pitEntry *table.PitEntry
	interest *ndn.Interest
	nextHops []*NextHopRetries

	deleteEvent *ScheduledEvent
	removed     bool
}

// RetriesStrategy maintains the population of pending Interest records, schedules and
// executes retransmissions, and re-homes pending Interests when interfaces change state.
// Concrete policies embed it and override AfterReceiveInterest to pick outgoing faces.
type RetriesStrategy struct {
	StrategyBase

	pendingInterests []*PendingInterest
	rttEstimators    map[string]*RttEstimator
	zombieGrace      time.Duration

	// isMainInterface identifies the interfaces that may host retries. Concrete
	// policies replace it; the default accepts every interface.
	isMainInterface func(interfaceName string) bool

	monitorSubscriptions []io.Closer
	niSubscriptions      map[string]io.Closer
}

func (s *RetriesStrategy) newRetriesStrategy(fwThread *Thread, name *ndn.Name) {
	s.NewStrategyBase(fwThread, name)
	s.rttEstimators = make(map[string]*RttEstimator)
	s.niSubscriptions = make(map[string]io.Closer)
	s.zombieGrace = zombieGrace
	s.isMainInterface = func(string) bool { return true }

	monitor := netmon.GetMonitor()
	s.monitorSubscriptions = append(s.monitorSubscriptions,
		monitor.OnInterfaceAdded(func(ni *netmon.NetworkInterface) {
			s.thread.Post(func() { s.handleInterfaceAdded(ni) })
		}),
		monitor.OnInterfaceRemoved(func(ni *netmon.NetworkInterface) {
			s.thread.Post(func() { s.handleInterfaceRemoved(ni) })
		}))
	for _, ni := range monitor.Interfaces() {
		s.handleInterfaceAdded(ni)
	}
}

// estimator returns the RTT estimator for the named interface, creating a fresh one
// (seeded with defaults) if the interface is not currently tracked.
func (s *RetriesStrategy) estimator(interfaceName string) *RttEstimator {
	est, ok := s.rttEstimators[interfaceName]
	if !ok {
		est = NewRttEstimator(s.thread.Clock(), interfaceName)
		s.rttEstimators[interfaceName] = est
	}
	return est
}

// updatePendingInterest refreshes an existing record for the same PIT entry name,
// re-arming its lifetime timer, and returns it; or returns nil if none exists.
func (s *RetriesStrategy) updatePendingInterest(pitEntry *table.PitEntry, interest *ndn.Interest) *PendingInterest {
	for _, pi := range s.pendingInterests {
		if pi.pitEntry.Name.Equals(pitEntry.Name) {
			pi.pitEntry = pitEntry
			pi.interest = interest
			pi.deleteEvent.Cancel()
			record := pi
			pi.deleteEvent = s.thread.scheduler.Schedule(interest.Lifetime()+s.zombieGrace, func() {
				s.removePendingInterest(record)
			})
			return pi
		}
	}
	return nil
}

// InsertPendingInterest creates (or refreshes) the pending record for this Interest and,
// if outFace is nonzero, sends it there. With outFace zero the Interest is held for
// later emission on interface recovery.
func (s *RetriesStrategy) InsertPendingInterest(interest *ndn.Interest, outFace uint64,
	nexthops []*table.FibNextHopEntry, pitEntry *table.PitEntry) {
	pi := s.updatePendingInterest(pitEntry, interest)

	if pi == nil { // New pending interest
		pi = new(PendingInterest)
		pi.pitEntry = pitEntry
		pi.interest = interest
		for _, hop := range nexthops {
			face := dispatch.GetFace(hop.Nexthop)
			if face == nil {
				continue
			}
			pi.nextHops = append(pi.nextHops, &NextHopRetries{
				Face:          hop.Nexthop,
				InterfaceName: face.InterfaceName(),
			})
		}

		s.pendingInterests = append(s.pendingInterests, pi)
		record := pi
		pi.deleteEvent = s.thread.scheduler.Schedule(interest.Lifetime()+s.zombieGrace, func() {
			s.removePendingInterest(record)
		})
	}

	if outFace != 0 {
		s.sendPendingInterest(pi, outFace)
	}
}

// sendPendingInterest emits the pending Interest on outFace, stamps the send time, and
// re-arms the retry timer at the interface's current RTO. A record whose PIT entry no
// longer has a valid local in-record is purged instead.
func (s *RetriesStrategy) sendPendingInterest(pi *PendingInterest, outFace uint64) {
	if pi == nil || pi.removed {
		return
	}
	if !pi.pitEntry.HasValidLocalInRecord() {
		s.removePendingInterest(pi)
		return
	}

	var nextHop *NextHopRetries
	for _, nh := range pi.nextHops {
		if nh.Face == outFace {
			nextHop = nh
			break
		}
	}
	if nextHop == nil || nextHop.dead {
		core.LogWarn(s, "Pending interest has no face to the selected interface")
		return
	}

	s.SendInterest(pi.pitEntry, pi.interest, outFace, 0, true)
	nextHop.SendTimes = append(nextHop.SendTimes, s.thread.Clock().Now())

	rto := s.estimator(nextHop.InterfaceName).ComputeRto()
	nextHop.retryEvent.Cancel()
	nextHop.retryEvent = s.thread.scheduler.Schedule(rto, func() {
		s.sendPendingInterest(pi, outFace)
	})

	events.Telemetry().Emit(events.EventInterestSent, events.InterestSent{
		Strategy:      s.name.String(),
		Interest:      pi.pitEntry.Name.String(),
		FaceID:        outFace,
		InterfaceName: nextHop.InterfaceName,
		RtoMs:         rto.Milliseconds(),
	})
	core.LogDebug(s, "Interest ", pi.pitEntry.Name, " to interface ", nextHop.InterfaceName)
}

// removePendingInterest cancels the record's timers and removes it. Idempotent when the
// record has already been removed.
func (s *RetriesStrategy) removePendingInterest(pi *PendingInterest) {
	if pi == nil || pi.removed {
		return
	}
	pi.removed = true

	for _, nextHop := range pi.nextHops {
		nextHop.retryEvent.Cancel()
		nextHop.retryEvent = nil
	}
	pi.deleteEvent.Cancel()
	pi.deleteEvent = nil

	for i, record := range s.pendingInterests {
		if record == pi {
			s.pendingInterests = append(s.pendingInterests[:i], s.pendingInterests[i+1:]...)
			break
		}
	}
}

// resendAllPendingInterest re-sends every pending Interest on the nexthops of the named
// interface; retry timers on other nexthops are cancelled, since the Interest is now
// owned by this interface.
func (s *RetriesStrategy) resendAllPendingInterest(interfaceName string) {
	core.LogDebug(s, "Resend size ", len(s.pendingInterests), " to ", interfaceName)
	snapshot := make([]*PendingInterest, len(s.pendingInterests))
	copy(snapshot, s.pendingInterests)
	for _, pi := range snapshot {
		if pi.removed {
			continue
		}
		for _, nextHop := range pi.nextHops {
			face := dispatch.GetFace(nextHop.Face)
			if face != nil && !nextHop.dead && nextHop.InterfaceName == interfaceName &&
				face.State() == defn.Up {
				s.sendPendingInterest(pi, nextHop.Face)
			} else {
				nextHop.retryEvent.Cancel()
				nextHop.retryEvent = nil
			}
		}
	}
}

// BeforeSatisfyInterest retires the pending record for this PIT entry, feeding the RTT
// estimator of the arrival interface exactly once per satisfied record.
func (s *RetriesStrategy) BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
	if !pitEntry.HasValidLocalInRecord() {
		return
	}

	// The measurement counts only if the PIT entry has an out-record on a live face
	hasOutRecords := false
	for _, outRecord := range pitEntry.OutRecords {
		if dispatch.GetFace(outRecord.Face) != nil {
			hasOutRecords = true
			break
		}
	}

	rtt := -1.0
	nRetries := 0
	retrieveTime := int64(-1)

	for i, pi := range s.pendingInterests {
		if pi.pitEntry != pitEntry && !pi.pitEntry.Name.Equals(pitEntry.Name) {
			continue
		}

		for _, nextHop := range pi.nextHops {
			if nextHop.Face == inFace {
				if hasOutRecords && len(nextHop.SendTimes) > 0 {
					nRetries = len(nextHop.SendTimes) - 1
					retrieveTime = s.thread.Clock().Now().Sub(nextHop.SendTimes[0]).Milliseconds()
					rtt = s.estimator(nextHop.InterfaceName).AddMeasurement(nextHop.SendTimes)
				}
				break
			}
		}

		for _, nextHop := range pi.nextHops {
			nextHop.retryEvent.Cancel()
			nextHop.retryEvent = nil
		}
		pi.deleteEvent.Cancel()
		pi.deleteEvent = nil
		pi.removed = true
		s.pendingInterests = append(s.pendingInterests[:i], s.pendingInterests[i+1:]...)
		break
	}

	inInterface := ""
	if face := dispatch.GetFace(inFace); face != nil {
		inInterface = face.InterfaceName()
	}
	est := s.estimator(inInterface)
	result := events.DataResult{
		Strategy:       s.name.String(),
		Interest:       pitEntry.Name.String(),
		FaceID:         inFace,
		InterfaceName:  inInterface,
		RttMs:          rtt,
		MeanRttMs:      est.Mean(),
		NRetries:       nRetries,
		RetrieveTimeMs: retrieveTime,
		LastRttMs:      est.LastRtt(),
	}
	if hasOutRecords {
		events.Telemetry().Emit(events.EventDataReceived, result)
		table.Measurements.AddToInt("strategy."+inInterface+".n_data_received", 1)
		if est.Mean() >= 0 {
			table.Measurements.Put("strategy."+inInterface+".rtt_mean_ms", est.Mean())
		}
	} else {
		events.Telemetry().Emit(events.EventDataRejected, result)
		core.LogInfo(s, "Data rejected ", pitEntry.Name)
	}
}

// AfterReceiveData is invoked when Data arrives for a solitary PIT entry: retire the
// pending record, then forward downstream.
func (s *RetriesStrategy) AfterReceiveData(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
	s.BeforeSatisfyInterest(pitEntry, inFace, data)
	for faceID := range pitEntry.InRecords {
		s.SendData(data, pitEntry, faceID, inFace)
	}
}

// AfterReceiveInterest must be provided by the concrete policy.
func (s *RetriesStrategy) AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64,
	interest *ndn.Interest, nexthops []*table.FibNextHopEntry) {
	core.LogError(s, "AfterReceiveInterest not implemented by policy - DROP")
}

func (s *RetriesStrategy) handleInterfaceStateChanged(ni *netmon.NetworkInterface,
	old netmon.InterfaceState, new netmon.InterfaceState) {
	if !s.isMainInterface(ni.Name()) {
		return
	}
	s.estimator(ni.Name()).Reset()

	if new == netmon.InterfaceRunning {
		core.LogDebug(s, "Interface up, resend all to ", ni.Name())
		if len(s.pendingInterests) == 0 {
			return
		}
		// This interface owns the pending Interests now: forget transmissions elsewhere
		for _, pi := range s.pendingInterests {
			for _, nextHop := range pi.nextHops {
				if nextHop.InterfaceName != ni.Name() {
					nextHop.retryEvent.Cancel()
					nextHop.retryEvent = nil
					nextHop.SendTimes = nil
				}
			}
		}
		s.resendAllPendingInterest(ni.Name())
	} else {
		// The interface was lost: clear its transmissions and fall back to any
		// nexthop whose face is still up
		fallbackInterface := ""
		for _, pi := range s.pendingInterests {
			for _, nextHop := range pi.nextHops {
				if nextHop.InterfaceName == ni.Name() {
					nextHop.retryEvent.Cancel()
					nextHop.retryEvent = nil
					nextHop.SendTimes = nil
				} else if fallbackInterface == "" {
					if face := dispatch.GetFace(nextHop.Face); face != nil && face.State() == defn.Up {
						fallbackInterface = nextHop.InterfaceName
					}
				}
			}
		}
		if fallbackInterface != "" {
			s.resendAllPendingInterest(fallbackInterface)
		}
	}
}

func (s *RetriesStrategy) handleInterfaceAdded(ni *netmon.NetworkInterface) {
	if _, ok := s.niSubscriptions[ni.Name()]; !ok {
		iface := ni
		s.niSubscriptions[ni.Name()] = ni.OnStateChanged(
			func(old netmon.InterfaceState, new netmon.InterfaceState) {
				s.thread.Post(func() { s.handleInterfaceStateChanged(iface, old, new) })
			})
	}
	s.rttEstimators[ni.Name()] = NewRttEstimator(s.thread.Clock(), ni.Name())
}

func (s *RetriesStrategy) handleInterfaceRemoved(ni *netmon.NetworkInterface) {
	if subscription, ok := s.niSubscriptions[ni.Name()]; ok {
		subscription.Close()
		delete(s.niSubscriptions, ni.Name())
	}
	delete(s.rttEstimators, ni.Name())

	// Nexthops on the removed interface can no longer host retries
	for _, pi := range s.pendingInterests {
		for _, nextHop := range pi.nextHops {
			if nextHop.InterfaceName == ni.Name() {
				nextHop.retryEvent.Cancel()
				nextHop.retryEvent = nil
				nextHop.dead = true
			}
		}
	}
}
