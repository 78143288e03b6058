/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"strconv"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/ndn/tlv"
	"github.com/named-data/minfd/table"
)

// StrategyPrefix is the prefix of all strategy names for MINFD.
const StrategyPrefix = "/localhost/minfd/strategy"

// Strategy represents a forwarding strategy.
type Strategy interface {
	Instantiate(fwThread *Thread)
	String() string
	GetName() *ndn.Name

	AfterReceiveData(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data)
	AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest,
		nexthops []*table.FibNextHopEntry)
	BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data)
}

// StrategyBase provides common helper methods for MINFD forwarding strategies.
type StrategyBase struct {
	thread   *Thread
	threadID int
	name     *ndn.Name
}

// NewStrategyBase is a helper that allows specific strategies to initialize the base.
func (s *StrategyBase) NewStrategyBase(fwThread *Thread, name *ndn.Name) {
	s.thread = fwThread
	s.threadID = fwThread.threadID
	s.name = name
}

func (s *StrategyBase) String() string {
	return "StrategyBase-" + strconv.Itoa(s.threadID)
}

// GetName returns the name of the strategy.
func (s *StrategyBase) GetName() *ndn.Name {
	return s.name
}

// SendInterest sends an Interest on the specified face, optionally with a fresh nonce.
func (s *StrategyBase) SendInterest(pitEntry *table.PitEntry, interest *ndn.Interest,
	nexthop uint64, inFace uint64, wantNewNonce bool) {
	s.thread.processOutgoingInterest(pitEntry, interest, nexthop, inFace, wantNewNonce)
}

// SendData sends a Data packet on the specified face.
func (s *StrategyBase) SendData(data *ndn.Data, pitEntry *table.PitEntry,
	nexthop uint64, inFace uint64) {
	var pitToken []byte
	if inRecord, ok := pitEntry.InRecords[nexthop]; ok {
		pitToken = inRecord.PitToken
		delete(pitEntry.InRecords, nexthop)
	}
	s.thread.processOutgoingData(data, nexthop, pitToken, inFace)
}

// SendNack sends a Nack with the given reason for this PIT entry's Interest on the
// specified downstream face.
func (s *StrategyBase) SendNack(pitEntry *table.PitEntry, nexthop uint64, reason uint64) {
	face := dispatch.GetFace(nexthop)
	if face == nil {
		core.LogDebug(s, "Non-existent downstream FaceID=", nexthop, " for Nack - DROP")
		return
	}

	inRecord, ok := pitEntry.InRecords[nexthop]
	if !ok || inRecord.LatestInterest == nil {
		return
	}
	wire, err := inRecord.LatestInterest.Encode()
	if err != nil {
		core.LogWarn(s, "Unable to encode Interest for Nack - DROP")
		return
	}

	packet := new(ndn.PendingPacket)
	packet.Wire = wire
	packet.PitToken = inRecord.PitToken
	packet.NackReason = new(uint64)
	*packet.NackReason = reason
	face.SendPacket(packet)
}

// RejectPendingInterest rejects the PIT entry, expiring it immediately.
func (s *StrategyBase) RejectPendingInterest(pitEntry *table.PitEntry) {
	pitEntry.SetExpirationTimerToNow()
}

// NackReasonDuplicate is the Nack reason used when rejecting unroutable Interests.
const NackReasonDuplicate = tlv.NackReasonDuplicate
