/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"encoding/binary"
	"strconv"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash"
	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/table"
)

// MaxFwThreads is the maximum number of forwarding threads.
const MaxFwThreads = 32

// Threads contains all forwarding threads.
var Threads map[int]*Thread

// HashNameToFwThread hashes an NDN name to a forwarding thread.
func HashNameToFwThread(name *ndn.Name) int {
	// Dispatch all management requests to thread 0
	if name.Size() > 0 && name.At(0).String() == "localhost" {
		return 0
	}
	return int(xxhash.Sum64String(name.String()) % uint64(len(Threads)))
}

// HashNameToAllPrefixFwThreads hashes an NDN name to the forwarding threads responsible
// for all prefixes of the name.
func HashNameToAllPrefixFwThreads(name *ndn.Name) []int {
	// Dispatch all management requests to thread 0
	if name.Size() > 0 && name.At(0).String() == "localhost" {
		return []int{0}
	}

	threadMap := make(map[int]interface{})
	for size := name.Size(); size >= 0; size-- {
		threadMap[int(xxhash.Sum64String(name.Prefix(size).String())%uint64(len(Threads)))] = true
	}

	threadList := make([]int, 0, len(threadMap))
	for thread := range threadMap {
		threadList = append(threadList, thread)
	}
	return threadList
}

// Thread represents a forwarding thread.
type Thread struct {
	threadID         int
	pendingInterests chan *ndn.PendingPacket
	pendingDatas     chan *ndn.PendingPacket
	pit              *table.Pit
	strategies       map[string]Strategy
	strategy         Strategy
	deadNonceList    *table.DeadNonceList
	scheduler        *Scheduler
	shouldQuit       chan interface{}
	HasQuit          chan interface{}

	// Counters
	NInInterests          uint64
	NInData               uint64
	NOutInterests         uint64
	NOutData              uint64
	NSatisfiedInterests   uint64
	NUnsatisfiedInterests uint64
}

// NewThread creates a new forwarding thread.
func NewThread(id int) *Thread {
	return newThreadWithClock(id, clock.New())
}

// newThreadWithClock creates a forwarding thread on the given clock.
func newThreadWithClock(id int, clk clock.Clock) *Thread {
	t := new(Thread)
	t.threadID = id
	t.pendingInterests = make(chan *ndn.PendingPacket, fwQueueSize)
	t.pendingDatas = make(chan *ndn.PendingPacket, fwQueueSize)
	t.pit = table.NewPit(clk)
	t.scheduler = NewScheduler(clk)
	t.deadNonceList = table.NewDeadNonceList(clk)
	t.strategies = InstantiateStrategies(t)
	t.strategy = t.findChosenStrategy()
	t.shouldQuit = make(chan interface{}, 1)
	t.HasQuit = make(chan interface{})
	return t
}

func (t *Thread) findChosenStrategy() Strategy {
	wanted, err := ndn.NameFromString(StrategyPrefix + "/" + chosenStrategyName + "/%FD%01")
	if err == nil {
		if strategy, ok := t.strategies[wanted.String()]; ok {
			return strategy
		}
	}
	core.LogWarn(t, "Unknown strategy ", chosenStrategyName, ", using weighted-random")
	fallback, _ := ndn.NameFromString(StrategyPrefix + "/weighted-random/%FD%01")
	return t.strategies[fallback.String()]
}

func (t *Thread) String() string {
	return "FwThread-" + strconv.Itoa(t.threadID)
}

// GetID returns the ID of the forwarding thread.
func (t *Thread) GetID() int {
	return t.threadID
}

// GetNumPitEntries returns the number of entries in this thread's PIT.
func (t *Thread) GetNumPitEntries() int {
	return t.pit.Size()
}

// Clock returns the clock this thread schedules on.
func (t *Thread) Clock() clock.Clock {
	return t.scheduler.Clock()
}

// Post enqueues a function to run on this thread's event loop.
func (t *Thread) Post(fn func()) {
	t.scheduler.Post(fn)
}

// TellToQuit tells the forwarding thread to quit.
func (t *Thread) TellToQuit() {
	core.LogInfo(t, "Told to quit")
	t.shouldQuit <- true
}

// Run runs the forwarding thread's event loop.
func (t *Thread) Run() {
	for !core.ShouldQuit {
		select {
		case pendingPacket := <-t.pendingInterests:
			t.processIncomingInterest(pendingPacket)
		case pendingPacket := <-t.pendingDatas:
			t.processIncomingData(pendingPacket)
		case expiringPitEntry := <-t.pit.ExpiringPitEntries:
			t.finalizeInterest(expiringPitEntry)
		case fn := <-t.scheduler.Posts():
			fn()
		case <-t.deadNonceList.Ticker.C:
			t.deadNonceList.RemoveExpiredEntries()
		case <-t.shouldQuit:
			continue
		}
	}

	core.LogInfo(t, "Stopping thread")
	t.HasQuit <- true
}

// QueueInterest queues an Interest for processing by this forwarding thread.
func (t *Thread) QueueInterest(interest *ndn.PendingPacket) {
	t.pendingInterests <- interest
}

// QueueData queues a Data packet for processing by this forwarding thread.
func (t *Thread) QueueData(data *ndn.PendingPacket) {
	t.pendingDatas <- data
}

func (t *Thread) processIncomingInterest(pendingPacket *ndn.PendingPacket) {
	// Ensure incoming face is indicated
	if pendingPacket.IncomingFaceID == nil {
		core.LogError(t, "Interest missing IncomingFaceId - DROP")
		return
	}

	// Extract Interest from PendingPacket
	interest, err := ndn.DecodeInterest(pendingPacket.Wire)
	if err != nil {
		core.LogInfo(t, "Unable to decode Interest packet - DROP")
		return
	}

	// Get incoming face
	incomingFace := dispatch.GetFace(*pendingPacket.IncomingFaceID)
	if incomingFace == nil {
		core.LogError(t, "Non-existent incoming FaceID=",
			*pendingPacket.IncomingFaceID, " for Interest=", interest.Name(), " - DROP")
		return
	}

	// Drop if HopLimit present and is 0. Else, decrement by 1
	if interest.HopLimit() != nil && *interest.HopLimit() == 0 {
		core.LogDebug(t, "Received Interest=", interest.Name(), " with HopLimit=0 - DROP")
		return
	} else if interest.HopLimit() != nil {
		interest.SetHopLimit(*interest.HopLimit() - 1)
	}

	core.LogTrace(t, "OnIncomingInterest: ", interest.Name(), ", FaceID=", incomingFace.FaceID())

	// Check if violates /localhost
	if incomingFace.Scope() == defn.NonLocal && interest.Name().Size() > 0 &&
		interest.Name().At(0).String() == "localhost" {
		core.LogWarn(t, "Interest ", interest.Name(), " from non-local face=",
			incomingFace.FaceID(), " violates /localhost scope - DROP")
		return
	}

	t.NInInterests++

	// Detect duplicate nonce by comparing against Dead Nonce List
	if exists := t.deadNonceList.Find(interest.Name(), interest.Nonce()); exists {
		core.LogTrace(t, "Interest ", interest.Name(), " matches Dead Nonce List - DROP")
		return
	}

	// Check for any matching PIT entries (and if duplicate)
	pitEntry, isDuplicate := t.pit.FindOrInsert(interest, incomingFace.FaceID())
	if isDuplicate {
		// Interest loop: since we don't consume Nacks, just drop
		core.LogInfo(t, "Interest ", interest.Name(), " is looping - DROP")
		return
	}

	// Add in-record
	_, isAlreadyPending := pitEntry.FindOrInsertInRecord(interest, incomingFace.FaceID(),
		pendingPacket.PitToken)
	if isAlreadyPending {
		core.LogTrace(t, "Interest ", interest.Name(), " is already pending")
	}

	// Update PIT entry expiration timer
	pitEntry.UpdateExpirationTimer()

	// If NextHopFaceId set, forward to that face (if it exists) or drop
	if pendingPacket.NextHopFaceID != nil {
		if dispatch.GetFace(*pendingPacket.NextHopFaceID) != nil {
			core.LogTrace(t, "NextHopFaceId is set for Interest ", interest.Name(),
				" - dispatching directly to face")
			dispatch.GetFace(*pendingPacket.NextHopFaceID).SendPacket(pendingPacket)
		} else {
			core.LogInfo(t, "Non-existent face specified in NextHopFaceId for Interest ",
				interest.Name(), " - DROP")
		}
		return
	}

	// Pass to strategy AfterReceiveInterest pipeline
	nexthops := table.FibTable.LongestPrefixNexthops(interest.Name())
	t.strategy.AfterReceiveInterest(pitEntry, incomingFace.FaceID(), interest, nexthops)
}

func (t *Thread) processOutgoingInterest(pitEntry *table.PitEntry, interest *ndn.Interest,
	nexthop uint64, inFace uint64, wantNewNonce bool) {
	core.LogTrace(t, "OnOutgoingInterest: ", interest.Name(), ", FaceID=", nexthop)

	// Get outgoing face
	outgoingFace := dispatch.GetFace(nexthop)
	if outgoingFace == nil {
		core.LogError(t, "Non-existent nexthop FaceID=", nexthop, " for Interest=",
			interest.Name(), " - DROP")
		return
	}

	// Drop if HopLimit (if present) on Interest going to non-local face is 0
	if interest.HopLimit() != nil && *interest.HopLimit() == 0 &&
		outgoingFace.Scope() == defn.NonLocal {
		core.LogDebug(t, "Attempting to send Interest=", interest.Name(),
			" with HopLimit=0 to non-local face - DROP")
		return
	}

	if wantNewNonce {
		interest.RegenerateNonce()
	}

	// Create or update out-record
	pitEntry.FindOrInsertOutRecord(interest, nexthop)

	t.NOutInterests++

	// Send on outgoing face
	pendingPacket := new(ndn.PendingPacket)
	pendingPacket.IncomingFaceID = new(uint64)
	*pendingPacket.IncomingFaceID = inFace
	pendingPacket.PitToken = make([]byte, 6)
	binary.BigEndian.PutUint16(pendingPacket.PitToken, uint16(t.threadID))
	binary.BigEndian.PutUint32(pendingPacket.PitToken[2:], pitEntry.Token)
	var err error
	pendingPacket.Wire, err = interest.Encode()
	if err != nil {
		core.LogWarn(t, "Unable to encode Interest ", interest.Name(), " (", err, ") - DROP")
		return
	}
	outgoingFace.SendPacket(pendingPacket)
}

func (t *Thread) finalizeInterest(pitEntry *table.PitEntry) {
	core.LogTrace(t, "OnFinalizeInterest: ", pitEntry.Name)

	// Check for nonces to insert into dead nonce list
	for _, outRecord := range pitEntry.OutRecords {
		t.deadNonceList.Insert(outRecord.LatestInterest.Name(), outRecord.LatestNonce)
	}

	// Counters
	if !pitEntry.Satisfied {
		t.NUnsatisfiedInterests += uint64(len(pitEntry.InRecords))
	}

	// Remove from PIT
	t.pit.RemoveEntry(pitEntry)
}

func (t *Thread) processIncomingData(pendingPacket *ndn.PendingPacket) {
	// Ensure incoming face is indicated
	if pendingPacket.IncomingFaceID == nil {
		core.LogError(t, "Data missing IncomingFaceId - DROP")
		return
	}

	// Nacks are not consumed by the strategies in scope; the retry timers recover
	if pendingPacket.NackReason != nil {
		core.LogDebug(t, "Received Nack with reason ", *pendingPacket.NackReason, " - DROP")
		return
	}

	// Get PIT token if present
	var pitToken *uint32
	if len(pendingPacket.PitToken) == 6 {
		pitToken = new(uint32)
		*pitToken = binary.BigEndian.Uint32(pendingPacket.PitToken[2:6])
	}

	// Extract Data from PendingPacket
	data, err := ndn.DecodeData(pendingPacket.Wire)
	if err != nil {
		core.LogInfo(t, "Unable to decode Data packet - DROP")
		return
	}

	// Get incoming face
	incomingFace := dispatch.GetFace(*pendingPacket.IncomingFaceID)
	if incomingFace == nil {
		core.LogError(t, "Non-existent incoming FaceID=", *pendingPacket.IncomingFaceID,
			" for Data=", data.Name(), " - DROP")
		return
	}

	core.LogTrace(t, "OnIncomingData: ", data.Name(), ", FaceID=", incomingFace.FaceID())

	t.NInData++

	// Check if violates /localhost
	if incomingFace.Scope() == defn.NonLocal && data.Name().Size() > 0 &&
		data.Name().At(0).String() == "localhost" {
		core.LogWarn(t, "Data ", data.Name(), " from non-local FaceID=",
			incomingFace.FaceID(), " violates /localhost scope - DROP")
		return
	}

	// Check for matching PIT entries
	pitEntries := t.pit.FindFromData(data, pitToken)
	if len(pitEntries) == 0 {
		// Unsolicited Data - nothing more to do
		core.LogDebug(t, "Unsolicited Data ", data.Name(), " - DROP")
		return
	}

	if len(pitEntries) == 1 {
		// Set PIT entry expiration to now
		pitEntries[0].SetExpirationTimerToNow()

		// Invoke strategy's AfterReceiveData
		t.strategy.AfterReceiveData(pitEntries[0], incomingFace.FaceID(), data)

		// Mark PIT entry as satisfied
		pitEntries[0].Satisfied = true

		// Insert into dead nonce list
		for _, outRecord := range pitEntries[0].OutRecords {
			t.deadNonceList.Insert(outRecord.LatestInterest.Name(), outRecord.LatestNonce)
		}

		// Clear out records from PIT entry
		pitEntries[0].ClearOutRecords()
	} else {
		for _, pitEntry := range pitEntries {
			// Store all pending downstreams (except the face the Data arrived on)
			downstreams := make(map[uint64][]byte)
			for downstreamFaceID, downstreamRecord := range pitEntry.InRecords {
				if downstreamFaceID != incomingFace.FaceID() {
					downstreams[downstreamFaceID] = append([]byte{}, downstreamRecord.PitToken...)
				}
			}

			// Set PIT entry expiration to now
			pitEntry.SetExpirationTimerToNow()

			// Invoke strategy's BeforeSatisfyInterest
			t.strategy.BeforeSatisfyInterest(pitEntry, incomingFace.FaceID(), data)

			// Mark PIT entry as satisfied
			pitEntry.Satisfied = true

			// Insert into dead nonce list
			for _, outRecord := range pitEntry.OutRecords {
				t.deadNonceList.Insert(outRecord.LatestInterest.Name(), outRecord.LatestNonce)
			}

			// Clear PIT entry's in- and out-records
			pitEntry.ClearInRecords()
			pitEntry.ClearOutRecords()

			// Call outgoing Data pipeline for each pending downstream
			for downstreamFaceID, downstreamPitToken := range downstreams {
				t.processOutgoingData(data, downstreamFaceID, downstreamPitToken,
					incomingFace.FaceID())
			}
		}
	}
}

func (t *Thread) processOutgoingData(data *ndn.Data, nexthop uint64, pitToken []byte, inFace uint64) {
	core.LogTrace(t, "OnOutgoingData: ", data.Name(), ", FaceID=", nexthop)

	// Get outgoing face
	outgoingFace := dispatch.GetFace(nexthop)
	if outgoingFace == nil {
		core.LogError(t, "Non-existent nexthop FaceID=", nexthop, " for Data=",
			data.Name(), " - DROP")
		return
	}

	// Check if violates /localhost
	if outgoingFace.Scope() == defn.NonLocal && data.Name().Size() > 0 &&
		data.Name().At(0).String() == "localhost" {
		core.LogWarn(t, "Data ", data.Name(), " cannot be sent to non-local FaceID=",
			nexthop, " since it violates /localhost scope - DROP")
		return
	}

	t.NOutData++
	t.NSatisfiedInterests++

	// Send on outgoing face
	pendingPacket := new(ndn.PendingPacket)
	if len(pitToken) > 0 {
		pendingPacket.PitToken = append([]byte{}, pitToken...)
	}
	pendingPacket.IncomingFaceID = new(uint64)
	*pendingPacket.IncomingFaceID = inFace
	var err error
	pendingPacket.Wire, err = data.Encode()
	if err != nil {
		core.LogWarn(t, "Unable to encode Data ", data.Name(), " (", err, ") - DROP")
		return
	}
	outgoingFace.SendPacket(pendingPacket)
}
