/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package table provides the forwarding tables: PIT, FIB, dead nonce list, and strategy
// measurements.
package table

import (
	"bytes"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
)

// Pit is the Pending Interest Table for a forwarding thread.
type Pit struct {
	entries  map[string][]*PitEntry
	tokenMap map[uint32]*PitEntry

	// ExpiringPitEntries receives PIT entries upon their expiration.
	ExpiringPitEntries chan *PitEntry

	clk clock.Clock
}

// PitEntry is an entry in a thread's PIT.
type PitEntry struct {
	pit *Pit

	Name           *ndn.Name
	CanBePrefix    bool
	MustBeFresh    bool
	InRecords      map[uint64]*PitInRecord  // Key is face ID
	OutRecords     map[uint64]*PitOutRecord // Key is face ID
	ExpirationTime time.Time
	Satisfied      bool

	Token uint32

	expirationTimer *clock.Timer
}

// PitInRecord records an incoming Interest on a given face.
type PitInRecord struct {
	Face            uint64
	LatestNonce     []byte
	LatestTimestamp time.Time
	LatestInterest  *ndn.Interest
	ExpirationTime  time.Time
	PitToken        []byte
}

// PitOutRecord records an outgoing Interest on a given face.
type PitOutRecord struct {
	Face            uint64
	LatestNonce     []byte
	LatestTimestamp time.Time
	LatestInterest  *ndn.Interest
	ExpirationTime  time.Time
}

// NewPit creates a new Pending Interest Table for a forwarding thread.
func NewPit(clk clock.Clock) *Pit {
	p := new(Pit)
	p.entries = make(map[string][]*PitEntry)
	p.tokenMap = make(map[uint32]*PitEntry)
	p.ExpiringPitEntries = make(chan *PitEntry, tableQueueSize)
	p.clk = clk
	return p
}

// Size returns the number of entries in the PIT.
func (p *Pit) Size() int {
	size := 0
	for _, entries := range p.entries {
		size += len(entries)
	}
	return size
}

func (p *Pit) generateNewPitToken() uint32 {
	for {
		token := rand.Uint32()
		if _, ok := p.tokenMap[token]; !ok {
			return token
		}
	}
}

// FindOrInsert inserts an entry in the PIT upon receipt of an Interest. Returns a tuple
// of the PIT entry and whether the Interest is a duplicate (same nonce already recorded
// in the in-record of another face).
func (p *Pit) FindOrInsert(interest *ndn.Interest, inFace uint64) (*PitEntry, bool) {
	key := interest.Name().String()

	var entry *PitEntry
	for _, curEntry := range p.entries[key] {
		if curEntry.CanBePrefix == interest.CanBePrefix() && curEntry.MustBeFresh == interest.MustBeFresh() {
			entry = curEntry
			break
		}
	}

	if entry == nil {
		entry = new(PitEntry)
		entry.pit = p
		entry.Name = interest.Name()
		entry.CanBePrefix = interest.CanBePrefix()
		entry.MustBeFresh = interest.MustBeFresh()
		entry.InRecords = make(map[uint64]*PitInRecord)
		entry.OutRecords = make(map[uint64]*PitOutRecord)
		entry.Token = p.generateNewPitToken()
		p.entries[key] = append(p.entries[key], entry)
		p.tokenMap[entry.Token] = entry
	}

	// A duplicate is the same nonce already recorded on another face's in-record
	isDuplicate := false
	for face, inRecord := range entry.InRecords {
		if face != inFace && bytes.Equal(inRecord.LatestNonce, interest.Nonce()) {
			isDuplicate = true
			break
		}
	}

	return entry, isDuplicate
}

// FindFromData finds the PIT entries matching a Data packet, using the PIT token as a
// fast path when present.
func (p *Pit) FindFromData(data *ndn.Data, token *uint32) []*PitEntry {
	if token != nil {
		if entry, ok := p.tokenMap[*token]; ok {
			return []*PitEntry{entry}
		}
		return nil
	}

	matching := make([]*PitEntry, 0)
	name := data.Name()
	for size := name.Size(); size >= 0; size-- {
		for _, entry := range p.entries[name.Prefix(size).String()] {
			if entry.CanBePrefix || size == name.Size() {
				matching = append(matching, entry)
			}
		}
	}
	return matching
}

// RemoveEntry removes the specified entry from the PIT.
func (p *Pit) RemoveEntry(entry *PitEntry) {
	if entry.expirationTimer != nil {
		entry.expirationTimer.Stop()
	}
	delete(p.tokenMap, entry.Token)
	key := entry.Name.String()
	entries := p.entries[key]
	for i, curEntry := range entries {
		if curEntry == entry {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(p.entries, key)
	} else {
		p.entries[key] = entries
	}
}

// FindOrInsertInRecord finds or inserts an in-record for the given face, returning the
// record and whether the Interest was already pending on another face.
func (e *PitEntry) FindOrInsertInRecord(interest *ndn.Interest, face uint64, incomingPitToken []byte) (*PitInRecord, bool) {
	isAlreadyPending := len(e.InRecords) > 0

	record, ok := e.InRecords[face]
	if !ok {
		record = new(PitInRecord)
		record.Face = face
		e.InRecords[face] = record
	}
	record.LatestNonce = interest.Nonce()
	record.LatestTimestamp = e.pit.clk.Now()
	record.LatestInterest = interest
	record.ExpirationTime = e.pit.clk.Now().Add(interest.Lifetime())
	record.PitToken = append([]byte{}, incomingPitToken...)

	return record, isAlreadyPending
}

// FindOrInsertOutRecord finds or inserts an out-record for the given face.
func (e *PitEntry) FindOrInsertOutRecord(interest *ndn.Interest, face uint64) *PitOutRecord {
	record, ok := e.OutRecords[face]
	if !ok {
		record = new(PitOutRecord)
		record.Face = face
		e.OutRecords[face] = record
	}
	record.LatestNonce = interest.Nonce()
	record.LatestTimestamp = e.pit.clk.Now()
	record.LatestInterest = interest
	record.ExpirationTime = e.pit.clk.Now().Add(interest.Lifetime())
	return record
}

// GetOutRecord returns the out-record for the given face, or nil if none exists.
func (e *PitEntry) GetOutRecord(face uint64) *PitOutRecord {
	return e.OutRecords[face]
}

// HasValidLocalInRecord returns whether the entry still has an unexpired in-record, i.e.
// a downstream that still wants the Data.
func (e *PitEntry) HasValidLocalInRecord() bool {
	now := e.pit.clk.Now()
	for _, record := range e.InRecords {
		if record.ExpirationTime.After(now) {
			return true
		}
	}
	return false
}

// ViolatesScope returns whether forwarding this entry's Interest to the specified face
// would violate NDN scope.
func (e *PitEntry) ViolatesScope(outFace dispatch.Face) bool {
	if e.Name.Size() == 0 {
		return false
	}
	return e.Name.At(0).String() == "localhost" && outFace.Scope() == defn.NonLocal
}

// ClearInRecords removes all in-records from the entry.
func (e *PitEntry) ClearInRecords() {
	e.InRecords = make(map[uint64]*PitInRecord)
}

// ClearOutRecords removes all out-records from the entry.
func (e *PitEntry) ClearOutRecords() {
	e.OutRecords = make(map[uint64]*PitOutRecord)
}

// UpdateExpirationTimer resets the entry's expiration timer to the latest in-record
// expiration.
func (e *PitEntry) UpdateExpirationTimer() {
	latest := e.pit.clk.Now()
	for _, record := range e.InRecords {
		if record.ExpirationTime.After(latest) {
			latest = record.ExpirationTime
		}
	}
	e.ExpirationTime = latest
	e.resetExpirationTimer(latest)
}

// SetExpirationTimerToNow expires the entry immediately.
func (e *PitEntry) SetExpirationTimerToNow() {
	e.ExpirationTime = e.pit.clk.Now()
	if e.expirationTimer != nil {
		e.expirationTimer.Stop()
	}
	select {
	case e.pit.ExpiringPitEntries <- e:
	default:
	}
}

func (e *PitEntry) resetExpirationTimer(when time.Time) {
	if e.expirationTimer != nil {
		e.expirationTimer.Stop()
	}
	entry := e
	e.expirationTimer = e.pit.clk.AfterFunc(when.Sub(e.pit.clk.Now()), func() {
		select {
		case entry.pit.ExpiringPitEntries <- entry:
		default:
		}
	})
}
