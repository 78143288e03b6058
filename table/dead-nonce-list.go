/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/utils/priority_queue"
)

// DeadNonceList represents the Dead Nonce List for a forwarding thread.
type DeadNonceList struct {
	list            map[uint64]bool
	expirationQueue priority_queue.Queue[uint64, int64]
	clk             clock.Clock

	// Ticker drives periodic eviction of expired entries.
	Ticker *clock.Ticker
}

// NewDeadNonceList creates a new Dead Nonce List for a forwarding thread.
func NewDeadNonceList(clk clock.Clock) *DeadNonceList {
	d := new(DeadNonceList)
	d.list = make(map[uint64]bool)
	d.clk = clk
	d.Ticker = clk.Ticker(100 * time.Millisecond)
	d.expirationQueue = priority_queue.New[uint64, int64]()
	return d
}

func (d *DeadNonceList) hash(name *ndn.Name, nonce []byte) uint64 {
	return xxhash.Sum64String(name.String()) ^ xxhash.Sum64(nonce)
}

// Find returns whether the specified name and nonce combination are present in the Dead
// Nonce List.
func (d *DeadNonceList) Find(name *ndn.Name, nonce []byte) bool {
	_, ok := d.list[d.hash(name, nonce)]
	return ok
}

// Insert inserts an entry in the Dead Nonce List with the specified name and nonce.
// Returns whether the nonce was already present.
func (d *DeadNonceList) Insert(name *ndn.Name, nonce []byte) bool {
	hash := d.hash(name, nonce)
	_, exists := d.list[hash]
	if !exists {
		d.list[hash] = true
		d.expirationQueue.Push(hash, d.clk.Now().Add(deadNonceListLifetime).UnixNano())
	}
	return exists
}

// RemoveExpiredEntries removes expired entries from the Dead Nonce List, at most 100 at
// a time.
func (d *DeadNonceList) RemoveExpiredEntries() {
	evicted := 0
	for d.expirationQueue.Len() > 0 && d.expirationQueue.PeekPriority() < d.clk.Now().UnixNano() {
		hash := d.expirationQueue.Pop()
		delete(d.list, hash)
		evicted++
		if evicted >= 100 {
			break
		}
	}
}
