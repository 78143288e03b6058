/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"sync"

	"github.com/named-data/minfd/ndn"
)

// FibTable is the global Forwarding Information Base for this forwarder.
var FibTable Fib

// FibNextHopEntry is a nexthop in a FIB entry.
type FibNextHopEntry struct {
	Nexthop uint64
	Cost    uint64
}

type fibEntry struct {
	name     *ndn.Name
	nexthops []*FibNextHopEntry
}

// Fib is a name-prefix to nexthop routing table, shared by all forwarding threads.
type Fib struct {
	mutex   sync.RWMutex
	entries map[string]*fibEntry
}

func init() {
	FibTable.entries = make(map[string]*fibEntry)
}

// InsertNextHop adds or updates a nexthop for the given prefix.
func (f *Fib) InsertNextHop(name *ndn.Name, nexthop uint64, cost uint64) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	key := name.String()
	entry, ok := f.entries[key]
	if !ok {
		entry = &fibEntry{name: name.DeepCopy()}
		f.entries[key] = entry
	}
	for _, hop := range entry.nexthops {
		if hop.Nexthop == nexthop {
			hop.Cost = cost
			return
		}
	}
	entry.nexthops = append(entry.nexthops, &FibNextHopEntry{Nexthop: nexthop, Cost: cost})
}

// RemoveNextHop removes a nexthop from the given prefix.
func (f *Fib) RemoveNextHop(name *ndn.Name, nexthop uint64) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	key := name.String()
	entry, ok := f.entries[key]
	if !ok {
		return
	}
	for i, hop := range entry.nexthops {
		if hop.Nexthop == nexthop {
			entry.nexthops = append(entry.nexthops[:i], entry.nexthops[i+1:]...)
			break
		}
	}
	if len(entry.nexthops) == 0 {
		delete(f.entries, key)
	}
}

// LongestPrefixNexthops returns the nexthops of the longest matching prefix of the
// given name, or an empty list if no prefix matches. The returned list is a snapshot.
func (f *Fib) LongestPrefixNexthops(name *ndn.Name) []*FibNextHopEntry {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	for size := name.Size(); size >= 0; size-- {
		if entry, ok := f.entries[name.Prefix(size).String()]; ok && len(entry.nexthops) > 0 {
			nexthops := make([]*FibNextHopEntry, len(entry.nexthops))
			for i, hop := range entry.nexthops {
				copied := *hop
				nexthops[i] = &copied
			}
			return nexthops
		}
	}
	return nil
}

// CleanUpFace removes the specified face from all FIB entries.
func (f *Fib) CleanUpFace(faceID uint64) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for key, entry := range f.entries {
		for i, hop := range entry.nexthops {
			if hop.Nexthop == faceID {
				entry.nexthops = append(entry.nexthops[:i], entry.nexthops[i+1:]...)
				break
			}
		}
		if len(entry.nexthops) == 0 {
			delete(f.entries, key)
		}
	}
}
