/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

import (
	"sync"

	"github.com/named-data/minfd/ndn"
)

// FWThread provides an interface that forwarding threads can satisfy (to avoid circular
// dependency between faces and forwarding)
type FWThread interface {
	String() string

	QueueData(packet *ndn.PendingPacket)
	QueueInterest(packet *ndn.PendingPacket)
}

// FWDispatch is used to allow faces to interact with forwarding without a circular dependency.
var FWDispatch sync.Map

// AddFWThread adds the specified forwarding thread to the dispatch list.
func AddFWThread(id int, thread FWThread) {
	FWDispatch.Store(id, thread)
}

// GetFWThread returns the specified forwarding thread or nil if it does not exist.
func GetFWThread(id int) FWThread {
	thread, ok := FWDispatch.Load(id)
	if !ok {
		return nil
	}
	return thread.(FWThread)
}
