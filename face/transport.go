/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sync/atomic"
	"time"

	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/ndn/tlv"
)

// frameIsWellFormed reports whether the first readSize bytes of buf hold exactly one
// complete TLV element. Datagram transports drop anything else as a framing error.
func frameIsWellFormed(buf []byte, readSize int) bool {
	_, _, tlvSize, err := tlv.DecodeTypeLength(buf[:readSize])
	return err == nil && tlvSize == readSize
}

// transport provides an interface for transports for specific face types
type transport interface {
	String() string
	setFaceID(faceID uint64)
	setLinkService(linkService LinkService)

	RemoteURI() *defn.URI
	LocalURI() *defn.URI
	Persistency() Persistency
	SetPersistency(persistency Persistency) bool
	Scope() defn.Scope
	LinkType() defn.LinkType
	MTU() int
	SetMTU(mtu int)
	InterfaceName() string
	State() defn.State
	ExpirationPeriod() time.Duration

	GetSendQueueSize() uint64

	runReceive()

	sendFrame([]byte)

	changeState(newState defn.State)
	Close()

	// Counters
	NInBytes() uint64
	NOutBytes() uint64
}

// transportBase provides logic common between transport types
type transportBase struct {
	linkService LinkService

	faceID         uint64
	remoteURI      *defn.URI
	localURI       *defn.URI
	scope          defn.Scope
	persistency    Persistency
	linkType       defn.LinkType
	interfaceName  string
	mtu            int
	expirationTime *time.Time

	state defn.State

	hasQuit chan bool

	recentlyUsed atomic.Bool

	// Counters
	nInBytes  uint64
	nOutBytes uint64
}

func (t *transportBase) makeTransportBase(remoteURI *defn.URI, localURI *defn.URI,
	persistency Persistency, scope defn.Scope, linkType defn.LinkType, mtu int) {
	t.remoteURI = remoteURI
	t.localURI = localURI
	t.persistency = persistency
	t.scope = scope
	t.linkType = linkType
	t.state = defn.Down
	t.mtu = mtu
	t.hasQuit = make(chan bool, 2)
}

func (t *transportBase) setFaceID(faceID uint64) {
	t.faceID = faceID
}

func (t *transportBase) setLinkService(linkService LinkService) {
	t.linkService = linkService
}

//
// Getters
//

// LocalURI returns the local URI of the transport.
func (t *transportBase) LocalURI() *defn.URI {
	return t.localURI
}

// RemoteURI returns the remote URI of the transport.
func (t *transportBase) RemoteURI() *defn.URI {
	return t.remoteURI
}

// Persistency returns the persistency of the transport.
func (t *transportBase) Persistency() Persistency {
	return t.persistency
}

// Scope returns the scope of the transport.
func (t *transportBase) Scope() defn.Scope {
	return t.scope
}

// LinkType returns the type of the transport.
func (t *transportBase) LinkType() defn.LinkType {
	return t.linkType
}

// MTU returns the maximum transmission unit (MTU) of the transport.
func (t *transportBase) MTU() int {
	return t.mtu
}

// SetMTU sets the MTU of the transport.
func (t *transportBase) SetMTU(mtu int) {
	t.mtu = mtu
}

// InterfaceName returns the name of the network interface this transport is bound to,
// or the empty string if it is not bound to one.
func (t *transportBase) InterfaceName() string {
	return t.interfaceName
}

// ExpirationPeriod returns the time until this face expires. If transport not on-demand,
// returns 0.
func (t *transportBase) ExpirationPeriod() time.Duration {
	if t.expirationTime == nil || t.persistency != PersistencyOnDemand {
		return 0
	}
	return time.Until(*t.expirationTime)
}

// State returns the state of the transport.
func (t *transportBase) State() defn.State {
	return t.state
}

//
// Counters
//

// NInBytes returns the number of link-layer bytes received on this transport.
func (t *transportBase) NInBytes() uint64 {
	return t.nInBytes
}

// NOutBytes returns the number of link-layer bytes sent on this transport.
func (t *transportBase) NOutBytes() uint64 {
	return t.nOutBytes
}

//
// Idle usage latch
//

// hasBeenUsedRecently returns whether a packet has been received since the last reset.
func (t *transportBase) hasBeenUsedRecently() bool {
	return t.recentlyUsed.Load()
}

// resetRecentUsage clears the recent usage latch.
func (t *transportBase) resetRecentUsage() {
	t.recentlyUsed.Store(false)
}

func (t *transportBase) markRecentUsage() {
	t.recentlyUsed.Store(true)
}
