/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"time"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/ndn"
)

// LinkService is an interface for link service implementations
type LinkService interface {
	String() string
	SetFaceID(faceID uint64)

	FaceID() uint64
	LocalURI() *defn.URI
	RemoteURI() *defn.URI
	Persistency() Persistency
	SetPersistency(persistency Persistency) bool
	Scope() defn.Scope
	LinkType() defn.LinkType
	MTU() int
	InterfaceName() string
	ExpirationPeriod() time.Duration
	State() defn.State

	// Run is the main entry point for running the face thread
	Run()
	Close()
	GetHasQuit() chan bool

	// SendPacket adds a packet to the send queue for this link service
	SendPacket(packet *ndn.PendingPacket)
	handleIncomingFrame(frame []byte)
	tellTransportQuit()

	// Counters
	NInPackets() uint64
	NOutPackets() uint64
}

// linkServiceBase is the type upon which all link service implementations should be built
type linkServiceBase struct {
	faceID           uint64
	transport        transport
	HasQuit          chan bool
	hasImplQuit      chan bool
	hasTransportQuit chan bool
	sendQueue        chan *ndn.PendingPacket

	// Counters
	nInPackets  uint64
	nOutPackets uint64
}

func (l *linkServiceBase) String() string {
	if l.transport != nil {
		return "LinkService, " + l.transport.String()
	}
	return "LinkService"
}

// SetFaceID sets the face ID of the link service (and the underlying transport).
func (l *linkServiceBase) SetFaceID(faceID uint64) {
	l.faceID = faceID
	if l.transport != nil {
		l.transport.setFaceID(faceID)
	}
}

func (l *linkServiceBase) makeLinkServiceBase() {
	l.HasQuit = make(chan bool)
	l.hasImplQuit = make(chan bool)
	l.hasTransportQuit = make(chan bool, 1)
	l.sendQueue = make(chan *ndn.PendingPacket, core.FaceQueueSize)
}

//
// Getters
//

// FaceID returns the ID of the face.
func (l *linkServiceBase) FaceID() uint64 {
	return l.faceID
}

// LocalURI returns the local URI of the underlying transport.
func (l *linkServiceBase) LocalURI() *defn.URI {
	return l.transport.LocalURI()
}

// RemoteURI returns the remote URI of the underlying transport.
func (l *linkServiceBase) RemoteURI() *defn.URI {
	return l.transport.RemoteURI()
}

// Persistency returns the persistency of the underlying transport.
func (l *linkServiceBase) Persistency() Persistency {
	return l.transport.Persistency()
}

// SetPersistency sets the persistency of the underlying transport.
func (l *linkServiceBase) SetPersistency(persistency Persistency) bool {
	return l.transport.SetPersistency(persistency)
}

// Scope returns the scope of the underlying transport.
func (l *linkServiceBase) Scope() defn.Scope {
	return l.transport.Scope()
}

// LinkType returns the type of the underlying transport.
func (l *linkServiceBase) LinkType() defn.LinkType {
	return l.transport.LinkType()
}

// MTU returns the MTU of the underlying transport.
func (l *linkServiceBase) MTU() int {
	return l.transport.MTU()
}

// InterfaceName returns the name of the network interface the underlying transport is
// bound to, if any.
func (l *linkServiceBase) InterfaceName() string {
	return l.transport.InterfaceName()
}

// ExpirationPeriod returns the time until the underlying transport expires.
func (l *linkServiceBase) ExpirationPeriod() time.Duration {
	return l.transport.ExpirationPeriod()
}

// State returns the state of the underlying transport.
func (l *linkServiceBase) State() defn.State {
	return l.transport.State()
}

// GetHasQuit returns the channel signalling when the link service has quit.
func (l *linkServiceBase) GetHasQuit() chan bool {
	return l.HasQuit
}

// Close closes the underlying transport.
func (l *linkServiceBase) Close() {
	l.transport.Close()
}

func (l *linkServiceBase) tellTransportQuit() {
	select {
	case l.hasTransportQuit <- true:
	default:
	}
}

//
// Counters
//

// NInPackets returns the number of network-layer packets received on this face.
func (l *linkServiceBase) NInPackets() uint64 {
	return l.nInPackets
}

// NOutPackets returns the number of network-layer packets sent on this face.
func (l *linkServiceBase) NOutPackets() uint64 {
	return l.nOutPackets
}

//
// Forwarding pipeline
//

// SendPacket adds a packet to the send queue for this link service.
func (l *linkServiceBase) SendPacket(packet *ndn.PendingPacket) {
	select {
	case l.sendQueue <- packet:
		// Packet queued successfully
	default:
		// Drop packet due to congestion
		core.LogWarn(l, "Dropped packet due to congestion")
	}
}
