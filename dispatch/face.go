/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package dispatch decouples the face and forwarding subsystems.
package dispatch

import (
	"sync"

	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/ndn"
)

// Face provides an interface that faces can satisfy (to avoid circular dependency between
// faces and forwarding)
type Face interface {
	String() string
	SetFaceID(faceID uint64)

	FaceID() uint64
	LocalURI() *defn.URI
	RemoteURI() *defn.URI
	Scope() defn.Scope
	LinkType() defn.LinkType
	MTU() int
	InterfaceName() string

	State() defn.State

	SendPacket(packet *ndn.PendingPacket)
}

// FaceDispatch is used to allow forwarding to interact with faces without a circular dependency.
var FaceDispatch sync.Map

// AddFace adds the specified face to the dispatch list.
func AddFace(id uint64, face Face) {
	FaceDispatch.Store(id, face)
}

// GetFace returns the specified face or nil if it does not exist.
func GetFace(id uint64) Face {
	face, ok := FaceDispatch.Load(id)
	if !ok {
		return nil
	}
	return face.(Face)
}

// RemoveFace removes the specified face from the dispatch list.
func RemoveFace(id uint64) {
	FaceDispatch.Delete(id)
}
