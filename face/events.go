/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"github.com/named-data/minfd/core/events"
	"github.com/named-data/minfd/defn"
)

// FaceEventKind represents the type of a face event.
type FaceEventKind uint64

// Face event kinds.
const (
	FaceEventCreated   FaceEventKind = 1
	FaceEventDestroyed FaceEventKind = 2
	FaceEventUp        FaceEventKind = 3
	FaceEventDown      FaceEventKind = 4
)

func (k FaceEventKind) String() string {
	switch k {
	case FaceEventCreated:
		return "Created"
	case FaceEventDestroyed:
		return "Destroyed"
	case FaceEventUp:
		return "Up"
	default:
		return "Down"
	}
}

// FaceEvent is the payload of a face telemetry event.
type FaceEvent struct {
	Kind        FaceEventKind
	FaceID      uint64
	RemoteURI   *defn.URI
	LocalURI    *defn.URI
	Scope       defn.Scope
	Persistency Persistency
	LinkType    defn.LinkType
}

// EmitFaceEvent publishes a face event on the telemetry bus.
func EmitFaceEvent(kind FaceEventKind, face LinkService) {
	events.Telemetry().Emit(events.EventFace, FaceEvent{
		Kind:        kind,
		FaceID:      face.FaceID(),
		RemoteURI:   face.RemoteURI(),
		LocalURI:    face.LocalURI(),
		Scope:       face.Scope(),
		Persistency: face.Persistency(),
		LinkType:    face.LinkType(),
	})
}
