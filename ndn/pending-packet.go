/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

// PendingPacket is a packet being moved between faces and forwarding threads, along
// with associated metadata.
type PendingPacket struct {
	Wire           []byte
	PitToken       []byte
	IncomingFaceID *uint64
	NextHopFaceID  *uint64
	NackReason     *uint64
}
