/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

// TLV types for NDN packets.
const (
	Interest             = 0x05
	Data                 = 0x06
	Name                 = 0x07
	GenericNameComponent = 0x08

	CanBePrefix      = 0x21
	MustBeFresh      = 0x12
	Nonce            = 0x0A
	InterestLifetime = 0x0C
	HopLimit         = 0x22

	MetaInfo        = 0x14
	FreshnessPeriod = 0x19
	Content         = 0x15

	// NDNLPv2
	LpPacket   = 0x64
	Fragment   = 0x50
	Sequence   = 0x51
	PitToken   = 0x62
	Nack       = 0x0320
	NackReason = 0x0321
)

// Nack reasons.
const (
	NackReasonCongestion = 50
	NackReasonDuplicate  = 100
	NackReasonNoRoute    = 150
)
