/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import "github.com/named-data/minfd/ndn/tlv"

// LpFields are the NDNLPv2 fields the forwarder understands.
type LpFields struct {
	Fragment   []byte
	PitToken   []byte
	NackReason *uint64
}

// EncodeLpPacket wraps a network-layer packet in an LpPacket carrying the given fields.
func EncodeLpPacket(fields *LpFields) []byte {
	wire := tlv.NewEmptyBlock(tlv.LpPacket)
	if len(fields.PitToken) > 0 {
		wire.Append(tlv.NewBlock(tlv.PitToken, fields.PitToken))
	}
	if fields.NackReason != nil {
		nack := tlv.NewEmptyBlock(tlv.Nack)
		nack.Append(tlv.EncodeNNIBlock(tlv.NackReason, *fields.NackReason))
		wire.Append(nack)
	}
	if len(fields.Fragment) > 0 {
		wire.Append(tlv.NewBlock(tlv.Fragment, fields.Fragment))
	}
	return wire.Encode()
}

// DecodeLpPacket extracts the understood fields from a parsed LpPacket block.
func DecodeLpPacket(outer *tlv.Block) (*LpFields, error) {
	if outer.Type() != tlv.LpPacket {
		return nil, tlv.ErrUnexpected
	}
	if err := outer.Parse(); err != nil {
		return nil, err
	}

	fields := new(LpFields)
	for _, elem := range outer.Subelements() {
		switch elem.Type() {
		case tlv.Fragment:
			fields.Fragment = elem.Value()
		case tlv.PitToken:
			fields.PitToken = elem.Value()
		case tlv.Nack:
			fields.NackReason = new(uint64)
			*fields.NackReason = tlv.NackReasonNoRoute
			if err := elem.Parse(); err != nil {
				return nil, err
			}
			if reason := elem.Find(tlv.NackReason); reason != nil {
				value, err := tlv.DecodeNNI(reason.Value())
				if err != nil {
					return nil, err
				}
				*fields.NackReason = value
			}
		}
	}
	return fields, nil
}
