/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/named-data/minfd/ndn/tlv"
)

// DefaultInterestLifetime is the lifetime assumed when an Interest carries none.
const DefaultInterestLifetime = 4 * time.Second

// Interest is an NDN Interest packet.
type Interest struct {
	name        *Name
	canBePrefix bool
	mustBeFresh bool
	nonce       []byte
	lifetime    time.Duration
	hopLimit    *uint8
}

// NewInterest creates a new Interest with the specified name and a fresh nonce.
func NewInterest(name *Name) *Interest {
	i := new(Interest)
	i.name = name
	i.lifetime = DefaultInterestLifetime
	i.RegenerateNonce()
	return i
}

// Name returns the name of the Interest.
func (i *Interest) Name() *Name {
	return i.name
}

// CanBePrefix returns whether the CanBePrefix element is present.
func (i *Interest) CanBePrefix() bool {
	return i.canBePrefix
}

// SetCanBePrefix sets whether the CanBePrefix element is present.
func (i *Interest) SetCanBePrefix(canBePrefix bool) {
	i.canBePrefix = canBePrefix
}

// MustBeFresh returns whether the MustBeFresh element is present.
func (i *Interest) MustBeFresh() bool {
	return i.mustBeFresh
}

// SetMustBeFresh sets whether the MustBeFresh element is present.
func (i *Interest) SetMustBeFresh(mustBeFresh bool) {
	i.mustBeFresh = mustBeFresh
}

// Nonce returns the nonce of the Interest.
func (i *Interest) Nonce() []byte {
	return i.nonce
}

// RegenerateNonce generates a new random nonce for the Interest.
func (i *Interest) RegenerateNonce() {
	i.nonce = make([]byte, 4)
	binary.BigEndian.PutUint32(i.nonce, rand.Uint32())
}

// Lifetime returns the lifetime of the Interest.
func (i *Interest) Lifetime() time.Duration {
	return i.lifetime
}

// SetLifetime sets the lifetime of the Interest.
func (i *Interest) SetLifetime(lifetime time.Duration) {
	i.lifetime = lifetime
}

// HopLimit returns the hop limit of the Interest, or nil if unset.
func (i *Interest) HopLimit() *uint8 {
	return i.hopLimit
}

// SetHopLimit sets the hop limit of the Interest.
func (i *Interest) SetHopLimit(hopLimit uint8) {
	i.hopLimit = new(uint8)
	*i.hopLimit = hopLimit
}

// Encode encodes the Interest into wire format.
func (i *Interest) Encode() ([]byte, error) {
	wire := tlv.NewEmptyBlock(tlv.Interest)
	wire.Append(i.name.Encode())
	if i.canBePrefix {
		wire.Append(tlv.NewEmptyBlock(tlv.CanBePrefix))
	}
	if i.mustBeFresh {
		wire.Append(tlv.NewEmptyBlock(tlv.MustBeFresh))
	}
	wire.Append(tlv.NewBlock(tlv.Nonce, i.nonce))
	if i.lifetime != DefaultInterestLifetime {
		wire.Append(tlv.EncodeNNIBlock(tlv.InterestLifetime, uint64(i.lifetime.Milliseconds())))
	}
	if i.hopLimit != nil {
		wire.Append(tlv.NewBlock(tlv.HopLimit, []byte{*i.hopLimit}))
	}
	return wire.Encode(), nil
}

// DecodeInterest decodes an Interest from wire format.
func DecodeInterest(wire []byte) (*Interest, error) {
	outer, _, err := tlv.DecodeBlock(wire)
	if err != nil {
		return nil, err
	}
	if outer.Type() != tlv.Interest {
		return nil, tlv.ErrUnexpected
	}
	if err = outer.Parse(); err != nil {
		return nil, err
	}

	i := new(Interest)
	i.lifetime = DefaultInterestLifetime
	for _, elem := range outer.Subelements() {
		switch elem.Type() {
		case tlv.Name:
			i.name, err = DecodeName(elem)
			if err != nil {
				return nil, err
			}
		case tlv.CanBePrefix:
			i.canBePrefix = true
		case tlv.MustBeFresh:
			i.mustBeFresh = true
		case tlv.Nonce:
			i.nonce = elem.Value()
		case tlv.InterestLifetime:
			lifetime, err := tlv.DecodeNNI(elem.Value())
			if err != nil {
				return nil, err
			}
			i.lifetime = time.Duration(lifetime) * time.Millisecond
		case tlv.HopLimit:
			if len(elem.Value()) == 1 {
				i.hopLimit = new(uint8)
				*i.hopLimit = elem.Value()[0]
			}
		}
	}
	if i.name == nil {
		return nil, tlv.ErrUnexpected
	}
	return i, nil
}
