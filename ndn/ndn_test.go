/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn_test

import (
	"testing"
	"time"

	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/ndn/tlv"
	"github.com/stretchr/testify/assert"
)

func TestNameParsing(t *testing.T) {
	name, err := ndn.NameFromString("/a/b/c")
	assert.NoError(t, err)
	assert.Equal(t, 3, name.Size())
	assert.Equal(t, "/a/b/c", name.String())
	assert.Equal(t, "/a/b", name.Prefix(2).String())
	assert.Equal(t, "/", name.Prefix(0).String())

	root, err := ndn.NameFromString("/")
	assert.NoError(t, err)
	assert.Equal(t, 0, root.Size())

	_, err = ndn.NameFromString("no-slash")
	assert.Error(t, err)

	other, _ := ndn.NameFromString("/a/b")
	assert.True(t, other.PrefixOf(name))
	assert.False(t, name.PrefixOf(other))
}

func TestInterestEncodeDecode(t *testing.T) {
	name, _ := ndn.NameFromString("/test/interest")
	interest := ndn.NewInterest(name)
	interest.SetCanBePrefix(true)
	interest.SetLifetime(2 * time.Second)

	wire, err := interest.Encode()
	assert.NoError(t, err)

	decoded, err := ndn.DecodeInterest(wire)
	assert.NoError(t, err)
	assert.True(t, decoded.Name().Equals(name))
	assert.True(t, decoded.CanBePrefix())
	assert.False(t, decoded.MustBeFresh())
	assert.Equal(t, 2*time.Second, decoded.Lifetime())
	assert.Equal(t, interest.Nonce(), decoded.Nonce())
}

func TestDataEncodeDecode(t *testing.T) {
	name, _ := ndn.NameFromString("/test/data")
	data := ndn.NewData(name, []byte("payload"))
	data.SetFreshness(time.Second)

	wire, err := data.Encode()
	assert.NoError(t, err)

	decoded, err := ndn.DecodeData(wire)
	assert.NoError(t, err)
	assert.True(t, decoded.Name().Equals(name))
	assert.Equal(t, []byte("payload"), decoded.Content())
	assert.Equal(t, time.Second, decoded.Freshness())
}

func TestLpPacketRoundTrip(t *testing.T) {
	name, _ := ndn.NameFromString("/test/lp")
	interest := ndn.NewInterest(name)
	fragment, _ := interest.Encode()

	reason := uint64(tlv.NackReasonDuplicate)
	wire := ndn.EncodeLpPacket(&ndn.LpFields{
		Fragment:   fragment,
		PitToken:   []byte{0, 1, 2, 3, 4, 5},
		NackReason: &reason,
	})

	outer, _, err := tlv.DecodeBlock(wire)
	assert.NoError(t, err)
	assert.Equal(t, uint32(tlv.LpPacket), outer.Type())

	fields, err := ndn.DecodeLpPacket(outer)
	assert.NoError(t, err)
	assert.Equal(t, fragment, fields.Fragment)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5}, fields.PitToken)
	assert.NotNil(t, fields.NackReason)
	assert.Equal(t, reason, *fields.NackReason)
}

func TestDecodeTypeLengthSizes(t *testing.T) {
	name, _ := ndn.NameFromString("/x")
	interest := ndn.NewInterest(name)
	wire, _ := interest.Encode()

	ttype, _, size, err := tlv.DecodeTypeLength(wire)
	assert.NoError(t, err)
	assert.Equal(t, uint32(tlv.Interest), ttype)
	assert.Equal(t, len(wire), size)
}
