/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn_test

import (
	"testing"

	"github.com/named-data/minfd/defn"
	"github.com/stretchr/testify/assert"
)

func TestUDP(t *testing.T) {
	uri := defn.MakeUDPFaceURI(4, "192.0.2.1", 6363)
	assert.True(t, uri.IsCanonical())
	assert.Equal(t, "udp4", uri.Scheme())
	assert.Equal(t, "192.0.2.1", uri.Path())
	assert.Equal(t, uint16(6363), uri.Port())
	assert.Equal(t, "udp4://192.0.2.1:6363", uri.String())

	uri = defn.DecodeURIString("udp4://192.0.2.1:6363")
	assert.True(t, uri.IsCanonical())
	assert.Equal(t, "udp4://192.0.2.1:6363", uri.String())

	// An IPv6 address forces the udp6 scheme on canonization
	uri = defn.MakeUDPFaceURI(4, "2001:db8::1", 6363)
	assert.Equal(t, "udp6", uri.Scheme())
	assert.True(t, uri.IsCanonical())
	assert.Equal(t, "udp6://[2001:db8::1]:6363", uri.String())

	uri = defn.DecodeURIString("udp6://[2001:db8::1]:6363")
	assert.True(t, uri.IsCanonical())
	assert.Equal(t, "udp6", uri.Scheme())
	assert.Equal(t, "2001:db8::1", uri.PathHost())
	assert.Equal(t, uint16(6363), uri.Port())
}

func TestUDPNonCanonical(t *testing.T) {
	uri := defn.DecodeURIString("udp4://not an address:6363")
	assert.False(t, uri.IsCanonical())

	uri = defn.DecodeURIString("udp4://192.0.2.1")
	assert.False(t, uri.IsCanonical())
}

func TestNullAndInternal(t *testing.T) {
	uri := defn.MakeNullFaceURI()
	assert.True(t, uri.IsCanonical())
	assert.Equal(t, "null://", uri.String())

	uri = defn.MakeInternalFaceURI()
	assert.True(t, uri.IsCanonical())
	assert.Equal(t, "internal://", uri.String())
}
