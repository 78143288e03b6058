/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/fw"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/ndn/tlv"
	"github.com/stretchr/testify/assert"
)

// stubTransport is an in-memory transport for link service tests.
type stubTransport struct {
	transportBase
	sentFrames [][]byte
}

func newStubTransport() *stubTransport {
	t := new(stubTransport)
	t.makeTransportBase(defn.MakeNullFaceURI(), defn.MakeNullFaceURI(),
		PersistencyPersistent, defn.NonLocal, defn.PointToPoint, core.MaxNDNPacketSize)
	t.state = defn.Up
	return t
}

func (t *stubTransport) String() string {
	return "StubTransport"
}

func (t *stubTransport) SetPersistency(persistency Persistency) bool {
	return true
}

func (t *stubTransport) GetSendQueueSize() uint64 {
	return 0
}

func (t *stubTransport) runReceive() {}

func (t *stubTransport) sendFrame(frame []byte) {
	copied := make([]byte, len(frame))
	copy(copied, frame)
	t.sentFrames = append(t.sentFrames, copied)
}

func (t *stubTransport) changeState(new defn.State) {
	t.state = new
}

func (t *stubTransport) Close() {}

// stubFWThread captures packets dispatched to forwarding.
type stubFWThread struct {
	interests []*ndn.PendingPacket
	datas     []*ndn.PendingPacket
}

func (s *stubFWThread) String() string {
	return "StubFWThread"
}

func (s *stubFWThread) QueueInterest(packet *ndn.PendingPacket) {
	s.interests = append(s.interests, packet)
}

func (s *stubFWThread) QueueData(packet *ndn.PendingPacket) {
	s.datas = append(s.datas, packet)
}

func setupStubForwarding() *stubFWThread {
	stub := new(stubFWThread)
	fw.Threads = map[int]*fw.Thread{0: nil}
	dispatch.AddFWThread(0, stub)
	return stub
}

func TestFrameIsWellFormed(t *testing.T) {
	// A buffer holding exactly one TLV element of the full datagram size is accepted
	frame := make([]byte, core.MaxNDNPacketSize)
	header := tlv.EncodeVarNum(nil, tlv.Data)
	header = tlv.EncodeVarNum(header, uint64(core.MaxNDNPacketSize-4))
	assert.Len(t, header, 4)
	copy(frame, header)
	assert.True(t, frameIsWellFormed(frame, core.MaxNDNPacketSize))

	// One byte short of the decoded element length is rejected
	assert.False(t, frameIsWellFormed(frame, core.MaxNDNPacketSize-1))

	// A 1500-byte datagram whose element decodes to 1400 bytes is rejected
	frame = make([]byte, 1500)
	header = tlv.EncodeVarNum(nil, tlv.Data)
	header = tlv.EncodeVarNum(header, uint64(1400-4))
	copy(frame, header)
	assert.False(t, frameIsWellFormed(frame, 1500))
	assert.True(t, frameIsWellFormed(frame, 1400))

	// Garbage is rejected rather than crashing
	assert.False(t, frameIsWellFormed([]byte{0xFD}, 1))
}

func TestLinkServiceDispatchInterest(t *testing.T) {
	stub := setupStubForwarding()
	transport := newStubTransport()
	linkService := MakeNDNLPLinkService(transport)
	linkService.SetFaceID(7)

	name, _ := ndn.NameFromString("/test/dispatch")
	wire, _ := ndn.NewInterest(name).Encode()
	linkService.handleIncomingFrame(wire)

	assert.Len(t, stub.interests, 1)
	assert.Empty(t, stub.datas)
	assert.Equal(t, uint64(7), *stub.interests[0].IncomingFaceID)
}

func TestLinkServiceDispatchDataWithPitToken(t *testing.T) {
	stub := setupStubForwarding()
	transport := newStubTransport()
	linkService := MakeNDNLPLinkService(transport)
	linkService.SetFaceID(7)

	name, _ := ndn.NameFromString("/test/data")
	dataWire, _ := ndn.NewData(name, []byte("x")).Encode()
	pitToken := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}
	frame := ndn.EncodeLpPacket(&ndn.LpFields{Fragment: dataWire, PitToken: pitToken})
	linkService.handleIncomingFrame(frame)

	assert.Len(t, stub.datas, 1)
	assert.Equal(t, pitToken, stub.datas[0].PitToken)
}

func TestLinkServiceDispatchNackAsResponse(t *testing.T) {
	stub := setupStubForwarding()
	transport := newStubTransport()
	linkService := MakeNDNLPLinkService(transport)
	linkService.SetFaceID(7)

	name, _ := ndn.NameFromString("/test/nack")
	interestWire, _ := ndn.NewInterest(name).Encode()
	reason := uint64(tlv.NackReasonNoRoute)
	frame := ndn.EncodeLpPacket(&ndn.LpFields{Fragment: interestWire, NackReason: &reason})
	linkService.handleIncomingFrame(frame)

	// A Nack must never enter the Interest pipeline
	assert.Empty(t, stub.interests)
	assert.Len(t, stub.datas, 1)
	assert.NotNil(t, stub.datas[0].NackReason)
}

func TestLinkServiceSendWrapsPitToken(t *testing.T) {
	transport := newStubTransport()
	linkService := MakeNDNLPLinkService(transport)

	name, _ := ndn.NameFromString("/test/out")
	wire, _ := ndn.NewInterest(name).Encode()
	packet := &ndn.PendingPacket{Wire: wire, PitToken: []byte{0, 0, 0, 0, 0, 1}}
	linkService.sendPacket(packet)

	assert.Len(t, transport.sentFrames, 1)
	outer, _, err := tlv.DecodeBlock(transport.sentFrames[0])
	assert.NoError(t, err)
	assert.Equal(t, uint32(tlv.LpPacket), outer.Type())

	fields, err := ndn.DecodeLpPacket(outer)
	assert.NoError(t, err)
	assert.Equal(t, wire, fields.Fragment)
	assert.Equal(t, packet.PitToken, fields.PitToken)
}

func TestLinkServiceDropsOversizedFrame(t *testing.T) {
	transport := newStubTransport()
	transport.SetMTU(100)
	linkService := MakeNDNLPLinkService(transport)

	packet := &ndn.PendingPacket{Wire: make([]byte, 200)}
	linkService.sendPacket(packet)
	assert.Empty(t, transport.sentFrames)
}

func TestIdleClosure(t *testing.T) {
	clk := clock.NewMock()
	transport := new(UnicastUDPTransport)
	transport.makeTransportBase(defn.MakeUDPFaceURI(4, "192.0.2.1", 6363),
		defn.MakeUDPFaceURI(4, "192.0.2.2", 6363), PersistencyOnDemand, defn.NonLocal,
		defn.PointToPoint, core.MaxNDNPacketSize)
	transport.state = defn.Up
	transport.clk = clk
	transport.idleTimeout = 30 * time.Second
	transport.rearmReceive = make(chan bool, 1)
	transport.scheduleClosureWhenIdle()

	// A packet arrives at 25s: at the 30s check the face stays open and the latch clears
	clk.Add(25 * time.Second)
	transport.markRecentUsage()
	clk.Add(5 * time.Second)
	assert.NotEqual(t, defn.Closed, transport.State())
	assert.False(t, transport.hasBeenUsedRecently())

	// No further activity: the rescheduled check at 60s closes the face
	clk.Add(30 * time.Second)
	assert.Eventually(t, func() bool {
		return transport.State() == defn.Closed
	}, time.Second, 10*time.Millisecond)
}

func TestIdleClosureClosesQuietFace(t *testing.T) {
	clk := clock.NewMock()
	transport := new(UnicastUDPTransport)
	transport.makeTransportBase(defn.MakeUDPFaceURI(4, "192.0.2.1", 6363),
		defn.MakeUDPFaceURI(4, "192.0.2.2", 6363), PersistencyOnDemand, defn.NonLocal,
		defn.PointToPoint, core.MaxNDNPacketSize)
	transport.state = defn.Up
	transport.clk = clk
	transport.idleTimeout = 30 * time.Second
	transport.rearmReceive = make(chan bool, 1)
	transport.scheduleClosureWhenIdle()

	clk.Add(30 * time.Second)
	assert.Eventually(t, func() bool {
		return transport.State() == defn.Closed
	}, time.Second, 10*time.Millisecond)
}
