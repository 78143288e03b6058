/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"encoding/binary"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/core/events"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/fw"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/ndn/tlv"
)

// NDNLPLinkService is a link service implementing a subset of NDNLPv2: each frame
// carries exactly one network-layer packet, optionally wrapped in an LpPacket bearing
// a PIT token and/or Nack header.
type NDNLPLinkService struct {
	linkServiceBase
}

// MakeNDNLPLinkService creates a new NDNLPv2 link service for the given transport.
func MakeNDNLPLinkService(transport transport) *NDNLPLinkService {
	l := new(NDNLPLinkService)
	l.makeLinkServiceBase()
	l.transport = transport
	l.transport.setLinkService(l)
	return l
}

// Run starts the face and associated goroutines.
func (l *NDNLPLinkService) Run() {
	if l.transport == nil {
		core.LogError(l, "Unable to start face due to unset transport")
		return
	}

	go l.transport.runReceive()
	go l.runSend()

	// Wait for the send side to quit
	<-l.hasImplQuit
	l.HasQuit <- true
}

func (l *NDNLPLinkService) runSend() {
	for {
		select {
		case packet := <-l.sendQueue:
			l.sendPacket(packet)
		case <-l.hasTransportQuit:
			l.hasImplQuit <- true
			return
		}
	}
}

func (l *NDNLPLinkService) sendPacket(packet *ndn.PendingPacket) {
	wire := packet.Wire
	if len(packet.PitToken) > 0 || packet.NackReason != nil {
		wire = ndn.EncodeLpPacket(&ndn.LpFields{
			Fragment:   packet.Wire,
			PitToken:   packet.PitToken,
			NackReason: packet.NackReason,
		})
	}

	if len(wire) > l.transport.MTU() {
		core.LogWarn(l, "Attempted to send frame larger than MTU - DROP")
		events.Telemetry().Emit(events.EventPacketSentError, events.PacketResult{
			LocalURI:  l.LocalURI().String(),
			RemoteURI: l.RemoteURI().String(),
			Size:      len(wire),
			Reason:    core.ErrFrameTooLarge.Error(),
		})
		return
	}

	l.nOutPackets++
	l.transport.sendFrame(wire)
}

// handleIncomingFrame processes a frame received by the transport. The transport has
// already verified that the frame is a single complete TLV element.
func (l *NDNLPLinkService) handleIncomingFrame(rawFrame []byte) {
	// Copy out of the transport's receive buffer so it can be reused
	wire := make([]byte, len(rawFrame))
	copy(wire, rawFrame)

	netPacket := new(ndn.PendingPacket)
	netPacket.IncomingFaceID = new(uint64)
	*netPacket.IncomingFaceID = l.faceID
	netPacket.Wire = wire

	ttype, _, _, err := tlv.DecodeTypeLength(wire)
	if err != nil {
		core.LogWarn(l, "Unable to decode received frame: ", err, " - DROP")
		return
	}

	if ttype == tlv.LpPacket {
		outer, _, err := tlv.DecodeBlock(wire)
		if err != nil {
			core.LogWarn(l, "Unable to decode received LpPacket: ", err, " - DROP")
			return
		}
		fields, err := ndn.DecodeLpPacket(outer)
		if err != nil {
			core.LogWarn(l, "Unable to decode received LpPacket: ", err, " - DROP")
			return
		}
		if len(fields.Fragment) == 0 {
			// IDLE packet
			return
		}
		netPacket.Wire = fields.Fragment
		netPacket.PitToken = fields.PitToken
		netPacket.NackReason = fields.NackReason

		ttype, _, _, err = tlv.DecodeTypeLength(netPacket.Wire)
		if err != nil {
			core.LogWarn(l, "Unable to decode received fragment: ", err, " - DROP")
			return
		}
	}

	l.nInPackets++
	l.dispatchIncomingPacket(ttype, netPacket)
}

func (l *NDNLPLinkService) dispatchIncomingPacket(ttype uint32, netPacket *ndn.PendingPacket) {
	switch ttype {
	case tlv.Interest:
		interest, err := ndn.DecodeInterest(netPacket.Wire)
		if err != nil {
			core.LogWarn(l, "Unable to decode received Interest: ", err, " - DROP")
			return
		}

		// A Nack carries an Interest fragment but is a response: it follows the Data path
		if netPacket.NackReason != nil {
			if len(netPacket.PitToken) == 6 {
				if fwThread := dispatch.GetFWThread(int(binary.BigEndian.Uint16(netPacket.PitToken))); fwThread != nil {
					fwThread.QueueData(netPacket)
					return
				}
			}
			dispatch.GetFWThread(fw.HashNameToFwThread(interest.Name())).QueueData(netPacket)
			return
		}

		thread := fw.HashNameToFwThread(interest.Name())
		fwThread := dispatch.GetFWThread(thread)
		if fwThread == nil {
			core.LogError(l, "No forwarding thread for Interest - DROP")
			return
		}
		fwThread.QueueInterest(netPacket)
	case tlv.Data:
		data, err := ndn.DecodeData(netPacket.Wire)
		if err != nil {
			core.LogWarn(l, "Unable to decode received Data: ", err, " - DROP")
			return
		}

		// If valid PIT token present, dispatch to that thread.
		if len(netPacket.PitToken) == 6 {
			thread := int(binary.BigEndian.Uint16(netPacket.PitToken))
			fwThread := dispatch.GetFWThread(thread)
			if fwThread != nil {
				fwThread.QueueData(netPacket)
				return
			}
			core.LogError(l, "Invalid PIT token attached to Data packet - DROP")
			return
		}

		// Data from a local producer carries no PIT token: dispatch to threads matching
		// every prefix of its name.
		if l.Scope() == defn.Local {
			for _, thread := range fw.HashNameToAllPrefixFwThreads(data.Name()) {
				dispatch.GetFWThread(thread).QueueData(netPacket)
			}
			return
		}

		thread := fw.HashNameToFwThread(data.Name())
		dispatch.GetFWThread(thread).QueueData(netPacket)
	default:
		core.LogWarn(l, "Received packet of unknown type ", ttype, " - DROP")
	}
}
