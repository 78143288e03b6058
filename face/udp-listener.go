/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"context"
	"net"
	"strconv"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/face/impl"
	"github.com/named-data/minfd/ndn/tlv"
)

// UDPListener listens for incoming UDP unicast connections and creates on-demand faces
// for new remote endpoints.
type UDPListener struct {
	conn     net.PacketConn
	localURI *defn.URI
	HasQuit  chan bool
}

// MakeUDPListener constructs a UDPListener.
func MakeUDPListener(localURI *defn.URI) (*UDPListener, error) {
	localURI.Canonize()
	if !localURI.IsCanonical() || (localURI.Scheme() != "udp4" && localURI.Scheme() != "udp6") {
		return nil, core.ErrNotCanonical
	}

	l := new(UDPListener)
	l.localURI = localURI
	l.HasQuit = make(chan bool, 1)
	return l, nil
}

func (l *UDPListener) String() string {
	return "UDPListener, " + l.localURI.String()
}

// Run starts the UDP listener.
func (l *UDPListener) Run() {
	// Create listener with address reuse so faces can share the port
	listenConfig := &net.ListenConfig{Control: impl.SyscallReuseAddr}

	var err error
	var local string
	if l.localURI.Scheme() == "udp4" {
		local = l.localURI.PathHost() + ":" + strconv.Itoa(int(l.localURI.Port()))
	} else {
		local = "[" + l.localURI.Path() + "]:" + strconv.Itoa(int(l.localURI.Port()))
	}
	l.conn, err = listenConfig.ListenPacket(context.Background(), l.localURI.Scheme(), local)
	if err != nil {
		core.LogError(l, "Unable to start UDP listener: ", err)
		l.HasQuit <- true
		return
	}

	// Run accept loop
	recvBuf := getFrameBuffer()
	defer returnFrameBuffer(recvBuf)
	for !core.ShouldQuit {
		readSize, remoteAddr, err := l.conn.ReadFrom(recvBuf)
		if err != nil {
			core.LogWarn(l, "Unable to read from socket (", err, ") - stopping listener")
			break
		}

		// Construct remote URI
		host, port, err := net.SplitHostPort(remoteAddr.String())
		if err != nil {
			core.LogWarn(l, "Unable to create face from ", remoteAddr, ": could not split host from port")
			continue
		}
		portInt, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			core.LogWarn(l, "Unable to create face from ", remoteAddr, ": invalid port")
			continue
		}
		ipVersion := 4
		if l.localURI.Scheme() == "udp6" {
			ipVersion = 6
		}
		remoteURI := defn.MakeUDPFaceURI(ipVersion, host, uint16(portInt))
		remoteURI.Canonize()
		if !remoteURI.IsCanonical() {
			core.LogWarn(l, "Unable to create face from ", remoteURI, ": remote URI is not canonical")
			continue
		}

		// Every frame must be a single complete TLV element
		_, _, tlvSize, err := tlv.DecodeTypeLength(recvBuf[:readSize])
		if err != nil || tlvSize != readSize {
			core.LogDebug(l, "Received non-TLV datagram from ", remoteAddr, " - DROP")
			continue
		}

		// A face may already exist for this remote (e.g. two initial packets racing)
		if existing := FaceTable.GetByURI(remoteURI); existing != nil {
			existing.handleIncomingFrame(recvBuf[:readSize])
			continue
		}

		newTransport, err := MakeUnicastUDPTransport(remoteURI, l.localURI, PersistencyOnDemand)
		if err != nil {
			core.LogError(l, "Failed to create new unicast UDP transport: ", err)
			continue
		}
		newLinkService := MakeNDNLPLinkService(newTransport)

		// Add face to table and start its thread
		FaceTable.Add(newLinkService)
		go newLinkService.Run()

		// Pass the first frame to the link service for processing
		newLinkService.handleIncomingFrame(recvBuf[:readSize])
	}

	l.conn.Close()
	l.HasQuit <- true
}

// Close stops the listener.
func (l *UDPListener) Close() {
	if l.conn != nil {
		l.conn.Close()
	}
}
