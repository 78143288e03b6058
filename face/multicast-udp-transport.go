/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"net"
	"strconv"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/core/events"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/face/impl"
	"github.com/named-data/minfd/netmon"
)

// MulticastUDPTransport is a multicast UDP transport. It uses separate send and receive
// sockets sharing one port; the send socket has multicast loopback disabled and is bound
// to its device so it carries only traffic for its own interface.
type MulticastUDPTransport struct {
	transportBase

	dialer    *net.Dialer
	sendConn  *net.UDPConn
	recvConn  *net.UDPConn
	groupAddr net.UDPAddr
	localAddr net.UDPAddr
	localIf   *net.Interface
}

// MakeMulticastUDPTransport creates a new multicast UDP transport. IPv6 multicast groups
// are not supported.
func MakeMulticastUDPTransport(localURI *defn.URI) (*MulticastUDPTransport, error) {
	// Validate local URI
	localURI.Canonize()
	if !localURI.IsCanonical() || localURI.Scheme() != "udp4" {
		return nil, core.ErrNotCanonical
	}

	t := new(MulticastUDPTransport)
	// Get local interface
	ni := netmon.GetMonitor().InterfaceByIP(net.ParseIP(localURI.PathHost()))
	if ni == nil {
		return nil, errors.New("no interface for local URI " + localURI.String())
	}
	localIf, err := net.InterfaceByName(ni.Name())
	if err != nil {
		return nil, errors.New("unable to get interface " + ni.Name() + ": " + err.Error())
	}
	t.localIf = localIf

	t.makeTransportBase(
		defn.DecodeURIString("udp4://"+udp4MulticastAddress+":"+
			strconv.FormatUint(uint64(UDPMulticastPort), 10)),
		localURI, PersistencyPermanent, defn.NonLocal, defn.MultiAccess, core.MaxNDNPacketSize)
	t.interfaceName = ni.Name()

	// Format group and local addresses
	t.groupAddr.IP = net.ParseIP(t.remoteURI.PathHost())
	t.groupAddr.Port = int(t.remoteURI.Port())
	t.localAddr.IP = net.ParseIP(t.localURI.PathHost())
	t.localAddr.Port = int(t.remoteURI.Port())

	// Configure dialer so we can allow address reuse. Both sockets must share the port.
	t.dialer = &net.Dialer{LocalAddr: &t.localAddr, Control: impl.SyscallReuseAddr}

	if err := t.connectSend(); err != nil {
		return nil, err
	}
	if err := t.connectRecv(); err != nil {
		t.sendConn.Close()
		return nil, err
	}

	t.changeState(defn.Up)
	return t, nil
}

func (t *MulticastUDPTransport) connectSend() error {
	sendConn, err := t.dialer.Dial(t.remoteURI.Scheme(), t.groupAddr.String())
	if err != nil {
		return errors.New("unable to create send connection to group address: " + err.Error())
	}
	t.sendConn = sendConn.(*net.UDPConn)

	// The forwarder answers its own group traffic otherwise
	if rawConn, err := t.sendConn.SyscallConn(); err == nil {
		if err := impl.SyscallDisableMulticastLoop(rawConn); err != nil {
			core.LogWarn(t, "Failed to disable multicast loopback: ", err)
		}
		if err := impl.SyscallBindToDevice(rawConn, t.localIf.Name); err != nil {
			core.LogWarn(t, "Failed to bind send socket to ", t.localIf.Name, ": ", err)
		}
	}
	return nil
}

func (t *MulticastUDPTransport) connectRecv() error {
	var err error
	t.recvConn, err = net.ListenMulticastUDP(t.remoteURI.Scheme(), t.localIf, &t.groupAddr)
	if err != nil {
		return errors.New("unable to create receive connection for group address on " +
			t.localIf.Name + ": " + err.Error())
	}
	return nil
}

func (t *MulticastUDPTransport) String() string {
	return "MulticastUDPTransport, FaceID=" + strconv.FormatUint(t.faceID, 10) +
		", RemoteURI=" + t.remoteURI.String() + ", LocalURI=" + t.localURI.String()
}

// SetPersistency changes the persistency of the face. Multicast faces are always permanent.
func (t *MulticastUDPTransport) SetPersistency(persistency Persistency) bool {
	return persistency == PersistencyPermanent
}

// GetSendQueueSize returns the current size of the send queue.
func (t *MulticastUDPTransport) GetSendQueueSize() uint64 {
	rawConn, err := t.sendConn.SyscallConn()
	if err != nil {
		core.LogWarn(t, "Unable to get raw connection to get socket length: ", err)
		return 0
	}
	return impl.SyscallGetSocketSendQueueSize(rawConn)
}

func (t *MulticastUDPTransport) sendFrame(frame []byte) {
	if len(frame) > t.MTU() {
		core.LogWarn(t, "Attempted to send frame larger than MTU - DROP")
		return
	}

	_, err := t.sendConn.Write(frame)
	if err != nil {
		// Permanent face: drop the frame, recreate the send socket, carry on
		core.LogWarn(t, "Unable to send on socket - DROP: ", err)
		events.Telemetry().Emit(events.EventPacketSentError, events.PacketResult{
			LocalURI:  t.localURI.String(),
			RemoteURI: t.remoteURI.String(),
			Size:      len(frame),
			Reason:    err.Error(),
		})
		t.sendConn.Close()
		if err := t.connectSend(); err != nil {
			core.LogError(t, err)
		}
		return
	}
	t.nOutBytes += uint64(len(frame))
}

func (t *MulticastUDPTransport) runReceive() {
	recvBuf := getFrameBuffer()
	defer returnFrameBuffer(recvBuf)
	for {
		readSize, _, err := t.recvConn.ReadFromUDP(recvBuf)
		if err != nil {
			if t.state == defn.Closing || t.state == defn.Closed || core.ShouldQuit {
				return
			}
			// Permanent face: recreate the receive socket
			core.LogWarn(t, "Unable to read from socket (", err, ") - recreating socket")
			t.recvConn.Close()
			if err := t.connectRecv(); err != nil {
				core.LogError(t, err)
				t.changeState(defn.Down)
				return
			}
			continue
		}

		t.nInBytes += uint64(readSize)

		if !frameIsWellFormed(recvBuf, readSize) {
			core.LogInfo(t, "Received datagram that is not a single TLV element - DROP")
			events.Telemetry().Emit(events.EventPacketReceivedError, events.PacketResult{
				LocalURI:  t.localURI.String(),
				RemoteURI: t.remoteURI.String(),
				Size:      readSize,
				Reason:    "framing",
			})
			continue
		}

		t.markRecentUsage()
		t.linkService.handleIncomingFrame(recvBuf[:readSize])
	}
}

// Close closes the transport.
func (t *MulticastUDPTransport) Close() {
	if t.state == defn.Up || t.state == defn.Down {
		t.changeState(defn.Closing)
	}
}

func (t *MulticastUDPTransport) changeState(new defn.State) {
	if t.state == new {
		return
	}
	core.LogInfo(t, "state: ", t.state, " -> ", new)
	t.state = new

	if t.state != defn.Up {
		t.sendConn.Close()
		t.recvConn.Close()
		t.state = defn.Closed
		t.hasQuit <- true
		if t.linkService != nil {
			t.linkService.tellTransportQuit()
			EmitFaceEvent(FaceEventDestroyed, t.linkService)
		}
		FaceTable.Remove(t.faceID)
	}
}
