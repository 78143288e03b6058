/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/core/events"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/face/impl"
	"github.com/named-data/minfd/netmon"
)

// UnicastUDPTransport is a unicast UDP transport.
type UnicastUDPTransport struct {
	transportBase

	mutex      sync.Mutex
	conn       *net.UDPConn
	remoteAddr net.UDPAddr
	localAddr  net.UDPAddr
	localPort  uint16
	hasAddress bool

	ni            *netmon.NetworkInterface
	subscriptions []io.Closer

	clk         clock.Clock
	idleTimeout time.Duration
	closeIfIdle *clock.Timer

	rearmReceive chan bool
}

// MakeUnicastUDPTransport creates a unicast UDP transport bound to the given local URI,
// e.g. for a remote endpoint first seen by a listener.
func MakeUnicastUDPTransport(remoteURI *defn.URI, localURI *defn.URI,
	persistency Persistency) (*UnicastUDPTransport, error) {
	// Validate URIs
	remoteURI.Canonize()
	localURI.Canonize()
	if !remoteURI.IsCanonical() || !localURI.IsCanonical() ||
		(remoteURI.Scheme() != "udp4" && remoteURI.Scheme() != "udp6") ||
		remoteURI.Scheme() != localURI.Scheme() {
		return nil, core.ErrNotCanonical
	}

	t := new(UnicastUDPTransport)
	t.makeTransportBase(remoteURI, localURI, persistency, defn.NonLocal, defn.PointToPoint,
		core.MaxNDNPacketSize)
	t.clk = clock.New()
	t.idleTimeout = udpIdleTimeout
	t.rearmReceive = make(chan bool, 1)
	t.localPort = localURI.Port()
	t.remoteAddr.IP = net.ParseIP(remoteURI.PathHost())
	t.remoteAddr.Port = int(remoteURI.Port())
	t.remoteAddr.Zone = remoteURI.PathZone()

	t.ni = netmon.GetMonitor().InterfaceByIP(net.ParseIP(localURI.PathHost()))
	if t.ni != nil {
		t.interfaceName = t.ni.Name()
		t.subscribeInterfaceSignals()
	}

	local := net.UDPAddr{IP: net.ParseIP(localURI.PathHost()), Port: int(localURI.Port()),
		Zone: localURI.PathZone()}
	if err := t.rebindSocket(local); err != nil {
		return nil, err
	}
	t.hasAddress = true
	t.changeState(defn.Up)

	if t.persistency == PersistencyOnDemand && t.idleTimeout > 0 {
		t.scheduleClosureWhenIdle()
	}
	return t, nil
}

// MakeInterfaceBoundUnicastUDPTransport creates a permanent unicast UDP transport bound
// to a network interface: it picks its local address from the interface and follows the
// interface through address and state changes.
func MakeInterfaceBoundUnicastUDPTransport(remoteURI *defn.URI, localPort uint16,
	ni *netmon.NetworkInterface) (*UnicastUDPTransport, error) {
	remoteURI.Canonize()
	if !remoteURI.IsCanonical() || (remoteURI.Scheme() != "udp4" && remoteURI.Scheme() != "udp6") {
		return nil, core.ErrNotCanonical
	}

	t := new(UnicastUDPTransport)
	ipVersion := 4
	if remoteURI.Scheme() == "udp6" {
		ipVersion = 6
	}
	localURI := defn.MakeUDPFaceURI(ipVersion, ni.Name(), localPort)
	t.makeTransportBase(remoteURI, localURI, PersistencyPermanent, defn.NonLocal,
		defn.PointToPoint, ni.MTU())
	t.clk = clock.New()
	t.rearmReceive = make(chan bool, 1)
	t.localPort = localPort
	t.remoteAddr.IP = net.ParseIP(remoteURI.PathHost())
	t.remoteAddr.Port = int(remoteURI.Port())
	t.remoteAddr.Zone = remoteURI.PathZone()

	t.ni = ni
	t.interfaceName = ni.Name()
	t.subscribeInterfaceSignals()

	t.changeSocketLocalAddress()
	return t, nil
}

func (t *UnicastUDPTransport) String() string {
	return "UnicastUDPTransport, FaceID=" + strconv.FormatUint(t.faceID, 10) +
		", RemoteURI=" + t.remoteURI.String() + ", LocalURI=" + t.localURI.String()
}

// SetPersistency changes the persistency of the face.
func (t *UnicastUDPTransport) SetPersistency(persistency Persistency) bool {
	if persistency == t.persistency {
		return true
	}
	t.persistency = persistency
	if persistency == PersistencyOnDemand && t.idleTimeout > 0 {
		t.scheduleClosureWhenIdle()
	} else if t.closeIfIdle != nil {
		t.closeIfIdle.Stop()
		t.expirationTime = nil
	}
	return true
}

// GetSendQueueSize returns the current size of the send queue.
func (t *UnicastUDPTransport) GetSendQueueSize() uint64 {
	t.mutex.Lock()
	conn := t.conn
	t.mutex.Unlock()
	if conn == nil {
		return 0
	}
	rawConn, err := conn.SyscallConn()
	if err != nil {
		core.LogWarn(t, "Unable to get raw connection to get socket length: ", err)
		return 0
	}
	return impl.SyscallGetSocketSendQueueSize(rawConn)
}

func (t *UnicastUDPTransport) subscribeInterfaceSignals() {
	t.subscriptions = append(t.subscriptions,
		t.ni.OnStateChanged(t.handleInterfaceStateChanged),
		t.ni.OnAddressAdded(t.handleAddressAdded),
		t.ni.OnAddressRemoved(t.handleAddressRemoved))
}

func (t *UnicastUDPTransport) unsubscribeInterfaceSignals() {
	for _, subscription := range t.subscriptions {
		subscription.Close()
	}
	t.subscriptions = nil
}

// rebindSocket closes the current socket (cancelling outstanding operations), opens a
// new one with address reuse bound to the given local endpoint, connects it to the
// remote endpoint, and re-arms the receive loop.
func (t *UnicastUDPTransport) rebindSocket(localAddr net.UDPAddr) error {
	t.closeSocket()

	t.localAddr = localAddr
	dialer := &net.Dialer{LocalAddr: &t.localAddr, Control: impl.SyscallReuseAddr}
	remote := net.JoinHostPort(t.remoteAddr.IP.String(), strconv.Itoa(t.remoteAddr.Port))
	conn, err := dialer.Dial(t.remoteURI.Scheme(), remote)
	if err != nil {
		core.LogError(t, "Unable to connect socket from ", localAddr.String(), " to ",
			remote, ": ", err)
		return err
	}

	t.mutex.Lock()
	t.conn = conn.(*net.UDPConn)
	t.mutex.Unlock()

	if t.remoteURI.Scheme() == "udp4" {
		// Keep the kernel from setting DF on outgoing datagrams so in-network
		// fragmentation can happen
		if rawConn, err := t.conn.SyscallConn(); err == nil {
			if err := impl.SyscallDisablePMTUDiscovery(rawConn); err != nil {
				core.LogWarn(t, "Failed to disable path MTU discovery: ", err)
			}
		}
	}

	select {
	case t.rearmReceive <- true:
	default:
	}
	return nil
}

// closeSocket cancels outstanding operations and closes the current socket, if any.
// Uses the non-throwing close; cancelled handlers observe net.ErrClosed and return.
func (t *UnicastUDPTransport) closeSocket() {
	t.mutex.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.mutex.Unlock()
}

// changeSocketLocalAddress picks the first suitable address of the transport's family
// from the interface and rebinds to it. With no suitable address, the transport goes down.
func (t *UnicastUDPTransport) changeSocketLocalAddress() {
	var candidates []net.IP
	ipVersion := 4
	if t.remoteURI.Scheme() == "udp6" {
		candidates = t.ni.IPv6Addresses()
		ipVersion = 6
	} else {
		candidates = t.ni.IPv4Addresses()
	}

	var address net.IP
	for _, addr := range candidates {
		if !addr.IsLoopback() && !addr.IsMulticast() && !addr.IsLinkLocalUnicast() {
			address = addr
			break
		}
	}

	if address == nil {
		core.LogInfo(t, "No suitable local address on ", t.ni.Name())
		if t.state != defn.Closing && t.state != defn.Closed {
			t.changeState(defn.Down)
		}
		return
	}

	core.LogInfo(t, "Changing local address to ", address)
	if err := t.rebindSocket(net.UDPAddr{IP: address, Port: int(t.localPort)}); err != nil {
		return
	}
	t.hasAddress = true
	t.localURI = defn.MakeUDPFaceURI(ipVersion, address.String(), t.localPort)
	if t.state != defn.Up {
		t.changeState(defn.Up)
	}
}

func (t *UnicastUDPTransport) handleInterfaceStateChanged(old netmon.InterfaceState,
	new netmon.InterfaceState) {
	if t.state == defn.Closing || t.state == defn.Closed {
		return
	}
	if new == netmon.InterfaceRunning {
		if !t.hasAddress {
			t.changeSocketLocalAddress()
		} else if t.state != defn.Up {
			t.changeState(defn.Up)
		}
	} else {
		t.changeState(defn.Down)
	}
}

func (t *UnicastUDPTransport) handleAddressAdded(address net.IP) {
	if !t.hasAddress {
		t.changeSocketLocalAddress()
	}
}

func (t *UnicastUDPTransport) handleAddressRemoved(address net.IP) {
	if t.hasAddress && t.localAddr.IP.Equal(address) {
		t.hasAddress = false
		t.changeSocketLocalAddress()
	}
}

// scheduleClosureWhenIdle arms the periodic idle check for on-demand faces.
func (t *UnicastUDPTransport) scheduleClosureWhenIdle() {
	t.closeIfIdle = t.clk.AfterFunc(t.idleTimeout, func() {
		if !t.hasBeenUsedRecently() {
			core.LogInfo(t, "Closing due to inactivity")
			t.Close()
		} else {
			t.resetRecentUsage()
			t.scheduleClosureWhenIdle()
		}
	})
	expirationTime := t.clk.Now().Add(t.idleTimeout)
	t.expirationTime = &expirationTime
}

func (t *UnicastUDPTransport) sendFrame(frame []byte) {
	if len(frame) > t.MTU() {
		core.LogWarn(t, "Attempted to send frame larger than MTU - DROP")
		return
	}

	t.mutex.Lock()
	conn := t.conn
	t.mutex.Unlock()
	if conn == nil || t.state == defn.Down {
		// The retry timer will re-issue the packet once the transport recovers
		core.LogDebug(t, "Attempted to send frame on down transport - DROP")
		return
	}

	_, err := conn.Write(frame)
	if err != nil {
		events.Telemetry().Emit(events.EventPacketSentError, events.PacketResult{
			LocalURI:  t.localURI.String(),
			RemoteURI: t.remoteURI.String(),
			Size:      len(frame),
			Reason:    err.Error(),
		})
		t.processError(err)
		return
	}
	t.nOutBytes += uint64(len(frame))
}

func (t *UnicastUDPTransport) runReceive() {
	for {
		t.mutex.Lock()
		conn := t.conn
		t.mutex.Unlock()

		if conn == nil {
			if t.state == defn.Closed || t.state == defn.Failed || core.ShouldQuit {
				return
			}
			// Wait for a rebind to re-arm the receive loop
			<-t.rearmReceive
			continue
		}

		t.receiveOn(conn)

		if t.state == defn.Closed || t.state == defn.Failed || core.ShouldQuit {
			return
		}
	}
}

func (t *UnicastUDPTransport) receiveOn(conn *net.UDPConn) {
	recvBuf := getFrameBuffer()
	defer returnFrameBuffer(recvBuf)
	for {
		readSize, err := conn.Read(recvBuf)
		if err != nil {
			t.processError(err)
			return
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
			// This packet won't extend the face lifetime
			continue
		}

		t.markRecentUsage()
		t.linkService.handleIncomingFrame(recvBuf[:readSize])
	}
}

// processError applies the transport error policy: cancellations are ignored, permanent
// faces swallow errors, anything else fails the transport.
func (t *UnicastUDPTransport) processError(err error) {
	if t.state == defn.Closing || t.state == defn.Failed || t.state == defn.Closed {
		return
	}
	if errors.Is(err, net.ErrClosed) {
		// Operation aborted by a rebind or close
		return
	}
	if t.persistency == PersistencyPermanent {
		core.LogDebug(t, "Permanent face ignores error: ", err)
		return
	}
	if !errors.Is(err, io.EOF) {
		core.LogWarn(t, "Send or receive operation failed: ", err)
	}
	t.changeState(defn.Failed)
}

// Close closes the transport.
func (t *UnicastUDPTransport) Close() {
	if t.state == defn.Up || t.state == defn.Down {
		t.changeState(defn.Closing)
	}
}

func (t *UnicastUDPTransport) changeState(new defn.State) {
	if t.state == new {
		return
	}
	core.LogInfo(t, "state: ", t.state, " -> ", new)
	t.state = new

	switch new {
	case defn.Up:
		if t.linkService != nil {
			EmitFaceEvent(FaceEventUp, t.linkService)
		}
	case defn.Down:
		t.hasAddress = false
		t.closeSocket()
		if t.linkService != nil {
			EmitFaceEvent(FaceEventDown, t.linkService)
		}
	case defn.Closing, defn.Failed:
		t.closeSocket()
		// Leave final closure to a separate goroutine so in-flight handlers drain first
		go t.changeState(defn.Closed)
	case defn.Closed:
		if t.closeIfIdle != nil {
			t.closeIfIdle.Stop()
		}
		t.unsubscribeInterfaceSignals()
		select {
		case t.rearmReceive <- true:
		default:
		}
		t.hasQuit <- true
		if t.linkService != nil {
			t.linkService.tellTransportQuit()
			EmitFaceEvent(FaceEventDestroyed, t.linkService)
		}
		FaceTable.Remove(t.faceID)
	}
}
