//go:build linux

/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package impl

import (
	"strconv"
	"syscall"

	"github.com/named-data/minfd/core"
	"golang.org/x/sys/unix"
)

// SyscallGetSocketSendQueueSize returns the current size of the send queue on the specified socket.
func SyscallGetSocketSendQueueSize(c syscall.RawConn) uint64 {
	var val int
	c.Control(func(fd uintptr) {
		var err error
		val, err = unix.IoctlGetInt(int(fd), unix.SIOCOUTQ)
		if err != nil {
			core.LogWarn("Face-Syscall", "Unable to get size of socket send queue for fd="+strconv.Itoa(int(fd))+": "+err.Error())
			val = 0
		}
	})
	return uint64(val)
}

// SyscallDisablePMTUDiscovery disables path MTU discovery on an IPv4 datagram socket.
// The kernel would otherwise set the DF flag on outgoing datagrams; the forwarder cannot
// fragment at the packet layer, so routers along the path must be allowed to.
func SyscallDisablePMTUDiscovery(c syscall.RawConn) error {
	var err error
	c.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MTU_DISCOVER, unix.IP_PMTUDISC_DONT)
	})
	return err
}

// SyscallDisableMulticastLoop disables loopback of outgoing multicast datagrams.
func SyscallDisableMulticastLoop(c syscall.RawConn) error {
	var err error
	c.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MULTICAST_LOOP, 0)
	})
	return err
}

// SyscallBindToDevice binds the socket to the named device so that it receives only
// traffic arriving on its own interface.
func SyscallBindToDevice(c syscall.RawConn, device string) error {
	var err error
	c.Control(func(fd uintptr) {
		err = unix.SetsockoptString(int(fd), unix.SOL_SOCKET, unix.SO_BINDTODEVICE, device)
	})
	return err
}
