//go:build !linux

/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package impl

import "syscall"

// SyscallGetSocketSendQueueSize returns the current size of the send queue on the
// specified socket. Not supported on this platform.
func SyscallGetSocketSendQueueSize(c syscall.RawConn) uint64 {
	return 0
}

// SyscallDisablePMTUDiscovery disables path MTU discovery. Not needed on this platform.
func SyscallDisablePMTUDiscovery(c syscall.RawConn) error {
	return nil
}

// SyscallDisableMulticastLoop disables loopback of outgoing multicast datagrams.
// Not supported on this platform.
func SyscallDisableMulticastLoop(c syscall.RawConn) error {
	return nil
}

// SyscallBindToDevice binds the socket to the named device. Not supported on this platform.
func SyscallBindToDevice(c syscall.RawConn, device string) error {
	return nil
}
