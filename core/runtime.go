/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "time"

// Version of MINFD.
var Version string

// BuildTime contains the timestamp of when this version of MINFD was built.
var BuildTime string

// StartTimestamp is the time the forwarder was started.
var StartTimestamp time.Time

// ShouldQuit indicates whether all long-running goroutines should quit.
var ShouldQuit bool

// NumForwardingThreads is the number of forwarding threads.
var NumForwardingThreads int

// MaxNDNPacketSize is the maximum allowed NDN packet size.
const MaxNDNPacketSize = 8800

// FaceQueueSize is the maximum number of packets that can be buffered to be sent or received on a face.
const FaceQueueSize = 1024
