/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"time"

	"github.com/named-data/minfd/core"
	"github.com/zjkmxy/stealthpool"
)

// UDPUnicastPort is the port used for unicast UDP faces.
var UDPUnicastPort uint16

// UDPMulticastPort is the port used for multicast UDP faces.
var UDPMulticastPort uint16

// udp4MulticastAddress is the group address for IPv4 multicast UDP faces.
var udp4MulticastAddress string

// udpIdleTimeout is the idle timeout applied to on-demand UDP faces.
var udpIdleTimeout time.Duration

const frameBlockCount = 512

var framePool *stealthpool.Pool

// Configure configures the face system from the loaded configuration.
func Configure() {
	UDPUnicastPort = core.GetConfigUint16Default("faces.udp.port", 6363)
	UDPMulticastPort = core.GetConfigUint16Default("faces.udp.multicast_port", 56363)
	udp4MulticastAddress = core.GetConfigStringDefault("faces.udp.multicast_address", "224.0.23.170")
	udpIdleTimeout = time.Duration(core.GetConfigIntDefault("faces.udp.idle_timeout_s", 600)) * time.Second

	pool, err := stealthpool.New(frameBlockCount, stealthpool.WithBlockSize(core.MaxNDNPacketSize))
	if err != nil {
		core.LogWarn("FaceTable", "Failed to allocate frame pool, falling back to heap buffers: ", err)
		return
	}
	framePool = pool
}

// getFrameBuffer returns a receive buffer sized for the largest NDN packet.
func getFrameBuffer() []byte {
	if framePool != nil {
		if block, err := framePool.Get(); err == nil {
			return block[:core.MaxNDNPacketSize]
		}
	}
	return make([]byte, core.MaxNDNPacketSize)
}

// returnFrameBuffer returns a buffer obtained from getFrameBuffer to the pool.
func returnFrameBuffer(buf []byte) {
	if framePool != nil {
		framePool.Return(buf[:cap(buf)])
	}
}
