/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	"github.com/named-data/minfd/core"
)

// tableQueueSize is the maximum size of queues in the tables.
var tableQueueSize = 1024

// deadNonceListLifetime is the lifetime of entries in the dead nonce list.
var deadNonceListLifetime = 6 * time.Second

// Configure configures the forwarding tables.
func Configure() {
	tableQueueSize = core.GetConfigIntDefault("tables.queue_size", 1024)
	deadNonceListLifetime = core.GetConfigDurationMsDefault("tables.dead_nonce_list.lifetime_ms", 6000*time.Millisecond)
}
