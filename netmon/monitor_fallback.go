/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

//go:build !linux

package netmon

import (
	"time"

	"github.com/named-data/minfd/core"
)

const pollInterval = 2 * time.Second

// platformWatch polls the interface list where no netlink equivalent is available.
func (m *Monitor) platformWatch() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := m.refresh(); err != nil {
				core.LogWarn(m, "Unable to refresh interfaces: ", err)
			}
		case <-m.quit:
			return
		}
	}
}
