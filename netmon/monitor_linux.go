/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

//go:build linux

package netmon

import (
	"net"

	"github.com/named-data/minfd/core"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// platformWatch follows link and address changes through rtnetlink.
func (m *Monitor) platformWatch() {
	linkUpdates := make(chan netlink.LinkUpdate, 64)
	addrUpdates := make(chan netlink.AddrUpdate, 64)
	done := make(chan struct{})

	if err := netlink.LinkSubscribe(linkUpdates, done); err != nil {
		core.LogError(m, "Unable to subscribe to link updates: ", err)
		close(done)
		return
	}
	if err := netlink.AddrSubscribe(addrUpdates, done); err != nil {
		core.LogError(m, "Unable to subscribe to address updates: ", err)
		close(done)
		return
	}

	for {
		select {
		case update := <-linkUpdates:
			m.handleLinkUpdate(update)
		case update := <-addrUpdates:
			m.handleAddrUpdate(update)
		case <-m.quit:
			close(done)
			return
		}
	}
}

func (m *Monitor) handleLinkUpdate(update netlink.LinkUpdate) {
	attrs := update.Link.Attrs()
	if attrs == nil {
		return
	}

	if update.Header.Type == unix.RTM_DELLINK {
		m.RemoveInterface(attrs.Name)
		return
	}

	ni := m.InterfaceByName(attrs.Name)
	if ni == nil {
		ni = NewNetworkInterface(attrs.Name, attrs.Index, attrs.MTU,
			attrs.Flags&net.FlagLoopback != 0, attrs.Flags&net.FlagMulticast != 0)
		m.AddInterface(ni)
	}
	ni.SetState(stateFromLink(attrs))
}

func (m *Monitor) handleAddrUpdate(update netlink.AddrUpdate) {
	ni := m.InterfaceByIndex(update.LinkIndex)
	if ni == nil {
		return
	}
	if update.NewAddr {
		ni.AddAddress(update.LinkAddress.IP)
	} else {
		ni.RemoveAddress(update.LinkAddress.IP)
	}
}

func stateFromLink(attrs *netlink.LinkAttrs) InterfaceState {
	if attrs.Flags&net.FlagUp == 0 {
		return InterfaceDown
	}
	switch attrs.OperState {
	case netlink.OperUp, netlink.OperUnknown:
		return InterfaceRunning
	case netlink.OperDormant:
		return InterfaceUp
	default:
		return InterfaceDown
	}
}
