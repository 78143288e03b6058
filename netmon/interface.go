/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package netmon watches the host's network interfaces and exposes their state and
// address changes as signals.
package netmon

import (
	"io"
	"net"
	"sync"

	"github.com/named-data/minfd/core/events"
)

// InterfaceState indicates the state of a network interface.
type InterfaceState int

const (
	// InterfaceDown indicates the interface is administratively down.
	InterfaceDown InterfaceState = iota
	// InterfaceUp indicates the interface is up but has no carrier.
	InterfaceUp
	// InterfaceRunning indicates the interface is up and has a carrier.
	InterfaceRunning
)

func (s InterfaceState) String() string {
	switch s {
	case InterfaceRunning:
		return "Running"
	case InterfaceUp:
		return "Up"
	default:
		return "Down"
	}
}

const (
	eventStateChanged   = "state-changed"
	eventAddressAdded   = "address-added"
	eventAddressRemoved = "address-removed"
)

// NetworkInterface is a network interface known to the monitor.
type NetworkInterface struct {
	name      string
	index     int
	mtu       int
	loopback  bool
	multicast bool

	mutex     sync.RWMutex
	state     InterfaceState
	addresses []net.IP
	emitter   *events.Emitter
}

// NewNetworkInterface creates a network interface record.
func NewNetworkInterface(name string, index int, mtu int, loopback bool, multicast bool) *NetworkInterface {
	ni := new(NetworkInterface)
	ni.name = name
	ni.index = index
	ni.mtu = mtu
	ni.loopback = loopback
	ni.multicast = multicast
	ni.state = InterfaceDown
	ni.emitter = events.NewEmitter()
	return ni
}

func (ni *NetworkInterface) String() string {
	return "NetworkInterface-" + ni.name
}

// Name returns the name of the interface.
func (ni *NetworkInterface) Name() string {
	return ni.name
}

// Index returns the index of the interface.
func (ni *NetworkInterface) Index() int {
	return ni.index
}

// MTU returns the MTU of the interface.
func (ni *NetworkInterface) MTU() int {
	return ni.mtu
}

// IsLoopback returns whether the interface is a loopback interface.
func (ni *NetworkInterface) IsLoopback() bool {
	return ni.loopback
}

// CanMulticast returns whether the interface supports multicast.
func (ni *NetworkInterface) CanMulticast() bool {
	return ni.multicast
}

// State returns the state of the interface.
func (ni *NetworkInterface) State() InterfaceState {
	ni.mutex.RLock()
	defer ni.mutex.RUnlock()
	return ni.state
}

// Addresses returns all addresses assigned to the interface.
func (ni *NetworkInterface) Addresses() []net.IP {
	ni.mutex.RLock()
	defer ni.mutex.RUnlock()
	addresses := make([]net.IP, len(ni.addresses))
	copy(addresses, ni.addresses)
	return addresses
}

// IPv4Addresses returns the IPv4 addresses assigned to the interface.
func (ni *NetworkInterface) IPv4Addresses() []net.IP {
	addresses := make([]net.IP, 0)
	for _, addr := range ni.Addresses() {
		if addr.To4() != nil {
			addresses = append(addresses, addr)
		}
	}
	return addresses
}

// IPv6Addresses returns the IPv6 addresses assigned to the interface.
func (ni *NetworkInterface) IPv6Addresses() []net.IP {
	addresses := make([]net.IP, 0)
	for _, addr := range ni.Addresses() {
		if addr.To4() == nil && addr.To16() != nil {
			addresses = append(addresses, addr)
		}
	}
	return addresses
}

// OnStateChanged registers a callback fired when the interface state changes.
func (ni *NetworkInterface) OnStateChanged(callback func(old InterfaceState, new InterfaceState)) io.Closer {
	return ni.emitter.On(eventStateChanged, callback)
}

// OnAddressAdded registers a callback fired when an address is assigned to the interface.
func (ni *NetworkInterface) OnAddressAdded(callback func(address net.IP)) io.Closer {
	return ni.emitter.On(eventAddressAdded, callback)
}

// OnAddressRemoved registers a callback fired when an address is removed from the interface.
func (ni *NetworkInterface) OnAddressRemoved(callback func(address net.IP)) io.Closer {
	return ni.emitter.On(eventAddressRemoved, callback)
}

// SetState updates the state of the interface, firing the state-changed signal on change.
func (ni *NetworkInterface) SetState(state InterfaceState) {
	ni.mutex.Lock()
	old := ni.state
	if old == state {
		ni.mutex.Unlock()
		return
	}
	ni.state = state
	ni.mutex.Unlock()
	ni.emitter.Emit(eventStateChanged, old, state)
}

// AddAddress assigns an address to the interface, firing the address-added signal if new.
func (ni *NetworkInterface) AddAddress(address net.IP) {
	ni.mutex.Lock()
	for _, existing := range ni.addresses {
		if existing.Equal(address) {
			ni.mutex.Unlock()
			return
		}
	}
	ni.addresses = append(ni.addresses, address)
	ni.mutex.Unlock()
	ni.emitter.Emit(eventAddressAdded, address)
}

// RemoveAddress removes an address from the interface, firing the address-removed signal
// if it was present.
func (ni *NetworkInterface) RemoveAddress(address net.IP) {
	ni.mutex.Lock()
	found := false
	for i, existing := range ni.addresses {
		if existing.Equal(address) {
			ni.addresses = append(ni.addresses[:i], ni.addresses[i+1:]...)
			found = true
			break
		}
	}
	ni.mutex.Unlock()
	if found {
		ni.emitter.Emit(eventAddressRemoved, address)
	}
}
