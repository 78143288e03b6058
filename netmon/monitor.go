/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package netmon

import (
	"io"
	"net"
	"sync"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/core/events"
	"golang.org/x/exp/maps"
)

const (
	eventInterfaceAdded   = "interface-added"
	eventInterfaceRemoved = "interface-removed"
)

// Monitor tracks the host's network interfaces. There is one process-wide instance,
// created before any transport and destroyed after all transports and strategies.
type Monitor struct {
	mutex      sync.RWMutex
	interfaces map[string]*NetworkInterface
	emitter    *events.Emitter
	quit       chan struct{}
	started    bool
}

var monitor *Monitor
var monitorOnce sync.Once

// GetMonitor returns the process-wide network interface monitor.
func GetMonitor() *Monitor {
	monitorOnce.Do(func() {
		monitor = &Monitor{
			interfaces: make(map[string]*NetworkInterface),
			emitter:    events.NewEmitter(),
			quit:       make(chan struct{}),
		}
	})
	return monitor
}

func (m *Monitor) String() string {
	return "NetworkMonitor"
}

// OnInterfaceAdded registers a callback fired when an interface is added.
func (m *Monitor) OnInterfaceAdded(callback func(ni *NetworkInterface)) io.Closer {
	return m.emitter.On(eventInterfaceAdded, callback)
}

// OnInterfaceRemoved registers a callback fired when an interface is removed.
func (m *Monitor) OnInterfaceRemoved(callback func(ni *NetworkInterface)) io.Closer {
	return m.emitter.On(eventInterfaceRemoved, callback)
}

// Interfaces returns all interfaces known to the monitor.
func (m *Monitor) Interfaces() []*NetworkInterface {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	interfaces := make([]*NetworkInterface, 0, len(m.interfaces))
	for _, ni := range m.interfaces {
		interfaces = append(interfaces, ni)
	}
	return interfaces
}

// InterfaceByName returns the interface with the specified name, or nil if unknown.
func (m *Monitor) InterfaceByName(name string) *NetworkInterface {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.interfaces[name]
}

// InterfaceByIndex returns the interface with the specified index, or nil if unknown.
func (m *Monitor) InterfaceByIndex(index int) *NetworkInterface {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, ni := range m.interfaces {
		if ni.Index() == index {
			return ni
		}
	}
	return nil
}

// InterfaceByIP returns the interface carrying the specified IP, or nil if none does.
func (m *Monitor) InterfaceByIP(ip net.IP) *NetworkInterface {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, ni := range m.interfaces {
		for _, addr := range ni.Addresses() {
			if addr.Equal(ip) {
				return ni
			}
		}
	}
	return nil
}

// AddInterface registers an interface with the monitor, firing the interface-added signal.
func (m *Monitor) AddInterface(ni *NetworkInterface) {
	m.mutex.Lock()
	if _, exists := m.interfaces[ni.Name()]; exists {
		m.mutex.Unlock()
		return
	}
	m.interfaces[ni.Name()] = ni
	m.mutex.Unlock()
	core.LogDebug(m, "Added interface ", ni.Name())
	m.emitter.Emit(eventInterfaceAdded, ni)
}

// RemoveInterface unregisters an interface, firing the interface-removed signal.
func (m *Monitor) RemoveInterface(name string) {
	m.mutex.Lock()
	ni, exists := m.interfaces[name]
	if !exists {
		m.mutex.Unlock()
		return
	}
	delete(m.interfaces, name)
	m.mutex.Unlock()
	core.LogDebug(m, "Removed interface ", name)
	m.emitter.Emit(eventInterfaceRemoved, ni)
}

// Start populates the monitor from the current interfaces and begins watching for changes.
func (m *Monitor) Start() error {
	m.mutex.Lock()
	if m.started {
		m.mutex.Unlock()
		return nil
	}
	m.started = true
	m.mutex.Unlock()

	if err := m.refresh(); err != nil {
		return err
	}
	go m.platformWatch()
	return nil
}

// Stop stops watching for interface changes.
func (m *Monitor) Stop() {
	close(m.quit)
}

// refresh synchronizes the monitor with the interfaces currently present on the host.
func (m *Monitor) refresh() error {
	systemInterfaces, err := net.Interfaces()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(systemInterfaces))
	for _, iface := range systemInterfaces {
		seen[iface.Name] = true
		ni := m.InterfaceByName(iface.Name)
		if ni == nil {
			ni = NewNetworkInterface(iface.Name, iface.Index, iface.MTU,
				iface.Flags&net.FlagLoopback != 0, iface.Flags&net.FlagMulticast != 0)
			m.AddInterface(ni)
		}
		ni.SetState(stateFromFlags(iface.Flags))

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		current := make(map[string]net.IP, len(addrs))
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok {
				current[ipNet.IP.String()] = ipNet.IP
				ni.AddAddress(ipNet.IP)
			}
		}
		for _, existing := range ni.Addresses() {
			if _, ok := current[existing.String()]; !ok {
				ni.RemoveAddress(existing)
			}
		}
	}

	m.mutex.RLock()
	names := maps.Keys(m.interfaces)
	m.mutex.RUnlock()
	for _, name := range names {
		if !seen[name] {
			m.RemoveInterface(name)
		}
	}
	return nil
}

func stateFromFlags(flags net.Flags) InterfaceState {
	if flags&net.FlagUp == 0 {
		return InterfaceDown
	}
	if flags&net.FlagRunning == 0 {
		return InterfaceUp
	}
	return InterfaceRunning
}
