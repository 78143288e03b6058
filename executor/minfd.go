/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package executor wires the daemon together and manages its lifecycle.
package executor

import (
	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/face"
	"github.com/named-data/minfd/fw"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/netmon"
	"github.com/named-data/minfd/table"
)

// Minfd is the main executor of the MINFD daemon.
type Minfd struct {
	udpListeners []*face.UDPListener
}

// NewMinfd creates the executor from the given configuration file.
func NewMinfd(configFileName string) *Minfd {
	core.LoadConfig(configFileName)
	core.InitializeLogger()
	table.Configure()
	fw.Configure()
	face.Configure()
	return new(Minfd)
}

// Start starts the MINFD forwarder.
func (m *Minfd) Start() {
	core.LogInfo("Main", "Starting MINFD")

	// The network monitor must exist before any transport
	monitor := netmon.GetMonitor()
	if err := monitor.Start(); err != nil {
		core.LogFatal("Main", "Unable to start network monitor: ", err)
	}

	// Create forwarding threads
	fw.Threads = make(map[int]*fw.Thread)
	for i := 0; i < core.NumForwardingThreads; i++ {
		newThread := fw.NewThread(i)
		fw.Threads[i] = newThread
		dispatch.AddFWThread(i, newThread)
	}
	for _, thread := range fw.Threads {
		go thread.Run()
	}

	// Create faces and listeners for each usable interface
	for _, ni := range monitor.Interfaces() {
		if ni.State() != netmon.InterfaceRunning {
			core.LogInfo("Main", "Skipping interface ", ni.Name(), " because not running")
			continue
		}

		for _, addr := range ni.IPv4Addresses() {
			if addr.IsLoopback() || addr.IsLinkLocalUnicast() {
				continue
			}

			if ni.CanMulticast() {
				multicastTransport, err := face.MakeMulticastUDPTransport(
					defn.MakeUDPFaceURI(4, addr.String(), face.UDPMulticastPort))
				if err != nil {
					core.LogError("Main", "Unable to create MulticastUDPTransport for ",
						addr, " on ", ni.Name(), ": ", err)
				} else {
					multicastFace := face.MakeNDNLPLinkService(multicastTransport)
					face.FaceTable.Add(multicastFace)
					go multicastFace.Run()
					core.LogInfo("Main", "Created multicast UDP face for ", addr, " on ", ni.Name())
				}
			}

			udpListener, err := face.MakeUDPListener(
				defn.MakeUDPFaceURI(4, addr.String(), face.UDPUnicastPort))
			if err != nil {
				core.LogError("Main", "Unable to create UDP listener for ", addr, " on ",
					ni.Name(), ": ", err)
				continue
			}
			m.udpListeners = append(m.udpListeners, udpListener)
			go udpListener.Run()
			core.LogInfo("Main", "Created UDP listener for ", addr, " on ", ni.Name())
		}
	}

	// Create an interface-bound permanent face per weighted interface for each
	// configured remote, and route the default prefix through them
	defaultPrefix, _ := ndn.NameFromString("/")
	for _, remote := range core.GetConfigArrayString("faces.udp.remotes") {
		remoteURI := defn.DecodeURIString(remote)
		for _, ni := range monitor.Interfaces() {
			if fw.InterfaceWeight(ni.Name()) <= 0 {
				continue
			}
			transport, err := face.MakeInterfaceBoundUnicastUDPTransport(remoteURI,
				face.UDPUnicastPort, ni)
			if err != nil {
				core.LogError("Main", "Unable to create interface-bound face on ",
					ni.Name(), " to ", remote, ": ", err)
				continue
			}
			remoteFace := face.MakeNDNLPLinkService(transport)
			face.FaceTable.Add(remoteFace)
			go remoteFace.Run()
			table.FibTable.InsertNextHop(defaultPrefix, remoteFace.FaceID(), 0)
			core.LogInfo("Main", "Created interface-bound face on ", ni.Name(), " to ", remote)
		}
	}
}

// Stop shuts the MINFD forwarder down.
func (m *Minfd) Stop() {
	core.ShouldQuit = true

	// Stop listeners
	for _, listener := range m.udpListeners {
		listener.Close()
	}

	// Tell all faces to quit
	for _, linkService := range face.FaceTable.GetAll() {
		linkService.Close()
	}

	// Wait for all faces to quit
	for _, linkService := range face.FaceTable.GetAll() {
		core.LogTrace("Main", "Waiting for face ", linkService, " to quit")
		<-linkService.GetHasQuit()
	}

	// Tell all forwarding threads to quit
	for _, thread := range fw.Threads {
		thread.TellToQuit()
	}
	for _, thread := range fw.Threads {
		<-thread.HasQuit
	}

	netmon.GetMonitor().Stop()
}
