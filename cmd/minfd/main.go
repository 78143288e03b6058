/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/named-data/minfd/core"
	"github.com/named-data/minfd/executor"
	"github.com/named-data/minfd/fw"
)

// Version of MINFD.
var Version string

// BuildTime contains the timestamp of when this version of MINFD was built.
var BuildTime string

func main() {
	core.Version = Version
	core.BuildTime = BuildTime
	core.StartTimestamp = time.Now()

	// Parse command line options
	var configFileName string
	flag.StringVar(&configFileName, "config", "/etc/ndn/minfd.toml", "Configuration file location")
	var shouldPrintVersion bool
	flag.BoolVar(&shouldPrintVersion, "version", false, "Print version and exit")
	flag.BoolVar(&shouldPrintVersion, "V", false, "Print version and exit (short)")
	flag.IntVar(&core.NumForwardingThreads, "threads", 8, "Number of forwarding threads")
	flag.IntVar(&core.NumForwardingThreads, "t", 8, "Number of forwarding threads (short)")
	flag.Parse()

	if shouldPrintVersion {
		fmt.Println("MINFD: Multi-Interface NDN Forwarding Daemon")
		fmt.Println("Version " + core.Version + " (Built " + core.BuildTime + ")")
		fmt.Println("Released under the terms of the MIT License")
		return
	}

	if core.NumForwardingThreads < 1 || core.NumForwardingThreads > fw.MaxFwThreads {
		fmt.Println("Number of forwarding threads must be in range [1,", fw.MaxFwThreads, "]")
		os.Exit(1)
	}

	daemon := executor.NewMinfd(configFileName)
	daemon.Start()

	// Set up signal handler channel and wait for interrupt
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-sigChannel
	core.LogInfo("Main", "Received signal ", receivedSig, " - exiting")

	daemon.Stop()
}
