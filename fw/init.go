/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"reflect"
	"time"

	"github.com/named-data/minfd/core"
)

// strategyTypes holds the types of all compiled-in strategies. Strategies register
// themselves here from their init functions.
var strategyTypes []reflect.Type

// fwQueueSize is the maximum number of packets that can be queued for each forwarding thread.
var fwQueueSize = 1024

// zombieGrace is the extra time past Interest lifetime during which a pending interest
// record is retained.
var zombieGrace = 100 * time.Millisecond

// strategyInterfaceWeights is the static interface name to weight table used by the
// weighted strategies.
var strategyInterfaceWeights map[string]int

// rejectUnroutable selects whether the weighted-random-only strategy immediately Nacks
// and rejects unroutable Interests (true) or drops them (false).
var rejectUnroutable bool

// chosenStrategyName is the name of the strategy serving all prefixes.
var chosenStrategyName string

// Configure configures the forwarding system.
func Configure() {
	fwQueueSize = core.GetConfigIntDefault("fw.queue_size", 1024)
	zombieGrace = core.GetConfigDurationMsDefault("fw.strategy.zombie_grace_ms", 100*time.Millisecond)
	strategyInterfaceWeights = core.GetConfigIntMap("fw.strategy.interfaces")
	if strategyInterfaceWeights == nil {
		strategyInterfaceWeights = make(map[string]int)
	}
	rejectUnroutable = core.GetConfigBoolDefault("fw.strategy.reject_unroutable", false)
	chosenStrategyName = core.GetConfigStringDefault("fw.strategy.name", "weighted-random")
}

// InterfaceWeight returns the configured weight of the named interface, or 0 if it is
// not configured.
func InterfaceWeight(interfaceName string) int {
	return strategyInterfaceWeights[interfaceName]
}

// InstantiateStrategies instantiates all registered strategies for a forwarding thread.
func InstantiateStrategies(fwThread *Thread) map[string]Strategy {
	strategies := make(map[string]Strategy, len(strategyTypes))
	for _, strategyType := range strategyTypes {
		strategy := reflect.New(strategyType.Elem()).Interface().(Strategy)
		strategy.Instantiate(fwThread)
		strategies[strategy.GetName().String()] = strategy
	}
	return strategies
}
