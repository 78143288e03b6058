/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"math"
	"time"

	"github.com/pelletier/go-toml"
)

var config *toml.Tree

// LoadConfig loads the MINFD configuration from the specified configuration file.
func LoadConfig(file string) {
	var err error
	config, err = toml.LoadFile(file)
	if err != nil {
		LogFatal("Config", "Unable to load configuration file: ", err)
	}
}

// LoadConfigString loads the MINFD configuration from a TOML string.
func LoadConfigString(contents string) {
	var err error
	config, err = toml.Load(contents)
	if err != nil {
		LogFatal("Config", "Unable to load configuration: ", err)
	}
}

// GetConfigIntDefault returns the integer configuration value at the specified key or
// the specified default value if it does not exist.
func GetConfigIntDefault(key string, def int) int {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(int64)
	if ok && val >= math.MinInt32 && val <= math.MaxInt32 {
		return int(val)
	}
	return def
}

// GetConfigStringDefault returns the string configuration value at the specified key or
// the specified default value if it does not exist.
func GetConfigStringDefault(key string, def string) string {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(string)
	if ok {
		return val
	}
	return def
}

// GetConfigBoolDefault returns the boolean configuration value at the specified key or
// the specified default value if it does not exist.
func GetConfigBoolDefault(key string, def bool) bool {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(bool)
	if ok {
		return val
	}
	return def
}

// GetConfigUint16Default returns the integer configuration value at the specified key or
// the specified default value if it does not exist.
func GetConfigUint16Default(key string, def uint16) uint16 {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(int64)
	if ok && val > 0 && val <= math.MaxUint16 {
		return uint16(val)
	}
	return def
}

// GetConfigDurationMsDefault returns the duration configuration value (in integer
// milliseconds) at the specified key or the specified default value if it does not exist.
func GetConfigDurationMsDefault(key string, def time.Duration) time.Duration {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(int64)
	if ok && val >= 0 {
		return time.Duration(val) * time.Millisecond
	}
	return def
}

// GetConfigArrayString returns the configuration array value at the specified key or nil
// if it does not exist.
func GetConfigArrayString(key string) []string {
	if config == nil {
		return nil
	}
	array := config.GetArray(key)
	if array == nil {
		return nil
	}
	if val, ok := array.([]string); ok {
		return val
	}
	return nil
}

// GetConfigIntMap returns the configuration table at the specified key as a map from
// string keys to integers, or nil if it does not exist. Non-integer values are skipped.
func GetConfigIntMap(key string) map[string]int {
	if config == nil {
		return nil
	}
	treeRaw := config.Get(key)
	if treeRaw == nil {
		return nil
	}
	tree, ok := treeRaw.(*toml.Tree)
	if !ok {
		return nil
	}
	values := make(map[string]int)
	for _, entry := range tree.Keys() {
		if val, ok := tree.Get(entry).(int64); ok && val >= math.MinInt32 && val <= math.MaxInt32 {
			values[entry] = int(val)
		}
	}
	return values
}
