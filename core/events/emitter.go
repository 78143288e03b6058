/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package events provides a simple event emitter for interface signals and telemetry.
package events

import (
	"io"

	chuckpreslar_emission "github.com/chuckpreslar/emission"
)

// Emitter is a simple event emitter.
type Emitter struct {
	*chuckpreslar_emission.Emitter
}

// NewEmitter creates a simple event emitter.
func NewEmitter() (emitter *Emitter) {
	emitter = new(Emitter)
	emitter.Emitter = chuckpreslar_emission.NewEmitter()
	return emitter
}

// On registers a callback when an event occurs.
// Returns an io.Closer that cancels the callback registration.
func (emitter *Emitter) On(event, listener interface{}) io.Closer {
	emitter.Emitter.On(event, listener)
	return canceler{emitter.Emitter, event, listener}
}

type canceler struct {
	emitter  *chuckpreslar_emission.Emitter
	event    interface{}
	listener interface{}
}

func (c canceler) Close() error {
	c.emitter.Off(c.event, c.listener)
	return nil
}
