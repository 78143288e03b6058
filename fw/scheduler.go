/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler runs timed events on the owning forwarding thread. Timer fires are posted
// to the thread's event queue, so event functions always execute serialized with the
// rest of the thread's work.
type Scheduler struct {
	clk   clock.Clock
	posts chan func()
}

// NewScheduler creates a scheduler backed by the given clock.
func NewScheduler(clk clock.Clock) *Scheduler {
	return &Scheduler{
		clk:   clk,
		posts: make(chan func(), fwQueueSize),
	}
}

// Clock returns the clock backing the scheduler.
func (s *Scheduler) Clock() clock.Clock {
	return s.clk
}

// Posts returns the channel of functions awaiting execution on the owning thread.
func (s *Scheduler) Posts() <-chan func() {
	return s.posts
}

// Post enqueues a function for execution on the owning thread.
func (s *Scheduler) Post(fn func()) {
	s.posts <- fn
}

// ScheduledEvent is a handle to a scheduled event. Cancelling an already-fired (or
// already-cancelled) handle is a no-op, and a nil handle may be cancelled safely.
type ScheduledEvent struct {
	timer     *clock.Timer
	cancelled atomic.Bool
}

// Schedule arranges for fn to run on the owning thread after the given delay.
func (s *Scheduler) Schedule(d time.Duration, fn func()) *ScheduledEvent {
	event := new(ScheduledEvent)
	event.timer = s.clk.AfterFunc(d, func() {
		s.posts <- func() {
			if !event.cancelled.Load() {
				fn()
			}
		}
	})
	return event
}

// Cancel cancels the event if it has not yet run.
func (e *ScheduledEvent) Cancel() {
	if e == nil {
		return
	}
	e.cancelled.Store(true)
	e.timer.Stop()
}
