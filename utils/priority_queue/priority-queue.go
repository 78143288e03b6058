/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package priority_queue provides a generic minimum priority queue.
package priority_queue

import "golang.org/x/exp/constraints"

type item[V any, P constraints.Ordered] struct {
	object   V
	priority P
}

// Queue represents a priority queue with MINIMUM priority.
type Queue[V any, P constraints.Ordered] struct {
	items []item[V, P]
}

// New creates a new priority queue. Not required to call.
func New[V any, P constraints.Ordered]() Queue[V, P] {
	return Queue[V, P]{}
}

// Len returns the length of the priority queue.
func (pq *Queue[V, P]) Len() int {
	return len(pq.items)
}

// Push pushes the value onto the priority queue.
func (pq *Queue[V, P]) Push(value V, priority P) {
	pq.items = append(pq.items, item[V, P]{object: value, priority: priority})
	pq.up(len(pq.items) - 1)
}

// Peek returns the minimum element of the priority queue without removing it.
func (pq *Queue[V, P]) Peek() V {
	return pq.items[0].object
}

// PeekPriority returns the minimum element's priority.
func (pq *Queue[V, P]) PeekPriority() P {
	return pq.items[0].priority
}

// Pop removes and returns the minimum element of the priority queue.
func (pq *Queue[V, P]) Pop() V {
	popped := pq.items[0].object
	last := len(pq.items) - 1
	pq.items[0] = pq.items[last]
	pq.items = pq.items[:last]
	if last > 0 {
		pq.down(0)
	}
	return popped
}

func (pq *Queue[V, P]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if pq.items[parent].priority <= pq.items[i].priority {
			break
		}
		pq.items[parent], pq.items[i] = pq.items[i], pq.items[parent]
		i = parent
	}
}

func (pq *Queue[V, P]) down(i int) {
	for {
		smallest := i
		if left := 2*i + 1; left < len(pq.items) && pq.items[left].priority < pq.items[smallest].priority {
			smallest = left
		}
		if right := 2*i + 2; right < len(pq.items) && pq.items[right].priority < pq.items[smallest].priority {
			smallest = right
		}
		if smallest == i {
			return
		}
		pq.items[smallest], pq.items[i] = pq.items[i], pq.items[smallest]
		i = smallest
	}
}
