/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"strconv"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/defn"
	"github.com/named-data/minfd/dispatch"
	"github.com/named-data/minfd/ndn"
	"github.com/named-data/minfd/table"
)

// testFace is a dispatch.Face capturing sent packets for strategy tests.
type testFace struct {
	id            uint64
	interfaceName string
	state         defn.State
	scope         defn.Scope
	sent          []*ndn.PendingPacket
}

func newTestFace(id uint64, interfaceName string, state defn.State) *testFace {
	f := &testFace{id: id, interfaceName: interfaceName, state: state, scope: defn.NonLocal}
	dispatch.AddFace(id, f)
	return f
}

func (f *testFace) String() string {
	return "TestFace-" + strconv.FormatUint(f.id, 10)
}

func (f *testFace) SetFaceID(id uint64) {
	f.id = id
}

func (f *testFace) FaceID() uint64 {
	return f.id
}

func (f *testFace) LocalURI() *defn.URI {
	return defn.MakeNullFaceURI()
}

func (f *testFace) RemoteURI() *defn.URI {
	return defn.MakeNullFaceURI()
}

func (f *testFace) Scope() defn.Scope {
	return f.scope
}

func (f *testFace) LinkType() defn.LinkType {
	return defn.PointToPoint
}

func (f *testFace) MTU() int {
	return 8800
}

func (f *testFace) InterfaceName() string {
	return f.interfaceName
}

func (f *testFace) State() defn.State {
	return f.state
}

func (f *testFace) SendPacket(packet *ndn.PendingPacket) {
	f.sent = append(f.sent, packet)
}

// newTestThread creates a forwarding thread on a mock clock without running its loop.
func newTestThread(clk clock.Clock) *Thread {
	chosenStrategyName = "weighted-random"
	return newThreadWithClock(0, clk)
}

// drainPosts executes all pending scheduler posts on the caller's goroutine, standing
// in for the thread's event loop.
func drainPosts(t *Thread) {
	for {
		select {
		case fn := <-t.scheduler.Posts():
			fn()
		default:
			return
		}
	}
}

// makePendingEntry creates an Interest and its PIT entry with an in-record from the
// given downstream face.
func makePendingEntry(t *Thread, name string, downstream uint64) (*ndn.Interest, *table.PitEntry) {
	interestName, _ := ndn.NameFromString(name)
	interest := ndn.NewInterest(interestName)
	pitEntry, _ := t.pit.FindOrInsert(interest, downstream)
	pitEntry.FindOrInsertInRecord(interest, downstream, nil)
	return interest, pitEntry
}
