/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/minfd/ndn"
	"github.com/stretchr/testify/assert"
)

func makeInterest(t *testing.T, name string) *ndn.Interest {
	interestName, err := ndn.NameFromString(name)
	assert.NoError(t, err)
	return ndn.NewInterest(interestName)
}

func TestPitFindOrInsert(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, isDuplicate := pit.FindOrInsert(interest, 1)
	assert.NotNil(t, entry)
	assert.False(t, isDuplicate)
	assert.Equal(t, 1, pit.Size())

	// Same Interest again from the same face: same entry, not a duplicate
	entry2, isDuplicate := pit.FindOrInsert(interest, 1)
	assert.Equal(t, entry, entry2)
	assert.False(t, isDuplicate)
	assert.Equal(t, 1, pit.Size())
}

func TestPitDuplicateNonceFromOtherFace(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, _ := pit.FindOrInsert(interest, 1)
	entry.FindOrInsertInRecord(interest, 1, nil)

	// The identical nonce looping back via another face is a duplicate
	_, isDuplicate := pit.FindOrInsert(interest, 2)
	assert.True(t, isDuplicate)
}

func TestPitInOutRecords(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, _ := pit.FindOrInsert(interest, 1)

	_, alreadyPending := entry.FindOrInsertInRecord(interest, 1, []byte{0x01, 0x02})
	assert.False(t, alreadyPending)
	_, alreadyPending = entry.FindOrInsertInRecord(interest, 2, nil)
	assert.True(t, alreadyPending)

	outRecord := entry.FindOrInsertOutRecord(interest, 3)
	assert.NotNil(t, outRecord)
	assert.Equal(t, outRecord, entry.GetOutRecord(3))
	assert.Nil(t, entry.GetOutRecord(4))
}

func TestPitHasValidLocalInRecord(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, _ := pit.FindOrInsert(interest, 1)
	assert.False(t, entry.HasValidLocalInRecord())

	entry.FindOrInsertInRecord(interest, 1, nil)
	assert.True(t, entry.HasValidLocalInRecord())

	// The in-record expires with the Interest lifetime
	clk.Add(interest.Lifetime() + time.Millisecond)
	assert.False(t, entry.HasValidLocalInRecord())
}

func TestPitFindFromDataToken(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, _ := pit.FindOrInsert(interest, 1)

	dataName, _ := ndn.NameFromString("/a/b")
	data := ndn.NewData(dataName, nil)

	matches := pit.FindFromData(data, &entry.Token)
	assert.Len(t, matches, 1)
	assert.Equal(t, entry, matches[0])

	unknown := entry.Token + 1
	assert.Empty(t, pit.FindFromData(data, &unknown))
}

func TestPitFindFromDataPrefix(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	exact := makeInterest(t, "/a/b/c")
	exactEntry, _ := pit.FindOrInsert(exact, 1)

	prefix := makeInterest(t, "/a")
	prefix.SetCanBePrefix(true)
	prefixEntry, _ := pit.FindOrInsert(prefix, 1)

	nonPrefix := makeInterest(t, "/a/b")
	pit.FindOrInsert(nonPrefix, 1)

	dataName, _ := ndn.NameFromString("/a/b/c")
	data := ndn.NewData(dataName, nil)

	matches := pit.FindFromData(data, nil)
	assert.Contains(t, matches, exactEntry)
	assert.Contains(t, matches, prefixEntry)
	assert.Len(t, matches, 2)
}

func TestPitRemoveEntry(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, _ := pit.FindOrInsert(interest, 1)
	assert.Equal(t, 1, pit.Size())

	pit.RemoveEntry(entry)
	assert.Equal(t, 0, pit.Size())

	dataName, _ := ndn.NameFromString("/a/b")
	assert.Empty(t, pit.FindFromData(ndn.NewData(dataName, nil), &entry.Token))
}

func TestPitExpirationTimer(t *testing.T) {
	clk := clock.NewMock()
	pit := NewPit(clk)

	interest := makeInterest(t, "/a/b")
	entry, _ := pit.FindOrInsert(interest, 1)
	entry.FindOrInsertInRecord(interest, 1, nil)
	entry.UpdateExpirationTimer()

	clk.Add(interest.Lifetime() + time.Millisecond)
	select {
	case expired := <-pit.ExpiringPitEntries:
		assert.Equal(t, entry, expired)
	default:
		t.Fatal("expected PIT entry expiration")
	}
}

func TestDeadNonceList(t *testing.T) {
	clk := clock.NewMock()
	dnl := NewDeadNonceList(clk)

	name, _ := ndn.NameFromString("/a/b")
	nonce := []byte{0x01, 0x02, 0x03, 0x04}

	assert.False(t, dnl.Find(name, nonce))
	assert.False(t, dnl.Insert(name, nonce))
	assert.True(t, dnl.Find(name, nonce))
	assert.True(t, dnl.Insert(name, nonce))

	// Entries expire after the configured lifetime
	clk.Add(deadNonceListLifetime + time.Millisecond)
	dnl.RemoveExpiredEntries()
	assert.False(t, dnl.Find(name, nonce))
}

func TestFibLongestPrefix(t *testing.T) {
	fib := &Fib{entries: make(map[string]*fibEntry)}

	short, _ := ndn.NameFromString("/a")
	long, _ := ndn.NameFromString("/a/b")
	fib.InsertNextHop(short, 1, 10)
	fib.InsertNextHop(long, 2, 5)

	lookup, _ := ndn.NameFromString("/a/b/c")
	nexthops := fib.LongestPrefixNexthops(lookup)
	assert.Len(t, nexthops, 1)
	assert.Equal(t, uint64(2), nexthops[0].Nexthop)

	lookupShort, _ := ndn.NameFromString("/a/z")
	nexthops = fib.LongestPrefixNexthops(lookupShort)
	assert.Len(t, nexthops, 1)
	assert.Equal(t, uint64(1), nexthops[0].Nexthop)

	miss, _ := ndn.NameFromString("/z")
	assert.Empty(t, fib.LongestPrefixNexthops(miss))

	// With face 2 cleaned up, /a/b has no entry and falls back to /a
	fib.CleanUpFace(2)
	nexthops = fib.LongestPrefixNexthops(long)
	assert.Len(t, nexthops, 1)
	assert.Equal(t, uint64(1), nexthops[0].Nexthop)
}
