/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package events

// Telemetry event names.
const (
	EventInterestSent        = "interest_sent"
	EventDataReceived        = "data_received"
	EventDataRejected        = "data_rejected"
	EventRttMin              = "rtt_min"
	EventRttMax              = "rtt_max"
	EventRttMinCalc          = "rtt_min_calc"
	EventPacketSent          = "packet_sent"
	EventPacketSentError     = "packet_sent_error"
	EventPacketReceived      = "packet_received"
	EventPacketReceivedError = "packet_received_error"
	EventFace                = "face"
)

// InterestSent is the payload of an interest_sent event.
type InterestSent struct {
	Strategy      string
	Interest      string
	FaceID        uint64
	InterfaceName string
	RtoMs         int64
}

// DataResult is the payload of a data_received or data_rejected event.
type DataResult struct {
	Strategy       string
	Interest       string
	FaceID         uint64
	InterfaceName  string
	RttMs          float64
	MeanRttMs      float64
	NRetries       int
	RetrieveTimeMs int64
	LastRttMs      float64
}

// PacketResult is the payload of packet_sent, packet_received and their error events.
type PacketResult struct {
	LocalURI  string
	RemoteURI string
	Size      int
	Reason    string
}

var telemetryEmitter = NewEmitter()

// Telemetry returns the process-wide telemetry emitter.
func Telemetry() *Emitter {
	return telemetryEmitter
}
