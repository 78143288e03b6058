/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"time"

	"github.com/named-data/minfd/ndn/tlv"
)

// Data is an NDN Data packet.
type Data struct {
	name      *Name
	content   []byte
	freshness time.Duration
}

// NewData creates a new Data packet with the specified name and content.
func NewData(name *Name, content []byte) *Data {
	d := new(Data)
	d.name = name
	d.content = content
	return d
}

// Name returns the name of the Data packet.
func (d *Data) Name() *Name {
	return d.name
}

// Content returns the content of the Data packet.
func (d *Data) Content() []byte {
	return d.content
}

// Freshness returns the freshness period of the Data packet.
func (d *Data) Freshness() time.Duration {
	return d.freshness
}

// SetFreshness sets the freshness period of the Data packet.
func (d *Data) SetFreshness(freshness time.Duration) {
	d.freshness = freshness
}

// Encode encodes the Data packet into wire format.
func (d *Data) Encode() ([]byte, error) {
	wire := tlv.NewEmptyBlock(tlv.Data)
	wire.Append(d.name.Encode())
	if d.freshness != 0 {
		metaInfo := tlv.NewEmptyBlock(tlv.MetaInfo)
		metaInfo.Append(tlv.EncodeNNIBlock(tlv.FreshnessPeriod, uint64(d.freshness.Milliseconds())))
		wire.Append(metaInfo)
	}
	wire.Append(tlv.NewBlock(tlv.Content, d.content))
	return wire.Encode(), nil
}

// DecodeData decodes a Data packet from wire format.
func DecodeData(wire []byte) (*Data, error) {
	outer, _, err := tlv.DecodeBlock(wire)
	if err != nil {
		return nil, err
	}
	if outer.Type() != tlv.Data {
		return nil, tlv.ErrUnexpected
	}
	if err = outer.Parse(); err != nil {
		return nil, err
	}

	d := new(Data)
	for _, elem := range outer.Subelements() {
		switch elem.Type() {
		case tlv.Name:
			d.name, err = DecodeName(elem)
			if err != nil {
				return nil, err
			}
		case tlv.MetaInfo:
			if err := elem.Parse(); err != nil {
				return nil, err
			}
			if freshness := elem.Find(tlv.FreshnessPeriod); freshness != nil {
				value, err := tlv.DecodeNNI(freshness.Value())
				if err != nil {
					return nil, err
				}
				d.freshness = time.Duration(value) * time.Millisecond
			}
		case tlv.Content:
			d.content = elem.Value()
		}
	}
	if d.name == nil {
		return nil, tlv.ErrUnexpected
	}
	return d, nil
}
