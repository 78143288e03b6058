/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package tlv implements the NDN Type-Length-Value wire helpers needed for framing.
package tlv

import "encoding/binary"

// VarNumSize returns the number of bytes a VarNum encoding of value occupies.
func VarNumSize(value uint64) int {
	switch {
	case value <= 0xFC:
		return 1
	case value <= 0xFFFF:
		return 3
	case value <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// EncodeVarNum appends the VarNum encoding of value to buf and returns the extended buffer.
func EncodeVarNum(buf []byte, value uint64) []byte {
	switch {
	case value <= 0xFC:
		return append(buf, byte(value))
	case value <= 0xFFFF:
		buf = append(buf, 0xFD)
		return binary.BigEndian.AppendUint16(buf, uint16(value))
	case value <= 0xFFFFFFFF:
		buf = append(buf, 0xFE)
		return binary.BigEndian.AppendUint32(buf, uint32(value))
	default:
		buf = append(buf, 0xFF)
		return binary.BigEndian.AppendUint64(buf, value)
	}
}

// DecodeVarNum decodes a VarNum at the head of buf, returning its value and the number
// of bytes consumed.
func DecodeVarNum(buf []byte) (uint64, int, error) {
	if len(buf) < 1 {
		return 0, 0, ErrBufferTooShort
	}
	switch {
	case buf[0] <= 0xFC:
		return uint64(buf[0]), 1, nil
	case buf[0] == 0xFD:
		if len(buf) < 3 {
			return 0, 0, ErrBufferTooShort
		}
		return uint64(binary.BigEndian.Uint16(buf[1:3])), 3, nil
	case buf[0] == 0xFE:
		if len(buf) < 5 {
			return 0, 0, ErrBufferTooShort
		}
		return uint64(binary.BigEndian.Uint32(buf[1:5])), 5, nil
	default:
		if len(buf) < 9 {
			return 0, 0, ErrBufferTooShort
		}
		return binary.BigEndian.Uint64(buf[1:9]), 9, nil
	}
}

// DecodeTypeLength decodes the type and length at the head of buf. The returned size is
// the total size of the element (type + length + value), which need not fit in buf.
func DecodeTypeLength(buf []byte) (ttype uint32, length uint64, size int, err error) {
	typeRaw, typeSize, err := DecodeVarNum(buf)
	if err != nil {
		return 0, 0, 0, err
	}
	if typeRaw > 0xFFFFFFFF {
		return 0, 0, 0, ErrUnexpected
	}
	length, lengthSize, err := DecodeVarNum(buf[typeSize:])
	if err != nil {
		return 0, 0, 0, ErrMissingLength
	}
	return uint32(typeRaw), length, typeSize + lengthSize + int(length), nil
}

// Block is a TLV element, optionally with parsed subelements.
type Block struct {
	tlvType     uint32
	value       []byte
	subelements []*Block
}

// NewBlock creates a block with the specified type and value.
func NewBlock(tlvType uint32, value []byte) *Block {
	return &Block{tlvType: tlvType, value: value}
}

// NewEmptyBlock creates an empty block with the specified type.
func NewEmptyBlock(tlvType uint32) *Block {
	return &Block{tlvType: tlvType}
}

// EncodeNNIBlock creates a block encoding a NonNegativeInteger value.
func EncodeNNIBlock(tlvType uint32, value uint64) *Block {
	var buf []byte
	switch {
	case value <= 0xFF:
		buf = []byte{byte(value)}
	case value <= 0xFFFF:
		buf = binary.BigEndian.AppendUint16(nil, uint16(value))
	case value <= 0xFFFFFFFF:
		buf = binary.BigEndian.AppendUint32(nil, uint32(value))
	default:
		buf = binary.BigEndian.AppendUint64(nil, value)
	}
	return NewBlock(tlvType, buf)
}

// DecodeNNI decodes a NonNegativeInteger value.
func DecodeNNI(value []byte) (uint64, error) {
	switch len(value) {
	case 1:
		return uint64(value[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(value)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(value)), nil
	case 8:
		return binary.BigEndian.Uint64(value), nil
	default:
		return 0, ErrNonNegativeLength
	}
}

// Type returns the TLV type of the block.
func (b *Block) Type() uint32 {
	return b.tlvType
}

// Value returns the raw value of the block.
func (b *Block) Value() []byte {
	return b.value
}

// Subelements returns the parsed subelements of the block.
func (b *Block) Subelements() []*Block {
	return b.subelements
}

// Append adds a subelement to the end of the block.
func (b *Block) Append(child *Block) {
	b.subelements = append(b.subelements, child)
}

// Find returns the first subelement of the specified type, or nil if none exists.
func (b *Block) Find(tlvType uint32) *Block {
	for _, elem := range b.subelements {
		if elem.tlvType == tlvType {
			return elem
		}
	}
	return nil
}

// Encode encodes the block (and any subelements) into wire format.
func (b *Block) Encode() []byte {
	value := b.value
	if len(b.subelements) > 0 {
		value = nil
		for _, elem := range b.subelements {
			value = append(value, elem.Encode()...)
		}
	}
	wire := make([]byte, 0, VarNumSize(uint64(b.tlvType))+VarNumSize(uint64(len(value)))+len(value))
	wire = EncodeVarNum(wire, uint64(b.tlvType))
	wire = EncodeVarNum(wire, uint64(len(value)))
	return append(wire, value...)
}

// DecodeBlock decodes the block at the head of wire, returning it and the number of
// bytes consumed.
func DecodeBlock(wire []byte) (*Block, int, error) {
	ttype, length, size, err := DecodeTypeLength(wire)
	if err != nil {
		return nil, 0, err
	}
	if size > len(wire) {
		return nil, 0, ErrBufferTooShort
	}
	value := make([]byte, length)
	copy(value, wire[size-int(length):size])
	return NewBlock(ttype, value), size, nil
}

// Parse decodes the value of the block into subelements.
func (b *Block) Parse() error {
	b.subelements = nil
	for offset := 0; offset < len(b.value); {
		elem, size, err := DecodeBlock(b.value[offset:])
		if err != nil {
			return err
		}
		b.subelements = append(b.subelements, elem)
		offset += size
	}
	return nil
}
