/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package ndn provides the minimal Interest/Data packet model used by the forwarder.
package ndn

import (
	"bytes"
	"errors"
	"strings"

	"github.com/named-data/minfd/ndn/tlv"
)

// NameComponent is a single generic name component.
type NameComponent []byte

// Equals returns whether the two name components are equal.
func (c NameComponent) Equals(other NameComponent) bool {
	return bytes.Equal(c, other)
}

// DeepCopy returns a copy of the name component.
func (c NameComponent) DeepCopy() NameComponent {
	copied := make(NameComponent, len(c))
	copy(copied, c)
	return copied
}

func (c NameComponent) String() string {
	return string(c)
}

// Name is a hierarchical NDN name.
type Name struct {
	components []NameComponent
}

// NameFromString constructs a name from a URI-like string (e.g. "/a/b/c").
func NameFromString(str string) (*Name, error) {
	n := new(Name)
	if str == "" || str == "/" {
		return n, nil
	}
	if str[0] != '/' {
		return nil, errors.New("name must begin with '/'")
	}
	for _, component := range strings.Split(str[1:], "/") {
		if component == "" {
			return nil, errors.New("name contains empty component")
		}
		n.components = append(n.components, NameComponent(component))
	}
	return n, nil
}

// Size returns the number of components in the name.
func (n *Name) Size() int {
	return len(n.components)
}

// At returns the component at the specified index.
func (n *Name) At(index int) NameComponent {
	return n.components[index]
}

// Append adds a component to the end of the name, returning the name for chaining.
func (n *Name) Append(component NameComponent) *Name {
	n.components = append(n.components, component)
	return n
}

// Prefix returns the prefix of the name containing size components.
func (n *Name) Prefix(size int) *Name {
	return &Name{components: n.components[:size]}
}

// Equals returns whether the two names are equal.
func (n *Name) Equals(other *Name) bool {
	if n.Size() != other.Size() {
		return false
	}
	for i, component := range n.components {
		if !component.Equals(other.components[i]) {
			return false
		}
	}
	return true
}

// PrefixOf returns whether the name is a prefix of the other name.
func (n *Name) PrefixOf(other *Name) bool {
	if n.Size() > other.Size() {
		return false
	}
	for i, component := range n.components {
		if !component.Equals(other.components[i]) {
			return false
		}
	}
	return true
}

// DeepCopy returns a copy of the name.
func (n *Name) DeepCopy() *Name {
	copied := new(Name)
	copied.components = make([]NameComponent, len(n.components))
	for i, component := range n.components {
		copied.components[i] = component.DeepCopy()
	}
	return copied
}

func (n *Name) String() string {
	if len(n.components) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, component := range n.components {
		b.WriteByte('/')
		b.Write(component)
	}
	return b.String()
}

// Encode encodes the name as a TLV block.
func (n *Name) Encode() *tlv.Block {
	wire := tlv.NewEmptyBlock(tlv.Name)
	for _, component := range n.components {
		wire.Append(tlv.NewBlock(tlv.GenericNameComponent, component))
	}
	return wire
}

// DecodeName decodes a name from a TLV block.
func DecodeName(wire *tlv.Block) (*Name, error) {
	if wire.Type() != tlv.Name {
		return nil, tlv.ErrUnexpected
	}
	if err := wire.Parse(); err != nil {
		return nil, err
	}
	n := new(Name)
	for _, elem := range wire.Subelements() {
		n.components = append(n.components, NameComponent(elem.Value()))
	}
	return n, nil
}
