/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/named-data/minfd/core"
)

// URIType represents the type of the URI.
type URIType int

const (
	unknownURI URIType = iota
	devURI
	internalURI
	nullURI
	udpURI
)

const devPattern = `^(?P<scheme>dev)://(?P<ifname>[A-Za-z0-9\-]+)$`
const udpPattern = `^(?P<scheme>udp[46]?)://\[?(?P<host>[0-9A-Za-z\:\.\-]+)(%(?P<zone>[A-Za-z0-9\-]+))?\]?:(?P<port>[0-9]+)$`

// URI represents a URI for a face.
type URI struct {
	uriType URIType
	scheme  string
	path    string
	port    uint16
}

// MakeDevFaceURI constructs a URI for a network interface.
func MakeDevFaceURI(ifname string) *URI {
	uri := &URI{uriType: devURI, scheme: "dev", path: ifname}
	uri.Canonize()
	return uri
}

// MakeInternalFaceURI constructs an internal face URI.
func MakeInternalFaceURI() *URI {
	return &URI{uriType: internalURI, scheme: "internal"}
}

// MakeNullFaceURI constructs a null face URI.
func MakeNullFaceURI() *URI {
	return &URI{uriType: nullURI, scheme: "null"}
}

// MakeUDPFaceURI constructs a URI for a UDP face.
func MakeUDPFaceURI(ipVersion int, host string, port uint16) *URI {
	uri := &URI{uriType: udpURI, scheme: "udp" + strconv.Itoa(ipVersion), path: host, port: port}
	uri.Canonize()
	return uri
}

// DecodeURIString decodes a URI from a string.
func DecodeURIString(str string) *URI {
	uri := &URI{uriType: unknownURI, scheme: "unknown"}
	if strings.HasPrefix(str, "dev://") {
		re := regexp.MustCompile(devPattern)
		matches := re.FindStringSubmatch(str)
		if matches == nil {
			return uri
		}
		uri.uriType = devURI
		uri.scheme = "dev"
		uri.path = matches[re.SubexpIndex("ifname")]
	} else if str == "internal://" {
		uri.uriType = internalURI
		uri.scheme = "internal"
	} else if str == "null://" {
		uri.uriType = nullURI
		uri.scheme = "null"
	} else if strings.HasPrefix(str, "udp") {
		re := regexp.MustCompile(udpPattern)
		matches := re.FindStringSubmatch(str)
		if matches == nil {
			return uri
		}
		uri.uriType = udpURI
		uri.scheme = matches[re.SubexpIndex("scheme")]
		uri.path = matches[re.SubexpIndex("host")]
		if zone := matches[re.SubexpIndex("zone")]; zone != "" {
			uri.path += "%" + zone
		}
		port, err := strconv.ParseUint(matches[re.SubexpIndex("port")], 10, 16)
		if err != nil {
			uri.uriType = unknownURI
			return uri
		}
		uri.port = uint16(port)
	}
	uri.Canonize()
	return uri
}

// URIType returns the type of the face URI.
func (u *URI) URIType() URIType {
	return u.uriType
}

// Scheme returns the scheme of the face URI.
func (u *URI) Scheme() string {
	return u.scheme
}

// Path returns the path of the face URI.
func (u *URI) Path() string {
	return u.path
}

// PathHost returns the host component of the path of the face URI.
func (u *URI) PathHost() string {
	pathComponents := strings.Split(u.path, "%")
	return pathComponents[0]
}

// PathZone returns the zone component of the path of the face URI, if any.
func (u *URI) PathZone() string {
	pathComponents := strings.Split(u.path, "%")
	if len(pathComponents) < 2 {
		return ""
	}
	return pathComponents[1]
}

// Port returns the port of the face URI.
func (u *URI) Port() uint16 {
	return u.port
}

// IsCanonical returns whether the face URI is canonical.
func (u *URI) IsCanonical() bool {
	switch u.uriType {
	case devURI:
		iface, err := net.InterfaceByName(u.path)
		return err == nil && iface != nil && u.port == 0
	case internalURI, nullURI:
		return u.path == "" && u.port == 0
	case udpURI:
		ip := net.ParseIP(u.PathHost())
		if ip == nil || u.port == 0 {
			return false
		}
		return (u.scheme == "udp4" && ip.To4() != nil) ||
			(u.scheme == "udp6" && ip.To4() == nil && ip.To16() != nil)
	default:
		return false
	}
}

// Canonize attempts to canonize the URI, if not already canonical.
func (u *URI) Canonize() error {
	if u.uriType != udpURI {
		// Only URIs with host components can be made canonical here
		return nil
	}

	path := u.PathHost()
	zone := u.PathZone()
	ip := net.ParseIP(path)
	if ip == nil {
		// Resolve the hostname
		resolved, err := net.ResolveIPAddr("ip", path)
		if err != nil {
			return core.ErrNotCanonical
		}
		ip = resolved.IP
		if resolved.Zone != "" {
			zone = resolved.Zone
		}
	}

	if ip.To4() != nil {
		u.scheme = "udp4"
		u.path = ip.String()
	} else if ip.To16() != nil {
		u.scheme = "udp6"
		u.path = ip.String()
		if zone != "" {
			u.path += "%" + zone
		}
	} else {
		return core.ErrNotCanonical
	}
	return nil
}

func (u *URI) String() string {
	switch u.uriType {
	case devURI:
		return "dev://" + u.path
	case internalURI:
		return "internal://"
	case nullURI:
		return "null://"
	case udpURI:
		if u.scheme == "udp6" {
			return u.scheme + "://[" + u.path + "]:" + strconv.FormatUint(uint64(u.port), 10)
		}
		return u.scheme + "://" + u.path + ":" + strconv.FormatUint(uint64(u.port), 10)
	default:
		return "unknown://"
	}
}
