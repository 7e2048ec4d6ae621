package uri

import (
	"fmt"
	"net/netip"
	"strings"
)

type authorityKind uint8

const (
	authorityLocal authorityKind = iota
	authorityNamed
	authorityNetwork
	authorityAny
)

// Authority identifies the device and domain hosting an entity.
// The zero value is the local authority.
type Authority struct {
	kind   authorityKind
	device string
	domain string
	addr   netip.Addr
}

// LocalAuthority returns the authority of an entity on the local device.
func LocalAuthority() Authority {
	return Authority{kind: authorityLocal}
}

// AnyAuthority returns the field-level wildcard matching every authority.
func AnyAuthority() Authority {
	return Authority{kind: authorityAny}
}

// NewNamedAuthority creates a long form authority from a device and an
// optional domain name. Both are lower-cased.
func NewNamedAuthority(device, domain string) (Authority, error) {
	device = strings.ToLower(device)
	domain = strings.ToLower(domain)
	if !validDeviceName(device) {
		return Authority{}, fmt.Errorf("%w: device name %q", ErrInvalidAddressComponent, device)
	}
	if domain != "" && !validDomainName(domain) {
		return Authority{}, fmt.Errorf("%w: domain name %q", ErrInvalidAddressComponent, domain)
	}
	return Authority{kind: authorityNamed, device: device, domain: domain}, nil
}

// NewNetworkAuthority creates a short form authority from a network address.
func NewNetworkAuthority(addr netip.Addr) (Authority, error) {
	if !addr.IsValid() {
		return Authority{}, fmt.Errorf("%w: invalid network address", ErrInvalidAddressComponent)
	}
	return Authority{kind: authorityNetwork, addr: addr.WithZone("")}, nil
}

// ParseAuthority parses the text between "//" and the next "/" of a URI.
// The empty string is the local authority and "*" the wildcard.
func ParseAuthority(s string) (Authority, error) {
	if s == "" {
		return LocalAuthority(), nil
	}
	if s == "*" {
		return AnyAuthority(), nil
	}
	if addr, err := netip.ParseAddr(s); err == nil {
		return NewNetworkAuthority(addr)
	}
	device, domain, _ := strings.Cut(s, ".")
	return NewNamedAuthority(device, domain)
}

// Forms returns the representations this authority can be rendered in.
func (a Authority) Forms() Form {
	switch a.kind {
	case authorityNamed:
		return FormLong
	case authorityNetwork:
		return FormShort
	default:
		return FormResolved
	}
}

// IsLocal reports whether this is the local authority.
func (a Authority) IsLocal() bool { return a.kind == authorityLocal }

// IsAny reports whether this authority is a wildcard.
func (a Authority) IsAny() bool { return a.kind == authorityAny }

// Device returns the device name of a named authority.
func (a Authority) Device() string { return a.device }

// Domain returns the domain name of a named authority.
func (a Authority) Domain() string { return a.domain }

// Addr returns the network address of a networked authority.
func (a Authority) Addr() netip.Addr { return a.addr }

// String renders the authority without the leading "//".
// The local authority renders as the empty string.
func (a Authority) String() string {
	switch a.kind {
	case authorityNamed:
		if a.domain == "" {
			return a.device
		}
		return a.device + "." + a.domain
	case authorityNetwork:
		return a.addr.String()
	case authorityAny:
		return "*"
	default:
		return ""
	}
}
