package attributes

import (
	"fmt"
	"strings"
)

// Type is the kind of message the attributes describe.
type Type int

const (
	// TypeUnspecified selects TypePublish in Options
	TypeUnspecified Type = iota
	// TypePublish is a message published to a topic
	TypePublish
	// TypeRequest is an RPC request
	TypeRequest
	// TypeResponse is an RPC response
	TypeResponse
	// TypeNotification is a message sent to a specific sink
	TypeNotification
)

var typeNames = [...]string{
	TypePublish:      "pub.v1",
	TypeRequest:      "req.v1",
	TypeResponse:     "res.v1",
	TypeNotification: "not.v1",
}

// IsValid reports whether t is a known message type.
func (t Type) IsValid() bool {
	return t >= TypePublish && t <= TypeNotification
}

// String returns the wire name of the type ("pub.v1", "req.v1", ...).
func (t Type) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType parses a wire type name.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name != "" && strings.EqualFold(s, name) {
			return Type(t), nil
		}
	}
	return TypeUnspecified, fmt.Errorf("%w: %q", ErrInvalidType, s)
}
