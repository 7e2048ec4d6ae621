package envelope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
)

var (
	// ErrMalformedEnvelope is returned when bytes cannot be decoded into an envelope
	ErrMalformedEnvelope = errors.New("malformed envelope")
	// ErrUnsupportedFormat is returned for an unknown Format
	ErrUnsupportedFormat = errors.New("unsupported envelope format")
	// ErrInvalidAttributes is returned when serializing nil or zero-value attributes
	ErrInvalidAttributes = errors.New("invalid attributes")
)

// Format selects a wire encoding.
type Format int

const (
	// FormatUnspecified is not a valid encoding
	FormatUnspecified Format = iota
	// FormatJSON is the structured-text encoding
	FormatJSON
	// FormatBinary is the binary-efficient encoding
	FormatBinary
)

// String returns "json" or "binary".
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ContentType returns the media type transports should label envelopes with.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/cloudevents+json"
	case FormatBinary:
		return "application/x-umesh-envelope"
	default:
		return ""
	}
}

// ParseFormat parses "json" or "binary" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "binary", "bin":
		return FormatBinary, nil
	default:
		return FormatUnspecified, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Serializer maps attributes and a payload to and from one wire encoding.
// Implementations are stateless and safe for concurrent use.
type Serializer interface {
	// Format returns the encoding this serializer produces
	Format() Format

	// Serialize encodes attrs and payload
	Serialize(attrs *attributes.Attributes, payload []byte) ([]byte, error)

	// Deserialize decodes data. Every failure wraps ErrMalformedEnvelope.
	Deserialize(data []byte) (*attributes.Attributes, []byte, error)
}

// New returns the serializer for format.
func New(format Format) (Serializer, error) {
	switch format {
	case FormatJSON:
		return jsonSerializer{}, nil
	case FormatBinary:
		return binarySerializer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Envelope is a decoded (attributes, payload) pair.
type Envelope struct {
	Attributes *attributes.Attributes
	Payload    []byte
}

// Encode serializes env with the serializer for format.
func Encode(format Format, env Envelope) ([]byte, error) {
	s, err := New(format)
	if err != nil {
		return nil, err
	}
	return s.Serialize(env.Attributes, env.Payload)
}

// Decode deserializes data with the serializer for format.
func Decode(format Format, data []byte) (Envelope, error) {
	s, err := New(format)
	if err != nil {
		return Envelope{}, err
	}
	attrs, payload, err := s.Deserialize(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Attributes: attrs, Payload: payload}, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedEnvelope, fmt.Sprintf(format, args...))
}

func copyPayload(payload []byte) []byte {
	if len(payload) == 0 {
		return nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out
}
