package envelope

import (
	"errors"
	"fmt"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	binaryMagic   byte = 0x75 // 'u'
	binaryVersion byte = 0x01
)

// Envelope field numbers.
const (
	fieldID       protowire.Number = 1
	fieldType     protowire.Number = 2
	fieldSource   protowire.Number = 3
	fieldSink     protowire.Number = 4
	fieldPriority protowire.Number = 5
	fieldTTL      protowire.Number = 6
	fieldHash     protowire.Number = 7
	fieldToken    protowire.Number = 8
	fieldReqID    protowire.Number = 9
	fieldPayload  protowire.Number = 10
)

// URI field numbers.
const (
	uriAuthority   protowire.Number = 1
	uriUEName      protowire.Number = 2
	uriUEID        protowire.Number = 3
	uriUEVersion   protowire.Number = 4
	uriAnyVersion  protowire.Number = 5
	uriResource    protowire.Number = 6
	uriInstance    protowire.Number = 7
	uriMessage     protowire.Number = 8
	uriResourceID  protowire.Number = 9
	uriAnyInstance protowire.Number = 10
)

type binarySerializer struct{}

func (binarySerializer) Format() Format { return FormatBinary }

func (binarySerializer) Serialize(attrs *attributes.Attributes, payload []byte) ([]byte, error) {
	if !attrs.IsValid() {
		return nil, ErrInvalidAttributes
	}

	var b []byte
	b = appendString(b, fieldID, attrs.ID())
	b = appendVarint(b, fieldType, uint64(attrs.Type()))
	b = appendBytes(b, fieldSource, appendWireURI(nil, toWireURI(attrs.Source())))
	if attrs.HasSink() {
		b = appendBytes(b, fieldSink, appendWireURI(nil, toWireURI(attrs.Sink())))
	}
	b = appendVarint(b, fieldPriority, uint64(attrs.Priority()))
	if ttl, ok := attrs.TTL(); ok {
		b = appendVarint(b, fieldTTL, uint64(ttlMillis(ttl)))
	}
	if attrs.Hash() != "" {
		b = appendString(b, fieldHash, attrs.Hash())
	}
	if attrs.Token() != "" {
		b = appendString(b, fieldToken, attrs.Token())
	}
	if attrs.ReqID() != "" {
		b = appendString(b, fieldReqID, attrs.ReqID())
	}
	if len(payload) > 0 {
		b = appendBytes(b, fieldPayload, payload)
	}

	// Header: magic, version, body length. The length makes truncation at a
	// field boundary detectable.
	out := make([]byte, 0, len(b)+2+protowire.SizeVarint(uint64(len(b))))
	out = append(out, binaryMagic, binaryVersion)
	out = protowire.AppendVarint(out, uint64(len(b)))
	return append(out, b...), nil
}

func (binarySerializer) Deserialize(data []byte) (*attributes.Attributes, []byte, error) {
	if len(data) < 2 {
		return nil, nil, malformed("truncated header")
	}
	if data[0] != binaryMagic {
		return nil, nil, malformed("bad magic byte 0x%02x", data[0])
	}
	if data[1] != binaryVersion {
		return nil, nil, malformed("unsupported version %d", data[1])
	}
	bodyLen, n := protowire.ConsumeVarint(data[2:])
	if n < 0 {
		return nil, nil, fmt.Errorf("%w: body length: %w", ErrMalformedEnvelope, protowire.ParseError(n))
	}
	body := data[2+n:]
	if uint64(len(body)) != bodyLen {
		return nil, nil, malformed("body is %d bytes, header declares %d", len(body), bodyLen)
	}

	var (
		opts    attributes.Options
		payload []byte
		seen    = make(map[protowire.Number]bool)
	)
	err := consumeFields(body, envelopeWireTypes, func(num protowire.Number, f field) error {
		if seen[num] {
			return fmt.Errorf("duplicate field %d", num)
		}
		seen[num] = true

		switch num {
		case fieldID:
			opts.ID = f.str()
		case fieldType:
			if f.varint == 0 {
				return errors.New("unspecified message type")
			}
			opts.Type = attributes.Type(f.varint)
		case fieldSource, fieldSink:
			w, err := decodeWireURI(f.bytes)
			if err != nil {
				return err
			}
			u, err := w.toURI()
			if err != nil {
				return err
			}
			if num == fieldSource {
				opts.Source = u
			} else {
				opts.Sink = u
			}
		case fieldPriority:
			if f.varint == 0 {
				return errors.New("unspecified priority")
			}
			opts.Priority = attributes.Priority(f.varint)
		case fieldTTL:
			if f.varint > uint64(maxTTLMillis) {
				return fmt.Errorf("ttl %d ms out of range", f.varint)
			}
			ttl, err := ttlFromMillis(int64(f.varint))
			if err != nil {
				return err
			}
			opts.TTL = &ttl
		case fieldHash:
			opts.Hash = f.str()
		case fieldToken:
			opts.Token = f.str()
		case fieldReqID:
			opts.ReqID = f.str()
		case fieldPayload:
			payload = copyPayload(f.bytes)
		default:
			return fmt.Errorf("unknown field %d", num)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}

	for _, required := range []protowire.Number{fieldID, fieldType, fieldSource, fieldPriority} {
		if !seen[required] {
			return nil, nil, malformed("missing field %d", required)
		}
	}

	attrs, err := attributes.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return attrs, payload, nil
}

func appendWireURI(b []byte, w wireURI) []byte {
	if w.Authority != "" {
		b = appendString(b, uriAuthority, w.Authority)
	}
	if w.UEName != "" {
		b = appendString(b, uriUEName, w.UEName)
	}
	if w.UEID != 0 {
		b = appendVarint(b, uriUEID, uint64(w.UEID))
	}
	if w.UEVersion != 0 {
		b = appendVarint(b, uriUEVersion, uint64(w.UEVersion))
	}
	if w.AnyVersion {
		b = appendVarint(b, uriAnyVersion, 1)
	}
	if w.Resource != "" {
		b = appendString(b, uriResource, w.Resource)
	}
	if w.Instance != "" {
		b = appendString(b, uriInstance, w.Instance)
	}
	if w.Message != "" {
		b = appendString(b, uriMessage, w.Message)
	}
	if w.ResourceID != nil {
		b = appendVarint(b, uriResourceID, uint64(*w.ResourceID))
	}
	if w.AnyInstance {
		b = appendVarint(b, uriAnyInstance, 1)
	}
	return b
}

func decodeWireURI(data []byte) (wireURI, error) {
	var w wireURI
	seen := make(map[protowire.Number]bool)
	err := consumeFields(data, uriWireTypes, func(num protowire.Number, f field) error {
		if seen[num] {
			return fmt.Errorf("duplicate uri field %d", num)
		}
		seen[num] = true

		switch num {
		case uriAuthority:
			w.Authority = f.str()
		case uriUEName:
			w.UEName = f.str()
		case uriUEID:
			if f.varint > 0xFFFF {
				return fmt.Errorf("entity id %d out of range", f.varint)
			}
			w.UEID = uint16(f.varint)
		case uriUEVersion:
			if f.varint > 0xFF {
				return fmt.Errorf("entity version %d out of range", f.varint)
			}
			w.UEVersion = uint8(f.varint)
		case uriAnyVersion:
			w.AnyVersion = f.varint != 0
		case uriResource:
			w.Resource = f.str()
		case uriInstance:
			w.Instance = f.str()
		case uriMessage:
			w.Message = f.str()
		case uriResourceID:
			if f.varint > 0xFFFF {
				return fmt.Errorf("resource id %d out of range", f.varint)
			}
			id := uint16(f.varint)
			w.ResourceID = &id
		case uriAnyInstance:
			w.AnyInstance = f.varint != 0
		default:
			return fmt.Errorf("unknown uri field %d", num)
		}
		return nil
	})
	return w, err
}

var envelopeWireTypes = map[protowire.Number]protowire.Type{
	fieldID:       protowire.BytesType,
	fieldType:     protowire.VarintType,
	fieldSource:   protowire.BytesType,
	fieldSink:     protowire.BytesType,
	fieldPriority: protowire.VarintType,
	fieldTTL:      protowire.VarintType,
	fieldHash:     protowire.BytesType,
	fieldToken:    protowire.BytesType,
	fieldReqID:    protowire.BytesType,
	fieldPayload:  protowire.BytesType,
}

var uriWireTypes = map[protowire.Number]protowire.Type{
	uriAuthority:   protowire.BytesType,
	uriUEName:      protowire.BytesType,
	uriUEID:        protowire.VarintType,
	uriUEVersion:   protowire.VarintType,
	uriAnyVersion:  protowire.VarintType,
	uriResource:    protowire.BytesType,
	uriInstance:    protowire.BytesType,
	uriMessage:     protowire.BytesType,
	uriResourceID:  protowire.VarintType,
	uriAnyInstance: protowire.VarintType,
}

// field is one decoded protobuf field value.
type field struct {
	varint uint64
	bytes  []byte
}

func (f field) str() string { return string(f.bytes) }

// consumeFields walks every field in b, checking wire types against types.
func consumeFields(b []byte, types map[protowire.Number]protowire.Type, visit func(protowire.Number, field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		want, known := types[num]
		if !known {
			return fmt.Errorf("unknown field %d", num)
		}
		if typ != want {
			return fmt.Errorf("field %d has wire type %d, want %d", num, typ, want)
		}

		var f field
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := visit(num, f); err != nil {
			return err
		}
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}
