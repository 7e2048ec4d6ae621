package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
)

// jsonSpecVersion is the only accepted "specversion" value.
const jsonSpecVersion = "1.0"

type jsonEnvelope struct {
	SpecVersion string   `json:"specversion"`
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Source      *wireURI `json:"source"`
	Sink        *wireURI `json:"sink,omitempty"`
	Priority    string   `json:"priority"`
	TTL         *int64   `json:"ttl,omitempty"`
	Hash        string   `json:"hash,omitempty"`
	Token       string   `json:"token,omitempty"`
	ReqID       string   `json:"reqid,omitempty"`
	DataBase64  string   `json:"data_base64,omitempty"`
}

// jsonKeys holds every key of jsonEnvelope and wireURI, indexed by the
// case-folded form encoding/json matches them with.
var jsonKeys = func() map[string]string {
	names := []string{
		"specversion", "id", "type", "source", "sink", "priority", "ttl",
		"hash", "token", "reqid", "data_base64",
		"authority", "ue_name", "ue_id", "ue_version", "ue_any_version",
		"resource", "instance", "message", "resource_id", "any_instance",
	}
	keys := make(map[string]string, len(names))
	for _, name := range names {
		keys[foldKey(name)] = name
	}
	return keys
}()

func foldKey(key string) string {
	return strings.Map(func(r rune) rune {
		return unicode.ToUpper(unicode.ToLower(r))
	}, key)
}

// checkKeys walks data and rejects objects that repeat a key or spell a
// known key in a different case. encoding/json would otherwise keep only
// one of the values.
func checkKeys(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]string)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			folded := foldKey(key)
			if prev, dup := seen[folded]; dup {
				if prev == key {
					return fmt.Errorf("duplicate key %q", key)
				}
				return fmt.Errorf("key %q collides with %q", key, prev)
			}
			seen[folded] = key
			if name, known := jsonKeys[folded]; known && name != key {
				return fmt.Errorf("key %q must be spelled %q", key, name)
			}
			if err := checkKeys(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := checkKeys(dec); err != nil {
				return err
			}
		}
	}

	// closing delimiter
	_, err = dec.Token()
	return err
}

type jsonSerializer struct{}

func (jsonSerializer) Format() Format { return FormatJSON }

func (jsonSerializer) Serialize(attrs *attributes.Attributes, payload []byte) ([]byte, error) {
	if !attrs.IsValid() {
		return nil, ErrInvalidAttributes
	}

	source := toWireURI(attrs.Source())
	env := jsonEnvelope{
		SpecVersion: jsonSpecVersion,
		ID:          attrs.ID(),
		Type:        attrs.Type().String(),
		Source:      &source,
		Priority:    attrs.Priority().String(),
		Hash:        attrs.Hash(),
		Token:       attrs.Token(),
		ReqID:       attrs.ReqID(),
	}
	if attrs.HasSink() {
		sink := toWireURI(attrs.Sink())
		env.Sink = &sink
	}
	if ttl, ok := attrs.TTL(); ok {
		ms := ttlMillis(ttl)
		env.TTL = &ms
	}
	if len(payload) > 0 {
		env.DataBase64 = base64.StdEncoding.EncodeToString(payload)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding json envelope: %w", err)
	}
	return data, nil
}

func (jsonSerializer) Deserialize(data []byte) (*attributes.Attributes, []byte, error) {
	if !utf8.Valid(data) {
		return nil, nil, malformed("json envelope is not valid utf-8")
	}
	if err := checkKeys(json.NewDecoder(bytes.NewReader(data))); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var env jsonEnvelope
	if err := decoder.Decode(&env); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, nil, malformed("trailing data after json envelope")
	}

	if env.SpecVersion != jsonSpecVersion {
		return nil, nil, malformed("unsupported specversion %q", env.SpecVersion)
	}
	if env.Source == nil {
		return nil, nil, malformed("missing source")
	}
	if env.ID == "" {
		return nil, nil, malformed("missing id")
	}

	opts := attributes.Options{
		ID:    env.ID,
		Hash:  env.Hash,
		Token: env.Token,
		ReqID: env.ReqID,
	}

	var err error
	if opts.Type, err = attributes.ParseType(env.Type); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if opts.Priority, err = attributes.ParsePriority(env.Priority); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if opts.Source, err = env.Source.toURI(); err != nil {
		return nil, nil, fmt.Errorf("%w: source: %w", ErrMalformedEnvelope, err)
	}
	if env.Sink != nil {
		if opts.Sink, err = env.Sink.toURI(); err != nil {
			return nil, nil, fmt.Errorf("%w: sink: %w", ErrMalformedEnvelope, err)
		}
	}
	if env.TTL != nil {
		ttl, err := ttlFromMillis(*env.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
		}
		opts.TTL = &ttl
	}

	var payload []byte
	if env.DataBase64 != "" {
		payload, err = base64.StdEncoding.DecodeString(env.DataBase64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: data_base64: %w", ErrMalformedEnvelope, err)
		}
	}

	attrs, err := attributes.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return attrs, copyPayload(payload), nil
}
