package attributes

import (
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"github.com/zeebo/blake3"
)

// Options enumerates the recognized attribute options. Zero values select
// the documented defaults.
type Options struct {
	// ID is the unique message id (UUID). Generated as a UUIDv7 when empty.
	ID string

	// Type is the message type. Defaults to TypePublish.
	Type Type

	// Source is the sender address (required, concrete).
	Source uri.URI

	// Sink is the destination address. Optional for published messages.
	Sink uri.URI

	// Priority is the QoS class. Defaults to DefaultPriority.
	Priority Priority

	// TTL is the time to live. Nil means the message never expires.
	// Must be non-negative and a whole number of milliseconds.
	TTL *time.Duration

	// Hash is an opaque content integrity digest. Must be valid UTF-8;
	// binary digests are carried hex or base64 encoded.
	Hash string

	// Token is an opaque security token. Must be valid UTF-8.
	Token string

	// ReqID is the id of the request a response answers.
	ReqID string
}

// Attributes is the immutable metadata of a single message.
type Attributes struct {
	id       string
	msgType  Type
	source   uri.URI
	sink     uri.URI
	priority Priority
	ttl      time.Duration
	hasTTL   bool
	hash     string
	token    string
	reqID    string
}

// New validates opts, applies defaults and returns the attributes.
// A failed validation never yields a partially valid value.
func New(opts Options) (*Attributes, error) {
	attrs := &Attributes{
		msgType:  opts.Type,
		source:   opts.Source,
		sink:     opts.Sink,
		priority: opts.Priority,
		hash:     opts.Hash,
		token:    opts.Token,
	}

	id, err := normalizeID(opts.ID)
	if err != nil {
		return nil, err
	}
	attrs.id = id

	if attrs.msgType == TypeUnspecified {
		attrs.msgType = TypePublish
	}
	if !attrs.msgType.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, int(opts.Type))
	}

	if attrs.priority == PriorityUnspecified {
		attrs.priority = DefaultPriority
	}
	if !attrs.priority.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, int(opts.Priority))
	}

	if opts.TTL != nil {
		ttl := *opts.TTL
		if ttl < 0 {
			return nil, fmt.Errorf("%w: %s is negative", ErrInvalidTTL, ttl)
		}
		if ttl%time.Millisecond != 0 {
			return nil, fmt.Errorf("%w: %s is not a whole number of milliseconds", ErrInvalidTTL, ttl)
		}
		attrs.ttl = ttl
		attrs.hasTTL = true
	}

	if !utf8.ValidString(opts.Hash) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, opts.Hash)
	}
	if !utf8.ValidString(opts.Token) {
		return nil, ErrInvalidToken
	}

	if err := validateAddresses(attrs.msgType, opts.Source, opts.Sink); err != nil {
		return nil, err
	}

	if opts.ReqID != "" {
		reqID, err := uuid.Parse(opts.ReqID)
		if err != nil {
			return nil, fmt.Errorf("%w: request id %q", ErrInvalidID, opts.ReqID)
		}
		attrs.reqID = reqID.String()
	}
	if attrs.msgType == TypeResponse && attrs.reqID == "" {
		return nil, ErrMissingReqID
	}

	return attrs, nil
}

func normalizeID(id string) (string, error) {
	if id == "" {
		generated, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating message id: %w", err)
		}
		return generated.String(), nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return parsed.String(), nil
}

func validateAddresses(msgType Type, source, sink uri.URI) error {
	if source.IsEmpty() {
		return ErrMissingSource
	}
	if source.IsPattern() {
		return fmt.Errorf("%w: %s", ErrInvalidSource, source)
	}
	if sink.IsEmpty() {
		if msgType != TypePublish {
			return fmt.Errorf("%w: %s message", ErrMissingSink, msgType)
		}
		return nil
	}
	if sink.IsPattern() {
		return fmt.Errorf("%w: %s", ErrInvalidSink, sink)
	}
	return nil
}

// ID returns the unique message id.
func (a *Attributes) ID() string { return a.id }

// Type returns the message type.
func (a *Attributes) Type() Type { return a.msgType }

// Source returns the sender address.
func (a *Attributes) Source() uri.URI { return a.source }

// Sink returns the destination address; the empty URI when there is none.
func (a *Attributes) Sink() uri.URI { return a.sink }

// HasSink reports whether a sink address was declared.
func (a *Attributes) HasSink() bool { return !a.sink.IsEmpty() }

// Priority returns the QoS class.
func (a *Attributes) Priority() Priority { return a.priority }

// TTL returns the time to live and whether one was set.
func (a *Attributes) TTL() (time.Duration, bool) { return a.ttl, a.hasTTL }

// Hash returns the opaque integrity digest.
func (a *Attributes) Hash() string { return a.hash }

// Token returns the opaque security token.
func (a *Attributes) Token() string { return a.token }

// ReqID returns the id of the request a response answers.
func (a *Attributes) ReqID() string { return a.reqID }

// IsValid reports whether a was produced by New. Zero-value attributes
// have no source and are never valid.
func (a *Attributes) IsValid() bool {
	return a != nil && a.id != "" && !a.source.IsEmpty()
}

// CreatedAt returns the creation time encoded in a UUIDv7 message id.
func (a *Attributes) CreatedAt() (time.Time, bool) {
	id, err := uuid.Parse(a.id)
	if err != nil || id.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec), true
}

// IsExpired reports whether the message has outlived its ttl at now.
// Messages without a ttl, with a ttl of 0, or whose id carries no
// timestamp never expire.
func (a *Attributes) IsExpired(now time.Time) bool {
	if !a.hasTTL || a.ttl == 0 {
		return false
	}
	createdAt, ok := a.CreatedAt()
	if !ok {
		return false
	}
	return now.Sub(createdAt) > a.ttl
}

// Options returns the options that rebuild these attributes.
func (a *Attributes) Options() Options {
	opts := Options{
		ID:       a.id,
		Type:     a.msgType,
		Source:   a.source,
		Sink:     a.sink,
		Priority: a.priority,
		Hash:     a.hash,
		Token:    a.token,
		ReqID:    a.reqID,
	}
	if a.hasTTL {
		ttl := a.ttl
		opts.TTL = &ttl
	}
	return opts
}

// Equal reports whether two attributes carry identical values.
func (a *Attributes) Equal(other *Attributes) bool {
	if a == nil || other == nil {
		return a == other
	}
	return *a == *other
}

// Digest returns the hex encoded BLAKE3-256 digest of payload, suitable for
// the Hash option.
func Digest(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
