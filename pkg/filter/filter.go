// Package filter decides whether a message's source and sink addresses
// satisfy a subscription or routing rule.
//
// A Filter is a pair of address patterns. Each pattern is either the
// wildcard uri.Any() or a concrete address that may itself carry
// field-level wildcards (any authority, any version, any instance):
//
//	f := filter.New(uri.MustParse("/body.access/*/door.*"), uri.Any())
//	if filter.Matches(f, attrs) {
//		deliver(attrs, payload)
//	}
//
// Matching is pure and never fails: incomplete or malformed input simply
// does not match.
package filter

import (
	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
)

// Filter is an immutable (source pattern, sink pattern) pair.
type Filter struct {
	source uri.URI
	sink   uri.URI
}

// New creates a filter. An omitted (empty) pattern is replaced by uri.Any().
func New(source, sink uri.URI) Filter {
	if source.IsEmpty() {
		source = uri.Any()
	}
	if sink.IsEmpty() {
		sink = uri.Any()
	}
	return Filter{source: source, sink: sink}
}

// MatchAll returns the filter whose source and sink are both uri.Any().
func MatchAll() Filter {
	return New(uri.Any(), uri.Any())
}

// Source returns the source pattern.
func (f Filter) Source() uri.URI { return f.normalized().source }

// Sink returns the sink pattern.
func (f Filter) Sink() uri.URI { return f.normalized().sink }

// normalized applies the empty-pattern substitution to zero-value filters.
func (f Filter) normalized() Filter {
	if f.source.IsEmpty() || f.sink.IsEmpty() {
		return New(f.source, f.sink)
	}
	return f
}

// Equal reports whether two filters carry the same patterns.
func (f Filter) Equal(other Filter) bool {
	return f.normalized() == other.normalized()
}

// String renders the filter as "source -> sink".
func (f Filter) String() string {
	n := f.normalized()
	return n.source.String() + " -> " + n.sink.String()
}

// Matches reports whether attrs satisfies f. Absent or invalid attributes
// never match. Both sides must be satisfied; a uri.Any() side is satisfied
// unconditionally.
func Matches(f Filter, attrs *attributes.Attributes) bool {
	if !attrs.IsValid() {
		return false
	}
	f = f.normalized()

	if !f.source.IsAny() && !AddressMatches(f.source, attrs.Source()) {
		return false
	}
	if !f.sink.IsAny() && !AddressMatches(f.sink, attrs.Sink()) {
		return false
	}
	return true
}

// AddressMatches reports whether candidate satisfies pattern. Each part is
// compared for exact equality in every form both sides carry, and
// field-level wildcards in the pattern skip their slot. An empty candidate
// only matches uri.Any().
func AddressMatches(pattern, candidate uri.URI) bool {
	if pattern.IsAny() {
		return true
	}
	if pattern.IsEmpty() || candidate.IsEmpty() || candidate.IsAny() {
		return false
	}
	return authorityMatches(pattern.Authority(), candidate.Authority()) &&
		entityMatches(pattern.Entity(), candidate.Entity()) &&
		resourceMatches(pattern.Resource(), candidate.Resource())
}

func authorityMatches(pattern, candidate uri.Authority) bool {
	if pattern.IsAny() {
		return true
	}
	if candidate.IsAny() {
		return false
	}
	return pattern == candidate
}

func entityMatches(pattern, candidate uri.Entity) bool {
	shared := pattern.Forms() & candidate.Forms()
	if shared == 0 {
		return false
	}
	if shared.Has(uri.FormLong) && pattern.Name() != candidate.Name() {
		return false
	}
	if shared.Has(uri.FormShort) && pattern.ID() != candidate.ID() {
		return false
	}
	if pattern.IsAnyVersion() {
		return true
	}
	return !candidate.IsAnyVersion() && pattern.MajorVersion() == candidate.MajorVersion()
}

func resourceMatches(pattern, candidate uri.Resource) bool {
	shared := pattern.Forms() & candidate.Forms()
	if shared == 0 {
		return false
	}
	if shared.Has(uri.FormLong) {
		if pattern.Name() != candidate.Name() || pattern.Message() != candidate.Message() {
			return false
		}
		if !pattern.IsAnyInstance() &&
			(candidate.IsAnyInstance() || pattern.Instance() != candidate.Instance()) {
			return false
		}
	}
	if shared.Has(uri.FormShort) {
		patternID, _ := pattern.ID()
		candidateID, _ := candidate.ID()
		if patternID != candidateID {
			return false
		}
	}
	return true
}
