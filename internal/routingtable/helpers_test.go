package routingtable

import (
	"testing"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/filter"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
)

// parseOrEmpty parses s, treating "" as the empty (omitted) address.
func parseOrEmpty(s string) uri.URI {
	if s == "" {
		return uri.URI{}
	}
	return uri.MustParse(s)
}

// newFilter builds a filter from address strings; "" means omitted.
func newFilter(source, sink string) filter.Filter {
	return filter.New(parseOrEmpty(source), parseOrEmpty(sink))
}

// newMessage builds publish attributes, or notification attributes when sink
// is given.
func newMessage(tb testing.TB, source, sink string) *attributes.Attributes {
	tb.Helper()
	opts := attributes.Options{Source: uri.MustParse(source)}
	if sink != "" {
		opts.Type = attributes.TypeNotification
		opts.Sink = uri.MustParse(sink)
	}
	attrs, err := attributes.New(opts)
	if err != nil {
		tb.Fatalf("Failed to build attributes: %v", err)
	}
	return attrs
}
