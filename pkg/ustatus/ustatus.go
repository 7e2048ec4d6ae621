// Package ustatus maps the module's error taxonomy onto gRPC status codes so
// transports can report failures in a uniform way.
//
// Example usage:
//
//	attrs, payload, err := serializer.Deserialize(data)
//	if err != nil {
//		return ustatus.FromError(err).Err()
//	}
package ustatus

import (
	"errors"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/descriptor"
	"github.com/rmacdonaldsmith/umesh-go/pkg/envelope"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapping is checked in order; the first sentinel matched by errors.Is wins.
// ErrMalformedEnvelope comes first because decode errors also wrap the
// address or attribute error that caused them.
var mapping = []struct {
	target error
	code   codes.Code
}{
	{envelope.ErrMalformedEnvelope, codes.DataLoss},
	{envelope.ErrUnsupportedFormat, codes.Unimplemented},
	{envelope.ErrInvalidAttributes, codes.InvalidArgument},
	{descriptor.ErrInvalidDescriptor, codes.InvalidArgument},

	{uri.ErrMismatchedRepresentation, codes.InvalidArgument},
	{uri.ErrInvalidAddressComponent, codes.InvalidArgument},
	{uri.ErrMalformedURI, codes.InvalidArgument},
	{uri.ErrNotRepresentable, codes.FailedPrecondition},

	{attributes.ErrInvalidPriority, codes.InvalidArgument},
	{attributes.ErrInvalidTTL, codes.InvalidArgument},
	{attributes.ErrInvalidType, codes.InvalidArgument},
	{attributes.ErrInvalidID, codes.InvalidArgument},
	{attributes.ErrMissingSource, codes.InvalidArgument},
	{attributes.ErrInvalidSource, codes.InvalidArgument},
	{attributes.ErrMissingSink, codes.InvalidArgument},
	{attributes.ErrInvalidSink, codes.InvalidArgument},
	{attributes.ErrMissingReqID, codes.InvalidArgument},
	{attributes.ErrInvalidHash, codes.InvalidArgument},
	{attributes.ErrInvalidToken, codes.InvalidArgument},
}

// Code returns the status code for err. A nil error is codes.OK, errors that
// already carry a gRPC status keep their code, anything unrecognized is
// codes.Unknown.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	for _, m := range mapping {
		if errors.Is(err, m.target) {
			return m.code
		}
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Unknown
}

// FromError converts err into a status carrying its code and message.
// A nil error yields an OK status.
func FromError(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	if s, ok := status.FromError(err); ok && Code(err) == s.Code() {
		return s
	}
	return status.New(Code(err), err.Error())
}
