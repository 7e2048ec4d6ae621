package attributes

import "errors"

var (
	// ErrInvalidPriority is returned when a priority is not one of the QoS classes
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidTTL is returned when a ttl is negative or not whole milliseconds
	ErrInvalidTTL = errors.New("invalid ttl")
	// ErrInvalidType is returned when a message type is unknown
	ErrInvalidType = errors.New("invalid message type")
	// ErrInvalidID is returned when a message or request id is not a UUID
	ErrInvalidID = errors.New("invalid message id")
	// ErrMissingSource is returned when attributes have no source address
	ErrMissingSource = errors.New("source address is required")
	// ErrInvalidSource is returned when the source address is a wildcard
	ErrInvalidSource = errors.New("source address must be concrete")
	// ErrMissingSink is returned when a request, response or notification has no sink
	ErrMissingSink = errors.New("sink address is required")
	// ErrInvalidSink is returned when the sink address is a wildcard
	ErrInvalidSink = errors.New("sink address must be concrete")
	// ErrInvalidHash is returned when a hash is not valid UTF-8
	ErrInvalidHash = errors.New("hash must be valid utf-8")
	// ErrInvalidToken is returned when a token is not valid UTF-8
	ErrInvalidToken = errors.New("token must be valid utf-8")
	// ErrMissingReqID is returned when a response does not reference its request
	ErrMissingReqID = errors.New("request id is required for responses")
)
