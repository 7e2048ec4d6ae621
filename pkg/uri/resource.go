package uri

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// RPCMethodThreshold is the first numeric resource id that denotes a topic.
	// Ids below it are RPC methods.
	RPCMethodThreshold = 100
	// MaxResourceID is the largest numeric resource id
	MaxResourceID = 0xFFFF

	rpcResourceName  = "rpc"
	rpcResponseName  = "response"
	rpcResponseID    = 0
	anyInstanceToken = "*"
)

// Resource is a topic or RPC method exposed by an entity.
// The zero value is the empty resource, which has no representation.
type Resource struct {
	name        string
	instance    string
	message     string
	id          uint16
	hasID       bool
	anyInstance bool
}

// NewLongResource creates a resource from its name, an optional instance
// qualifier and an optional message type name.
func NewLongResource(name, instance, message string) (Resource, error) {
	if !validResourceName(name) {
		return Resource{}, fmt.Errorf("%w: resource name %q", ErrInvalidAddressComponent, name)
	}
	if instance != "" && !validInstance(instance) {
		return Resource{}, fmt.Errorf("%w: resource instance %q", ErrInvalidAddressComponent, instance)
	}
	if message != "" && !validMessageName(message) {
		return Resource{}, fmt.Errorf("%w: resource message %q", ErrInvalidAddressComponent, message)
	}
	return Resource{name: name, instance: instance, message: message}, nil
}

// NewShortResource creates a resource identified by numeric id.
func NewShortResource(id int) (Resource, error) {
	resourceID, err := checkResourceID(id)
	if err != nil {
		return Resource{}, err
	}
	return Resource{id: resourceID, hasID: true}, nil
}

// NewResolvedResource creates a resource carrying both its names and its
// numeric id. The name and the id must agree on whether the resource is an
// RPC method.
func NewResolvedResource(name, instance, message string, id int) (Resource, error) {
	r, err := NewLongResource(name, instance, message)
	if err != nil {
		return Resource{}, err
	}
	resourceID, err := checkResourceID(id)
	if err != nil {
		return Resource{}, err
	}
	if (name == rpcResourceName) != (resourceID < RPCMethodThreshold) {
		return Resource{}, fmt.Errorf("%w: resource %q and id %d disagree on rpc classification",
			ErrInvalidAddressComponent, name, id)
	}
	r.id = resourceID
	r.hasID = true
	return r, nil
}

// NewRPCMethod creates the long form resource of an RPC method ("rpc.<method>").
func NewRPCMethod(method string) (Resource, error) {
	return NewLongResource(rpcResourceName, method, "")
}

// RPCResponse returns the resolved resource that RPC responses are sent to.
func RPCResponse() Resource {
	return Resource{name: rpcResourceName, instance: rpcResponseName, id: rpcResponseID, hasID: true}
}

func checkResourceID(id int) (uint16, error) {
	if id < 0 || id > MaxResourceID {
		return 0, fmt.Errorf("%w: resource id %d out of range [0, %d]", ErrInvalidAddressComponent, id, MaxResourceID)
	}
	return uint16(id), nil
}

// parseLongResource parses "name[.instance][#message]".
func parseLongResource(s string) (Resource, error) {
	rest, message, _ := strings.Cut(s, "#")
	name, instance, hasInstance := strings.Cut(rest, ".")
	anyInstance := hasInstance && instance == anyInstanceToken
	if anyInstance {
		instance = ""
	}
	r, err := NewLongResource(name, instance, message)
	if err != nil {
		return Resource{}, err
	}
	if hasInstance && instance == "" && !anyInstance {
		return Resource{}, fmt.Errorf("%w: empty resource instance in %q", ErrInvalidAddressComponent, s)
	}
	if anyInstance {
		r = r.WithAnyInstance()
	}
	return r, nil
}

// WithAnyInstance returns a copy of the resource matching every instance of
// its name.
func (r Resource) WithAnyInstance() Resource {
	r.anyInstance = true
	r.instance = ""
	return r
}

// Name returns the resource name, empty for short form resources.
func (r Resource) Name() string { return r.name }

// Instance returns the instance qualifier.
func (r Resource) Instance() string { return r.instance }

// Message returns the message type name.
func (r Resource) Message() string { return r.message }

// ID returns the numeric resource id and whether the resource has one.
func (r Resource) ID() (uint16, bool) { return r.id, r.hasID }

// IsAnyInstance reports whether the instance is a wildcard.
func (r Resource) IsAnyInstance() bool { return r.anyInstance }

// IsZero reports whether this is the empty resource.
func (r Resource) IsZero() bool { return r == Resource{} }

// IsRPCMethod reports whether the resource is an RPC method rather than a
// publish topic. Numeric ids decide when present; otherwise the name does.
func (r Resource) IsRPCMethod() bool {
	if r.hasID {
		return r.id < RPCMethodThreshold
	}
	return r.name == rpcResourceName
}

// Forms returns the representations this resource can be rendered in.
func (r Resource) Forms() Form {
	var f Form
	if r.name != "" {
		f |= FormLong
	}
	if r.hasID {
		f |= FormShort
	}
	return f
}

func (r Resource) longString() string {
	var b strings.Builder
	b.WriteString(r.name)
	switch {
	case r.anyInstance:
		b.WriteString("." + anyInstanceToken)
	case r.instance != "":
		b.WriteString("." + r.instance)
	}
	if r.message != "" {
		b.WriteString("#" + r.message)
	}
	return b.String()
}

// String renders the resource in its long form when it has one.
func (r Resource) String() string {
	if r.name != "" {
		return r.longString()
	}
	return strconv.Itoa(int(r.id))
}
