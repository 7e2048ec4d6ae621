package uri

import (
	"fmt"
	"strconv"
)

// URI addresses a resource of an entity hosted by an authority.
// The zero value is the empty URI; Any() is the wildcard URI.
type URI struct {
	authority Authority
	entity    Entity
	resource  Resource
	form      Form
	wildcard  bool
}

// New creates a URI from its three parts. The parts must share at least one
// representation form.
func New(authority Authority, entity Entity, resource Resource) (URI, error) {
	if entity.Forms() == 0 {
		return URI{}, fmt.Errorf("%w: entity has no name or id", ErrInvalidAddressComponent)
	}
	if resource.Forms() == 0 {
		return URI{}, fmt.Errorf("%w: resource has no name or id", ErrInvalidAddressComponent)
	}
	form := authority.Forms() & entity.Forms() & resource.Forms()
	if form == 0 {
		return URI{}, fmt.Errorf("%w: authority %s, entity %s, resource %s",
			ErrMismatchedRepresentation, authority.Forms(), entity.Forms(), resource.Forms())
	}
	return URI{
		authority: authority,
		entity:    entity,
		resource:  resource,
		form:      form,
	}, nil
}

// Any returns the wildcard URI that matches every address in a filter.
func Any() URI {
	return URI{wildcard: true}
}

// Authority returns the authority part.
func (u URI) Authority() Authority { return u.authority }

// Entity returns the entity part.
func (u URI) Entity() Entity { return u.entity }

// Resource returns the resource part.
func (u URI) Resource() Resource { return u.resource }

// Parts returns the authority, entity and resource of the URI.
func (u URI) Parts() (Authority, Entity, Resource) {
	return u.authority, u.entity, u.resource
}

// Form returns the representation forms shared by all three parts.
func (u URI) Form() Form { return u.form }

// IsAny reports whether this is the wildcard URI.
func (u URI) IsAny() bool { return u.wildcard }

// IsEmpty reports whether this is the zero URI.
func (u URI) IsEmpty() bool { return u == URI{} }

// IsPattern reports whether the URI contains a wildcard at any level.
func (u URI) IsPattern() bool {
	return u.wildcard || u.authority.IsAny() || u.entity.IsAnyVersion() || u.resource.IsAnyInstance()
}

// IsRPCMethod reports whether the URI addresses an RPC method.
func (u URI) IsRPCMethod() bool {
	return !u.wildcard && u.resource.IsRPCMethod()
}

// Equal reports whether two URIs are structurally identical.
func (u URI) Equal(other URI) bool {
	return u == other
}

// String renders the long form when the URI has one, otherwise the short form.
// Any() renders as "*" and the empty URI as "".
func (u URI) String() string {
	switch {
	case u.wildcard:
		return "*"
	case u.IsEmpty():
		return ""
	case u.form.Has(FormLong):
		return u.longString()
	default:
		return u.shortString()
	}
}

// LongString renders the URI with names: "//device.domain/entity/version/resource.instance#Message".
func (u URI) LongString() (string, error) {
	if u.wildcard {
		return "*", nil
	}
	if !u.form.Has(FormLong) {
		return "", fmt.Errorf("%w: %s", ErrNotRepresentable, FormLong)
	}
	return u.longString(), nil
}

// ShortString renders the URI with numeric ids: "//10.0.0.1/10203/1/39999".
func (u URI) ShortString() (string, error) {
	if u.wildcard {
		return "*", nil
	}
	if !u.form.Has(FormShort) {
		return "", fmt.Errorf("%w: %s", ErrNotRepresentable, FormShort)
	}
	return u.shortString(), nil
}

func (u URI) authorityPrefix() string {
	if u.authority.IsLocal() {
		return ""
	}
	return "//" + u.authority.String()
}

func (u URI) longString() string {
	return u.authorityPrefix() + "/" + u.entity.name + "/" + u.entity.versionString() + "/" + u.resource.longString()
}

func (u URI) shortString() string {
	return u.authorityPrefix() + "/" + strconv.Itoa(int(u.entity.id)) + "/" + u.entity.versionString() +
		"/" + strconv.Itoa(int(u.resource.id))
}

// MarshalText implements encoding.TextMarshaler using String. Parts carrying
// more forms than the URI as a whole render only the shared form.
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
// Empty text decodes to the empty URI.
func (u *URI) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*u = URI{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
