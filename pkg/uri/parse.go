package uri

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a URI from its long or short string form.
//
//	//vcu.vin/body.access/1/door.front_left#Door   long, remote
//	/body.access/1/door.front_left#Door            long, local
//	//10.0.0.1/10203/1/39999                       short, remote
//	/10203/*/39999                                 short, any version
//	*                                              Any()
//
// An all-digit entity segment selects the short form.
func Parse(s string) (URI, error) {
	if s == "*" {
		return Any(), nil
	}
	if !strings.HasPrefix(s, "/") {
		return URI{}, fmt.Errorf("%w: %q must start with '/'", ErrMalformedURI, s)
	}

	authority := LocalAuthority()
	path := s[1:]
	if strings.HasPrefix(s, "//") {
		authorityText, rest, ok := strings.Cut(s[2:], "/")
		if !ok || authorityText == "" {
			return URI{}, fmt.Errorf("%w: %q has no path after authority", ErrMalformedURI, s)
		}
		var err error
		authority, err = ParseAuthority(authorityText)
		if err != nil {
			return URI{}, fmt.Errorf("%w: %w", ErrMalformedURI, err)
		}
		path = rest
	}

	segments := strings.Split(path, "/")
	if len(segments) != 3 {
		return URI{}, fmt.Errorf("%w: %q needs entity, version and resource segments", ErrMalformedURI, s)
	}

	var (
		u   URI
		err error
	)
	if allDigits(segments[0]) {
		u, err = parseShort(authority, segments)
	} else {
		u, err = parseLong(authority, segments)
	}
	if err != nil {
		return URI{}, fmt.Errorf("%w: %q: %w", ErrMalformedURI, s, err)
	}
	return u, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level variables.
func MustParse(s string) URI {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func parseVersion(s string) (version int, anyVersion bool, err error) {
	if s == "*" {
		return 0, true, nil
	}
	if !allDigits(s) {
		return 0, false, fmt.Errorf("%w: version %q", ErrInvalidAddressComponent, s)
	}
	version, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("%w: version %q", ErrInvalidAddressComponent, s)
	}
	return version, false, nil
}

func parseID(s, what string) (int, error) {
	if !allDigits(s) {
		return 0, fmt.Errorf("%w: %s id %q", ErrInvalidAddressComponent, what, s)
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s id %q", ErrInvalidAddressComponent, what, s)
	}
	return id, nil
}

func parseLong(authority Authority, segments []string) (URI, error) {
	version, anyVersion, err := parseVersion(segments[1])
	if err != nil {
		return URI{}, err
	}
	entity, err := NewLongEntity(segments[0], version)
	if err != nil {
		return URI{}, err
	}
	if anyVersion {
		entity = entity.WithAnyVersion()
	}
	resource, err := parseLongResource(segments[2])
	if err != nil {
		return URI{}, err
	}
	return New(authority, entity, resource)
}

func parseShort(authority Authority, segments []string) (URI, error) {
	entityID, err := parseID(segments[0], "entity")
	if err != nil {
		return URI{}, err
	}
	version, anyVersion, err := parseVersion(segments[1])
	if err != nil {
		return URI{}, err
	}
	entity, err := NewShortEntity(entityID, version)
	if err != nil {
		return URI{}, err
	}
	if anyVersion {
		entity = entity.WithAnyVersion()
	}
	resourceID, err := parseID(segments[2], "resource")
	if err != nil {
		return URI{}, err
	}
	resource, err := NewShortResource(resourceID)
	if err != nil {
		return URI{}, err
	}
	return New(authority, entity, resource)
}
