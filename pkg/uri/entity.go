package uri

import (
	"fmt"
	"strconv"
)

const (
	// MaxEntityID is the largest numeric entity id
	MaxEntityID = 0xFFFF
	// MaxMajorVersion is the largest entity major version
	MaxMajorVersion = 0xFF
)

// Entity is a named, versioned service or application.
// The zero value is the empty entity, which has no representation.
//
// Entity names are case-sensitive and kept as given: "Hartley" and
// "hartley" are different entities. Only authority names are lower-cased.
type Entity struct {
	name       string
	id         uint16 // 0 means no short form
	version    uint8
	anyVersion bool
}

// NewLongEntity creates an entity identified by name.
func NewLongEntity(name string, majorVersion int) (Entity, error) {
	if !validEntityName(name) {
		return Entity{}, fmt.Errorf("%w: entity name %q", ErrInvalidAddressComponent, name)
	}
	version, err := checkVersion(majorVersion)
	if err != nil {
		return Entity{}, err
	}
	return Entity{name: name, version: version}, nil
}

// NewShortEntity creates an entity identified by numeric id.
func NewShortEntity(id, majorVersion int) (Entity, error) {
	entityID, err := checkEntityID(id)
	if err != nil {
		return Entity{}, err
	}
	version, err := checkVersion(majorVersion)
	if err != nil {
		return Entity{}, err
	}
	return Entity{id: entityID, version: version}, nil
}

// NewResolvedEntity creates an entity carrying both its name and numeric id.
func NewResolvedEntity(name string, id, majorVersion int) (Entity, error) {
	entity, err := NewLongEntity(name, majorVersion)
	if err != nil {
		return Entity{}, err
	}
	entityID, err := checkEntityID(id)
	if err != nil {
		return Entity{}, err
	}
	entity.id = entityID
	return entity, nil
}

// NewEntity creates an entity from any combination of a name and a numeric
// id. An empty name or an id of 0 means that form is absent; an entity with
// neither is empty and cannot be used in a URI.
func NewEntity(name string, id, majorVersion int) (Entity, error) {
	var entity Entity
	if name != "" {
		if !validEntityName(name) {
			return Entity{}, fmt.Errorf("%w: entity name %q", ErrInvalidAddressComponent, name)
		}
		entity.name = name
	}
	if id != 0 {
		entityID, err := checkEntityID(id)
		if err != nil {
			return Entity{}, err
		}
		entity.id = entityID
	}
	version, err := checkVersion(majorVersion)
	if err != nil {
		return Entity{}, err
	}
	entity.version = version
	return entity, nil
}

// ValidEntityName reports whether name can be used as a long form entity name.
func ValidEntityName(name string) bool { return validEntityName(name) }

func checkEntityID(id int) (uint16, error) {
	if id <= 0 || id > MaxEntityID {
		return 0, fmt.Errorf("%w: entity id %d out of range [1, %d]", ErrInvalidAddressComponent, id, MaxEntityID)
	}
	return uint16(id), nil
}

func checkVersion(v int) (uint8, error) {
	if v < 0 || v > MaxMajorVersion {
		return 0, fmt.Errorf("%w: major version %d out of range [0, %d]", ErrInvalidAddressComponent, v, MaxMajorVersion)
	}
	return uint8(v), nil
}

// WithAnyVersion returns a copy of the entity matching every major version.
func (e Entity) WithAnyVersion() Entity {
	e.anyVersion = true
	e.version = 0
	return e
}

// Name returns the entity name, empty for short form entities.
func (e Entity) Name() string { return e.name }

// ID returns the numeric entity id, 0 for long form entities.
func (e Entity) ID() uint16 { return e.id }

// MajorVersion returns the entity major version.
func (e Entity) MajorVersion() uint8 { return e.version }

// IsAnyVersion reports whether the version is a wildcard.
func (e Entity) IsAnyVersion() bool { return e.anyVersion }

// IsZero reports whether this is the empty entity.
func (e Entity) IsZero() bool { return e == Entity{} }

// Forms returns the representations this entity can be rendered in.
func (e Entity) Forms() Form {
	var f Form
	if e.name != "" {
		f |= FormLong
	}
	if e.id != 0 {
		f |= FormShort
	}
	return f
}

func (e Entity) versionString() string {
	if e.anyVersion {
		return "*"
	}
	return strconv.Itoa(int(e.version))
}

// String renders the entity in its long form when it has one.
func (e Entity) String() string {
	if e.name != "" {
		return e.name + "/" + e.versionString()
	}
	return strconv.Itoa(int(e.id)) + "/" + e.versionString()
}
