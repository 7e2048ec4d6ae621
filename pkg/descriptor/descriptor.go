// Package descriptor builds uMesh entities from service descriptor metadata.
//
// Service descriptors may declare uProtocol options (name, id, major
// version). Every option is individually optional, and a descriptor without
// them yields the empty entity rather than an error.
package descriptor

import (
	"errors"
	"fmt"
	"os"

	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"gopkg.in/yaml.v3"
)

// EntityOptions are the entity options declared by a service descriptor.
// Zero values mean "not declared".
type EntityOptions struct {
	Name         string `yaml:"name"`
	ID           int    `yaml:"id"`
	MajorVersion int    `yaml:"major_version"`
}

// BuildEntity builds an entity from descriptor options. A nil options value
// returns the empty entity. Each option defaults independently: options
// outside the valid ranges of the address model are treated as not declared.
func BuildEntity(opts *EntityOptions) uri.Entity {
	if opts == nil {
		return uri.Entity{}
	}

	name := opts.Name
	if !uri.ValidEntityName(name) {
		name = ""
	}
	id := opts.ID
	if id < 0 || id > uri.MaxEntityID {
		id = 0
	}
	version := opts.MajorVersion
	if version < 0 || version > uri.MaxMajorVersion {
		version = 0
	}

	entity, err := uri.NewEntity(name, id, version)
	if err != nil {
		return uri.Entity{}
	}
	return entity
}

// Service is the subset of a YAML service descriptor read by this package.
//
//	service: body.access
//	uprotocol:
//	  name: body.access
//	  id: 10203
//	  major_version: 1
type Service struct {
	Service   string         `yaml:"service"`
	UProtocol *EntityOptions `yaml:"uprotocol"`
}

// ErrInvalidDescriptor is returned when a descriptor document cannot be decoded
var ErrInvalidDescriptor = errors.New("invalid service descriptor")

// ParseOptions decodes the uProtocol options of a YAML service descriptor.
// A descriptor without a uprotocol block returns nil options.
func ParseOptions(data []byte) (*EntityOptions, error) {
	var svc Service
	if err := yaml.Unmarshal(data, &svc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return svc.UProtocol, nil
}

// LoadOptions reads and decodes a YAML service descriptor file.
func LoadOptions(path string) (*EntityOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}
	return ParseOptions(data)
}
