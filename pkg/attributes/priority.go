package attributes

import (
	"fmt"
	"strings"
)

// Priority is the ordered QoS class of a message, from CS0 (low) to CS6
// (network control).
type Priority int

const (
	// PriorityUnspecified selects the default priority in Options
	PriorityUnspecified Priority = iota
	// PriorityLow is CS0: no bandwidth assurance
	PriorityLow
	// PriorityStandard is CS1: best effort, the default
	PriorityStandard
	// PriorityOperations is CS2: operations, administration and management
	PriorityOperations
	// PriorityMultimediaStreaming is CS3
	PriorityMultimediaStreaming
	// PriorityRealtimeInteractive is CS4
	PriorityRealtimeInteractive
	// PrioritySignaling is CS5
	PrioritySignaling
	// PriorityNetworkControl is CS6: the highest class
	PriorityNetworkControl
)

// DefaultPriority is used when Options leave the priority unspecified.
const DefaultPriority = PriorityStandard

var priorityNames = [...]string{
	PriorityLow:                 "CS0",
	PriorityStandard:            "CS1",
	PriorityOperations:          "CS2",
	PriorityMultimediaStreaming: "CS3",
	PriorityRealtimeInteractive: "CS4",
	PrioritySignaling:           "CS5",
	PriorityNetworkControl:      "CS6",
}

// IsValid reports whether p is one of the QoS classes.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityNetworkControl
}

// String returns the class name ("CS0".."CS6").
func (p Priority) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// ParsePriority parses a class name such as "CS6" (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if name != "" && strings.EqualFold(s, name) {
			return Priority(p), nil
		}
	}
	return PriorityUnspecified, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}
