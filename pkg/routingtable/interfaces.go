package routingtable

import (
	"context"
	"io"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/filter"
)

// Subscriber represents a local client or peer node that receives messages
type Subscriber interface {
	// ID returns unique identifier for this subscriber
	ID() string

	// Type returns the type of subscriber (local client, peer node, etc.)
	Type() SubscriberType
}

// SubscriberType represents different types of subscribers
type SubscriberType int

const (
	// LocalClient represents a local client connection
	LocalClient SubscriberType = iota

	// PeerNode represents a remote peer node in the mesh
	PeerNode
)

// String returns "local" or "peer".
func (t SubscriberType) String() string {
	switch t {
	case LocalClient:
		return "local"
	case PeerNode:
		return "peer"
	default:
		return "unknown"
	}
}

// Subscription represents a filter registered by a subscriber
type Subscription struct {
	// Filter selects messages by source and sink address
	Filter filter.Filter

	// Subscriber is the entity that wants to receive matching messages
	Subscriber Subscriber
}

// RoutingTable manages filter-to-subscriber mappings for message routing.
type RoutingTable interface {
	io.Closer

	// Subscribe registers a filter for a subscriber.
	// Registering the same filter twice for one subscriber is a no-op.
	Subscribe(ctx context.Context, f filter.Filter, subscriber Subscriber) error

	// Unsubscribe removes a filter registration from a subscriber.
	Unsubscribe(ctx context.Context, f filter.Filter, subscriberID string) error

	// GetSubscribers returns every subscriber with at least one filter matching
	// attrs. Each subscriber appears once, ordered by ID.
	GetSubscribers(ctx context.Context, attrs *attributes.Attributes) ([]Subscriber, error)

	// GetAllSubscriptions returns all current subscriptions.
	// Used for gossip protocol to share subscription state with peers.
	GetAllSubscriptions(ctx context.Context) ([]Subscription, error)

	// RebuildFromGossip replaces the table contents with subscriptions.
	RebuildFromGossip(ctx context.Context, subscriptions []Subscription) error

	// GetFilterCount returns the number of distinct filters being tracked.
	GetFilterCount(ctx context.Context) (int, error)

	// GetSubscriberCount returns the total number of subscriptions.
	GetSubscriberCount(ctx context.Context) (int, error)
}
