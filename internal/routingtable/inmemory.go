package routingtable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/filter"
	"github.com/rmacdonaldsmith/umesh-go/pkg/routingtable"
)

var (
	// ErrClosed is returned by every operation on a closed routing table
	ErrClosed = errors.New("routing table is closed")
	// ErrNilSubscriber is returned when subscribing a nil subscriber
	ErrNilSubscriber = errors.New("subscriber cannot be nil")
	// ErrEmptySubscriberID is returned when a subscriber has no ID
	ErrEmptySubscriberID = errors.New("subscriber ID cannot be empty")
	// ErrTableFull is returned when Config.MaxSubscriptions would be exceeded
	ErrTableFull = errors.New("routing table is full")
)

// Config holds configuration for the in-memory routing table
type Config struct {
	// Logger receives debug records for subscription changes
	Logger *slog.Logger

	// MaxSubscriptions caps the total number of subscriptions; 0 means unlimited
	MaxSubscriptions int
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxSubscriptions < 0 {
		return errors.New("max subscriptions cannot be negative")
	}
	return nil
}

// SetDefaults sets sensible default values for unset configuration fields
func (c *Config) SetDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// InMemoryRoutingTable implements routingtable.RoutingTable with a map keyed
// by filter. Lookups evaluate every distinct filter once against the message
// attributes, so cost grows with the number of filters rather than the
// number of subscribers.
type InMemoryRoutingTable struct {
	mu      sync.RWMutex
	filters map[filter.Filter]map[string]routingtable.Subscriber
	count   int
	closed  bool

	config Config
	logger *slog.Logger
}

// NewInMemoryRoutingTable creates a routing table with default configuration
func NewInMemoryRoutingTable() *InMemoryRoutingTable {
	rt, _ := NewInMemoryRoutingTableWithConfig(Config{})
	return rt
}

// NewInMemoryRoutingTableWithConfig creates a routing table from config
func NewInMemoryRoutingTableWithConfig(config Config) (*InMemoryRoutingTable, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid routing table config: %w", err)
	}
	return &InMemoryRoutingTable{
		filters: make(map[filter.Filter]map[string]routingtable.Subscriber),
		config:  config,
		logger:  config.Logger.With("component", "routingtable"),
	}, nil
}

// key returns the canonical map key for f, so the zero Filter and
// filter.MatchAll() share one entry.
func key(f filter.Filter) filter.Filter {
	return filter.New(f.Source(), f.Sink())
}

// Subscribe registers f for subscriber
func (rt *InMemoryRoutingTable) Subscribe(ctx context.Context, f filter.Filter, subscriber routingtable.Subscriber) error {
	if subscriber == nil {
		return ErrNilSubscriber
	}
	if subscriber.ID() == "" {
		return ErrEmptySubscriberID
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closed {
		return ErrClosed
	}
	return rt.addLocked(key(f), subscriber)
}

func (rt *InMemoryRoutingTable) addLocked(k filter.Filter, subscriber routingtable.Subscriber) error {
	subs, ok := rt.filters[k]
	if !ok {
		subs = make(map[string]routingtable.Subscriber)
		rt.filters[k] = subs
	}
	if _, exists := subs[subscriber.ID()]; exists {
		subs[subscriber.ID()] = subscriber
		return nil
	}
	if rt.config.MaxSubscriptions > 0 && rt.count >= rt.config.MaxSubscriptions {
		if len(subs) == 0 {
			delete(rt.filters, k)
		}
		return fmt.Errorf("%w: limit %d", ErrTableFull, rt.config.MaxSubscriptions)
	}

	subs[subscriber.ID()] = subscriber
	rt.count++
	rt.logger.Debug("subscribed", "filter", k.String(), "subscriber", subscriber.ID(), "type", subscriber.Type().String())
	return nil
}

// Unsubscribe removes the registration of f for subscriberID. Removing a
// registration that does not exist is not an error.
func (rt *InMemoryRoutingTable) Unsubscribe(ctx context.Context, f filter.Filter, subscriberID string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closed {
		return ErrClosed
	}

	k := key(f)
	subs, ok := rt.filters[k]
	if !ok {
		return nil
	}
	if _, exists := subs[subscriberID]; !exists {
		return nil
	}

	delete(subs, subscriberID)
	rt.count--
	if len(subs) == 0 {
		delete(rt.filters, k)
	}
	rt.logger.Debug("unsubscribed", "filter", k.String(), "subscriber", subscriberID)
	return nil
}

// GetSubscribers returns the subscribers whose filters match attrs, once
// each and ordered by ID. Nil or invalid attributes match nothing.
func (rt *InMemoryRoutingTable) GetSubscribers(ctx context.Context, attrs *attributes.Attributes) ([]routingtable.Subscriber, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return nil, ErrClosed
	}

	matched := make(map[string]routingtable.Subscriber)
	for f, subs := range rt.filters {
		if !filter.Matches(f, attrs) {
			continue
		}
		for id, sub := range subs {
			matched[id] = sub
		}
	}

	result := make([]routingtable.Subscriber, 0, len(matched))
	for _, sub := range matched {
		result = append(result, sub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result, nil
}

// GetAllSubscriptions returns every (filter, subscriber) registration
func (rt *InMemoryRoutingTable) GetAllSubscriptions(ctx context.Context) ([]routingtable.Subscription, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return nil, ErrClosed
	}

	result := make([]routingtable.Subscription, 0, rt.count)
	for f, subs := range rt.filters {
		for _, sub := range subs {
			result = append(result, routingtable.Subscription{Filter: f, Subscriber: sub})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		fi, fj := result[i].Filter.String(), result[j].Filter.String()
		if fi != fj {
			return fi < fj
		}
		return result[i].Subscriber.ID() < result[j].Subscriber.ID()
	})
	return result, nil
}

// RebuildFromGossip replaces the table contents with subscriptions. The
// table is left unchanged if any subscription is invalid.
func (rt *InMemoryRoutingTable) RebuildFromGossip(ctx context.Context, subscriptions []routingtable.Subscription) error {
	for i, s := range subscriptions {
		if s.Subscriber == nil {
			return fmt.Errorf("subscription %d: %w", i, ErrNilSubscriber)
		}
		if s.Subscriber.ID() == "" {
			return fmt.Errorf("subscription %d: %w", i, ErrEmptySubscriberID)
		}
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closed {
		return ErrClosed
	}

	previous, previousCount := rt.filters, rt.count
	rt.filters = make(map[filter.Filter]map[string]routingtable.Subscriber)
	rt.count = 0
	for _, s := range subscriptions {
		if err := rt.addLocked(key(s.Filter), s.Subscriber); err != nil {
			rt.filters, rt.count = previous, previousCount
			return err
		}
	}

	rt.logger.Info("rebuilt from gossip", "filters", len(rt.filters), "subscriptions", rt.count)
	return nil
}

// GetFilterCount returns the number of distinct filters
func (rt *InMemoryRoutingTable) GetFilterCount(ctx context.Context) (int, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return 0, ErrClosed
	}
	return len(rt.filters), nil
}

// GetSubscriberCount returns the total number of subscriptions
func (rt *InMemoryRoutingTable) GetSubscriberCount(ctx context.Context) (int, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return 0, ErrClosed
	}
	return rt.count, nil
}

// Close releases the table. Subsequent operations return ErrClosed.
func (rt *InMemoryRoutingTable) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.closed = true
	rt.filters = nil
	rt.count = 0
	return nil
}
