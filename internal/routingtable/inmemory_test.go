package routingtable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rmacdonaldsmith/umesh-go/pkg/filter"
	"github.com/rmacdonaldsmith/umesh-go/pkg/routingtable"
)

const doorEvents = "/body.access/1/door.front_left"

func TestInMemoryRoutingTable_Subscribe(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	err := rt.Subscribe(ctx, newFilter(doorEvents, ""), subscriber)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	subscribers, err := rt.GetSubscribers(ctx, newMessage(t, doorEvents, ""))
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", len(subscribers))
	}

	if subscribers[0].ID() != "client-1" {
		t.Errorf("Expected subscriber ID 'client-1', got '%s'", subscribers[0].ID())
	}
}

func TestInMemoryRoutingTable_Subscribe_NilSubscriber(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	err := rt.Subscribe(ctx, newFilter(doorEvents, ""), nil)
	if !errors.Is(err, ErrNilSubscriber) {
		t.Fatalf("Expected ErrNilSubscriber, got %v", err)
	}
}

func TestInMemoryRoutingTable_Subscribe_EmptySubscriberID(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	err := rt.Subscribe(ctx, newFilter(doorEvents, ""), routingtable.NewLocalSubscriber(""))
	if !errors.Is(err, ErrEmptySubscriberID) {
		t.Fatalf("Expected ErrEmptySubscriberID, got %v", err)
	}
}

func TestInMemoryRoutingTable_Subscribe_ZeroFilterIsMatchAll(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")
	if err := rt.Subscribe(ctx, filter.Filter{}, subscriber); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := rt.Subscribe(ctx, filter.MatchAll(), subscriber); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	count, err := rt.GetFilterCount(ctx)
	if err != nil {
		t.Fatalf("GetFilterCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected zero filter and MatchAll to share one entry, got %d filters", count)
	}

	subscribers, err := rt.GetSubscribers(ctx, newMessage(t, "//10.0.0.1/55/2/7", ""))
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 1 {
		t.Fatalf("Expected match-all subscriber to receive message, got %d subscribers", len(subscribers))
	}
}

func TestInMemoryRoutingTable_Unsubscribe(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	// Subscribe first
	err := rt.Subscribe(ctx, newFilter(doorEvents, ""), subscriber)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// Unsubscribe
	err = rt.Unsubscribe(ctx, newFilter(doorEvents, ""), "client-1")
	if err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	// Verify no subscribers
	subscribers, err := rt.GetSubscribers(ctx, newMessage(t, doorEvents, ""))
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 0 {
		t.Fatalf("Expected 0 subscribers after unsubscribe, got %d", len(subscribers))
	}

	// Unsubscribing again is a no-op
	if err := rt.Unsubscribe(ctx, newFilter(doorEvents, ""), "client-1"); err != nil {
		t.Fatalf("Second unsubscribe failed: %v", err)
	}
}

func TestInMemoryRoutingTable_GetSubscribers_NoMatch(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	rt.Subscribe(ctx, newFilter(doorEvents, ""), routingtable.NewLocalSubscriber("client-1"))

	subscribers, err := rt.GetSubscribers(ctx, newMessage(t, "/hvac/1/fan.rear", ""))
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 0 {
		t.Fatalf("Expected 0 subscribers for unrelated source, got %d", len(subscribers))
	}
}

func TestInMemoryRoutingTable_GetSubscribers_NilAttributes(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	rt.Subscribe(ctx, filter.MatchAll(), routingtable.NewLocalSubscriber("client-1"))

	subscribers, err := rt.GetSubscribers(ctx, nil)
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 0 {
		t.Fatalf("Expected nil attributes to match nothing, got %d subscribers", len(subscribers))
	}
}

func TestInMemoryRoutingTable_MultipleSubscribers(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	local1 := routingtable.NewLocalSubscriber("client-1")
	local2 := routingtable.NewLocalSubscriber("client-2")
	peer1 := routingtable.NewPeerSubscriber("node-1")

	// Subscribe all to same filter
	for _, sub := range []routingtable.Subscriber{peer1, local2, local1} {
		if err := rt.Subscribe(ctx, newFilter(doorEvents, ""), sub); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	subscribers, err := rt.GetSubscribers(ctx, newMessage(t, doorEvents, ""))
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 3 {
		t.Fatalf("Expected 3 subscribers, got %d", len(subscribers))
	}

	// Results are ordered by ID
	expected := []string{"client-1", "client-2", "node-1"}
	for i, id := range expected {
		if subscribers[i].ID() != id {
			t.Errorf("Expected subscriber %d to be %s, got %s", i, id, subscribers[i].ID())
		}
	}
}

func TestInMemoryRoutingTable_SubscriberMatchedByTwoFilters(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")
	rt.Subscribe(ctx, newFilter(doorEvents, ""), subscriber)
	rt.Subscribe(ctx, filter.MatchAll(), subscriber)

	subscribers, err := rt.GetSubscribers(ctx, newMessage(t, doorEvents, ""))
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 1 {
		t.Fatalf("Expected subscriber to appear once, got %d", len(subscribers))
	}
}

func TestInMemoryRoutingTable_ConcurrentAccess(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	const numWorkers = 10
	msg := newMessage(t, doorEvents, "")

	// Concurrent subscribe and lookup operations
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			subscriber := routingtable.NewLocalSubscriber(fmt.Sprintf("client-%d", id))
			err := rt.Subscribe(ctx, newFilter(doorEvents, ""), subscriber)
			if err != nil {
				t.Errorf("Subscribe failed for client-%d: %v", id, err)
			}
			if _, err := rt.GetSubscribers(ctx, msg); err != nil {
				t.Errorf("GetSubscribers failed for client-%d: %v", id, err)
			}
		}(i)
	}

	wg.Wait()

	// Verify all subscribers were added
	subscribers, err := rt.GetSubscribers(ctx, msg)
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != numWorkers {
		t.Fatalf("Expected %d subscribers, got %d", numWorkers, len(subscribers))
	}
}

func TestInMemoryRoutingTable_Close(t *testing.T) {
	rt := NewInMemoryRoutingTable()

	err := rt.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Operations after close should return ErrClosed
	ctx := context.Background()
	subscriber := routingtable.NewLocalSubscriber("client-1")

	if err := rt.Subscribe(ctx, newFilter(doorEvents, ""), subscriber); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Subscribe, got %v", err)
	}
	if err := rt.Unsubscribe(ctx, newFilter(doorEvents, ""), "client-1"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Unsubscribe, got %v", err)
	}
	if _, err := rt.GetSubscribers(ctx, newMessage(t, doorEvents, "")); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from GetSubscribers, got %v", err)
	}
	if _, err := rt.GetAllSubscriptions(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from GetAllSubscriptions, got %v", err)
	}
	if err := rt.RebuildFromGossip(ctx, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from RebuildFromGossip, got %v", err)
	}
	if _, err := rt.GetFilterCount(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from GetFilterCount, got %v", err)
	}
	if _, err := rt.GetSubscriberCount(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from GetSubscriberCount, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	config := Config{MaxSubscriptions: -1}
	if err := config.Validate(); err == nil {
		t.Fatal("Expected error for negative MaxSubscriptions")
	}

	if _, err := NewInMemoryRoutingTableWithConfig(config); err == nil {
		t.Fatal("Expected constructor to reject invalid config")
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	var config Config
	config.SetDefaults()
	if config.Logger == nil {
		t.Error("Expected default logger to be set")
	}
	if config.MaxSubscriptions != 0 {
		t.Errorf("Expected unlimited subscriptions by default, got %d", config.MaxSubscriptions)
	}
}

func TestInMemoryRoutingTable_MaxSubscriptions(t *testing.T) {
	rt, err := NewInMemoryRoutingTableWithConfig(Config{MaxSubscriptions: 2})
	if err != nil {
		t.Fatalf("NewInMemoryRoutingTableWithConfig failed: %v", err)
	}
	defer rt.Close()
	ctx := context.Background()

	rt.Subscribe(ctx, newFilter(doorEvents, ""), routingtable.NewLocalSubscriber("client-1"))
	rt.Subscribe(ctx, newFilter(doorEvents, ""), routingtable.NewLocalSubscriber("client-2"))

	err = rt.Subscribe(ctx, newFilter("/hvac/1/fan", ""), routingtable.NewLocalSubscriber("client-3"))
	if !errors.Is(err, ErrTableFull) {
		t.Fatalf("Expected ErrTableFull, got %v", err)
	}

	// Re-subscribing an existing registration does not count against the limit
	if err := rt.Subscribe(ctx, newFilter(doorEvents, ""), routingtable.NewLocalSubscriber("client-1")); err != nil {
		t.Fatalf("Duplicate subscribe failed: %v", err)
	}

	count, _ := rt.GetFilterCount(ctx)
	if count != 1 {
		t.Errorf("Expected rejected filter to leave no entry, got %d filters", count)
	}
}
