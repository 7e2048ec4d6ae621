// Package routingtable provides interfaces for filter-to-subscriber routing.
//
// This package defines the core abstractions for routing messages by their
// addresses:
//   - Subscriber: Interface for entities that can receive messages (clients, peer nodes)
//   - Subscription: Pairs a filter.Filter with the subscriber that registered it
//   - RoutingTable: Interface for managing filter-to-subscriber mappings
//
// A routing table answers one question: given the attributes of a message,
// which subscribers registered a filter that matches its source and sink?
// Matching follows filter.Matches, so field-level wildcards (any authority,
// any version, any instance) and the whole-address wildcard uri.Any() are
// honoured.
//
// The interfaces use Go idioms:
//   - context.Context for cancellation and timeouts
//   - Explicit error returns following Go conventions
//   - io.Closer for resource cleanup
//   - Slice returns for multiple results
//
// Example usage:
//
//	// Subscribe a local client to every door event of any body.access version
//	doors := filter.New(uri.MustParse("/body.access/*/door.*"), uri.Any())
//	subscriber := routingtable.NewLocalSubscriber("client-123")
//	if err := table.Subscribe(ctx, doors, subscriber); err != nil {
//		return err
//	}
//
//	// Find all subscribers for a decoded message
//	subscribers, err := table.GetSubscribers(ctx, attrs)
//	if err != nil {
//		return err
//	}
//	for _, sub := range subscribers {
//		deliver(sub, attrs, payload)
//	}
//
//	// Rebuild from gossip data after node restart
//	err = table.RebuildFromGossip(ctx, gossipSubscriptions)
package routingtable
