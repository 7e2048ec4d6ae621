package routingtable

import "testing"

func TestSubscribers(t *testing.T) {
	local := NewLocalSubscriber("client-1")
	if local.ID() != "client-1" {
		t.Errorf("Expected ID 'client-1', got '%s'", local.ID())
	}
	if local.Type() != LocalClient {
		t.Errorf("Expected LocalClient, got %v", local.Type())
	}
	if local.String() != "local:client-1" {
		t.Errorf("Expected 'local:client-1', got '%s'", local.String())
	}

	peer := NewPeerSubscriber("node-1")
	if peer.Type() != PeerNode {
		t.Errorf("Expected PeerNode, got %v", peer.Type())
	}
	if peer.String() != "peer:node-1" {
		t.Errorf("Expected 'peer:node-1', got '%s'", peer.String())
	}

	var _ Subscriber = local
	var _ Subscriber = peer
}
