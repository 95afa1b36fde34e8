package ws

import "testing"

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient(1, nil, ConnInfo{UserID: 1})
	if hub.ClientCount(1) != 1 {
		t.Fatalf("expected notification group to be created")
	}

	hub.RemoveClient(1, nil)
	if len(hub.userRooms) != 0 {
		t.Fatalf("expected notification group to be removed")
	}
}

func TestHubRemoveUnknownClientIsNoop(t *testing.T) {
	hub := NewHub()

	hub.RemoveClient(7, nil)
	if len(hub.userRooms) != 0 {
		t.Fatalf("expected hub to stay empty")
	}
}

func TestHubClientCountPerUser(t *testing.T) {
	hub := NewHub()

	hub.AddClient(1, nil, ConnInfo{UserID: 1})
	if hub.ClientCount(1) != 1 {
		t.Fatalf("expected one connection for user 1")
	}
	if hub.ClientCount(2) != 0 {
		t.Fatalf("expected no connections for user 2")
	}
}
