package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestHub(grace time.Duration) *Hub {
	logger := zerolog.Nop()
	registry := NewRegistry(time.Hour, time.Minute, &logger)
	return NewHub(registry, grace, &logger)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustError(t *testing.T, ch <-chan *Event, code string) {
	t.Helper()

	ev := mustEvent(t, ch, EventError)
	if ev.Error == nil || ev.Error.Code != code {
		t.Fatalf("expected error %q, got %+v", code, ev)
	}
}

// mustNoEvent drains ch for the given duration and fails if an event of
// the given kind shows up.
func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, during time.Duration) {
	t.Helper()

	deadline := time.Now().Add(during)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// createDuel creates a room for host and joins guest, returning the room
// code. Both event channels are left drained up to the join.
func createDuel(t *testing.T, h *Hub, host, guest *Client) string {
	t.Helper()

	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "alice"})
	code := mustEvent(t, host.Events, EventRoomCreated).Room
	if code == "" {
		t.Fatal("empty room code")
	}

	h.Handle(guest, &Command{Kind: CommandJoinRoom, Room: code, Name: "bob"})
	mustEvent(t, guest.Events, EventJoined)
	mustEvent(t, host.Events, EventPlayerJoined)
	return code
}

// lockSecrets starts the game and locks both secrets, returning the
// connection id chosen to guess first.
func lockSecrets(t *testing.T, h *Hub, host, guest *Client, code, hostSecret, guestSecret string) string {
	t.Helper()

	h.Handle(host, &Command{Kind: CommandStartGame, Room: code})
	mustEvent(t, host.Events, EventGameStarted)
	mustEvent(t, guest.Events, EventGameStarted)

	h.Handle(host, &Command{Kind: CommandSetSecret, Room: code, Secret: hostSecret})
	mustEvent(t, guest.Events, EventPlayerLocked)

	h.Handle(guest, &Command{Kind: CommandSetSecret, Room: code, Secret: guestSecret})
	ready := mustEvent(t, host.Events, EventBothReady)
	mustEvent(t, guest.Events, EventBothReady)

	if ready.User != host.ID && ready.User != guest.ID {
		t.Fatalf("starter %q is not a player", ready.User)
	}
	return ready.User
}
