package core

import (
	"testing"
	"time"
)

func TestCreateRoomAssignsHost(t *testing.T) {
	h := newTestHub(time.Minute)
	host := NewClient("h1")

	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "  alice  "})

	created := mustEvent(t, host.Events, EventRoomCreated)
	room := h.registry.Get(created.Room)
	if room == nil {
		t.Fatal("room not registered")
	}
	if room.HostID != host.ID {
		t.Errorf("host id = %q, want %q", room.HostID, host.ID)
	}
	if room.Status != StatusWaiting {
		t.Errorf("status = %q, want waiting", room.Status)
	}
	if room.Players[host.ID].Name != "alice" {
		t.Errorf("name = %q, want trimmed %q", room.Players[host.ID].Name, "alice")
	}

	info := mustEvent(t, host.Events, EventHostInfo)
	if info.User != host.ID {
		t.Errorf("hostInfo user = %q, want %q", info.User, host.ID)
	}
}

func TestCreateRoomNameFallback(t *testing.T) {
	h := newTestHub(time.Minute)
	host := NewClient("h1")

	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "   "})

	created := mustEvent(t, host.Events, EventRoomCreated)
	room := h.registry.Get(created.Room)
	if got := room.Players[host.ID].Name; got != "Host" {
		t.Errorf("name = %q, want fallback Host", got)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	h := newTestHub(time.Minute)
	c := NewClient("c1")

	h.Handle(c, &Command{Kind: CommandJoinRoom, Room: "ZZZZ", Name: "bob"})
	mustError(t, c.Events, ErrCodeRoomNotFound)
}

func TestThirdJoinRejectedWithoutMutation(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	third := NewClient("t1")
	h.Handle(third, &Command{Kind: CommandJoinRoom, Room: code, Name: "carol"})
	mustError(t, third.Events, ErrCodeRoomFull)

	room := h.registry.Get(code)
	if len(room.Players) != 2 {
		t.Fatalf("player count = %d, want 2", len(room.Players))
	}
	if _, ok := room.Players[host.ID]; !ok {
		t.Error("host slot altered by rejected join")
	}
	if _, ok := room.Players[guest.ID]; !ok {
		t.Error("guest slot altered by rejected join")
	}
}

func TestJoinDuplicateName(t *testing.T) {
	h := newTestHub(time.Minute)
	host := NewClient("h1")
	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "alice"})
	code := mustEvent(t, host.Events, EventRoomCreated).Room

	imposter := NewClient("i1")
	h.Handle(imposter, &Command{Kind: CommandJoinRoom, Room: code, Name: "alice"})
	mustError(t, imposter.Events, ErrCodeNameTaken)
}

func TestJoinIsCaseInsensitiveViaRegistry(t *testing.T) {
	h := newTestHub(time.Minute)
	host := NewClient("h1")
	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "alice"})
	code := mustEvent(t, host.Events, EventRoomCreated).Room

	if h.registry.Get(code) == nil {
		t.Fatal("uppercase lookup failed")
	}
}

func TestStartGameChecks(t *testing.T) {
	h := newTestHub(time.Minute)
	host := NewClient("h1")
	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "alice"})
	code := mustEvent(t, host.Events, EventRoomCreated).Room

	// Only one player present.
	h.Handle(host, &Command{Kind: CommandStartGame, Room: code})
	mustError(t, host.Events, ErrCodeNeedTwoPlayers)

	guest := NewClient("g1")
	h.Handle(guest, &Command{Kind: CommandJoinRoom, Room: code, Name: "bob"})
	mustEvent(t, guest.Events, EventJoined)

	// Non-host cannot start.
	h.Handle(guest, &Command{Kind: CommandStartGame, Room: code})
	mustError(t, guest.Events, ErrCodeNotCreator)

	h.Handle(host, &Command{Kind: CommandStartGame, Room: code})
	mustEvent(t, guest.Events, EventGameStarted)
	if got := h.registry.Get(code).Status; got != StatusStarted {
		t.Errorf("status = %q, want started", got)
	}
}

func TestSetSecretValidation(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	// Malformed secret rejected regardless of state.
	h.Handle(host, &Command{Kind: CommandSetSecret, Room: code, Secret: "1123"})
	mustError(t, host.Events, ErrCodeInvalidSecret)

	// Valid secret before the host starts the game.
	h.Handle(host, &Command{Kind: CommandSetSecret, Room: code, Secret: "1234"})
	mustError(t, host.Events, ErrCodeGameNotStarted)
}

func TestSetSecretTransitionsToPlaying(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	h.Handle(host, &Command{Kind: CommandStartGame, Room: code})
	mustEvent(t, host.Events, EventGameStarted)

	h.Handle(host, &Command{Kind: CommandSetSecret, Room: code, Secret: "1234"})
	locked := mustEvent(t, guest.Events, EventPlayerLocked)
	if locked.User != host.ID {
		t.Errorf("locked by %q, want %q", locked.User, host.ID)
	}
	if got := h.registry.Get(code).Status; got != StatusStarted {
		t.Fatalf("status = %q after one secret, want started", got)
	}

	h.Handle(guest, &Command{Kind: CommandSetSecret, Room: code, Secret: "5678"})
	ready := mustEvent(t, host.Events, EventBothReady)

	room := h.registry.Get(code)
	if room.Status != StatusPlaying {
		t.Fatalf("status = %q after both secrets, want playing", room.Status)
	}
	if ready.User != room.CurrentTurn {
		t.Errorf("announced starter %q != currentTurn %q", ready.User, room.CurrentTurn)
	}
	if _, ok := room.Players[room.CurrentTurn]; !ok {
		t.Errorf("starter %q is not a player key", room.CurrentTurn)
	}
}

func TestGuessTurnAndWin(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)
	starterID := lockSecrets(t, h, host, guest, code, "1234", "5678")

	starter, other := host, guest
	targetSecret := "5678" // guest's secret
	if starterID == guest.ID {
		starter, other = guest, host
		targetSecret = "1234"
	}

	// Out of turn.
	h.Handle(other, &Command{Kind: CommandGuess, Room: code, Guess: "1234"})
	mustError(t, other.Events, ErrCodeNotYourTurn)

	// Malformed guess.
	h.Handle(starter, &Command{Kind: CommandGuess, Room: code, Guess: "11x"})
	mustError(t, starter.Events, ErrCodeInvalidGuess)

	// Miss flips the turn.
	miss := "0295"
	if targetSecret == "1234" {
		miss = "5067" // avoid accidental whites against either secret
	}
	h.Handle(starter, &Command{Kind: CommandGuess, Room: code, Guess: miss})
	result := mustEvent(t, starter.Events, EventGuessResult)
	if result.Guess != miss {
		t.Errorf("guessResult echoes %q, want %q", result.Guess, miss)
	}
	mirrored := mustEvent(t, other.Events, EventOpponentGuessed)
	if mirrored.Whites != result.Whites || mirrored.Reds != result.Reds {
		t.Errorf("mirrored feedback %+v != guesser feedback %+v", mirrored, result)
	}
	turn := mustEvent(t, starter.Events, EventTurnChanged)
	if turn.User != other.ID {
		t.Fatalf("turn flipped to %q, want %q", turn.User, other.ID)
	}

	// The other player now wins by guessing the starter's secret.
	target := "1234"
	if starter == guest {
		target = "5678"
	}
	h.Handle(other, &Command{Kind: CommandGuess, Room: code, Guess: target})
	win := mustEvent(t, other.Events, EventGuessResult)
	if win.Whites != 4 || win.Reds != 0 {
		t.Fatalf("winning guess scored %+v, want 4 whites", win)
	}
	over := mustEvent(t, starter.Events, EventGameOver)
	if over.User != other.ID {
		t.Errorf("winner = %q, want %q", over.User, other.ID)
	}

	room := h.registry.Get(code)
	if room.Status != StatusFinished {
		t.Fatalf("status = %q, want finished", room.Status)
	}
	if len(room.GuessHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(room.GuessHistory))
	}
	if room.GuessHistory[0].Guess != target {
		t.Errorf("history[0] = %q, want most recent guess first", room.GuessHistory[0].Guess)
	}

	// No further guesses until rematch.
	h.Handle(other, &Command{Kind: CommandGuess, Room: code, Guess: "0987"})
	mustError(t, other.Events, ErrCodeGameNotPlaying)
}

func TestRematchResetsRound(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)
	starterID := lockSecrets(t, h, host, guest, code, "1234", "5678")

	// Finish the game immediately.
	starter, target := host, "5678"
	if starterID == guest.ID {
		starter, target = guest, "1234"
	}
	h.Handle(starter, &Command{Kind: CommandGuess, Room: code, Guess: target})
	mustEvent(t, host.Events, EventGameOver)
	mustEvent(t, guest.Events, EventGameOver)

	h.Handle(guest, &Command{Kind: CommandRequestRematch, Room: code})
	status := mustEvent(t, host.Events, EventRematchStatus)
	if status.Count != 1 {
		t.Fatalf("rematch count = %d, want 1", status.Count)
	}

	// Second request from the same player is idempotent.
	h.Handle(guest, &Command{Kind: CommandRequestRematch, Room: code})
	status = mustEvent(t, host.Events, EventRematchStatus)
	if status.Count != 1 {
		t.Fatalf("duplicate request bumped count to %d", status.Count)
	}

	h.Handle(host, &Command{Kind: CommandRequestRematch, Room: code})
	mustEvent(t, guest.Events, EventRematchStarted)

	room := h.registry.Get(code)
	if room.Status != StatusStarted {
		t.Errorf("status = %q after rematch, want started", room.Status)
	}
	if room.CurrentTurn != "" {
		t.Errorf("currentTurn = %q, want cleared", room.CurrentTurn)
	}
	if len(room.GuessHistory) != 0 {
		t.Errorf("history not cleared: %d records", len(room.GuessHistory))
	}
	if len(room.RematchRequests) != 0 {
		t.Errorf("rematch set not cleared: %d entries", len(room.RematchRequests))
	}
	for id, p := range room.Players {
		if p.Secret != "" {
			t.Errorf("player %q kept secret after rematch", id)
		}
	}
}

func TestRematchRequiresFinishedGame(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	h.Handle(guest, &Command{Kind: CommandRequestRematch, Room: code})
	mustError(t, guest.Events, ErrCodeBadRequest)
}

func TestLeaveRoomTransfersHostAndDeletesEmpty(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	h.Handle(host, &Command{Kind: CommandLeaveRoom, Room: code})
	left := mustEvent(t, guest.Events, EventPlayerLeft)
	if left.User != host.ID {
		t.Errorf("playerLeft by %q, want %q", left.User, host.ID)
	}
	changed := mustEvent(t, guest.Events, EventHostChanged)
	if changed.User != guest.ID {
		t.Errorf("host transferred to %q, want %q", changed.User, guest.ID)
	}
	if got := h.registry.Get(code).HostID; got != guest.ID {
		t.Errorf("HostID = %q, want %q", got, guest.ID)
	}

	h.Handle(guest, &Command{Kind: CommandLeaveRoom, Room: code})
	if h.registry.Get(code) != nil {
		t.Error("empty room not deleted on last leave")
	}
}

func TestJoinRejectedOnRemovedRoom(t *testing.T) {
	h := newTestHub(time.Minute)
	host := NewClient("h1")
	h.Handle(host, &Command{Kind: CommandCreateRoom, Name: "alice"})
	code := mustEvent(t, host.Events, EventRoomCreated).Room
	room := h.registry.Get(code)

	h.Handle(host, &Command{Kind: CommandLeaveRoom, Room: code})
	if h.registry.Get(code) != nil {
		t.Fatal("room should be removed after last leave")
	}

	// A caller can resolve the room just before the removal takes it
	// out of the registry. Put the stale reference back to take the
	// same path a joiner holding that reference would.
	h.registry.mu.Lock()
	h.registry.rooms[code] = room
	h.registry.mu.Unlock()

	guest := NewClient("g1")
	h.Handle(guest, &Command{Kind: CommandJoinRoom, Room: code, Name: "bob"})
	mustError(t, guest.Events, ErrCodeRoomNotFound)

	room.mu.Lock()
	defer room.mu.Unlock()
	if !room.closed {
		t.Error("removed room not marked closed")
	}
	if len(room.Players) != 0 {
		t.Errorf("player slot added to a removed room")
	}
	if guest.Room != "" {
		t.Errorf("joiner bound to removed room %q", guest.Room)
	}
}

func TestChatBroadcast(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	h.Handle(host, &Command{Kind: CommandChat, Room: code, Text: "gl hf"})
	msg := mustEvent(t, guest.Events, EventChatMessage)
	if msg.Text != "gl hf" || msg.Name != "alice" || msg.User != host.ID {
		t.Errorf("unexpected chat event: %+v", msg)
	}
	if msg.At == 0 {
		t.Error("chat message missing timestamp")
	}
}

func TestTypingRelay(t *testing.T) {
	h := newTestHub(time.Minute)
	host, guest := NewClient("h1"), NewClient("g1")
	code := createDuel(t, h, host, guest)

	h.Handle(guest, &Command{Kind: CommandTyping, Room: code, IsTyping: true})
	ev := mustEvent(t, host.Events, EventTyping)
	if ev.User != guest.ID || !ev.IsTyping {
		t.Errorf("unexpected typing event: %+v", ev)
	}
}
