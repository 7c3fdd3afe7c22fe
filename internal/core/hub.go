package core

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/whitered-server/internal/game"
)

// Hub applies client commands to rooms. Each operation takes the target
// room's lock for its whole duration, so actions against one room are
// serialized while unrelated rooms proceed independently.
type Hub struct {
	registry    *Registry
	graceWindow time.Duration
	log         *zerolog.Logger
}

// NewHub builds a hub over the given registry. graceWindow is how long a
// disconnected player's slot is preserved for reconnection.
func NewHub(registry *Registry, graceWindow time.Duration, logger *zerolog.Logger) *Hub {
	return &Hub{
		registry:    registry,
		graceWindow: graceWindow,
		log:         logger,
	}
}

// Handle dispatches one command from a client. Rejected actions produce
// an error event for the acting client only and leave state untouched; a
// panic in one room's handling never propagates to other connections.
func (h *Hub) Handle(c *Client, cmd *Command) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("client_id", c.ID).Msg("recovered from command panic")
			c.send(errEvent(ErrCodeBadRequest, "internal error"))
		}
	}()

	switch cmd.Kind {
	case CommandCreateRoom:
		h.createRoom(c, cmd.Name)
	case CommandJoinRoom:
		h.joinRoom(c, cmd.Room, cmd.Name)
	case CommandStartGame:
		h.startGame(c, cmd.Room)
	case CommandReconnect:
		h.reconnect(c, cmd.Room, cmd.Name)
	case CommandSetSecret:
		h.setSecret(c, cmd.Room, cmd.Secret)
	case CommandGuess:
		h.guess(c, cmd.Room, cmd.Guess)
	case CommandChat:
		h.chat(c, cmd.Room, cmd.Text, cmd.Name)
	case CommandTyping:
		h.typing(c, cmd.Room, cmd.IsTyping)
	case CommandRequestRematch:
		h.requestRematch(c, cmd.Room)
	case CommandLeaveRoom:
		h.leaveRoom(c, cmd.Room)
	default:
		c.send(errEvent(ErrCodeBadRequest, "unknown command"))
	}
}

// Disconnect marks the client's slot disconnected and schedules its
// removal after the grace window. Called by the transport when the
// physical connection goes away.
func (h *Hub) Disconnect(c *Client) {
	if c.Room == "" {
		return
	}
	room := h.registry.Get(c.Room)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}

	room.unsubscribe(c.ID)

	p, ok := room.Players[c.ID]
	if !ok {
		return
	}
	p.Connected = false
	p.DisconnectedAt = time.Now()

	p.cancelRemoval()
	gen := p.removeGen
	code, id := room.Code, c.ID
	p.removeTimer = time.AfterFunc(h.graceWindow, func() {
		h.expireSlot(code, id, gen)
	})

	h.log.Info().Str("room", code).Str("client_id", id).Msg("player disconnected, grace window started")
}

func (h *Hub) createRoom(c *Client, name string) {
	if c.Room != "" {
		c.send(errEvent(ErrCodeAlreadyInRoom, "already in a room"))
		return
	}

	cleaned, ok := game.CleanName(name)
	if !ok {
		cleaned = "Host"
	}

	room := h.registry.Create(time.Now())

	room.mu.Lock()
	defer room.mu.Unlock()

	room.Players[c.ID] = &Player{Name: cleaned, Connected: true}
	room.HostID = c.ID
	room.subscribe(c)
	c.Room = room.Code
	c.Name = cleaned

	c.send(&Event{Kind: EventRoomCreated, Room: room.Code})
	c.send(&Event{Kind: EventHostInfo, Room: room.Code, User: room.HostID})
	room.broadcastNames()

	h.log.Info().Str("room", room.Code).Str("name", cleaned).Msg("room created")
}

func (h *Hub) joinRoom(c *Client, code, name string) {
	if c.Room != "" {
		c.send(errEvent(ErrCodeAlreadyInRoom, "already in a room"))
		return
	}
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if len(room.Players) >= MaxPlayers {
		c.send(errEvent(ErrCodeRoomFull, "room already has two players"))
		return
	}

	cleaned, ok := game.CleanName(name)
	if !ok {
		cleaned = "Player-" + shortID(c.ID)
	}
	for _, p := range room.Players {
		if p.Name == cleaned {
			c.send(errEvent(ErrCodeNameTaken, "display name already taken"))
			return
		}
	}

	room.Players[c.ID] = &Player{Name: cleaned, Connected: true}
	room.subscribe(c)
	c.Room = room.Code
	c.Name = cleaned

	c.send(&Event{Kind: EventJoined, Room: room.Code, Started: room.started()})
	room.broadcast(&Event{Kind: EventPlayerJoined, Room: room.Code, Name: cleaned, Started: room.started()})
	room.broadcast(&Event{Kind: EventHostInfo, Room: room.Code, User: room.HostID})
	room.broadcastNames()

	h.log.Info().Str("room", room.Code).Str("name", cleaned).Msg("player joined")
}

func (h *Hub) startGame(c *Client, code string) {
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if c.ID != room.HostID {
		c.send(errEvent(ErrCodeNotCreator, "only the host can start"))
		return
	}
	if len(room.Players) < MaxPlayers {
		c.send(errEvent(ErrCodeNeedTwoPlayers, "two players required"))
		return
	}
	if room.Status != StatusWaiting {
		c.send(errEvent(ErrCodeBadRequest, "game already started"))
		return
	}

	room.Status = StatusStarted
	room.broadcast(&Event{Kind: EventGameStarted, Room: room.Code})

	h.log.Info().Str("room", room.Code).Msg("game started")
}

// reconnect migrates a disconnected slot, matched by display name, to
// the caller's fresh connection identity.
func (h *Hub) reconnect(c *Client, code, name string) {
	if c.Room != "" {
		c.send(errEvent(ErrCodeAlreadyInRoom, "already in a room"))
		return
	}
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	var oldID string
	var p *Player
	for id, candidate := range room.Players {
		if candidate.Name == name && !candidate.Connected {
			oldID, p = id, candidate
			break
		}
	}
	if p == nil {
		c.send(errEvent(ErrCodeNoReconnectSlot, "no disconnected slot with that name"))
		return
	}

	p.cancelRemoval()
	delete(room.Players, oldID)
	room.Players[c.ID] = p
	p.Connected = true
	p.DisconnectedAt = time.Time{}

	// Keep room references pointing at live player keys.
	if room.HostID == oldID {
		room.HostID = c.ID
	}
	if room.CurrentTurn == oldID {
		room.CurrentTurn = c.ID
	}
	if _, ok := room.RematchRequests[oldID]; ok {
		delete(room.RematchRequests, oldID)
		room.RematchRequests[c.ID] = struct{}{}
	}

	room.subscribe(c)
	c.Room = room.Code
	c.Name = p.Name

	room.broadcast(&Event{Kind: EventPlayerReconnected, Room: room.Code, User: c.ID, Name: p.Name})
	room.broadcast(&Event{Kind: EventHostInfo, Room: room.Code, User: room.HostID})
	room.broadcastNames()
	c.send(&Event{Kind: EventReconnected, Room: room.Code})

	h.log.Info().Str("room", room.Code).Str("name", p.Name).Str("client_id", c.ID).Msg("player reconnected")
}

func (h *Hub) setSecret(c *Client, code, secret string) {
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if !game.ValidCode(secret) {
		c.send(errEvent(ErrCodeInvalidSecret, "secret must be 4 distinct digits"))
		return
	}
	if room.Status != StatusStarted {
		c.send(errEvent(ErrCodeGameNotStarted, "game not started"))
		return
	}
	p, ok := room.Players[c.ID]
	if !ok {
		c.send(errEvent(ErrCodeNotInRoom, "not a player in this room"))
		return
	}

	p.Secret = secret
	p.Connected = true

	if room.secretsLocked() < MaxPlayers {
		room.broadcast(&Event{Kind: EventPlayerLocked, Room: room.Code, User: c.ID})
		return
	}

	room.Status = StatusPlaying
	ids := make([]string, 0, MaxPlayers)
	for id := range room.Players {
		ids = append(ids, id)
	}
	room.CurrentTurn = ids[rand.Intn(len(ids))]
	room.GuessHistory = nil
	room.RematchRequests = make(map[string]struct{})
	room.broadcast(&Event{Kind: EventBothReady, Room: room.Code, User: room.CurrentTurn})

	h.log.Info().Str("room", room.Code).Str("starter", room.CurrentTurn).Msg("both secrets locked")
}

func (h *Hub) guess(c *Client, code, guess string) {
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if room.Status != StatusPlaying {
		c.send(errEvent(ErrCodeGameNotPlaying, "game not in playing state"))
		return
	}
	if _, ok := room.Players[c.ID]; !ok {
		c.send(errEvent(ErrCodeNotInRoom, "not a player in this room"))
		return
	}
	if room.CurrentTurn != c.ID {
		c.send(errEvent(ErrCodeNotYourTurn, "not your turn"))
		return
	}
	if !game.ValidCode(guess) {
		c.send(errEvent(ErrCodeInvalidGuess, "guess must be 4 distinct digits"))
		return
	}

	oppID, ok := room.opponentOf(c.ID)
	if !ok {
		c.send(errEvent(ErrCodeNoOpponent, "no opponent in room"))
		return
	}
	opp := room.Players[oppID]
	if opp.Secret == "" {
		c.send(errEvent(ErrCodeOpponentNoSecret, "opponent has no secret"))
		return
	}

	hits := game.Score(opp.Secret, guess)
	record := Guess{By: c.ID, Guess: guess, Whites: hits.Whites, Reds: hits.Reds, At: time.Now()}
	room.GuessHistory = append([]Guess{record}, room.GuessHistory...)

	room.sendTo(c.ID, &Event{Kind: EventGuessResult, Room: room.Code, Guess: guess, Whites: hits.Whites, Reds: hits.Reds})
	room.sendTo(oppID, &Event{Kind: EventOpponentGuessed, Room: room.Code, Guess: guess, Whites: hits.Whites, Reds: hits.Reds})

	if hits.Win() {
		room.Status = StatusFinished
		room.broadcast(&Event{Kind: EventGameOver, Room: room.Code, User: c.ID})
		h.log.Info().Str("room", room.Code).Str("winner", c.ID).Msg("game over")
		return
	}

	room.CurrentTurn = oppID
	room.broadcast(&Event{Kind: EventTurnChanged, Room: room.Code, User: oppID})
}

func (h *Hub) chat(c *Client, code, text, claimedName string) {
	room := h.registry.Get(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}

	name := game.ClampName(claimedName)
	if name == "" {
		if p, ok := room.Players[c.ID]; ok {
			name = p.Name
		} else {
			name = "Player"
		}
	}

	room.broadcast(&Event{
		Kind: EventChatMessage,
		Room: room.Code,
		User: c.ID,
		Name: name,
		Text: game.ClampChat(text),
		At:   time.Now().UnixMilli(),
	})
}

func (h *Hub) typing(c *Client, code string, isTyping bool) {
	room := h.registry.Get(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}

	room.broadcast(&Event{Kind: EventTyping, Room: room.Code, User: c.ID, IsTyping: isTyping})
}

func (h *Hub) requestRematch(c *Client, code string) {
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if _, ok := room.Players[c.ID]; !ok {
		c.send(errEvent(ErrCodeNotInRoom, "not a player in this room"))
		return
	}
	if room.Status != StatusFinished {
		c.send(errEvent(ErrCodeBadRequest, "no finished game to rematch"))
		return
	}

	room.RematchRequests[c.ID] = struct{}{}
	room.broadcast(&Event{Kind: EventRematchStatus, Room: room.Code, Count: len(room.RematchRequests)})

	if len(room.RematchRequests) < len(room.Players) {
		return
	}

	// Everyone present agreed: back to the ready-to-lock state.
	for _, p := range room.Players {
		p.Secret = ""
	}
	room.Status = StatusStarted
	room.CurrentTurn = ""
	room.GuessHistory = nil
	room.RematchRequests = make(map[string]struct{})
	room.broadcast(&Event{Kind: EventRematchStarted, Room: room.Code})

	h.log.Info().Str("room", room.Code).Msg("rematch started")
}

func (h *Hub) leaveRoom(c *Client, code string) {
	room := h.registry.Get(code)
	if room == nil {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.send(errEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	p, ok := room.Players[c.ID]
	if !ok {
		c.send(errEvent(ErrCodeNotInRoom, "not a player in this room"))
		return
	}
	p.cancelRemoval()
	delete(room.Players, c.ID)
	delete(room.RematchRequests, c.ID)
	room.unsubscribe(c.ID)
	c.Room = ""
	c.Name = ""

	room.broadcast(&Event{Kind: EventPlayerLeft, Room: room.Code, User: c.ID})
	h.removeFollowup(room, c.ID)
}

// expireSlot fires when a disconnect grace window elapses. The
// generation check makes stale timers no-ops after a reconnect or an
// explicit leave already handled the slot.
func (h *Hub) expireSlot(code, id string, gen uint64) {
	room := h.registry.Get(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}
	p, ok := room.Players[id]
	if !ok || p.Connected || p.removeGen != gen {
		return
	}

	delete(room.Players, id)
	delete(room.RematchRequests, id)
	room.broadcast(&Event{Kind: EventPlayerLeft, Room: room.Code, User: id})
	h.removeFollowup(room, id)

	h.log.Info().Str("room", code).Str("client_id", id).Msg("grace window elapsed, slot removed")
}

// removeFollowup keeps room invariants after a slot removal: the turn
// never points at a removed key, host privilege transfers to a remaining
// player, and an empty room is deleted immediately. Assumes the room
// lock is held.
func (h *Hub) removeFollowup(room *Room, removed string) {
	if room.CurrentTurn == removed {
		room.CurrentTurn = ""
	}
	if room.HostID == removed {
		for id, p := range room.Players {
			room.HostID = id
			room.broadcast(&Event{Kind: EventHostChanged, Room: room.Code, User: id, Name: p.Name})
			break
		}
	}
	if len(room.Players) == 0 {
		room.closed = true
		h.registry.Delete(room.Code)
	}
}

func errEvent(code, msg string) *Event {
	return &Event{Kind: EventError, Error: coreError(code, msg)}
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
