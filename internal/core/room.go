package core

import (
	"sync"
	"time"
)

// Status is the lifecycle phase of a room.
type Status string

const (
	// StatusWaiting means the room exists but the host has not started.
	StatusWaiting Status = "waiting"
	// StatusStarted means both players may now lock secrets.
	StatusStarted Status = "started"
	// StatusPlaying means both secrets are locked and guessing alternates.
	StatusPlaying Status = "playing"
	// StatusFinished means one player scored four whites.
	StatusFinished Status = "finished"
)

// MaxPlayers is the number of player slots in a room.
const MaxPlayers = 2

// Guess is one scored guess. Records are immutable once appended.
type Guess struct {
	By     string
	Guess  string
	Whites int
	Reds   int
	At     time.Time
}

// Player is one slot in a room. The slot survives a disconnect for the
// grace window; removeGen invalidates a pending removal when the player
// returns or leaves before the timer fires.
type Player struct {
	Name           string
	Secret         string
	Connected      bool
	DisconnectedAt time.Time

	removeGen   uint64
	removeTimer *time.Timer
}

// Room is one isolated duel session. All fields besides Code and
// CreatedAt are guarded by mu; every mutation goes through the Hub,
// which locks the room for the duration of one operation.
type Room struct {
	mu sync.Mutex

	Code            string
	Players         map[string]*Player
	HostID          string
	Status          Status
	CurrentTurn     string
	GuessHistory    []Guess
	RematchRequests map[string]struct{}
	CreatedAt       time.Time

	subscribers map[string]*Client

	// closed is set, under mu, when the room is removed from the
	// registry. A caller that resolved the room before removal checks
	// it after locking and must not act on a closed room.
	closed bool
}

func newRoom(code string, now time.Time) *Room {
	return &Room{
		Code:            code,
		Players:         make(map[string]*Player),
		Status:          StatusWaiting,
		RematchRequests: make(map[string]struct{}),
		CreatedAt:       now,
		subscribers:     make(map[string]*Client),
	}
}

// The helpers below assume r.mu is held.

func (r *Room) subscribe(c *Client) {
	r.subscribers[c.ID] = c
}

func (r *Room) unsubscribe(id string) {
	delete(r.subscribers, id)
}

// broadcast queues an event for every subscribed connection.
func (r *Room) broadcast(ev *Event) {
	for _, c := range r.subscribers {
		c.send(ev)
	}
}

// sendTo queues an event for a single subscribed connection.
func (r *Room) sendTo(id string, ev *Event) {
	if c, ok := r.subscribers[id]; ok {
		c.send(ev)
	}
}

// opponentOf returns the connection id of the other player slot.
func (r *Room) opponentOf(id string) (string, bool) {
	for other := range r.Players {
		if other != id {
			return other, true
		}
	}
	return "", false
}

// started reports whether the room has left the waiting phase.
func (r *Room) started() bool {
	return r.Status != StatusWaiting
}

func (r *Room) secretsLocked() int {
	n := 0
	for _, p := range r.Players {
		if p.Secret != "" {
			n++
		}
	}
	return n
}

// broadcastNames sends each subscriber its own view of the roster: its
// display name plus the opponent's, if any.
func (r *Room) broadcastNames() {
	for id, c := range r.subscribers {
		self, ok := r.Players[id]
		if !ok {
			continue
		}
		ev := &Event{Kind: EventPlayerNames, Room: r.Code, Name: self.Name}
		if otherID, ok := r.opponentOf(id); ok {
			ev.Opponent = r.Players[otherID].Name
		}
		c.send(ev)
	}
}

// cancelRemoval invalidates any pending disconnect removal for a slot.
// Safe to call when none is scheduled.
func (p *Player) cancelRemoval() {
	p.removeGen++
	if p.removeTimer != nil {
		p.removeTimer.Stop()
		p.removeTimer = nil
	}
}
