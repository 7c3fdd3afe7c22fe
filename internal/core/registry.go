package core

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// roomCodeLength is the length of generated room codes.
	roomCodeLength = 4
	// roomCodeAlphabet avoids easily confused characters (no I/O/0/1).
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Registry owns every live Room. It is constructed once at process start
// and injected where needed; nothing else holds room references across
// operations.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	emptyTTL      time.Duration
	sweepInterval time.Duration
	log           *zerolog.Logger
}

// NewRegistry builds an empty registry. Rooms with no players are
// reaped once they outlive emptyTTL; the sweep runs every sweepInterval.
func NewRegistry(emptyTTL, sweepInterval time.Duration, logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms:         make(map[string]*Room),
		emptyTTL:      emptyTTL,
		sweepInterval: sweepInterval,
		log:           logger,
	}
}

// Create registers a new room under a freshly generated unique code.
func (reg *Registry) Create(now time.Time) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for {
		code = makeCode()
		if _, exists := reg.rooms[code]; !exists {
			break
		}
	}

	room := newRoom(code, now)
	reg.rooms[code] = room
	return room
}

// Get returns the room for a code, or nil. Matching is case-insensitive.
func (reg *Registry) Get(code string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[strings.ToUpper(code)]
}

// Delete removes a room from the registry.
func (reg *Registry) Delete(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, code)
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// SweepExpired deletes rooms that have had zero players for longer than
// the empty-room TTL. It is a backstop for rooms whose last occupant
// vanished without explicit cleanup. Returns the number of rooms reaped.
func (reg *Registry) SweepExpired(now time.Time) int {
	reg.mu.RLock()
	candidates := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		candidates = append(candidates, room)
	}
	reg.mu.RUnlock()

	reaped := 0
	for _, room := range candidates {
		room.mu.Lock()
		expired := !room.closed && len(room.Players) == 0 && now.Sub(room.CreatedAt) > reg.emptyTTL
		if expired {
			// Closing under the room lock keeps a join that resolved
			// the room before the delete from acting on it.
			room.closed = true
		}
		room.mu.Unlock()

		if expired {
			reg.Delete(room.Code)
			reaped++
			if reg.log != nil {
				reg.log.Debug().Str("room", room.Code).Msg("reaped idle room")
			}
		}
	}
	return reaped
}

// Run periodically sweeps expired rooms until the context is cancelled.
func (reg *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(reg.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reg.SweepExpired(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func makeCode() string {
	buf := make([]byte, roomCodeLength)
	for i := range buf {
		buf[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(buf)
}
