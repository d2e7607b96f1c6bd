package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"trivia-duel-service/internal/domain"
)

// Registry is the process-wide table of live game sessions and duel rooms.
// It owns every stored entry; callers get handles and all read-modify-write
// access goes through the entry's own lock. The registry lock only guards
// the two maps and room-code allocation, and is never held across entry
// locks, persistence, or network I/O.
type Registry struct {
	mu    sync.Mutex
	games map[string]*GameSession
	rooms map[string]*DuelRoom
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*GameSession),
		rooms: make(map[string]*DuelRoom),
	}
}

// CreateGame registers a fresh solo session for the given sequence.
func (r *Registry) CreateGame(userID, themeID string, questions []domain.Question) *GameSession {
	now := time.Now()
	id := fmt.Sprintf("game_%d_%s", now.UnixNano(), userID)
	session := newGameSession(id, userID, themeID, "", questions, now)

	r.mu.Lock()
	r.games[id] = session
	r.mu.Unlock()
	return session
}

// addGame registers a session spawned by a duel room.
func (r *Registry) addGame(session *GameSession) {
	r.mu.Lock()
	r.games[session.ID()] = session
	r.mu.Unlock()
}

// Game looks up a session by id.
func (r *Registry) Game(id string) (*GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.games[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// CreateRoom allocates a fresh four-digit room code and registers a waiting
// duel room under it. Allocation is an atomic check-and-reserve: the code is
// drawn, verified unused, and claimed under one lock acquisition.
func (r *Registry) CreateRoom(themeID, hostID string) *DuelRoom {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for {
		code = fmt.Sprintf("%04d", 1000+rand.Intn(9000))
		if _, taken := r.rooms[code]; !taken {
			break
		}
	}
	room := newDuelRoom(code, themeID, hostID, time.Now())
	r.rooms[code] = room
	return room
}

// Room looks up a duel room by code.
func (r *Registry) Room(code string) (*DuelRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Sweep reclaims sessions and rooms that have been idle longer than idleTTL.
// A client dropping mid-game leaves its session orphaned here; the sweep is
// the only thing that removes it. Entries are inspected outside the registry
// lock so a sweep never contends with a room spawning sessions.
func (r *Registry) Sweep(idleTTL time.Duration) (removedGames, removedRooms int) {
	now := time.Now()

	r.mu.Lock()
	games := make(map[string]*GameSession, len(r.games))
	for id, session := range r.games {
		games[id] = session
	}
	rooms := make(map[string]*DuelRoom, len(r.rooms))
	for code, room := range r.rooms {
		rooms[code] = room
	}
	r.mu.Unlock()

	var staleGames, staleRooms []string
	for id, session := range games {
		if session.idleSince(now) > idleTTL {
			staleGames = append(staleGames, id)
		}
	}
	for code, room := range rooms {
		if room.idleSince(now) > idleTTL {
			staleRooms = append(staleRooms, code)
		}
	}

	r.mu.Lock()
	for _, id := range staleGames {
		if _, ok := r.games[id]; ok {
			delete(r.games, id)
			removedGames++
		}
	}
	for _, code := range staleRooms {
		if _, ok := r.rooms[code]; ok {
			delete(r.rooms, code)
			removedRooms++
		}
	}
	r.mu.Unlock()
	return removedGames, removedRooms
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval, idleTTL time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				games, rooms := r.Sweep(idleTTL)
				if games > 0 || rooms > 0 {
					log.Printf("sweeper reclaimed %d idle games, %d idle rooms", games, rooms)
				}
			}
		}
	}()
}

// Counts reports the number of live games and rooms.
func (r *Registry) Counts() (games, rooms int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games), len(r.rooms)
}
