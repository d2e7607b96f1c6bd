package app

import (
	"fmt"
	"sync"
	"time"

	"trivia-duel-service/internal/domain"
)

// roomCapacity bounds the duel roster, host included.
const roomCapacity = 6

// DuelRoom is a multiplayer lobby that fixes one shared question sequence
// when the host starts the duel. The roster order is significant: the player
// at index 0 is the host for the room's whole lifetime.
type DuelRoom struct {
	code    string
	themeID string

	mu         sync.Mutex
	players    []string
	state      domain.RoomState
	questions  []domain.Question
	scores     map[string]int
	sessions   map[string]*GameSession
	lastActive time.Time
}

func newDuelRoom(code, themeID, hostID string, now time.Time) *DuelRoom {
	return &DuelRoom{
		code:       code,
		themeID:    themeID,
		players:    []string{hostID},
		state:      domain.RoomWaiting,
		scores:     make(map[string]int),
		sessions:   make(map[string]*GameSession),
		lastActive: now,
	}
}

func (r *DuelRoom) Code() string    { return r.code }
func (r *DuelRoom) ThemeID() string { return r.themeID }

// Join appends a player to the roster. The capacity and state checks and the
// append are one critical section so a concurrent start cannot race a join.
func (r *DuelRoom) Join(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != domain.RoomWaiting {
		return domain.ErrRoomNotWaiting
	}
	if len(r.players) >= roomCapacity {
		return domain.ErrRoomFull
	}
	for _, p := range r.players {
		if p == userID {
			return domain.ErrAlreadyJoined
		}
	}
	r.players = append(r.players, userID)
	r.lastActive = time.Now()
	return nil
}

// canStart reports whether the requester may start the duel right now.
// Callers use it to reject a start cheaply before building a sequence;
// start re-checks under the same lock before committing.
func (r *DuelRoom) canStart(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startableLocked(requesterID)
}

func (r *DuelRoom) startableLocked(requesterID string) error {
	if requesterID != r.players[0] {
		return domain.ErrNotHost
	}
	if len(r.players) < 2 {
		return domain.ErrNotEnoughPlayers
	}
	if r.state != domain.RoomWaiting {
		return domain.ErrRoomNotWaiting
	}
	return nil
}

// start flips the room to playing and spawns one session per current player,
// all sharing the given sequence. register is called for every spawned
// session while the room lock is held, so no join or second start can
// interleave with the transition. The requester's session is returned.
func (r *DuelRoom) start(requesterID string, questions []domain.Question, now time.Time, register func(*GameSession)) (*GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.startableLocked(requesterID); err != nil {
		return nil, err
	}

	r.state = domain.RoomPlaying
	r.questions = questions
	for _, playerID := range r.players {
		session := r.spawnSessionLocked(playerID, now)
		register(session)
	}
	r.lastActive = now
	return r.sessions[requesterID], nil
}

// sessionFor lazily creates the roster member's session once the room is
// playing. Idempotent per user: repeated polls always see the same session.
func (r *DuelRoom) sessionFor(userID string, now time.Time, register func(*GameSession)) (*GameSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == domain.RoomWaiting {
		return nil, false
	}
	if session, ok := r.sessions[userID]; ok {
		return session, true
	}
	for _, playerID := range r.players {
		if playerID == userID {
			session := r.spawnSessionLocked(userID, now)
			register(session)
			return session, true
		}
	}
	return nil, false
}

func (r *DuelRoom) spawnSessionLocked(playerID string, now time.Time) *GameSession {
	// Sequence shared by value: every player advances an independent copy.
	questions := make([]domain.Question, len(r.questions))
	copy(questions, r.questions)

	id := fmt.Sprintf("duel_%s_%s_%d", r.code, playerID, now.Unix())
	session := newGameSession(id, playerID, r.themeID, r.code, questions, now)
	r.sessions[playerID] = session
	r.scores[playerID] = 0
	return session
}

// Status is the poll view of the room for one requester.
func (r *DuelRoom) Status(requesterID string) domain.RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]domain.RoomPlayer, len(r.players))
	for i, playerID := range r.players {
		players[i] = domain.RoomPlayer{UserID: playerID, Host: i == 0}
	}

	status := domain.RoomStatus{
		Code:    r.code,
		ThemeID: r.themeID,
		State:   r.state,
		Players: players,
		IsHost:  requesterID == r.players[0],
	}
	if r.state != domain.RoomWaiting {
		if session, ok := r.sessions[requesterID]; ok {
			status.GameID = session.ID()
			first := session.FirstQuestion()
			status.FirstQuestion = &first
		}
	}
	r.lastActive = time.Now()
	return status
}

// recordScore notes a player's final score and flips the room to finished
// once every spawned session has exhausted its sequence.
func (r *DuelRoom) recordScore(userID string, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scores[userID]; !ok {
		return
	}
	r.scores[userID] = score

	if r.state != domain.RoomPlaying {
		return
	}
	for _, session := range r.sessions {
		if !session.Finished() {
			return
		}
	}
	r.state = domain.RoomFinished
	r.lastActive = time.Now()
}

// Scores returns a copy of the per-player score map.
func (r *DuelRoom) Scores() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make(map[string]int, len(r.scores))
	for playerID, score := range r.scores {
		scores[playerID] = score
	}
	return scores
}

// State returns the current lifecycle state.
func (r *DuelRoom) State() domain.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *DuelRoom) idleSince(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.lastActive)
}
