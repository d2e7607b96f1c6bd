package app

import (
	"sync"
	"time"

	"trivia-duel-service/internal/domain"
)

// GameSession tracks one player's progress through a fixed question
// sequence, solo or within a duel. The sequence itself is never mutated;
// only the cursor, score, and history advance, and only under the session's
// own lock.
type GameSession struct {
	id       string
	userID   string
	themeID  string
	roomCode string

	mu         sync.Mutex
	questions  []domain.Question
	index      int
	score      int
	history    []domain.AnswerRecord
	lastActive time.Time
}

func newGameSession(id, userID, themeID, roomCode string, questions []domain.Question, now time.Time) *GameSession {
	return &GameSession{
		id:         id,
		userID:     userID,
		themeID:    themeID,
		roomCode:   roomCode,
		questions:  questions,
		lastActive: now,
	}
}

func (g *GameSession) ID() string       { return g.id }
func (g *GameSession) UserID() string   { return g.userID }
func (g *GameSession) ThemeID() string  { return g.themeID }
func (g *GameSession) RoomCode() string { return g.roomCode }

// FirstQuestion returns the opening question of the sequence.
func (g *GameSession) FirstQuestion() domain.Question {
	return g.questions[0]
}

// SubmitAnswer judges the current question, records the history entry, and
// advances the cursor. Each index is judged at most once; answering a
// finished session fails with ErrSessionAlreadyFinished.
func (g *GameSession) SubmitAnswer(answer *string, elapsed float64) (domain.SubmitResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.index >= len(g.questions) {
		return domain.SubmitResult{}, domain.ErrSessionAlreadyFinished
	}

	current := g.questions[g.index]
	correct, awarded := Judge(current, answer, elapsed)
	if correct {
		g.score += awarded
	}

	g.history = append(g.history, domain.AnswerRecord{
		QuestionText:  current.Text,
		Submitted:     answer,
		CorrectAnswer: current.Answer,
		Correct:       correct,
		Awarded:       awarded,
		Elapsed:       elapsed,
	})
	g.index++
	g.lastActive = time.Now()

	result := domain.SubmitResult{
		Correct:       correct,
		CorrectAnswer: current.Answer,
		Awarded:       awarded,
		Finished:      g.index == len(g.questions),
	}
	if !result.Finished {
		next := g.questions[g.index]
		result.NextQuestion = &next
	}
	return result, nil
}

// Summary builds the terminal view of the playthrough. It fails until at
// least one answer has been recorded.
func (g *GameSession) Summary() (domain.GameSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.history) == 0 {
		return domain.GameSummary{}, domain.ErrSessionNotFinished
	}

	var total float64
	for _, record := range g.history {
		total += record.Elapsed
	}

	history := make([]domain.AnswerRecord, len(g.history))
	copy(history, g.history)

	g.lastActive = time.Now()
	return domain.GameSummary{
		Score:          g.score,
		TotalElapsed:   total,
		AverageElapsed: total / float64(len(g.history)),
		History:        history,
	}, nil
}

// Finished reports whether the cursor has exhausted the sequence.
func (g *GameSession) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index == len(g.questions)
}

// Score returns the accumulated score so far.
func (g *GameSession) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *GameSession) idleSince(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return now.Sub(g.lastActive)
}
