package app

import (
	"context"
	"log"
	"time"

	"trivia-duel-service/internal/domain"
)

// QuestionRepository loads question pools (from cache/backing store).
type QuestionRepository interface {
	Themes(ctx context.Context) ([]domain.Theme, error)
	QuestionsForTheme(ctx context.Context, themeID string) (map[domain.QuestionType][]domain.Question, error)
}

// ScoreStore persists finished-game scores and serves theme leaderboards.
type ScoreStore interface {
	SaveScore(ctx context.Context, entry domain.ScoreEntry) error
	TopScores(ctx context.Context, themeID string, limit int) ([]domain.LeaderboardEntry, error)
}

// leaderboardLimit caps the rows returned for a theme ranking.
const leaderboardLimit = 10

// GameService contains the trivia use cases: solo games, duel rooms, and
// leaderboards. All live state lives in the injected registry; questions and
// scores come from the injected repositories, and neither is ever touched
// while a registry or entry lock is held.
type GameService struct {
	registry *Registry
	bank     QuestionRepository
	scores   ScoreStore
}

func NewGameService(registry *Registry, bank QuestionRepository, scores ScoreStore) *GameService {
	return &GameService{registry: registry, bank: bank, scores: scores}
}

// Themes lists the playable themes.
func (s *GameService) Themes(ctx context.Context) ([]domain.Theme, error) {
	return s.bank.Themes(ctx)
}

// StartGame builds a fresh sequence for the theme and registers a solo
// session, returning its id and opening question.
func (s *GameService) StartGame(ctx context.Context, themeID, userID string) (string, domain.Question, error) {
	pool, err := s.bank.QuestionsForTheme(ctx, themeID)
	if err != nil {
		return "", domain.Question{}, err
	}
	questions, err := BuildSequence(pool)
	if err != nil {
		return "", domain.Question{}, err
	}

	session := s.registry.CreateGame(userID, themeID, questions)
	return session.ID(), session.FirstQuestion(), nil
}

// SubmitAnswer judges the session's current question and advances it.
func (s *GameService) SubmitAnswer(ctx context.Context, gameID string, answer *string, elapsed float64) (domain.SubmitResult, error) {
	session, err := s.registry.Game(gameID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	return session.SubmitAnswer(answer, elapsed)
}

// GameSummary returns the terminal view of a playthrough and persists the
// score. Persistence is fire-and-forget: a failed write is logged and never
// blocks the summary. Duel sessions also report their final score back to
// the room so it can detect the finished transition.
func (s *GameService) GameSummary(ctx context.Context, gameID string) (domain.GameSummary, error) {
	session, err := s.registry.Game(gameID)
	if err != nil {
		return domain.GameSummary{}, err
	}
	summary, err := session.Summary()
	if err != nil {
		return domain.GameSummary{}, err
	}

	if code := session.RoomCode(); code != "" {
		if room, err := s.registry.Room(code); err == nil {
			room.recordScore(session.UserID(), summary.Score)
		}
	}

	if err := s.scores.SaveScore(ctx, domain.ScoreEntry{
		UserID:         session.UserID(),
		ThemeID:        session.ThemeID(),
		Score:          summary.Score,
		AverageElapsed: summary.AverageElapsed,
	}); err != nil {
		log.Printf("save score for game %s: %v", gameID, err)
	}
	return summary, nil
}

// Leaderboard returns the top scores for a theme.
func (s *GameService) Leaderboard(ctx context.Context, themeID string) ([]domain.LeaderboardEntry, error) {
	return s.scores.TopScores(ctx, themeID, leaderboardLimit)
}

// CreateDuelRoom opens a waiting room for the theme with the creator as host.
func (s *GameService) CreateDuelRoom(ctx context.Context, themeID, hostID string) (string, error) {
	room := s.registry.CreateRoom(themeID, hostID)
	return room.Code(), nil
}

// JoinDuelRoom adds a player to a waiting room.
func (s *GameService) JoinDuelRoom(ctx context.Context, roomCode, userID string) error {
	room, err := s.registry.Room(roomCode)
	if err != nil {
		return err
	}
	return room.Join(userID)
}

// StartDuel fixes the room's shared sequence and spawns one session per
// player. The sequence is built before the room lock is taken; the state
// flip and session spawning are then a single critical section. The room's
// preconditions are probed first so a rejected start never hits the bank.
func (s *GameService) StartDuel(ctx context.Context, roomCode, requesterID string) (domain.RoomStatus, error) {
	room, err := s.registry.Room(roomCode)
	if err != nil {
		return domain.RoomStatus{}, err
	}
	if err := room.canStart(requesterID); err != nil {
		return domain.RoomStatus{}, err
	}

	pool, err := s.bank.QuestionsForTheme(ctx, room.ThemeID())
	if err != nil {
		return domain.RoomStatus{}, err
	}
	questions, err := BuildSequence(pool)
	if err != nil {
		return domain.RoomStatus{}, err
	}

	if _, err := room.start(requesterID, questions, time.Now(), s.registry.addGame); err != nil {
		return domain.RoomStatus{}, err
	}
	return room.Status(requesterID), nil
}

// PollDuelRoom is the repeatable observation of a room. Once the room is
// playing, a roster member without a session gets one lazily (a player whose
// poll loop lagged the host's start), always the same one on later polls.
func (s *GameService) PollDuelRoom(ctx context.Context, roomCode, requesterID string) (domain.RoomStatus, error) {
	room, err := s.registry.Room(roomCode)
	if err != nil {
		return domain.RoomStatus{}, err
	}
	room.sessionFor(requesterID, time.Now(), s.registry.addGame)
	return room.Status(requesterID), nil
}
