package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-duel-service/internal/domain"
)

// ScoreStore persists finished-game scores and serves theme leaderboards
// from each user's best recorded score.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) SaveScore(ctx context.Context, entry domain.ScoreEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (user_id, theme_id, score, average_elapsed) VALUES ($1, $2, $3, $4)`,
		entry.UserID, entry.ThemeID, entry.Score, entry.AverageElapsed)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (s *ScoreStore) TopScores(ctx context.Context, themeID string, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, MAX(score) AS best
		   FROM scores
		  WHERE theme_id=$1
		  GROUP BY user_id
		  ORDER BY best DESC
		  LIMIT $2`, themeID, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Score); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
