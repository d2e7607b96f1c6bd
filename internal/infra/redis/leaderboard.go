package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trivia-duel-service/internal/domain"
)

// Leaderboard serves theme rankings from a Redis sorted set, keeping each
// user's best score (ZADD GT). Writes pass through to the next store when
// one is configured, so the durable history and the ranking stay in step.
type Leaderboard struct {
	client *redis.Client
	next   ScoreWriter
}

// ScoreWriter is the durable sink behind the Redis ranking.
type ScoreWriter interface {
	SaveScore(ctx context.Context, entry domain.ScoreEntry) error
}

// NewLeaderboard wraps an optional durable store with a Redis ranking.
// next may be nil when Redis is the only score sink.
func NewLeaderboard(client *redis.Client, next ScoreWriter) *Leaderboard {
	return &Leaderboard{client: client, next: next}
}

func (l *Leaderboard) SaveScore(ctx context.Context, entry domain.ScoreEntry) error {
	if err := l.client.ZAddGT(ctx, l.key(entry.ThemeID), redis.Z{
		Score:  float64(entry.Score),
		Member: entry.UserID,
	}).Err(); err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	if l.next != nil {
		return l.next.SaveScore(ctx, entry)
	}
	return nil
}

func (l *Leaderboard) TopScores(ctx context.Context, themeID string, limit int) ([]domain.LeaderboardEntry, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}
	rows, err := l.client.ZRevRangeWithScores(ctx, l.key(themeID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, z := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			UserID: z.Member.(string),
			Score:  int(z.Score),
		})
	}
	return entries, nil
}

func (l *Leaderboard) key(themeID string) string {
	return "leaderboard:" + themeID
}
