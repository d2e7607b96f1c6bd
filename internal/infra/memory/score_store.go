package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-duel-service/internal/domain"
)

// ScoreStore keeps per-theme score history in memory. It serves the
// leaderboard from each user's best score for the theme.
type ScoreStore struct {
	mu      sync.RWMutex
	byTheme map[string][]domain.ScoreEntry
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{byTheme: make(map[string][]domain.ScoreEntry)}
}

func (s *ScoreStore) SaveScore(_ context.Context, entry domain.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTheme[entry.ThemeID] = append(s.byTheme[entry.ThemeID], entry)
	return nil
}

func (s *ScoreStore) TopScores(_ context.Context, themeID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := make(map[string]int)
	for _, entry := range s.byTheme[themeID] {
		if score, ok := best[entry.UserID]; !ok || entry.Score > score {
			best[entry.UserID] = entry.Score
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(best))
	for userID, score := range best {
		entries = append(entries, domain.LeaderboardEntry{UserID: userID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
