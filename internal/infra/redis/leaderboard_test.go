package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"trivia-duel-service/internal/domain"
	"trivia-duel-service/internal/infra/memory"
)

func TestLeaderboardKeepsBestScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	lb := NewLeaderboard(newClient(mr), nil)

	saves := []domain.ScoreEntry{
		{UserID: "alice", ThemeID: "sciences", Score: 40},
		{UserID: "bob", ThemeID: "sciences", Score: 55},
		{UserID: "alice", ThemeID: "sciences", Score: 70},
		{UserID: "alice", ThemeID: "sciences", Score: 20}, // worse, must not regress
	}
	for _, entry := range saves {
		if err := lb.SaveScore(ctx, entry); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	top, err := lb.TopScores(ctx, "sciences", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 users, got %d", len(top))
	}
	if top[0].UserID != "alice" || top[0].Score != 70 {
		t.Fatalf("expected alice leading with 70, got %+v", top[0])
	}
	if top[1].UserID != "bob" || top[1].Score != 55 {
		t.Fatalf("expected bob with 55, got %+v", top[1])
	}
}

func TestLeaderboardWritesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	durable := memory.NewScoreStore()
	lb := NewLeaderboard(newClient(mr), durable)

	entry := domain.ScoreEntry{UserID: "alice", ThemeID: "sport", Score: 33, AverageElapsed: 11}
	if err := lb.SaveScore(ctx, entry); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, err := durable.TopScores(ctx, "sport", 10)
	if err != nil {
		t.Fatalf("durable top: %v", err)
	}
	if len(stored) != 1 || stored[0].UserID != "alice" || stored[0].Score != 33 {
		t.Fatalf("expected write-through to durable store, got %+v", stored)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	lb := NewLeaderboard(newClient(mr), nil)
	for i, user := range []string{"a", "b", "c", "d"} {
		_ = lb.SaveScore(ctx, domain.ScoreEntry{UserID: user, ThemeID: "general", Score: 10 + i})
	}

	top, err := lb.TopScores(ctx, "general", 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].UserID != "d" {
		t.Fatalf("expected top-2 with d leading, got %+v", top)
	}
}
