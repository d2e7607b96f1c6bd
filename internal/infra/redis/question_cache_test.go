package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-duel-service/internal/domain"
	"trivia-duel-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuestionLoader: memory.SampleQuestionBank()}
	repo := NewQuestionRepository(client, loader, time.Minute)

	pool, err := repo.QuestionsForTheme(context.Background(), "sciences")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("bank:sciences:pool") {
		t.Fatalf("expected pool cached in redis")
	}

	// Second call should be served from the redis blob.
	cached, err := repo.QuestionsForTheme(context.Background(), "sciences")
	if err != nil {
		t.Fatalf("load pool again: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != len(pool) {
		t.Fatalf("cached pool differs: %d types vs %d", len(cached), len(pool))
	}
	for typ, questions := range pool {
		if len(cached[typ]) != len(questions) {
			t.Fatalf("cached pool lost questions for %s", typ)
		}
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadTheme(ctx context.Context, themeID string) (map[domain.QuestionType][]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadTheme(ctx, themeID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
