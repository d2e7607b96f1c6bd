package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-duel-service/internal/domain"
	"trivia-duel-service/internal/infra/memory"
)

// QuestionRepository caches each theme's question pool in Redis as a JSON
// blob (SET bank:{themeID}:pool) and falls back to a loader on cache miss.
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Themes(ctx context.Context) ([]domain.Theme, error) {
	return r.loader.LoadThemes(ctx)
}

func (r *QuestionRepository) QuestionsForTheme(ctx context.Context, themeID string) (map[domain.QuestionType][]domain.Question, error) {
	key := r.poolKey(themeID)

	if pool, ok := r.cachedPool(ctx, key); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(themeID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := r.cachedPool(ctx, key); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadTheme(ctx, themeID)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(pool); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[domain.QuestionType][]domain.Question), nil
}

func (r *QuestionRepository) cachedPool(ctx context.Context, key string) (map[domain.QuestionType][]domain.Question, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var pool map[domain.QuestionType][]domain.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

func (r *QuestionRepository) poolKey(themeID string) string {
	return "bank:" + themeID + ":pool"
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
