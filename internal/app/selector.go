package app

import (
	"math/rand"

	"trivia-duel-service/internal/domain"
)

// Per-type quotas for one game. A small bank may under-fill a quota;
// only a completely empty result is an error.
const (
	quotaOpen = 5
	quotaQuad = 10
	quotaDual = 20
)

// BuildSequence assembles the question sequence for one game from a theme's
// pool grouped by type. Questions are taken in bank order per type until the
// type's quota is met or its supply runs out, suppressing any question whose
// text was already selected (banks may repeat a question across type buckets).
// The combined list is uniformly shuffled before being returned.
func BuildSequence(pool map[domain.QuestionType][]domain.Question) ([]domain.Question, error) {
	seen := make(map[string]struct{})
	var sequence []domain.Question

	take := func(questions []domain.Question, quota int) {
		added := 0
		for _, q := range questions {
			if added >= quota {
				break
			}
			if _, dup := seen[q.Text]; dup {
				continue
			}
			seen[q.Text] = struct{}{}
			sequence = append(sequence, q)
			added++
		}
	}

	take(pool[domain.QuestionOpen], quotaOpen)
	take(pool[domain.QuestionQuad], quotaQuad)
	take(pool[domain.QuestionDual], quotaDual)

	if len(sequence) == 0 {
		return nil, domain.ErrInsufficientQuestions
	}

	rand.Shuffle(len(sequence), func(i, j int) {
		sequence[i], sequence[j] = sequence[j], sequence[i]
	})
	return sequence, nil
}
