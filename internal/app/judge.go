package app

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"trivia-duel-service/internal/domain"
)

const (
	// DefaultTimeLimit is the per-question answer window in seconds.
	DefaultTimeLimit = 30.0
	// maxTimeBonus caps the multiplier reward for an instant answer at 20%.
	maxTimeBonus = 0.2
)

// Judge decides correctness of one submitted answer and computes the points
// awarded, including the time bonus. A nil answer (timeout or skip) is never
// judged and always yields zero points.
//
// OPEN questions compare after trimming, case-folding, and accent stripping,
// so " CAFÉ " matches "cafe". Choice questions (DUAL/QUAD) compare the exact
// button label case-insensitively, with no further normalization.
func Judge(q domain.Question, answer *string, elapsed float64) (bool, int) {
	if answer == nil {
		return false, 0
	}

	var correct bool
	if q.Type == domain.QuestionOpen {
		correct = foldAnswer(*answer) == foldAnswer(q.Answer)
	} else {
		correct = strings.EqualFold(*answer, q.Answer)
	}
	if !correct {
		return false, 0
	}

	bonus := (DefaultTimeLimit - elapsed) / DefaultTimeLimit * maxTimeBonus
	if bonus < 0 {
		bonus = 0
	}
	return true, int(float64(q.Points) * (1 + bonus))
}

// foldAnswer normalizes free-text answers: surrounding whitespace, letter
// case, and combining accent marks are all insignificant.
func foldAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		return stripped
	}
	return s
}
