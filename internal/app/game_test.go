package app

import (
	"errors"
	"testing"
	"time"

	"trivia-duel-service/internal/domain"
)

func newTestSession(questions []domain.Question) *GameSession {
	return newGameSession("game_1_u1", "u1", "sciences", "", questions, time.Now())
}

func TestGameSessionAdvancesThroughSequence(t *testing.T) {
	questions := []domain.Question{
		{Type: domain.QuestionOpen, Points: 10, Text: "q one", Answer: "a"},
		{Type: domain.QuestionOpen, Points: 10, Text: "q two", Answer: "b"},
	}
	session := newTestSession(questions)

	result, err := session.SubmitAnswer(strPtr("a"), 30)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct || result.Awarded != 10 {
		t.Fatalf("expected correct base-point answer, got %+v", result)
	}
	if result.Finished || result.NextQuestion == nil || result.NextQuestion.Text != "q two" {
		t.Fatalf("expected next question, got %+v", result)
	}

	result, err = session.SubmitAnswer(nil, 30)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct || result.Awarded != 0 {
		t.Fatalf("skip must not score, got %+v", result)
	}
	if !result.Finished || result.NextQuestion != nil {
		t.Fatalf("expected finished session, got %+v", result)
	}

	if _, err := session.SubmitAnswer(strPtr("b"), 30); !errors.Is(err, domain.ErrSessionAlreadyFinished) {
		t.Fatalf("expected ErrSessionAlreadyFinished, got %v", err)
	}
}

func TestGameSessionScoreMatchesHistory(t *testing.T) {
	questions := []domain.Question{
		{Type: domain.QuestionOpen, Points: 10, Text: "q1", Answer: "a"},
		{Type: domain.QuestionOpen, Points: 20, Text: "q2", Answer: "b"},
		{Type: domain.QuestionOpen, Points: 30, Text: "q3", Answer: "c"},
	}
	session := newTestSession(questions)

	_, _ = session.SubmitAnswer(strPtr("a"), 30)      // +10
	_, _ = session.SubmitAnswer(strPtr("wrong"), 30)  // +0
	_, _ = session.SubmitAnswer(strPtr("c"), 30)      // +30

	summary, err := session.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	var fromHistory int
	for _, record := range summary.History {
		if record.Correct {
			fromHistory += record.Awarded
		}
	}
	if summary.Score != fromHistory {
		t.Fatalf("score %d does not equal sum of correct history points %d", summary.Score, fromHistory)
	}
	if summary.Score != 40 {
		t.Fatalf("expected score 40, got %d", summary.Score)
	}
	if len(summary.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(summary.History))
	}
}

func TestGameSessionSummaryRequiresAnswers(t *testing.T) {
	session := newTestSession([]domain.Question{
		{Type: domain.QuestionOpen, Points: 10, Text: "q1", Answer: "a"},
	})

	if _, err := session.Summary(); !errors.Is(err, domain.ErrSessionNotFinished) {
		t.Fatalf("expected ErrSessionNotFinished, got %v", err)
	}
}

func TestGameSessionSummaryComputesElapsed(t *testing.T) {
	session := newTestSession([]domain.Question{
		{Type: domain.QuestionOpen, Points: 10, Text: "q1", Answer: "a"},
		{Type: domain.QuestionOpen, Points: 10, Text: "q2", Answer: "b"},
	})

	_, _ = session.SubmitAnswer(strPtr("a"), 10)
	_, _ = session.SubmitAnswer(strPtr("b"), 20)

	summary, err := session.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalElapsed != 30 || summary.AverageElapsed != 15 {
		t.Fatalf("expected total=30 average=15, got total=%v average=%v", summary.TotalElapsed, summary.AverageElapsed)
	}
}
