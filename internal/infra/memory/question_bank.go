package memory

import (
	"context"

	"trivia-duel-service/internal/domain"
)

// QuestionLoader fetches a theme's question pool from a backing store
// (e.g., Postgres).
type QuestionLoader interface {
	LoadThemes(ctx context.Context) ([]domain.Theme, error)
	LoadTheme(ctx context.Context, themeID string) (map[domain.QuestionType][]domain.Question, error)
}

// StaticQuestionBank is a loader backed by an in-memory map (useful for
// tests/demos and for running without a database).
type StaticQuestionBank struct {
	themes    []domain.Theme
	questions map[string]map[domain.QuestionType][]domain.Question
}

func NewStaticQuestionBank(themes []domain.Theme, questions map[string]map[domain.QuestionType][]domain.Question) *StaticQuestionBank {
	return &StaticQuestionBank{themes: themes, questions: questions}
}

func (b *StaticQuestionBank) LoadThemes(_ context.Context) ([]domain.Theme, error) {
	themes := make([]domain.Theme, len(b.themes))
	copy(themes, b.themes)
	return themes, nil
}

func (b *StaticQuestionBank) LoadTheme(_ context.Context, themeID string) (map[domain.QuestionType][]domain.Question, error) {
	pool, ok := b.questions[themeID]
	if !ok {
		return nil, domain.ErrThemeNotFound
	}
	return pool, nil
}

// SampleQuestionBank provides a minimal playable bank; swap it for the
// Postgres loader in production.
func SampleQuestionBank() *StaticQuestionBank {
	themes := []domain.Theme{
		{ID: "history", Name: "History"},
		{ID: "sciences", Name: "Sciences"},
		{ID: "geography", Name: "Geography"},
		{ID: "sport", Name: "Sport"},
		{ID: "general", Name: "General Knowledge"},
	}

	questions := map[string]map[domain.QuestionType][]domain.Question{
		"history": {
			domain.QuestionDual: {
				{ID: "his-d1", ThemeID: "history", Type: domain.QuestionDual, Points: 5,
					Text: "Did World War II begin in 1939?", Answer: "Yes", Choices: []string{"Yes", "No"}},
			},
			domain.QuestionQuad: {
				{ID: "his-q1", ThemeID: "history", Type: domain.QuestionQuad, Points: 10,
					Text: "Who discovered America?", Answer: "Christopher Columbus",
					Choices: []string{"Christopher Columbus", "Marco Polo", "Vasco da Gama", "Magellan"}},
			},
			domain.QuestionOpen: {
				{ID: "his-o1", ThemeID: "history", Type: domain.QuestionOpen, Points: 15,
					Text: "In which year did the French Revolution begin?", Answer: "1789"},
			},
		},
		"sciences": {
			domain.QuestionDual: {
				{ID: "sci-d1", ThemeID: "sciences", Type: domain.QuestionDual, Points: 5,
					Text: "Does water boil at 100°C at sea level?", Answer: "Yes", Choices: []string{"Yes", "No"}},
			},
			domain.QuestionQuad: {
				{ID: "sci-q1", ThemeID: "sciences", Type: domain.QuestionQuad, Points: 10,
					Text: "What is the chemical symbol for gold?", Answer: "Au",
					Choices: []string{"Au", "Ag", "Fe", "Cu"}},
			},
			domain.QuestionOpen: {
				{ID: "sci-o1", ThemeID: "sciences", Type: domain.QuestionOpen, Points: 15,
					Text: "What is the speed of light in km/s?", Answer: "299792"},
			},
		},
		"geography": {
			domain.QuestionDual: {
				{ID: "geo-d1", ThemeID: "geography", Type: domain.QuestionDual, Points: 5,
					Text: "Is the Nile the longest river in the world?", Answer: "Yes", Choices: []string{"Yes", "No"}},
			},
			domain.QuestionQuad: {
				{ID: "geo-q1", ThemeID: "geography", Type: domain.QuestionQuad, Points: 10,
					Text: "What is the capital of Australia?", Answer: "Canberra",
					Choices: []string{"Canberra", "Sydney", "Melbourne", "Perth"}},
			},
			domain.QuestionOpen: {
				{ID: "geo-o1", ThemeID: "geography", Type: domain.QuestionOpen, Points: 15,
					Text: "How many continents are there?", Answer: "7"},
			},
		},
		"sport": {
			domain.QuestionDual: {
				{ID: "spo-d1", ThemeID: "sport", Type: domain.QuestionDual, Points: 5,
					Text: "Is football played 11 against 11?", Answer: "Yes", Choices: []string{"Yes", "No"}},
			},
			domain.QuestionQuad: {
				{ID: "spo-q1", ThemeID: "sport", Type: domain.QuestionQuad, Points: 10,
					Text: "Which country has won the most football World Cups?", Answer: "Brazil",
					Choices: []string{"Brazil", "Germany", "Italy", "Argentina"}},
			},
			domain.QuestionOpen: {
				{ID: "spo-o1", ThemeID: "sport", Type: domain.QuestionOpen, Points: 15,
					Text: "How many players does a basketball team field?", Answer: "5"},
			},
		},
		"general": {
			domain.QuestionDual: {
				{ID: "gen-d1", ThemeID: "general", Type: domain.QuestionDual, Points: 5,
					Text: "Is the Mona Lisa in the Louvre?", Answer: "Yes", Choices: []string{"Yes", "No"}},
			},
			domain.QuestionQuad: {
				{ID: "gen-q1", ThemeID: "general", Type: domain.QuestionQuad, Points: 10,
					Text: "Who painted the Mona Lisa?", Answer: "Leonardo da Vinci",
					Choices: []string{"Leonardo da Vinci", "Michelangelo", "Raphael", "Botticelli"}},
			},
			domain.QuestionOpen: {
				{ID: "gen-o1", ThemeID: "general", Type: domain.QuestionOpen, Points: 15,
					Text: "In which year did Mozart die?", Answer: "1791"},
			},
		},
	}

	return NewStaticQuestionBank(themes, questions)
}
