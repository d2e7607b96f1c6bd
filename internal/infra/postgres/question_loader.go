package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-duel-service/internal/domain"
)

// QuestionLoader loads themes and question pools from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadThemes(ctx context.Context) ([]domain.Theme, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, name FROM themes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}
	defer rows.Close()

	var themes []domain.Theme
	for rows.Next() {
		var theme domain.Theme
		if err := rows.Scan(&theme.ID, &theme.Name); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, theme)
	}
	return themes, rows.Err()
}

func (l *QuestionLoader) LoadTheme(ctx context.Context, themeID string) (map[domain.QuestionType][]domain.Question, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, type, points, text, answer, choices FROM questions WHERE theme_id=$1 ORDER BY id`, themeID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	pool := make(map[domain.QuestionType][]domain.Question)
	for rows.Next() {
		q := domain.Question{ThemeID: themeID}
		var typ string
		if err := rows.Scan(&q.ID, &typ, &q.Points, &q.Text, &q.Answer, &q.Choices); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = domain.QuestionType(typ)
		pool[q.Type] = append(pool[q.Type], q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, domain.ErrThemeNotFound
	}
	return pool, nil
}
