package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-duel-service/internal/app"
	pgstore "trivia-duel-service/internal/infra/postgres"
	pgmigrations "trivia-duel-service/internal/infra/postgres/migrations"
	infraredis "trivia-duel-service/internal/infra/redis"
)

func TestDuelEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestions(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	bank := infraredis.NewQuestionRepository(redisClient, pgstore.NewQuestionLoader(pool), 5*time.Minute)
	scores := infraredis.NewLeaderboard(redisClient, pgstore.NewScoreStore(pool))
	service := app.NewGameService(app.NewRegistry(), bank, scores)

	code, err := service.CreateDuelRoom(ctx, "sciences", "alice")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if err := service.JoinDuelRoom(ctx, code, "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	hostStatus, err := service.StartDuel(ctx, code, "alice")
	if err != nil {
		t.Fatalf("start duel: %v", err)
	}
	guestStatus, err := service.PollDuelRoom(ctx, code, "bob")
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if hostStatus.FirstQuestion == nil || guestStatus.FirstQuestion == nil ||
		hostStatus.FirstQuestion.Text != guestStatus.FirstQuestion.Text {
		t.Fatalf("players must share the first question")
	}

	answer := "Au"
	r1, err := service.SubmitAnswer(ctx, hostStatus.GameID, &answer, 0)
	if err != nil {
		t.Fatalf("alice submit: %v", err)
	}
	if !r1.Correct || r1.Awarded != 12 {
		t.Fatalf("expected alice awarded 12, got %+v", r1)
	}
	if _, err := service.SubmitAnswer(ctx, guestStatus.GameID, nil, 30); err != nil {
		t.Fatalf("bob submit: %v", err)
	}

	if _, err := service.GameSummary(ctx, hostStatus.GameID); err != nil {
		t.Fatalf("alice summary: %v", err)
	}
	if _, err := service.GameSummary(ctx, guestStatus.GameID); err != nil {
		t.Fatalf("bob summary: %v", err)
	}

	lb, err := service.Leaderboard(ctx, "sciences")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) == 0 || lb[0].UserID != "alice" || lb[0].Score != 12 {
		t.Fatalf("expected alice leading with 12, got %+v", lb)
	}

	// Scores also landed in the durable store.
	durable, err := pgstore.NewScoreStore(pool).TopScores(ctx, "sciences", 10)
	if err != nil {
		t.Fatalf("durable leaderboard: %v", err)
	}
	if len(durable) != 2 {
		t.Fatalf("expected both players persisted, got %+v", durable)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuestions(t *testing.T, ctx context.Context, dsn string) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stmts := []string{
		`INSERT INTO themes (id, name) VALUES ('sciences', 'Sciences') ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO questions (id, theme_id, type, points, text, answer, choices)
		 VALUES ('sci-q1', 'sciences', 'quad', 10, 'What is the chemical symbol for gold?', 'Au',
		         '{"Au","Ag","Fe","Cu"}'::text[])
		 ON CONFLICT (id) DO NOTHING`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
