package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string
	// Fixtures are SQL statements run after the migrations.
	Fixtures []string
}

func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	script, err := initScript(cfg.Fixtures)
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", "recommender-init-*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(script); err != nil {
		return nil, fmt.Errorf("failed to write init script: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:17.5",
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		postgres.WithInitScripts(tmpFile.Name()),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{Container: pgContainer, ConnString: connStr}, nil
}

// NewPGContainerWithCleanup starts a migrated database that is terminated with the test.
func NewPGContainerWithCleanup(ctx context.Context, tb testing.TB, fixtures ...string) *PGContainer {
	tb.Helper()

	container, err := NewPGContainer(ctx, PGConfig{
		Database: "recommender_test_db",
		Username: "test",
		Password: "test",
		Fixtures: fixtures,
	})
	if err != nil {
		tb.Fatalf("failed to create postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	})

	return container
}

// initScript joins the up migrations from db/migrations, in file name order, and the
// fixtures into one script.
func initScript(fixtures []string) (string, error) {
	_, b, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(b), "..", "..", "db", "migrations")

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return "", fmt.Errorf("failed to find migration files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no migrations found in %s", migrationsDir)
	}
	sort.Strings(files)

	var sb strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read migration file %s: %w", f, err)
		}
		sb.Write(content)
		sb.WriteString(";\n\n")
	}
	for _, stmt := range fixtures {
		sb.WriteString(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
		sb.WriteString(";\n")
	}
	return sb.String(), nil
}
