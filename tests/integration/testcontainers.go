// Package integration holds end-to-end tests backed by testcontainers.
// These tests require Docker to be running.
//
// Usage:
//
//	go test ./tests/integration/
//
// The tests start a PostgreSQL container, apply the migrations, and clean
// up after completion.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khanhng/coinfolio/internal/db"
)

// TestContainer holds the PostgreSQL container and connection details
type TestContainer struct {
	Container testcontainers.Container
	Database  *db.DB
	SQL       *sql.DB
	Config    *db.Config
}

// SetupTestContainer creates and starts a PostgreSQL container for testing
func SetupTestContainer(t *testing.T) *TestContainer {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	migrationsPath, err := filepath.Abs("../../migrations")
	if err != nil {
		t.Fatalf("Failed to get absolute path to migrations: %v", err)
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("coinfolio_test"),
		postgres.WithUsername("coinfolio_user"),
		postgres.WithPassword("coinfolio_password"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	config := &db.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "coinfolio_user",
		Password: "coinfolio_password",
		Name:     "coinfolio_test",
		SSLMode:  "disable",
	}

	database, err := db.Connect(config)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}

	if err := runMigrations(sqlDB, migrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestContainer{
		Container: pgContainer,
		Database:  database,
		SQL:       sqlDB,
		Config:    config,
	}
}

// Cleanup terminates the container and closes the database connection
func (tc *TestContainer) Cleanup(t *testing.T) {
	t.Helper()

	if tc.Database != nil {
		_ = tc.Database.Close()
	}

	if tc.Container != nil {
		if err := tc.Container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}
}

// TruncateAll clears every table between tests while keeping the schema.
func (tc *TestContainer) TruncateAll(t *testing.T) {
	t.Helper()
	if _, err := tc.SQL.Exec("TRUNCATE transactions, users CASCADE"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// runMigrations executes every numbered SQL file in order.
func runMigrations(sqlDB *sql.DB, migrationsPath string) error {
	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(migrationsPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}
