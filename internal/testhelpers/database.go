package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/feedback/backend/config"
	"github.com/pageza/feedback/backend/internal/database"
)

// SetupTestDB opens a fresh in-memory SQLite database with all tables
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.CreateAll(db))

	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("closing test database: %v", err)
		}
	})
	return db
}

// requireDocker skips container-based tests where they cannot run
func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

// SetupPostgresDB starts a PostgreSQL container and returns a migrated
// database connected to it.
func SetupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	requireDocker(t)

	cfg := &config.Config{
		DBDriver:   config.DriverPostgres,
		DBUser:     "feedback",
		DBPassword: "feedback",
		DBName:     "feedback",
		DBSSLMode:  "disable",
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     cfg.DBUser,
				"POSTGRES_PASSWORD": cfg.DBPassword,
				"POSTGRES_DB":       cfg.DBName,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						cfg.DBUser, cfg.DBPassword, host, port.Port(), cfg.DBName)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	cfg.DBHost = host
	cfg.DBPort = port.Port()

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.CreateAll(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return db
}
