package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/feedback/backend/config"
	"github.com/pageza/feedback/backend/internal/database"
	"github.com/pageza/feedback/backend/internal/models"
)

func setupEnv(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{DBDriver: config.DriverSQLite, DBPath: filepath.Join(dir, "feedback.db")}

	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", cfg.DBDriver)
	t.Setenv("DB_PATH", cfg.DBPath)
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("S3_BUCKET_NAME", "")
	return cfg
}

func runApp(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := buildApp()
	app.Writer = &out
	err := app.Run(append([]string{"feedbackctl"}, args...))
	return out.String(), err
}

func TestInitSeedDrop(t *testing.T) {
	cfg := setupEnv(t)

	out, err := runApp(t, "initdb")
	require.NoError(t, err)
	assert.Contains(t, out, "Database: sqlite://"+cfg.DBPath)
	assert.Contains(t, out, "All tables created")

	out, err = runApp(t, "seed", "--count", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Inserted 7 messages")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	var happy, unhappy int64
	require.NoError(t, db.Model(&models.Feedback{}).Where("kind = ?", models.Happy).Count(&happy).Error)
	require.NoError(t, db.Model(&models.Feedback{}).Where("kind = ?", models.Unhappy).Count(&unhappy).Error)
	require.NoError(t, database.Close(db))
	assert.Equal(t, int64(5), happy)
	assert.Equal(t, int64(2), unhappy)

	out, err = runApp(t, "dropdb")
	require.NoError(t, err)
	assert.Contains(t, out, "All tables dropped")
}

func TestSeedRejectsBadCount(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, "seed", "--count", "0")
	assert.Error(t, err)
}

func TestSeedRefusesProduction(t *testing.T) {
	setupEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	_, err := runApp(t, "seed")
	assert.ErrorContains(t, err, "production")
}

func TestArchiveValidation(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, "archive", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = runApp(t, "archive")
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")
}
