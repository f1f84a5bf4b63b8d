package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

const minimalEnv = `KOBO_API_URL=https://kobo.example.org/api/v2/assets/aBc123/data/
KOBO_TOKEN=Token abc123
DB_HOST=localhost
DB_PORT=5432
DB_USER=postgres
DB_PASSWORD=postgres
DB_NAME=leaks
DB_SSLMODE=disable
`

func TestLoad_AppliesScoringDefaults(t *testing.T) {
	writeEnv(t, minimalEnv)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.Scoring.ProximityRadiusMeters)
	assert.Equal(t, 30*24*time.Hour, cfg.Scoring.RecentRepairedWindow)
	assert.Equal(t, 3, cfg.Scoring.ActiveNeighborWeight)
	assert.Equal(t, 5, cfg.Scoring.RepairedNeighborWeight)
	assert.Equal(t, 5*time.Minute, cfg.Worker.SyncInterval)
	assert.Equal(t, 15*time.Minute, cfg.Worker.ScoreInterval)
	assert.Equal(t, 30*time.Second, cfg.Source.RequestTimeout)
}

func TestLoad_OverridesScoringDefaults(t *testing.T) {
	writeEnv(t, minimalEnv+`SCORING_PROXIMITY_RADIUS=250
SCORING_RECENT_REPAIRED_DAYS=7
SCORING_ACTIVE_WEIGHT=2
SCORING_REPAIRED_WEIGHT=9
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.Scoring.ProximityRadiusMeters)
	assert.Equal(t, 7*24*time.Hour, cfg.Scoring.RecentRepairedWindow)
	assert.Equal(t, 2, cfg.Scoring.ActiveNeighborWeight)
	assert.Equal(t, 9, cfg.Scoring.RepairedNeighborWeight)
}

// An explicit weight of 0 disables that scoring term; it must not be
// mistaken for "unset" and replaced with the default.
func TestLoad_ZeroWeightIsNotDefaulted(t *testing.T) {
	writeEnv(t, minimalEnv+`SCORING_ACTIVE_WEIGHT=0
SCORING_REPAIRED_WEIGHT=0
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Scoring.ActiveNeighborWeight)
	assert.Equal(t, 0, cfg.Scoring.RepairedNeighborWeight)
}

func TestLoad_RejectsMissingSourceURL(t *testing.T) {
	writeEnv(t, `KOBO_TOKEN=Token abc123
DB_HOST=localhost
DB_PORT=5432
`)

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_DSNAndAddrs(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "db", Port: 5432, User: "u", Password: "p",
			DBName: "leaks", SSLMode: "disable",
		},
		Redis:  RedisConfig{Host: "redis", Port: 6379},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leaks sslmode=disable", cfg.GetDatabaseDSN())
	assert.Equal(t, "redis:6379", cfg.GetRedisAddr())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}
