package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
mongodb:
  uri: mongodb://localhost:27017
  database: weddingshare
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.PresignTTL)
	assert.Equal(t, time.Minute, cfg.StorySweep)
	assert.Equal(t, 24*time.Hour, cfg.AdminTokenTTL)
	assert.Equal(t, 50, cfg.Sync.NotificationCap)
	assert.Equal(t, 100, cfg.Limits.MaxUploadMB)
	assert.Equal(t, 10000, cfg.Geo.RadiusMeters)
	assert.Equal(t, cfg.S3.PresignTTL, cfg.Redis.SignedURLTTL,
		"url cache ttl defaults to the presign ttl")
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 9090
  shutdown_seconds: 5
s3:
  presign_ttl_seconds: 120
sync:
  story_sweep_seconds: 10
admin:
  token_ttl_hours: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Minute, cfg.PresignTTL)
	assert.Equal(t, 10*time.Second, cfg.StorySweep)
	assert.Equal(t, 2*time.Hour, cfg.AdminTokenTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadNestedSections(t *testing.T) {
	path := writeConfig(t, `
kafka:
  brokers: ["k1:9092", "k2:9092"]
  topic: activity
  group_id: fanout
spotify:
  client_id: cid
  playlist_id: pl-1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "activity", cfg.Kafka.Topic)
	assert.Equal(t, "pl-1", cfg.Spotify.PlaylistID)
}
