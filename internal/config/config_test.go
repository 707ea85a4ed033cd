package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "registration", cfg.MongoDatabase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.ShutdownTimeout)
}

func TestNew_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}
