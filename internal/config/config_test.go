package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/bookshelf.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Security.HashPasswords)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKSHELF_SERVER__PORT", "9090")
	t.Setenv("BOOKSHELF_SERVER__WRITE_TIMEOUT", "2m")
	t.Setenv("BOOKSHELF_DATABASE__DRIVER", "postgres")
	t.Setenv("BOOKSHELF_DATABASE__DSN", "host=db user=app dbname=bookshelf sslmode=disable")
	t.Setenv("BOOKSHELF_DATABASE__MAX_OPEN_CONNS", "3")
	t.Setenv("BOOKSHELF_LOG__FORMAT", "json")
	t.Setenv("BOOKSHELF_SECURITY__HASH_PASSWORDS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=db user=app dbname=bookshelf sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Security.HashPasswords)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "BOOKSHELF_DATABASE__DRIVER", "mysql"},
		{"port out of range", "BOOKSHELF_SERVER__PORT", "70000"},
		{"unknown log level", "BOOKSHELF_LOG__LEVEL", "verbose"},
		{"bcrypt cost too low", "BOOKSHELF_SECURITY__BCRYPT_COST", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.max_open_conns", envKey("BOOKSHELF_DATABASE__MAX_OPEN_CONNS"))
	assert.Equal(t, "server.port", envKey("BOOKSHELF_SERVER__PORT"))
}

func TestNewLogger_RespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "book", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}
