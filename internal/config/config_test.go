package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG", "SERVER_ADDRESS", "GRPC_ADDRESS", "BASE_URL", "FILE_STORAGE_PATH",
	"DATABASE_DSN", "REDIS_ADDRESS", "SESSION_SECRET", "RECENT_LIMIT", "LOG_LEVEL",
	"CREATE_RPS", "CREATE_BURST",
}

// clearEnv empties every variable the loader reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("cmd", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.FileStoragePath)
	assert.Equal(t, 10, cfg.RecentLimit)
}

func TestLoadWithArgs(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("cmd", []string{
		"-a", "localhost:8888",
		"-b", "http://localhost:8000",
		"-f", "/tmp/urls.jsonl",
		"-r", "localhost:6379",
		"-n", "25",
		"-l", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8888", cfg.ServerAddress)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "/tmp/urls.jsonl", cfg.FileStoragePath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 25, cfg.RecentLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadWithJSON(t *testing.T) {
	clearEnv(t)

	path := writeJSON(t, `{
		"server_address": "json:8080",
		"base_url": "http://json",
		"database_dsn": "postgres://json",
		"create_rps": 0.5
	}`)

	cfg, err := Load("cmd", []string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "json:8080", cfg.ServerAddress)
	assert.Equal(t, "http://json", cfg.BaseURL)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, 0.5, cfg.CreateRPS)
	assert.Equal(t, ":3200", cfg.GRPCAddress)
}

func TestLoadPriority(t *testing.T) {
	tests := []struct {
		name string
		args func(path string) []string
		env  map[string]string
		want string
	}{
		{
			name: "JSON over default",
			args: func(path string) []string { return []string{"-c", path} },
			want: "json:8080",
		},
		{
			name: "Flag over JSON",
			args: func(path string) []string { return []string{"-c", path, "-a", "flag:8080"} },
			want: "flag:8080",
		},
		{
			name: "Flag before -c still wins over JSON",
			args: func(path string) []string { return []string{"-a", "flag:8080", "-c", path} },
			want: "flag:8080",
		},
		{
			name: "Env over flag",
			args: func(path string) []string { return []string{"-c", path, "-a", "flag:8080"} },
			env:  map[string]string{"SERVER_ADDRESS": "env:8080"},
			want: "env:8080",
		},
		{
			name: "CONFIG env names the file",
			args: func(string) []string { return nil },
			env:  map[string]string{"CONFIG": "<path>"},
			want: "json:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeJSON(t, `{"server_address": "json:8080"}`)

			for key, value := range tt.env {
				if value == "<path>" {
					value = path
				}
				t.Setenv(key, value)
			}

			cfg, err := Load("cmd", tt.args(path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ServerAddress)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "Missing config file", args: []string{"-c", "/does/not/exist.json"}},
		{name: "Unknown flag", args: []string{"-z"}},
		{name: "Bad RECENT_LIMIT", env: map[string]string{"RECENT_LIMIT": "ten"}},
		{name: "Bad CREATE_RPS", env: map[string]string{"CREATE_RPS": "fast"}},
		{name: "Non-positive limit", args: []string{"-n", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load("cmd", tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadBadJSON(t *testing.T) {
	clearEnv(t)
	path := writeJSON(t, `{"server_address": `)

	_, err := Load("cmd", []string{"-c", path})
	assert.ErrorContains(t, err, "failed to parse config file")
}
