package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, 50, cfg.MessagePageSize)
	assert.Equal(t, "127.0.0.1:8787", cfg.CallbackAddr())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NAAFE_API_URL", "https://api.example.com/")
	t.Setenv("STATUS_POLL_INTERVAL", "5s")
	t.Setenv("MESSAGE_PAGE_SIZE", "20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, 20, cfg.MessagePageSize)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"socket scheme", "NAAFE_SOCKET_URL", "http://localhost:3000/ws"},
		{"page size", "MESSAGE_PAGE_SIZE", "0"},
		{"poll interval", "STATUS_POLL_INTERVAL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
