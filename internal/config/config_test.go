package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "docker-compose.yml", cfg.ManifestName)
	assert.Equal(t, "openhomestack", cfg.Vendor)
	assert.Equal(t, 120*time.Second, cfg.Timeouts.Lifecycle)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Query)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Logs)
	assert.Equal(t, Owner{UID: 1000, GID: 1000}, cfg.Owner)
	assert.Len(t, cfg.Provision.Layouts["plex"], 5)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "homestack.yml")
	content := `services_root: ` + dir + `
data_root: /srv/data
vendor: acme.
compose_command: ["docker-compose"]
runtime:
  backend: cli
timeouts:
  lifecycle: 5m
owner:
  uid: -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ServicesRoot)
	assert.Equal(t, "/srv/data", cfg.DataRoot)
	assert.Equal(t, "acme", cfg.Vendor)
	assert.Equal(t, []string{"docker-compose"}, cfg.ComposeCommand)
	assert.Equal(t, "cli", cfg.Runtime.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Lifecycle)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Query)
	assert.Equal(t, -1, cfg.Owner.UID)
	assert.Empty(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	RegisterDefaults(viper.GetViper())
	BindEnv(viper.GetViper())

	t.Setenv("HOMESTACK_DATA_ROOT", "/env/data")
	t.Setenv("HOMESTACK_RUNTIME_BACKEND", "cli")
	t.Setenv("HOMESTACK_TIMEOUTS_QUERY", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/data", cfg.DataRoot)
	assert.Equal(t, "cli", cfg.Runtime.Backend)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Query)
	assert.Equal(t, "openhomestack", cfg.Vendor)
	assert.Len(t, cfg.Provision.Layouts, 6)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ServicesRoot = filepath.Join(t.TempDir(), "missing")
	cfg.Runtime.Backend = "podman"
	cfg.Timeouts.Logs = 0

	errs := cfg.Validate()
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
		assert.NotEmpty(t, e.Suggestion)
	}
	assert.True(t, fields["services_root"])
	assert.True(t, fields["runtime.backend"])
	assert.True(t, fields["timeouts.logs"])
	assert.Len(t, errs, 3)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "services"), ExpandPath("~/services"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "relative", ExpandPath("relative"))
}
