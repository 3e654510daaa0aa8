package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plexManifest = `services:
  plex:
    image: plexinc/pms-docker
    labels:
      - openhomestack.name=Plex Media Server
      - openhomestack.category=media
      - openhomestack.install.prompt.claim_token=Plex Claim Token
  sidecar:
    image: busybox
    labels:
      - openhomestack.name=Sidecar
`

func writeService(t *testing.T, root, id, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	return path
}

func TestLoadPlex(t *testing.T) {
	path := writeService(t, t.TempDir(), "plex", plexManifest)
	l := &Loader{Vendor: "openhomestack"}

	desc, err := l.Load(context.Background(), "plex", path)
	require.NoError(t, err)

	assert.Equal(t, "plex", desc.ID)
	assert.Equal(t, "Plex Media Server", desc.Name)
	assert.Equal(t, "media", desc.Category)
	assert.Equal(t, model.DefaultIcon, desc.Icon)
	assert.Equal(t, "", desc.Description)
	assert.Nil(t, desc.URL)
	assert.Nil(t, desc.Readme)
	assert.Equal(t, path, desc.ManifestPath)
	assert.Equal(t, filepath.Dir(path), desc.ServiceDir)
	assert.Equal(t, []model.InstallPrompt{
		{Key: "claim_token", Label: "Plex Claim Token", EnvVar: "CLAIM_TOKEN"},
	}, desc.InstallPrompts)
	assert.Empty(t, desc.Layout)
}

func TestLoadIsIdempotent(t *testing.T) {
	path := writeService(t, t.TempDir(), "plex", plexManifest)
	l := &Loader{Vendor: "openhomestack"}

	first, err := l.Load(context.Background(), "plex", path)
	require.NoError(t, err)
	second, err := l.Load(context.Background(), "plex", path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadDefaults(t *testing.T) {
	path := writeService(t, t.TempDir(), "bare", "services:\n  app:\n    image: nginx\n")
	l := &Loader{Vendor: "openhomestack"}

	desc, err := l.Load(context.Background(), "bare", path)
	require.NoError(t, err)
	assert.Equal(t, "", desc.Name)
	assert.Equal(t, "bare", desc.DisplayName())
	assert.Equal(t, model.DefaultCategory, desc.Category)
	assert.Equal(t, model.DefaultIcon, desc.Icon)
	assert.NotNil(t, desc.InstallPrompts)
	assert.Empty(t, desc.InstallPrompts)
}

func TestLoadMappingLabels(t *testing.T) {
	path := writeService(t, t.TempDir(), "ha", `services:
  homeassistant:
    image: ghcr.io/home-assistant/home-assistant
    labels:
      openhomestack.name: Home Assistant
      openhomestack.url: http://localhost:8123
`)
	l := &Loader{Vendor: "openhomestack"}

	desc, err := l.Load(context.Background(), "ha", path)
	require.NoError(t, err)
	assert.Equal(t, "Home Assistant", desc.Name)
	require.NotNil(t, desc.URL)
	assert.Equal(t, "http://localhost:8123", *desc.URL)
}

func TestLoadRepeatedPromptLabel(t *testing.T) {
	path := writeService(t, t.TempDir(), "plex", `services:
  plex:
    image: plexinc/pms-docker
    labels:
      - openhomestack.install.prompt.claim_token=Claim
      - openhomestack.install.prompt.claim_token=Plex Claim Token
`)
	desc, err := (&Loader{Vendor: "openhomestack"}).Load(context.Background(), "plex", path)
	require.NoError(t, err)
	assert.Equal(t, []model.InstallPrompt{
		{Key: "claim_token", Label: "Plex Claim Token", EnvVar: "CLAIM_TOKEN"},
	}, desc.InstallPrompts)
}

func TestLoadReadme(t *testing.T) {
	path := writeService(t, t.TempDir(), "plex", plexManifest)
	readme := "# Plex\n\nStreams media.\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ReadmeName), []byte(readme), 0o644))

	desc, err := (&Loader{Vendor: "openhomestack"}).Load(context.Background(), "plex", path)
	require.NoError(t, err)
	require.NotNil(t, desc.Readme)
	assert.Equal(t, readme, *desc.Readme)
}

func TestLoadLayoutExtension(t *testing.T) {
	path := writeService(t, t.TempDir(), "dns", `services:
  coredns:
    image: coredns/coredns
    labels:
      - openhomestack.name=CoreDNS
x-openhomestack:
  directories:
    - path: config/Corefile
      template: config/Corefile
    - path: zones
`)
	desc, err := (&Loader{Vendor: "openhomestack"}).Load(context.Background(), "dns", path)
	require.NoError(t, err)
	assert.Equal(t, []model.LayoutEntry{
		{Path: "config/Corefile", Template: "config/Corefile"},
		{Path: "zones"},
	}, desc.Layout)
}

func TestLoadLayoutRejectsEscape(t *testing.T) {
	path := writeService(t, t.TempDir(), "bad", `services:
  app:
    image: nginx
x-openhomestack:
  directories:
    - path: ../../etc
`)
	_, err := (&Loader{Vendor: "openhomestack"}).Load(context.Background(), "bad", path)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	l := &Loader{Vendor: "openhomestack"}

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load(context.Background(), "none", filepath.Join(root, "none", "docker-compose.yml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeService(t, root, "broken", "services: [unclosed")
		_, err := l.Load(context.Background(), "broken", path)
		assert.Error(t, err)
	})

	t.Run("no services", func(t *testing.T) {
		path := writeService(t, root, "empty", "volumes:\n  data: {}\n")
		_, err := l.Load(context.Background(), "empty", path)
		assert.ErrorIs(t, err, ErrNoWorkloads)
	})
}

func TestExtensionFromNode(t *testing.T) {
	root, err := util.ParseDocument([]byte(`
x-acme:
  directories:
    - path: data
`))
	require.NoError(t, err)

	raw, err := (&Loader{Vendor: "acme"}).extensionFromNode(root)
	require.NoError(t, err)
	assert.NotNil(t, raw)

	raw, err = (&Loader{Vendor: "other"}).extensionFromNode(root)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestValidateLayoutPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"config", false},
		{"media/movies", false},
		{"a/../b", false},
		{"", true},
		{"/etc", true},
		{"..", true},
		{"../x", true},
		{"a/../../x", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateLayoutPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	good := writeService(t, root, "good", plexManifest)
	assert.NoError(t, Validate(context.Background(), good))

	bad := writeService(t, root, "bad", "services: [unclosed")
	assert.Error(t, Validate(context.Background(), bad))
}
