package wizard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockDetector implements Detector for testing.
type mockDetector struct {
	binaries map[string]bool
	dirs     map[string]bool
	globs    map[string][]string
}

func (m *mockDetector) LookPath(name string) (string, error) {
	if m.binaries[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &os.PathError{Op: "lookpath", Path: name, Err: os.ErrNotExist}
}

type fakeFileInfo struct {
	name  string
	isDir bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0755 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.isDir }
func (f fakeFileInfo) Sys() interface{}   { return nil }

func (m *mockDetector) Stat(path string) (os.FileInfo, error) {
	if m.dirs[path] {
		return fakeFileInfo{name: path, isDir: true}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockDetector) Glob(pattern string) ([]string, error) {
	return m.globs[pattern], nil
}

func TestDetectComposeCommand(t *testing.T) {
	tests := []struct {
		name     string
		binaries map[string]bool
		docker   bool
		expected []string
	}{
		{"docker plugin", map[string]bool{"docker": true, "docker-compose": true}, true, []string{"docker", "compose"}},
		{"standalone compose", map[string]bool{"docker-compose": true}, false, []string{"docker-compose"}},
		{"nothing installed", map[string]bool{}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Detect(&mockDetector{binaries: tt.binaries}, "")
			assert.Equal(t, tt.docker, result.DockerAvailable)
			assert.Equal(t, tt.expected, result.ComposeCommand)
		})
	}
}

func TestDetectServicesRoot(t *testing.T) {
	d := &mockDetector{
		globs: map[string][]string{
			filepath.Join("../services", "*", "docker-compose.yml"): {
				"../services/plex/docker-compose.yml",
				"../services/dns/docker-compose.yml",
			},
		},
	}
	result := Detect(d, "docker-compose.yml")
	assert.Equal(t, "../services", result.ServicesRoot)
	assert.Equal(t, 2, result.ServiceCount)
}

func TestDetectCustomManifestName(t *testing.T) {
	d := &mockDetector{
		globs: map[string][]string{
			filepath.Join("services", "*", "compose.yaml"): {"services/plex/compose.yaml"},
		},
	}
	assert.Equal(t, "services", Detect(d, "compose.yaml").ServicesRoot)
	assert.Empty(t, Detect(d, "docker-compose.yml").ServicesRoot)
}

func TestDetectDataRoot(t *testing.T) {
	d := &mockDetector{dirs: map[string]bool{"/srv/containers": true}}
	assert.Equal(t, "/srv/containers", Detect(d, "").DataRoot)
}

func TestDetectNothing(t *testing.T) {
	result := Detect(&mockDetector{}, "")
	assert.False(t, result.DockerAvailable)
	assert.Empty(t, result.ComposeCommand)
	assert.Empty(t, result.ServicesRoot)
	assert.Empty(t, result.DataRoot)
}
