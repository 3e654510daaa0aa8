package wizard

import (
	"os"
	"os/exec"
	"path/filepath"
)

// DetectionResult holds what was auto-detected on the system.
type DetectionResult struct {
	DockerAvailable bool
	ComposeCommand  []string // empty when no compose binary was found
	ServicesRoot    string   // first candidate holding service manifests
	ServiceCount    int
	DataRoot        string // existing data root, empty otherwise
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	Glob(pattern string) ([]string, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error) { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

// servicesCandidates are checked in order for <dir>/*/<manifest>.
var servicesCandidates = []string{
	"services",
	"../services",
	"/opt/homestack/services",
}

var dataRootCandidates = []string{
	"/home/containers",
	"/srv/containers",
}

// Detect scans the environment for the container tooling and a services
// directory. manifestName is the per-service manifest file to look for.
func Detect(d Detector, manifestName string) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}
	if manifestName == "" {
		manifestName = "docker-compose.yml"
	}

	result := DetectionResult{}

	// The compose plugin ships with docker; the standalone binary is the
	// fallback for older installs.
	if _, err := d.LookPath("docker"); err == nil {
		result.DockerAvailable = true
		result.ComposeCommand = []string{"docker", "compose"}
	} else if _, err := d.LookPath("docker-compose"); err == nil {
		result.ComposeCommand = []string{"docker-compose"}
	}

	for _, dir := range servicesCandidates {
		matches, err := d.Glob(filepath.Join(dir, "*", manifestName))
		if err != nil || len(matches) == 0 {
			continue
		}
		result.ServicesRoot = dir
		result.ServiceCount = len(matches)
		break
	}

	for _, dir := range dataRootCandidates {
		if info, err := d.Stat(dir); err == nil && info.IsDir() {
			result.DataRoot = dir
			break
		}
	}

	return result
}
