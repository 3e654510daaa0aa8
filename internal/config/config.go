package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/spf13/viper"
)

type Config struct {
	ServicesRoot   string          `mapstructure:"services_root"`
	DataRoot       string          `mapstructure:"data_root"`
	ManifestName   string          `mapstructure:"manifest_name"`
	Vendor         string          `mapstructure:"vendor"`
	ComposeCommand []string        `mapstructure:"compose_command"`
	Runtime        RuntimeConfig   `mapstructure:"runtime"`
	Timeouts       Timeouts        `mapstructure:"timeouts"`
	Owner          Owner           `mapstructure:"owner"`
	Provision      ProvisionConfig `mapstructure:"provision"`
	Log            LogConfig       `mapstructure:"log"`
}

type RuntimeConfig struct {
	Backend    string `mapstructure:"backend"` // docker, cli
	DockerHost string `mapstructure:"docker_host"`
}

type Timeouts struct {
	Lifecycle time.Duration `mapstructure:"lifecycle"`
	Query     time.Duration `mapstructure:"query"`
	Logs      time.Duration `mapstructure:"logs"`
}

// Owner is applied recursively to each service's data directory. A negative
// UID disables the chown step.
type Owner struct {
	UID int `mapstructure:"uid"`
	GID int `mapstructure:"gid"`
}

type ProvisionConfig struct {
	// Layouts are used for services whose manifest declares no layout.
	Layouts map[string][]model.LayoutEntry `mapstructure:"layouts"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DefaultLayouts reproduces the data layouts the bundled services expect.
func DefaultLayouts() map[string][]model.LayoutEntry {
	return map[string][]model.LayoutEntry{
		"plex": {
			{Path: "media/movies"},
			{Path: "media/tv"},
			{Path: "media/music"},
			{Path: "config"},
			{Path: "transcode"},
		},
		"dns": {
			{Path: "config"},
			{Path: "config/Corefile", Template: "config/Corefile"},
		},
		"monitoring": {
			{Path: "prometheus"},
			{Path: "prometheus-config"},
			{Path: "grafana"},
			{Path: "prometheus-config/prometheus.yml", Template: "config/prometheus.yml"},
		},
		"pihole": {
			{Path: "etc-pihole"},
			{Path: "etc-dnsmasq.d"},
		},
		"homeassistant": {
			{Path: "config"},
		},
		"gaming-vpn": {
			{Path: "config"},
		},
	}
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	cfg := &Config{
		ServicesRoot:   "services",
		DataRoot:       "/home/containers",
		ManifestName:   "docker-compose.yml",
		Vendor:         "openhomestack",
		ComposeCommand: []string{"docker", "compose"},
	}
	cfg.Runtime.Backend = "docker"
	cfg.Timeouts.Lifecycle = 120 * time.Second
	cfg.Timeouts.Query = 10 * time.Second
	cfg.Timeouts.Logs = 30 * time.Second
	cfg.Owner = Owner{UID: 1000, GID: 1000}
	cfg.Provision.Layouts = DefaultLayouts()
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Output = "stderr"
	return cfg
}

// EnvPrefix namespaces environment overrides, e.g. HOMESTACK_DATA_ROOT.
const EnvPrefix = "HOMESTACK"

// BindEnv maps nested keys to upper-case, underscore-joined variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// RegisterDefaults makes every scalar key known to viper, so environment
// variables override keys the config file does not mention.
func RegisterDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("services_root", d.ServicesRoot)
	v.SetDefault("data_root", d.DataRoot)
	v.SetDefault("manifest_name", d.ManifestName)
	v.SetDefault("vendor", d.Vendor)
	v.SetDefault("compose_command", d.ComposeCommand)
	v.SetDefault("runtime.backend", d.Runtime.Backend)
	v.SetDefault("runtime.docker_host", d.Runtime.DockerHost)
	v.SetDefault("timeouts.lifecycle", d.Timeouts.Lifecycle)
	v.SetDefault("timeouts.query", d.Timeouts.Query)
	v.SetDefault("timeouts.logs", d.Timeouts.Logs)
	v.SetDefault("owner.uid", d.Owner.UID)
	v.SetDefault("owner.gid", d.Owner.GID)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
}

// Load decodes the global viper state over Default.
func Load() (*Config, error) {
	cfg := Default()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.ServicesRoot = ExpandPath(cfg.ServicesRoot)
	cfg.DataRoot = ExpandPath(cfg.DataRoot)
	cfg.Vendor = strings.TrimSuffix(cfg.Vendor, ".")

	return cfg, nil
}

// ValidationError reports a config problem with a suggested fix.
type ValidationError struct {
	Field      string // dotted path, e.g. "services_root"
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Validate checks the values that would make every operation fail.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	if info, err := os.Stat(c.ServicesRoot); err != nil || !info.IsDir() {
		errs = append(errs, ValidationError{
			Field:      "services_root",
			Message:    fmt.Sprintf("directory not found: %s", c.ServicesRoot),
			Suggestion: "point services_root at the directory holding one folder per service",
		})
	}
	if c.Vendor == "" {
		errs = append(errs, ValidationError{
			Field:      "vendor",
			Message:    "vendor label namespace is empty",
			Suggestion: "set vendor, e.g. openhomestack",
		})
	}
	if len(c.ComposeCommand) == 0 {
		errs = append(errs, ValidationError{
			Field:      "compose_command",
			Message:    "compose command is empty",
			Suggestion: `use ["docker", "compose"] or ["docker-compose"]`,
		})
	}
	switch c.Runtime.Backend {
	case "docker", "cli":
	default:
		errs = append(errs, ValidationError{
			Field:      "runtime.backend",
			Message:    fmt.Sprintf("unknown backend %q", c.Runtime.Backend),
			Suggestion: "use docker or cli",
		})
	}
	for name, d := range map[string]time.Duration{
		"timeouts.lifecycle": c.Timeouts.Lifecycle,
		"timeouts.query":     c.Timeouts.Query,
		"timeouts.logs":      c.Timeouts.Logs,
	} {
		if d <= 0 {
			errs = append(errs, ValidationError{
				Field:      name,
				Message:    "timeout must be positive",
				Suggestion: "use a duration such as 30s or 2m",
			})
		}
	}
	return errs
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
