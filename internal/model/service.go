package model

const (
	DefaultIcon     = "box"
	DefaultCategory = "other"
)

// ServiceDescriptor is the metadata of one installable service, parsed from
// the labels of its manifest's primary workload.
type ServiceDescriptor struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Icon           string          `json:"icon"`
	Category       string          `json:"category"`
	URL            *string         `json:"url"`
	InstallPrompts []InstallPrompt `json:"install_prompts"`
	ManifestPath   string          `json:"compose_file"`
	ServiceDir     string          `json:"service_dir"`
	Readme         *string         `json:"readme,omitempty"`
	Layout         []LayoutEntry   `json:"layout,omitempty"`
}

// InstallPrompt is a value the user is asked for before install. The answer
// ends up in the service's env file under EnvVar.
type InstallPrompt struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	EnvVar string `json:"env_var"`
}

// LayoutEntry describes one path under a service's data directory. Without
// a template it is a directory; with one it is a file seeded from the
// template (relative to the service dir) when it does not exist yet.
type LayoutEntry struct {
	Path     string `json:"path" mapstructure:"path"`
	Template string `json:"template,omitempty" mapstructure:"template"`
}

// NewServiceDescriptor returns a descriptor with every field at its default.
func NewServiceDescriptor(id string) *ServiceDescriptor {
	return &ServiceDescriptor{
		ID:             id,
		Icon:           DefaultIcon,
		Category:       DefaultCategory,
		InstallPrompts: []InstallPrompt{},
	}
}

// DisplayName falls back to the id when the manifest has no name label.
func (d *ServiceDescriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
