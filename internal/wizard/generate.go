package wizard

import (
	"bytes"
	"text/template"
)

// WizardAnswers holds all user responses from the wizard.
type WizardAnswers struct {
	ServicesRoot   string
	DataRoot       string
	ComposeCommand []string
	Backend        string // docker, cli

	// Ownership of data directories
	OwnerUID int
	OwnerGID int

	LogLevel string
}

const configTemplate = `# homestack configuration
# Documentation: https://github.com/ThomasCrouzet/homestack

services_root: {{ .ServicesRoot }}
data_root: {{ .DataRoot }}
compose_command:
{{- range .ComposeCommand }}
  - {{ . }}
{{- end }}

runtime:
  backend: {{ .Backend }}

owner:
  uid: {{ .OwnerUID }}
  gid: {{ .OwnerGID }}

timeouts:
  lifecycle: 2m
  query: 10s
  logs: 30s

log:
  level: {{ .LogLevel }}
  format: text
`

// GenerateConfig renders the YAML config from wizard answers.
func GenerateConfig(answers WizardAnswers) (string, error) {
	// Set defaults
	if answers.ServicesRoot == "" {
		answers.ServicesRoot = "services"
	}
	if answers.DataRoot == "" {
		answers.DataRoot = "/home/containers"
	}
	if len(answers.ComposeCommand) == 0 {
		answers.ComposeCommand = []string{"docker", "compose"}
	}
	if answers.Backend == "" {
		answers.Backend = "docker"
	}
	if answers.LogLevel == "" {
		answers.LogLevel = "info"
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}

	return buf.String(), nil
}
