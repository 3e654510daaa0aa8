package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/charmbracelet/huh"
)

// Run executes the interactive init wizard and returns the user's answers.
func Run(detection DetectionResult) (*WizardAnswers, error) {
	answers := &WizardAnswers{
		ServicesRoot:   detection.ServicesRoot,
		DataRoot:       detection.DataRoot,
		ComposeCommand: detection.ComposeCommand,
		Backend:        "docker",
		OwnerUID:       1000,
		OwnerGID:       1000,
		LogLevel:       "info",
	}
	if answers.ServicesRoot == "" {
		answers.ServicesRoot = "services"
	}
	if answers.DataRoot == "" {
		answers.DataRoot = "/home/containers"
	}

	// Build detection summary
	var hints []string
	if detection.DockerAvailable {
		hints = append(hints, "docker detected")
	}
	if len(detection.ComposeCommand) > 0 {
		hints = append(hints, "compose command: "+strings.Join(detection.ComposeCommand, " "))
	}
	if detection.ServicesRoot != "" {
		hints = append(hints, fmt.Sprintf("%d services found in %s", detection.ServiceCount, detection.ServicesRoot))
	}

	desc := "Directory holding one folder per service, each with its compose manifest."
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	composeCmd := strings.Join(answers.ComposeCommand, " ")
	if composeCmd == "" {
		composeCmd = "docker compose"
	}
	uid := strconv.Itoa(answers.OwnerUID)
	gid := strconv.Itoa(answers.OwnerGID)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Services directory").
				Description(desc).
				Value(&answers.ServicesRoot),
			huh.NewInput().
				Title("Data directory").
				Description("Persistent data lives in <data directory>/<service id>").
				Value(&answers.DataRoot),
			huh.NewInput().
				Title("Compose command").
				Placeholder("docker compose").
				Value(&composeCmd),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Container runtime access").
				Options(
					huh.NewOption("Docker Engine API", "docker"),
					huh.NewOption("docker command line", "cli"),
				).
				Value(&answers.Backend),
			huh.NewInput().
				Title("Data owner uid").
				Description("-1 leaves ownership unchanged").
				Value(&uid).
				Validate(validateInt),
			huh.NewInput().
				Title("Data owner gid").
				Value(&gid).
				Validate(validateInt),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&answers.LogLevel),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	answers.ComposeCommand = strings.Fields(composeCmd)
	answers.OwnerUID, _ = strconv.Atoi(uid)
	answers.OwnerGID, _ = strconv.Atoi(gid)

	return answers, nil
}

// ConfirmOverwrite asks whether an existing file at path may be replaced.
func ConfirmOverwrite(path string) (bool, error) {
	overwrite := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
		Affirmative("Overwrite").
		Negative("Keep").
		Value(&overwrite).
		Run()
	return overwrite, err
}

// PromptInstall asks for every install prompt of desc and returns the
// answers keyed by prompt key. Values already present in preset are used
// as defaults.
func PromptInstall(desc *model.ServiceDescriptor, preset map[string]string) (map[string]string, error) {
	if len(desc.InstallPrompts) == 0 {
		return preset, nil
	}

	values := make([]string, len(desc.InstallPrompts))
	fields := make([]huh.Field, 0, len(desc.InstallPrompts))
	for i, p := range desc.InstallPrompts {
		values[i] = preset[p.Key]
		fields = append(fields, huh.NewInput().
			Title(p.Label).
			Description(p.EnvVar).
			Value(&values[i]))
	}

	form := huh.NewForm(huh.NewGroup(fields...).
		Title(fmt.Sprintf("Install %s", desc.DisplayName())))
	if err := form.Run(); err != nil {
		return nil, err
	}

	return CollectAnswers(desc.InstallPrompts, values, preset), nil
}

// CollectAnswers merges prompt answers over preset.
func CollectAnswers(prompts []model.InstallPrompt, values []string, preset map[string]string) map[string]string {
	out := make(map[string]string, len(preset)+len(prompts))
	for k, v := range preset {
		out[k] = v
	}
	for i, p := range prompts {
		if i < len(values) {
			out[p.Key] = values[i]
		}
	}
	return out
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}
