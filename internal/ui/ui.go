package ui

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// FormatError returns a styled multi-line error message.
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// State renders a service or container state in a color matching its health.
func State(state model.ContainerState) string {
	switch state {
	case model.StateRunning:
		return successStyle.Render(string(state))
	case model.StateRestarting, model.StatePaused, model.StateCreated:
		return warnStyle.Render(string(state))
	case model.StateError:
		return errorStyle.Render(string(state))
	default:
		return dimStyle.Render(string(state))
	}
}

// Result prints the outcome of a lifecycle operation. Command output is
// shown dimmed under a success message when verbose is set.
func Result(res model.LifecycleResult, verbose bool) {
	if !res.Success {
		detail := ""
		if res.ExitCode != nil {
			detail = fmt.Sprintf("exit status %d", *res.ExitCode)
		}
		title := strings.TrimSpace(res.Error)
		if title == "" {
			title = "operation failed"
		}
		fmt.Print(FormatError(title, detail, ""))
		return
	}
	Success(res.Message)
	if verbose && strings.TrimSpace(res.Output) != "" {
		fmt.Println(dimStyle.Render(strings.TrimRight(res.Output, "\n")))
	}
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// Warn prints a yellow warning message.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("Warning: " + msg))
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Dim renders secondary text.
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// ValidationOK prints a green check for a valid field.
func ValidationOK(field, detail string) {
	fmt.Printf("  %s %s: %s\n", successStyle.Render("OK "), field, detail)
}

// ValidationErr prints a red error for an invalid field.
func ValidationErr(field, message, suggestion string) {
	fmt.Printf("  %s %s: %s\n", errorStyle.Render("ERR"), field, message)
	if suggestion != "" {
		fmt.Printf("      %s\n", hintStyle.Render("Hint: "+suggestion))
	}
}
