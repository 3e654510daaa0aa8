package runtime

import (
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/model"
)

// Container is one row of a runtime listing.
type Container struct {
	ID     string
	Name   string
	Image  string
	Status string // free text, e.g. "Up 2 hours (healthy)"
}

// Snapshot converts the row into the state the reconciler aggregates.
func (c Container) Snapshot() model.ContainerSnapshot {
	return model.ContainerSnapshot{
		State:      model.StateFromStatusText(c.Status),
		ID:         model.ShortID(c.ID),
		Name:       c.Name,
		Image:      c.Image,
		StatusText: c.Status,
	}
}

// psFormat makes docker ps print one tab-separated row per container.
const psFormat = "{{.Names}}\t{{.Status}}\t{{.Image}}\t{{.ID}}"

// parsePS reads the output of docker ps --format psFormat. Rows with fewer
// than four fields are skipped.
func parsePS(out string) []Container {
	var rows []Container
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 4 {
			continue
		}
		rows = append(rows, Container{
			Name:   parts[0],
			Status: parts[1],
			Image:  parts[2],
			ID:     parts[3],
		})
	}
	return rows
}
