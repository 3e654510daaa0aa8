package runtime

import (
	"testing"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParsePS(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		expected []Container
	}{
		{
			name:     "empty",
			out:      "",
			expected: nil,
		},
		{
			name: "two rows",
			out:  "plex\tUp 2 hours\tplexinc/pms-docker\t0123456789abcdef\nplex-db\tExited (0) 3 days ago\tpostgres:16\tfedcba9876543210\n",
			expected: []Container{
				{Name: "plex", Status: "Up 2 hours", Image: "plexinc/pms-docker", ID: "0123456789abcdef"},
				{Name: "plex-db", Status: "Exited (0) 3 days ago", Image: "postgres:16", ID: "fedcba9876543210"},
			},
		},
		{
			name: "short rows skipped",
			out:  "garbage\n\nplex\tUp 1 second\tplex\tabc\n",
			expected: []Container{
				{Name: "plex", Status: "Up 1 second", Image: "plex", ID: "abc"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parsePS(tt.out))
		})
	}
}

func TestContainerSnapshot(t *testing.T) {
	c := Container{ID: "0123456789abcdef", Name: "plex", Image: "plexinc/pms-docker", Status: "Up 5 minutes (healthy)"}
	assert.Equal(t, model.ContainerSnapshot{
		State:      model.StateRunning,
		ID:         "0123456789ab",
		Name:       "plex",
		Image:      "plexinc/pms-docker",
		StatusText: "Up 5 minutes (healthy)",
	}, c.Snapshot())
}

func TestServiceFilter(t *testing.T) {
	assert.Equal(t, "openhomestack.service", ServiceLabel("openhomestack"))
	assert.Equal(t, "openhomestack.service=plex", ServiceFilter("openhomestack", "plex"))
}

func TestNewBackend(t *testing.T) {
	rt, err := New(Options{Backend: "cli", Vendor: "openhomestack"})
	assert.NoError(t, err)
	assert.IsType(t, &CLI{}, rt)

	rt, err = New(Options{Vendor: "openhomestack"})
	assert.NoError(t, err)
	assert.IsType(t, &Docker{}, rt)

	_, err = New(Options{Backend: "podman"})
	assert.Error(t, err)
}
