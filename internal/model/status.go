package model

import (
	"encoding/json"
	"strings"
)

// ContainerState is the observed state of one container, or the aggregated
// state of a service.
type ContainerState string

const (
	StateRunning    ContainerState = "running"
	StateExited     ContainerState = "exited"
	StatePaused     ContainerState = "paused"
	StateRestarting ContainerState = "restarting"
	StateCreated    ContainerState = "created"
	StateUnknown    ContainerState = "unknown"

	// Service-level only.
	StateNotInstalled ContainerState = "not_installed"
	StateError        ContainerState = "error"
)

// stateMatchers is checked in order; the first substring found wins.
var stateMatchers = []struct {
	substr string
	state  ContainerState
}{
	{"up", StateRunning},
	{"exited", StateExited},
	{"paused", StatePaused},
	{"restarting", StateRestarting},
	{"created", StateCreated},
}

// StateFromStatusText derives a state from a runtime status string such as
// "Up 3 hours" or "Exited (0) 2 days ago".
func StateFromStatusText(status string) ContainerState {
	lower := strings.ToLower(status)
	for _, m := range stateMatchers {
		if strings.Contains(lower, m.substr) {
			return m.state
		}
	}
	return StateUnknown
}

// ContainerSnapshot is one container as observed at query time.
type ContainerSnapshot struct {
	State      ContainerState `json:"state"`
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Image      string         `json:"image"`
	StatusText string         `json:"status_text"`
}

// ShortID truncates a container id to the 12 characters docker displays.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// ServiceStatus aggregates the containers of one service. Build it with
// AggregateStatus or ErrorStatus; State is never set independently of the
// snapshots.
type ServiceStatus struct {
	State      ContainerState
	Containers []ContainerSnapshot
	Error      string
}

// AggregateStatus folds the snapshots of a service into one status.
func AggregateStatus(snapshots []ContainerSnapshot) ServiceStatus {
	switch len(snapshots) {
	case 0:
		return ServiceStatus{State: StateNotInstalled}
	case 1:
		return ServiceStatus{State: snapshots[0].State, Containers: snapshots}
	}
	return ServiceStatus{State: aggregateState(snapshots), Containers: snapshots}
}

// aggregateState: any running wins, then any restarting, then all exited,
// otherwise the first container's state.
func aggregateState(snapshots []ContainerSnapshot) ContainerState {
	allExited := true
	restarting := false
	for _, s := range snapshots {
		switch s.State {
		case StateRunning:
			return StateRunning
		case StateRestarting:
			restarting = true
		}
		if s.State != StateExited {
			allExited = false
		}
	}
	if restarting {
		return StateRestarting
	}
	if allExited {
		return StateExited
	}
	return snapshots[0].State
}

// ErrorStatus reports a status query that could not reach the runtime.
func ErrorStatus(state ContainerState, err error) ServiceStatus {
	return ServiceStatus{State: state, Error: err.Error()}
}

// ContainerCount is the number of containers matched for the service.
func (s ServiceStatus) ContainerCount() int {
	return len(s.Containers)
}

// MarshalJSON renders the three shapes callers expect: a bare state for zero
// containers, the flattened snapshot for one, and a wrapper for several.
func (s ServiceStatus) MarshalJSON() ([]byte, error) {
	if s.Error != "" {
		return json.Marshal(struct {
			State ContainerState `json:"state"`
			Error string         `json:"error"`
		}{s.State, s.Error})
	}
	switch len(s.Containers) {
	case 0:
		return json.Marshal(struct {
			State ContainerState `json:"state"`
		}{s.State})
	case 1:
		return json.Marshal(s.Containers[0])
	}
	return json.Marshal(struct {
		State          ContainerState      `json:"state"`
		Containers     []ContainerSnapshot `json:"containers"`
		ContainerCount int                 `json:"container_count"`
	}{s.State, s.Containers, len(s.Containers)})
}
