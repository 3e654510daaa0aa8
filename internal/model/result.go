package model

// LifecycleResult is the outcome of every lifecycle operation and of every
// external command run. Exactly one of the success or failure field sets is
// meaningful, selected by Success.
type LifecycleResult struct {
	Success bool `json:"success"`

	// Success
	Message        string `json:"message,omitempty"`
	ServiceID      string `json:"service_id,omitempty"`
	Output         string `json:"output,omitempty"`
	VolumesRemoved *bool  `json:"volumes_removed,omitempty"`

	// Failure
	Error    string `json:"error,omitempty"`
	ExitCode *int   `json:"returncode,omitempty"`
}

// Succeeded builds a success result carrying command output.
func Succeeded(output string) LifecycleResult {
	return LifecycleResult{Success: true, Output: output}
}

// Failed builds a failure result without an exit code.
func Failed(msg string) LifecycleResult {
	return LifecycleResult{Error: msg}
}

// FailedWithCode builds a failure result for a command that exited nonzero.
func FailedWithCode(msg string, code int) LifecycleResult {
	return LifecycleResult{Error: msg, ExitCode: &code}
}

// Err converts a failed result into an error, nil on success.
func (r LifecycleResult) Err() error {
	if r.Success {
		return nil
	}
	if r.ExitCode != nil {
		return &CommandError{ExitCode: *r.ExitCode, Output: r.Error}
	}
	return &CommandError{ExitCode: -1, Output: r.Error}
}
