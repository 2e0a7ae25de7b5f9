package types

type ServiceStatus string

const (
	StatusStopped         ServiceStatus = "stopped"
	StatusStartPending    ServiceStatus = "start-pending"
	StatusStopPending     ServiceStatus = "stop-pending"
	StatusRunning         ServiceStatus = "running"
	StatusPausePending    ServiceStatus = "pause-pending"
	StatusContinuePending ServiceStatus = "continue-pending"
	StatusPaused          ServiceStatus = "paused"
	StatusUnknown         ServiceStatus = "unknown"
)

// IsPending reports whether the status is one of the transitional states the
// OS service manager moves through between stable states.
func (s ServiceStatus) IsPending() bool {
	switch s {
	case StatusStartPending, StatusStopPending, StatusPausePending, StatusContinuePending:
		return true
	}
	return false
}

type StartType string

const (
	StartAutomatic StartType = "automatic"
	StartManual    StartType = "manual"
	StartDisabled  StartType = "disabled"
)

// ServiceDescriptor is a point-in-time snapshot of a named service. Every
// directory query builds a fresh one; a descriptor is never mutated after
// construction.
type ServiceDescriptor struct {
	Name         string        `json:"name"`
	DisplayName  string        `json:"display_name,omitempty"`
	Status       ServiceStatus `json:"status"`
	StartType    StartType     `json:"start_type"`
	Dependencies []string      `json:"dependencies,omitempty"`
	Dependents   []string      `json:"dependents,omitempty"`
	// PID is the backing process id, 0 while no host process is associated.
	PID int32 `json:"pid,omitempty"`
}

// HasProcess reports whether a backing process is currently associated.
func (d ServiceDescriptor) HasProcess() bool {
	return d.PID > 0
}

// OperationResult is the uniform outcome of a lifecycle operation. Controllers
// return it by value and never let an error escape the component boundary.
type OperationResult struct {
	Succeeded          bool          `json:"succeeded"`
	ErrorMessage       string        `json:"error_message,omitempty"`
	PreviousStatus     ServiceStatus `json:"previous_status"`
	FinalStatus        ServiceStatus `json:"final_status"`
	WasForced          bool          `json:"was_forced"`
	KilledProcessCount int           `json:"killed_process_count"`

	StopDurationSeconds  float64 `json:"stop_duration_seconds"`
	StartDurationSeconds float64 `json:"start_duration_seconds"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`

	// Descriptor carries the final snapshot when the caller asked for
	// passthrough, nil otherwise.
	Descriptor *ServiceDescriptor `json:"descriptor,omitempty"`
}
