package lifecycle

import (
	"fmt"
	"time"

	"nucc.com/svc_lifecycle/pkg/types"
)

// DisabledServiceError reports a start attempt against a service whose start
// type forbids starting.
type DisabledServiceError struct {
	Name string
}

func (e *DisabledServiceError) Error() string {
	return fmt.Sprintf("service %q is disabled and cannot be started", e.Name)
}

// PrivilegeError reports that the caller lacks administrative rights. It is
// raised before any service state is read.
type PrivilegeError struct {
	Op string
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("%s requires administrative privileges", e.Op)
}

// InvalidTimeoutError reports a non-positive timeout, rejected before any
// service state is read.
type InvalidTimeoutError struct {
	Timeout time.Duration
}

func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("timeout must be positive, got %s", e.Timeout)
}

// StuckPendingError reports a pending state that never resolved within the
// wait window.
type StuckPendingError struct {
	Name   string
	Status types.ServiceStatus
}

func (e *StuckPendingError) Error() string {
	return fmt.Sprintf("service %q stuck in %s state", e.Name, e.Status)
}

// StartTimeoutError reports that a start command was issued but Running was
// never observed within the timeout.
type StartTimeoutError struct {
	Name       string
	LastStatus types.ServiceStatus
	Timeout    time.Duration
}

func (e *StartTimeoutError) Error() string {
	return fmt.Sprintf("service %q did not reach running within %s, last status %s", e.Name, e.Timeout, e.LastStatus)
}

// NoProcessIDError reports that escalation was required but no backing
// process could be identified.
type NoProcessIDError struct {
	Name       string
	LastStatus types.ServiceStatus
}

func (e *NoProcessIDError) Error() string {
	return fmt.Sprintf("service %q has no backing process to terminate, last status %s", e.Name, e.LastStatus)
}

// EscalationFailedError reports that the backing process was killed but the
// service never settled into the stopped state.
type EscalationFailedError struct {
	Name       string
	PID        int32
	LastStatus types.ServiceStatus
}

func (e *EscalationFailedError) Error() string {
	return fmt.Sprintf("service %q did not settle after killing pid %d, last status %s", e.Name, e.PID, e.LastStatus)
}

// OperationFailedError wraps an unexpected OS-call failure.
type OperationFailedError struct {
	Op   string
	Name string
	Err  error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}
