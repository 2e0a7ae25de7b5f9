// Package lifecycle drives named OS services through start, graceful stop,
// forced termination, and restart transitions, reporting each operation as a
// structured result.
package lifecycle

import (
	"time"

	"nucc.com/svc_lifecycle/internal/config"
	"nucc.com/svc_lifecycle/pkg/types"
)

// Directory resolves a service name to a fresh descriptor snapshot.
type Directory interface {
	Resolve(name string) (types.ServiceDescriptor, error)
}

// Commander issues start/stop commands to the OS service manager. Commands
// return once accepted; observing the transition is the caller's job.
type Commander interface {
	StartService(name string) error
	StopService(name string) error
}

// Terminator forcibly kills backing processes and looks them up by exact
// name.
type Terminator interface {
	Kill(pid int32) error
	FindProcessByExactName(name string) (int32, bool)
}

// PrivilegeChecker answers whether the caller holds the administrative
// rights service control requires.
type PrivilegeChecker interface {
	HasPrivilege() bool
}

// Policy bounds the timing of lifecycle operations. Caller-supplied timeouts
// are clamped to [MinTimeout, MaxTimeout]; non-positive timeouts are rejected
// outright before any service state is read.
type Policy struct {
	MinTimeout              time.Duration
	MaxTimeout              time.Duration
	PollInterval            time.Duration
	EscalationSettleTimeout time.Duration
	RestartSettleDelay      time.Duration
}

// PolicyFromConfig maps the configuration section onto a Policy, filling
// zero values with the defaults.
func PolicyFromConfig(lc config.LifecycleConfig) Policy {
	p := Policy{
		MinTimeout:              lc.MinTimeout(),
		MaxTimeout:              lc.MaxTimeout(),
		PollInterval:            lc.PollInterval(),
		EscalationSettleTimeout: lc.EscalationSettleTimeout(),
		RestartSettleDelay:      lc.RestartSettleDelay(),
	}
	if p.MinTimeout <= 0 {
		p.MinTimeout = time.Second
	}
	if p.MaxTimeout <= 0 {
		p.MaxTimeout = 300 * time.Second
	}
	if p.PollInterval <= 0 {
		p.PollInterval = 100 * time.Millisecond
	}
	if p.EscalationSettleTimeout <= 0 {
		p.EscalationSettleTimeout = 5 * time.Second
	}
	if p.RestartSettleDelay <= 0 {
		p.RestartSettleDelay = 500 * time.Millisecond
	}
	return p
}

// clamp returns the timeout bounded by policy, or false for non-positive
// input.
func (p Policy) clamp(timeout time.Duration) (time.Duration, bool) {
	if timeout <= 0 {
		return 0, false
	}
	if timeout < p.MinTimeout {
		timeout = p.MinTimeout
	}
	if timeout > p.MaxTimeout {
		timeout = p.MaxTimeout
	}
	return timeout, true
}
