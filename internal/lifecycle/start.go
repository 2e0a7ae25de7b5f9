package lifecycle

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"nucc.com/svc_lifecycle/pkg/types"
	"nucc.com/svc_lifecycle/pkg/utils"
)

// StartController drives a service to the running state within a bounded
// wait. The start command is issued at most once per invocation.
type StartController struct {
	dir    Directory
	cmd    Commander
	priv   PrivilegeChecker
	poller *WaitPoller
	policy Policy
	logger *logrus.Logger
}

func NewStartController(dir Directory, cmd Commander, priv PrivilegeChecker, policy Policy, logger *logrus.Logger) *StartController {
	return &StartController{
		dir:    dir,
		cmd:    cmd,
		priv:   priv,
		poller: NewWaitPoller(dir, policy.PollInterval),
		policy: policy,
		logger: logger,
	}
}

// Start brings the named service to Running, waiting up to timeout for the
// transition. Already-running services succeed immediately with a zero start
// duration. When passthrough is set, the final descriptor snapshot is
// attached to the result.
func (sc *StartController) Start(ctx context.Context, name string, timeout time.Duration, passthrough bool) types.OperationResult {
	began := time.Now()
	res := types.OperationResult{
		PreviousStatus: types.StatusUnknown,
		FinalStatus:    types.StatusUnknown,
	}

	if !sc.priv.HasPrivilege() {
		return failed(res, began, &PrivilegeError{Op: "start"})
	}

	bounded, ok := sc.policy.clamp(timeout)
	if !ok {
		return failed(res, began, &InvalidTimeoutError{Timeout: timeout})
	}
	timeout = bounded

	desc, err := sc.dir.Resolve(name)
	if err != nil {
		return failed(res, began, err)
	}
	res.PreviousStatus = desc.Status
	res.FinalStatus = desc.Status

	if desc.StartType == types.StartDisabled {
		return failed(res, began, &DisabledServiceError{Name: desc.Name})
	}

	switch {
	case desc.Status == types.StatusRunning:
		// Idempotent no-op, no wait performed.
		return sc.finish(res, began, desc.Name, passthrough)

	case desc.Status.IsPending():
		outcome, err := sc.poller.WaitFor(ctx, desc.Name, types.StatusRunning, timeout)
		res.FinalStatus = outcome.Status
		if err != nil {
			return failed(res, began, &OperationFailedError{Op: "wait for", Name: desc.Name, Err: err})
		}
		if !outcome.ReachedTarget {
			return failed(res, began, &StuckPendingError{Name: desc.Name, Status: outcome.Status})
		}
		res.StartDurationSeconds = outcome.ElapsedSeconds
		return sc.finish(res, began, desc.Name, passthrough)

	default:
		sc.warnStoppedDependencies(desc)

		if err := sc.cmd.StartService(desc.Name); err != nil {
			return failed(res, began, &OperationFailedError{Op: "start", Name: desc.Name, Err: err})
		}

		outcome, err := sc.poller.WaitFor(ctx, desc.Name, types.StatusRunning, timeout)
		res.FinalStatus = outcome.Status
		if err != nil {
			return failed(res, began, &OperationFailedError{Op: "wait for", Name: desc.Name, Err: err})
		}
		if !outcome.ReachedTarget {
			return failed(res, began, &StartTimeoutError{Name: desc.Name, LastStatus: outcome.Status, Timeout: timeout})
		}
		res.StartDurationSeconds = outcome.ElapsedSeconds
		return sc.finish(res, began, desc.Name, passthrough)
	}
}

// warnStoppedDependencies logs dependencies that are not running. The OS
// service manager enforces hard ordering itself; this is advisory only and
// never blocks the start attempt.
func (sc *StartController) warnStoppedDependencies(desc types.ServiceDescriptor) {
	for _, dep := range desc.Dependencies {
		depDesc, err := sc.dir.Resolve(dep)
		if err != nil || depDesc.Status == types.StatusRunning {
			continue
		}
		sc.logger.WithFields(logrus.Fields{
			"service":    desc.Name,
			"dependency": dep,
			"status":     depDesc.Status,
		}).Warn("Dependency is not running")
	}
}

func (sc *StartController) finish(res types.OperationResult, began time.Time, name string, passthrough bool) types.OperationResult {
	res.Succeeded = true
	res.FinalStatus = types.StatusRunning
	res.TotalDurationSeconds = utils.SecondsSince(began)
	if passthrough {
		if desc, err := sc.dir.Resolve(name); err == nil {
			res.Descriptor = &desc
		}
	}
	return res
}

// failed closes out a result with the producing error. The last known status
// stays on the result so operators can decide on manual intervention.
func failed(res types.OperationResult, began time.Time, err error) types.OperationResult {
	res.Succeeded = false
	res.ErrorMessage = err.Error()
	res.TotalDurationSeconds = utils.SecondsSince(began)
	return res
}
