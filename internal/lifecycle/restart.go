package lifecycle

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"nucc.com/svc_lifecycle/pkg/types"
	"nucc.com/svc_lifecycle/pkg/utils"
)

// ForceRestartController restarts a service, escalating to forced process
// termination when the graceful stop does not complete within the stop
// timeout. Steps run strictly stop, escalate, settle, start; there is no
// speculative starting before the stop is confirmed.
type ForceRestartController struct {
	dir    Directory
	cmd    Commander
	term   Terminator
	priv   PrivilegeChecker
	poller *WaitPoller
	start  *StartController
	policy Policy
	logger *logrus.Logger
}

func NewForceRestartController(dir Directory, cmd Commander, term Terminator, priv PrivilegeChecker, policy Policy, logger *logrus.Logger) *ForceRestartController {
	return &ForceRestartController{
		dir:    dir,
		cmd:    cmd,
		term:   term,
		priv:   priv,
		poller: NewWaitPoller(dir, policy.PollInterval),
		start:  NewStartController(dir, cmd, priv, policy, logger),
		policy: policy,
		logger: logger,
	}
}

// ForceRestart stops the named service (killing its backing process if the
// graceful stop times out), then starts it again under startTimeout. The
// killDependents flag is advisory only: dependents are logged, never killed —
// the single named service's backing process is the entire allowed blast
// radius.
func (fc *ForceRestartController) ForceRestart(ctx context.Context, name string, stopTimeout, startTimeout time.Duration, killDependents bool) types.OperationResult {
	began := time.Now()
	res := types.OperationResult{
		PreviousStatus: types.StatusUnknown,
		FinalStatus:    types.StatusUnknown,
	}

	if !fc.priv.HasPrivilege() {
		return failed(res, began, &PrivilegeError{Op: "force-restart"})
	}

	boundedStop, ok := fc.policy.clamp(stopTimeout)
	if !ok {
		return failed(res, began, &InvalidTimeoutError{Timeout: stopTimeout})
	}
	if _, ok := fc.policy.clamp(startTimeout); !ok {
		return failed(res, began, &InvalidTimeoutError{Timeout: startTimeout})
	}
	stopTimeout = boundedStop

	desc, err := fc.dir.Resolve(name)
	if err != nil {
		return failed(res, began, err)
	}
	res.PreviousStatus = desc.Status
	res.FinalStatus = desc.Status

	if desc.StartType == types.StartDisabled {
		return failed(res, began, &DisabledServiceError{Name: desc.Name})
	}

	if killDependents && len(desc.Dependents) > 0 {
		fc.logger.WithFields(logrus.Fields{
			"service":    desc.Name,
			"dependents": desc.Dependents,
		}).Warn("Dependent force-kill requested but not supported; dependents are left untouched")
	}

	// Already stopped at entry: skip the whole stop phase, stop duration
	// stays 0 and the restart is not forced.
	if desc.Status != types.StatusStopped {
		res, err = fc.stopPhase(ctx, res, desc, stopTimeout)
		if err != nil {
			return failed(res, began, err)
		}
	}

	// Give the service manager room to finish its own cleanup before the
	// restart.
	select {
	case <-time.After(fc.policy.RestartSettleDelay):
	case <-ctx.Done():
		return failed(res, began, &OperationFailedError{Op: "force-restart", Name: desc.Name, Err: ctx.Err()})
	}

	startRes := fc.start.Start(ctx, desc.Name, startTimeout, false)
	res.Succeeded = startRes.Succeeded
	res.ErrorMessage = startRes.ErrorMessage
	res.FinalStatus = startRes.FinalStatus
	res.StartDurationSeconds = startRes.StartDurationSeconds
	res.TotalDurationSeconds = utils.SecondsSince(began)
	return res
}

// stopPhase drives the service to Stopped, escalating on timeout. It returns
// the updated result and a terminal error when the phase fails.
func (fc *ForceRestartController) stopPhase(ctx context.Context, res types.OperationResult, desc types.ServiceDescriptor, stopTimeout time.Duration) (types.OperationResult, error) {
	phaseStart := time.Now()

	if err := fc.cmd.StopService(desc.Name); err != nil {
		return res, &OperationFailedError{Op: "stop", Name: desc.Name, Err: err}
	}

	outcome, err := fc.poller.WaitFor(ctx, desc.Name, types.StatusStopped, stopTimeout)
	res.FinalStatus = outcome.Status
	if err != nil {
		return res, &OperationFailedError{Op: "wait for", Name: desc.Name, Err: err}
	}
	if outcome.ReachedTarget {
		res.StopDurationSeconds = outcome.ElapsedSeconds
		return res, nil
	}

	// Graceful stop timed out: escalate to the backing process.
	pid := desc.PID
	if current, err := fc.dir.Resolve(desc.Name); err == nil && current.HasProcess() {
		pid = current.PID
	}
	if pid == 0 {
		if found, ok := fc.term.FindProcessByExactName(desc.Name); ok {
			pid = found
		}
	}
	if pid == 0 {
		return res, &NoProcessIDError{Name: desc.Name, LastStatus: outcome.Status}
	}

	fc.logger.WithFields(logrus.Fields{
		"service": desc.Name,
		"pid":     pid,
	}).Warn("Graceful stop timed out, killing backing process")

	if err := fc.term.Kill(pid); err != nil {
		return res, &OperationFailedError{Op: "kill process for", Name: desc.Name, Err: err}
	}
	res.WasForced = true
	res.KilledProcessCount++

	settle, err := fc.poller.WaitFor(ctx, desc.Name, types.StatusStopped, fc.policy.EscalationSettleTimeout)
	res.FinalStatus = settle.Status
	if err != nil {
		return res, &OperationFailedError{Op: "wait for", Name: desc.Name, Err: err}
	}
	if !settle.ReachedTarget {
		return res, &EscalationFailedError{Name: desc.Name, PID: pid, LastStatus: settle.Status}
	}

	res.StopDurationSeconds = utils.SecondsSince(phaseStart)
	return res, nil
}
