package lifecycle

import (
	"context"
	"time"

	"nucc.com/svc_lifecycle/pkg/types"
	"nucc.com/svc_lifecycle/pkg/utils"
)

// WaitOutcome is what a wait observed: the last status seen, the elapsed
// wall-clock seconds, and whether the target was reached. A timeout is not an
// error here; the caller decides whether it is fatal.
type WaitOutcome struct {
	Status         types.ServiceStatus
	ElapsedSeconds float64
	ReachedTarget  bool
}

// WaitPoller blocks until a service reaches a target status or a deadline
// elapses. It is the sole blocking point of every lifecycle operation.
type WaitPoller struct {
	dir      Directory
	interval time.Duration
}

func NewWaitPoller(dir Directory, interval time.Duration) *WaitPoller {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &WaitPoller{dir: dir, interval: interval}
}

// WaitFor polls the directory until the named service reports target, the
// timeout elapses, or ctx is cancelled. The service disappearing mid-wait is
// a terminal failure and returns an error.
func (wp *WaitPoller) WaitFor(ctx context.Context, name string, target types.ServiceStatus, timeout time.Duration) (WaitOutcome, error) {
	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	last := types.StatusUnknown
	ticker := time.NewTicker(wp.interval)
	defer ticker.Stop()

	for {
		desc, err := wp.dir.Resolve(name)
		if err != nil {
			return WaitOutcome{Status: last, ElapsedSeconds: utils.SecondsSince(start)}, err
		}
		last = desc.Status
		if last == target {
			return WaitOutcome{Status: last, ElapsedSeconds: utils.SecondsSince(start), ReachedTarget: true}, nil
		}

		select {
		case <-waitCtx.Done():
			return WaitOutcome{Status: last, ElapsedSeconds: utils.SecondsSince(start)}, nil
		case <-ticker.C:
		}
	}
}
