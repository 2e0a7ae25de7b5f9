// Package procs wraps host process lookup and forced termination.
package procs

import (
	"github.com/shirou/gopsutil/v3/process"

	"nucc.com/svc_lifecycle/pkg/utils"
)

// Terminator forcibly kills host processes by pid.
type Terminator struct{}

func NewTerminator() *Terminator {
	return &Terminator{}
}

// Kill terminates the process with the given pid. A process that no longer
// exists counts as already terminated and is not an error.
func (t *Terminator) Kill(pid int32) error {
	exists, err := process.PidExists(pid)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	p, err := process.NewProcess(pid)
	if err != nil {
		// Raced with the process exiting on its own.
		return nil
	}
	return p.Kill()
}

// FindProcessByExactName returns the pid of the process whose executable name
// matches exactly (case-insensitively). No globbing.
func (t *Terminator) FindProcessByExactName(name string) (int32, bool) {
	procs, err := process.Processes()
	if err != nil {
		return 0, false
	}

	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue
		}
		if utils.SameServiceName(pname, name) {
			return p.Pid, true
		}
	}
	return 0, false
}
