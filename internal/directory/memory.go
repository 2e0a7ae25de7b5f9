package directory

import (
	"sync"
	"time"

	"nucc.com/svc_lifecycle/pkg/types"
	"nucc.com/svc_lifecycle/pkg/utils"
)

// MemoryService seeds one service into a MemoryDirectory. The latencies
// script how the service reacts to commands: StartLatency is the time from a
// start command until Running, StopLatency from a stop command until Stopped.
// A negative latency means the command is accepted but the transition never
// completes (a stuck pending state, or a service that ignores graceful stop).
type MemoryService struct {
	Name         string
	DisplayName  string
	Status       types.ServiceStatus
	StartType    types.StartType
	Dependencies []string
	Dependents   []string
	PID          int32
	StartLatency time.Duration
	StopLatency  time.Duration
}

type memoryEntry struct {
	svc           MemoryService
	pendingTarget types.ServiceStatus
	pendingAt     time.Time
	stuck         bool
}

// MemoryDirectory is an in-memory service host. It backs the demo server mode
// and the lifecycle tests, playing scripted transitions against wall-clock
// time.
type MemoryDirectory struct {
	mu       sync.Mutex
	services map[string]*memoryEntry
	nextPID  int32
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		services: make(map[string]*memoryEntry),
		nextPID:  40000,
	}
}

func (md *MemoryDirectory) Add(svc MemoryService) {
	md.mu.Lock()
	defer md.mu.Unlock()
	if svc.Status == "" {
		svc.Status = types.StatusStopped
	}
	if svc.StartType == "" {
		svc.StartType = types.StartManual
	}
	md.services[svc.Name] = &memoryEntry{svc: svc}
}

// Remove drops a service, as if it were deregistered from the host while
// operations are in flight.
func (md *MemoryDirectory) Remove(name string) {
	md.mu.Lock()
	defer md.mu.Unlock()
	if entry, key := md.lookup(name); entry != nil {
		delete(md.services, key)
	}
}

// Resolve returns a fresh snapshot, applying any scripted transition whose
// time has come.
func (md *MemoryDirectory) Resolve(name string) (types.ServiceDescriptor, error) {
	md.mu.Lock()
	defer md.mu.Unlock()

	entry, _ := md.lookup(name)
	if entry == nil {
		return types.ServiceDescriptor{}, &NotFoundError{Name: name}
	}
	md.apply(entry)

	return types.ServiceDescriptor{
		Name:         entry.svc.Name,
		DisplayName:  entry.svc.DisplayName,
		Status:       entry.svc.Status,
		StartType:    entry.svc.StartType,
		Dependencies: append([]string(nil), entry.svc.Dependencies...),
		Dependents:   append([]string(nil), entry.svc.Dependents...),
		PID:          entry.svc.PID,
	}, nil
}

func (md *MemoryDirectory) StartService(name string) error {
	md.mu.Lock()
	defer md.mu.Unlock()

	entry, _ := md.lookup(name)
	if entry == nil {
		return &NotFoundError{Name: name}
	}
	md.apply(entry)
	if entry.svc.Status == types.StatusRunning {
		return nil
	}

	entry.svc.Status = types.StatusStartPending
	if entry.svc.StartLatency < 0 {
		entry.stuck = true
		return nil
	}
	entry.stuck = false
	entry.pendingTarget = types.StatusRunning
	entry.pendingAt = time.Now().Add(entry.svc.StartLatency)
	return nil
}

func (md *MemoryDirectory) StopService(name string) error {
	md.mu.Lock()
	defer md.mu.Unlock()

	entry, _ := md.lookup(name)
	if entry == nil {
		return &NotFoundError{Name: name}
	}
	md.apply(entry)
	if entry.svc.Status == types.StatusStopped {
		return nil
	}

	// A negative stop latency models a service that accepts the stop
	// command but never leaves its current state.
	if entry.svc.StopLatency < 0 {
		return nil
	}

	entry.svc.Status = types.StatusStopPending
	entry.stuck = false
	entry.pendingTarget = types.StatusStopped
	entry.pendingAt = time.Now().Add(entry.svc.StopLatency)
	return nil
}

// Kill terminates the backing process with the given pid. A pid no longer
// associated with any service is treated as already gone.
func (md *MemoryDirectory) Kill(pid int32) error {
	md.mu.Lock()
	defer md.mu.Unlock()

	for _, entry := range md.services {
		if entry.svc.PID == pid {
			entry.svc.Status = types.StatusStopped
			entry.svc.PID = 0
			entry.stuck = false
			entry.pendingTarget = ""
			break
		}
	}
	return nil
}

// FindProcessByExactName returns the pid backing the named service, matching
// the exact-name lookup contract of the process collaborator.
func (md *MemoryDirectory) FindProcessByExactName(name string) (int32, bool) {
	md.mu.Lock()
	defer md.mu.Unlock()

	entry, _ := md.lookup(name)
	if entry == nil || entry.svc.PID == 0 {
		return 0, false
	}
	return entry.svc.PID, true
}

// lookup must be called with the mutex held.
func (md *MemoryDirectory) lookup(name string) (*memoryEntry, string) {
	for key, entry := range md.services {
		if utils.SameServiceName(key, name) {
			return entry, key
		}
	}
	return nil, ""
}

// apply plays any due scripted transition. Must be called with the mutex
// held.
func (md *MemoryDirectory) apply(entry *memoryEntry) {
	if entry.stuck || entry.pendingTarget == "" || time.Now().Before(entry.pendingAt) {
		return
	}

	entry.svc.Status = entry.pendingTarget
	entry.pendingTarget = ""
	switch entry.svc.Status {
	case types.StatusRunning:
		if entry.svc.PID == 0 {
			md.nextPID++
			entry.svc.PID = md.nextPID
		}
	case types.StatusStopped:
		entry.svc.PID = 0
	}
}
