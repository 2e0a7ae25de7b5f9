package lifecycle

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"nucc.com/svc_lifecycle/internal/directory"
	"nucc.com/svc_lifecycle/internal/privilege"
	"nucc.com/svc_lifecycle/internal/procs"
	"nucc.com/svc_lifecycle/pkg/types"
)

// Compile-time wiring checks for the production implementations.
var (
	_ Directory        = (*directory.SystemdDirectory)(nil)
	_ Commander        = (*directory.SystemdDirectory)(nil)
	_ Directory        = (*directory.MemoryDirectory)(nil)
	_ Commander        = (*directory.MemoryDirectory)(nil)
	_ Terminator       = (*directory.MemoryDirectory)(nil)
	_ Terminator       = (*procs.Terminator)(nil)
	_ PrivilegeChecker = (*privilege.RootChecker)(nil)
	_ PrivilegeChecker = (*privilege.StaticChecker)(nil)
)

// testPolicy keeps every wait short enough for sub-second tests.
func testPolicy() Policy {
	return Policy{
		MinTimeout:              10 * time.Millisecond,
		MaxTimeout:              5 * time.Second,
		PollInterval:            5 * time.Millisecond,
		EscalationSettleTimeout: 300 * time.Millisecond,
		RestartSettleDelay:      10 * time.Millisecond,
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// countingHost wraps the in-memory host and counts the calls the controllers
// make, so tests can assert that invalid input causes no side effects.
type countingHost struct {
	*directory.MemoryDirectory
	resolves int
	starts   int
	stops    int
}

func newCountingHost() *countingHost {
	return &countingHost{MemoryDirectory: directory.NewMemoryDirectory()}
}

func (h *countingHost) Resolve(name string) (types.ServiceDescriptor, error) {
	h.resolves++
	return h.MemoryDirectory.Resolve(name)
}

func (h *countingHost) StartService(name string) error {
	h.starts++
	return h.MemoryDirectory.StartService(name)
}

func (h *countingHost) StopService(name string) error {
	h.stops++
	return h.MemoryDirectory.StopService(name)
}
