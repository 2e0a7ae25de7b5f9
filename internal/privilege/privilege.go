// Package privilege supplies the administrative-rights precondition check
// lifecycle controllers run before touching any service state.
package privilege

import "golang.org/x/sys/unix"

// RootChecker requires an effective uid of 0, the privilege level service
// control on the host demands.
type RootChecker struct{}

func NewRootChecker() *RootChecker {
	return &RootChecker{}
}

func (rc *RootChecker) HasPrivilege() bool {
	return unix.Geteuid() == 0
}

// StaticChecker reports a fixed answer; used where privilege is established
// out of band and in tests.
type StaticChecker struct {
	Privileged bool
}

func (sc *StaticChecker) HasPrivilege() bool {
	return sc.Privileged
}
