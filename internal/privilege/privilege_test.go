package privilege

import (
	"os"
	"testing"
)

func TestRootChecker(t *testing.T) {
	rc := NewRootChecker()

	// The answer depends on who runs the tests; it must agree with the
	// effective uid either way.
	expected := os.Geteuid() == 0
	if got := rc.HasPrivilege(); got != expected {
		t.Errorf("Expected HasPrivilege %t for euid %d, got %t", expected, os.Geteuid(), got)
	}
}

func TestStaticChecker(t *testing.T) {
	if !(&StaticChecker{Privileged: true}).HasPrivilege() {
		t.Error("Expected privileged static checker to report true")
	}
	if (&StaticChecker{}).HasPrivilege() {
		t.Error("Expected default static checker to report false")
	}
}
