package directory

import (
	"testing"
	"time"

	"nucc.com/svc_lifecycle/pkg/types"
)

func TestMemoryDirectory_ResolveNotFound(t *testing.T) {
	md := NewMemoryDirectory()

	_, err := md.Resolve("ghost")
	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestMemoryDirectory_ResolveCaseInsensitive(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "Alpha", Status: types.StatusStopped})

	desc, err := md.Resolve("alpha")
	if err != nil {
		t.Fatalf("Expected case-insensitive lookup to succeed: %v", err)
	}
	if desc.Name != "Alpha" {
		t.Errorf("Expected canonical name Alpha, got %s", desc.Name)
	}
}

func TestMemoryDirectory_SnapshotIsolation(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusStopped, Dependencies: []string{"beta"}})

	first, _ := md.Resolve("alpha")
	first.Dependencies[0] = "mutated"

	second, _ := md.Resolve("alpha")
	if second.Dependencies[0] != "beta" {
		t.Error("Descriptor snapshot shares backing storage with the directory")
	}
}

func TestMemoryDirectory_StartTransition(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusStopped, StartLatency: 30 * time.Millisecond})

	if err := md.StartService("alpha"); err != nil {
		t.Fatalf("StartService failed: %v", err)
	}

	desc, _ := md.Resolve("alpha")
	if desc.Status != types.StatusStartPending {
		t.Errorf("Expected start-pending right after the command, got %s", desc.Status)
	}

	time.Sleep(50 * time.Millisecond)
	desc, _ = md.Resolve("alpha")
	if desc.Status != types.StatusRunning {
		t.Errorf("Expected running after latency elapsed, got %s", desc.Status)
	}
	if !desc.HasProcess() {
		t.Error("Expected a backing pid once running")
	}
}

func TestMemoryDirectory_StuckStart(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusStopped, StartLatency: -1})

	if err := md.StartService("alpha"); err != nil {
		t.Fatalf("StartService failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	desc, _ := md.Resolve("alpha")
	if desc.Status != types.StatusStartPending {
		t.Errorf("Expected service to stay start-pending, got %s", desc.Status)
	}
}

func TestMemoryDirectory_StopIgnored(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusRunning, PID: 4321, StopLatency: -1})

	if err := md.StopService("alpha"); err != nil {
		t.Fatalf("StopService failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	desc, _ := md.Resolve("alpha")
	if desc.Status != types.StatusRunning {
		t.Errorf("Expected stop to be ignored, got %s", desc.Status)
	}
}

func TestMemoryDirectory_Kill(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusRunning, PID: 4321, StopLatency: -1})

	if err := md.Kill(4321); err != nil {
		t.Fatalf("Kill failed: %v", err)
	}

	desc, _ := md.Resolve("alpha")
	if desc.Status != types.StatusStopped {
		t.Errorf("Expected stopped after kill, got %s", desc.Status)
	}
	if desc.HasProcess() {
		t.Errorf("Expected pid cleared after kill, got %d", desc.PID)
	}

	// Killing a pid that no longer exists is not an error.
	if err := md.Kill(4321); err != nil {
		t.Errorf("Expected nil for already-gone pid, got %v", err)
	}
}

func TestMemoryDirectory_FindProcessByExactName(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusRunning, PID: 4321})
	md.Add(MemoryService{Name: "beta", Status: types.StatusStopped})

	pid, ok := md.FindProcessByExactName("ALPHA")
	if !ok || pid != 4321 {
		t.Errorf("Expected pid 4321, got %d (found=%t)", pid, ok)
	}

	if _, ok := md.FindProcessByExactName("beta"); ok {
		t.Error("Expected no pid for a stopped service")
	}
}

func TestMemoryDirectory_Remove(t *testing.T) {
	md := NewMemoryDirectory()
	md.Add(MemoryService{Name: "alpha", Status: types.StatusRunning})

	md.Remove("Alpha")

	if _, err := md.Resolve("alpha"); !IsNotFound(err) {
		t.Errorf("Expected NotFoundError after removal, got %v", err)
	}
}
