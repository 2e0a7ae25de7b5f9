package types

import (
	"encoding/json"
	"testing"
)

func TestServiceStatus_IsPending(t *testing.T) {
	tests := []struct {
		status  ServiceStatus
		pending bool
	}{
		{StatusStopped, false},
		{StatusRunning, false},
		{StatusPaused, false},
		{StatusUnknown, false},
		{StatusStartPending, true},
		{StatusStopPending, true},
		{StatusPausePending, true},
		{StatusContinuePending, true},
	}

	for _, test := range tests {
		if got := test.status.IsPending(); got != test.pending {
			t.Errorf("IsPending(%s): expected %t, got %t", test.status, test.pending, got)
		}
	}
}

func TestServiceDescriptor_HasProcess(t *testing.T) {
	desc := ServiceDescriptor{Name: "nginx", Status: StatusRunning, PID: 1234}
	if !desc.HasProcess() {
		t.Error("Expected HasProcess true for pid 1234")
	}

	desc.PID = 0
	if desc.HasProcess() {
		t.Error("Expected HasProcess false for pid 0")
	}
}

func TestOperationResult_JSON(t *testing.T) {
	result := OperationResult{
		Succeeded:            true,
		PreviousStatus:       StatusStopped,
		FinalStatus:          StatusRunning,
		WasForced:            true,
		KilledProcessCount:   1,
		StopDurationSeconds:  10.52,
		StartDurationSeconds: 3.07,
		TotalDurationSeconds: 14.1,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Failed to marshal OperationResult: %v", err)
	}

	var decoded OperationResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal OperationResult: %v", err)
	}

	if decoded.FinalStatus != StatusRunning {
		t.Errorf("FinalStatus mismatch: expected %s, got %s", StatusRunning, decoded.FinalStatus)
	}
	if decoded.KilledProcessCount != 1 {
		t.Errorf("KilledProcessCount mismatch: expected 1, got %d", decoded.KilledProcessCount)
	}
	if decoded.StopDurationSeconds != 10.52 {
		t.Errorf("StopDurationSeconds mismatch: expected 10.52, got %v", decoded.StopDurationSeconds)
	}
	if decoded.Descriptor != nil {
		t.Error("Expected nil descriptor when passthrough was not requested")
	}
}
