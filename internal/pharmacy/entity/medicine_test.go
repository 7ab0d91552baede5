package entity

import "testing"

// TestValidMovementTypes tests the movement type enumeration and which
// types are allowed to mutate the counters
func TestValidMovementTypes(t *testing.T) {
	tests := []struct {
		movementType string
		valid        bool
		mutates      bool
	}{
		{MovementTypeApprove, true, true},
		{MovementTypeReturn, true, true},
		{MovementTypePending, true, false},
		{MovementTypeReject, true, false},
		{"dispose", false, false},
		{"APPROVE", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		mutates, ok := ValidMovementTypes[tt.movementType]
		if ok != tt.valid {
			t.Errorf("type %q: expected valid=%v, got %v", tt.movementType, tt.valid, ok)
		}
		if ok && mutates != tt.mutates {
			t.Errorf("type %q: expected mutates=%v, got %v", tt.movementType, tt.mutates, mutates)
		}
	}
}
