package ids

import "testing"

func TestVehicleIDs(t *testing.T) {
	if got := VehicleID(7); got != "V000007" {
		t.Fatalf("VehicleID(7)=%q", got)
	}
	if got := NextVehicleNum([]string{"V000003", "LAYER_EAST", "V000011", "Vx"}); got != 11 {
		t.Fatalf("NextVehicleNum=%d, want 11", got)
	}
	if _, ok := ParseUintAfterPrefix("V", "W12"); ok {
		t.Fatalf("prefix mismatch accepted")
	}
}
