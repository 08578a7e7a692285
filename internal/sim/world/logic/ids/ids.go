package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// VehiclePrefix starts every generated vehicle id.
const VehiclePrefix = "V"

func MaxU64(a, b uint64) uint64 {
	if a >= b {
		return a
	}
	return b
}

func ParseUintAfterPrefix(prefix, id string) (uint64, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(id[len(prefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func VehicleID(n uint64) string {
	return fmt.Sprintf("%s%06d", VehiclePrefix, n)
}

// NextVehicleNum returns the counter value that keeps generated ids clear of
// every id in existing.
func NextVehicleNum(existing []string) uint64 {
	var max uint64
	for _, id := range existing {
		if n, ok := ParseUintAfterPrefix(VehiclePrefix, id); ok {
			max = MaxU64(max, n)
		}
	}
	return max
}
