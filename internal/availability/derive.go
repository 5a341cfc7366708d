package availability

import (
	"fleet/shared/constant"
	"time"
)

// DeriveStatus returns the vehicle status implied by its reservation set.
// MAINTENANCE is a manual operator override and is never changed here;
// releasing it requires an explicit status update.
func DeriveStatus(current string, hasActiveConfirmed bool) string {
	if current == constant.VehicleStatusMaintenance {
		return current
	}

	if hasActiveConfirmed {
		return constant.VehicleStatusRented
	}

	return constant.VehicleStatusAvailable
}

// Overlaps reports whether two inclusive date intervals intersect.
// Boundary dates count as conflicts, so a reservation ending on a given
// day blocks another one starting that same day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
