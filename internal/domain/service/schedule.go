package service

import (
	"time"

	"github.com/evermart/placement_service/internal/domain/entity"
)

// IsCurrentlyActive reports whether a placement should be shown at the
// given moment. It is the authoritative read-time check: no background
// job flips statuses, so the stored status of a scheduled placement may
// lag behind what this function reports once its window has elapsed.
// Window bounds are inclusive on both ends.
func IsCurrentlyActive(p entity.Placement, now time.Time) bool {
	if p.IsDeleted {
		return false
	}

	if p.Status != entity.StatusActive && p.Status != entity.StatusScheduled {
		return false
	}

	if p.IsScheduled && p.StartDate != nil && p.EndDate != nil {
		return !now.Before(*p.StartDate) && !now.After(*p.EndDate)
	}

	return true
}
