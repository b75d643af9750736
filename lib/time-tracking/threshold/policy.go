package ttthresholdhandler

import "time"

const day = 24 * time.Hour

// AgeInDays is floor((now - start) / 24h), negative for a start in the future
func AgeInDays(startTime, now time.Time) int64 {
	diff := now.Sub(startTime)
	days := int64(diff / day)
	if diff < 0 && diff%day != 0 {
		days--
	}
	return days
}

// ShouldAutoApprove decides the initial status of a new request, nil threshold approves everything
func ShouldAutoApprove(threshold *int, startTime, now time.Time) bool {
	if threshold == nil {
		return true
	}
	return AgeInDays(startTime, now) >= int64(*threshold)
}
