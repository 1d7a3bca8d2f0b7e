package domain

import "time"

// TargetHour maps an offset to the UTC hour of day (0..23) the reminder fires at.
func TargetHour(offset int) int {
	h := offset % 24
	if h < 0 {
		h += 24
	}
	return h
}

// Due reports whether u should get a reminder at now: the UTC hour matches
// the user's target hour and nothing was sent yet on that UTC day.
func Due(u *User, now time.Time) bool {
	now = now.UTC()
	if now.Hour() != u.TargetHour() {
		return false
	}
	return !u.RemindedOn(DateOf(now))
}
