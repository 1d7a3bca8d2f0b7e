package domain

import (
	"testing"
	"time"
)

func TestTargetHour(t *testing.T) {
	cases := []struct {
		offset int
		want   int
	}{
		{-5, 19},
		{12, 12},
		{0, 0},
		{-11, 13},
		{-1, 23},
		{3, 3},
	}
	for _, c := range cases {
		if got := TargetHour(c.offset); got != c.want {
			t.Errorf("TargetHour(%d): want %d, got %d", c.offset, c.want, got)
		}
	}
}

func TestTargetHour_AllOffsetsInRange(t *testing.T) {
	seen := map[int]bool{}
	for o := MinOffset; o <= MaxOffset; o++ {
		h := TargetHour(o)
		if h < 0 || h > 23 {
			t.Fatalf("offset %d: hour %d out of range", o, h)
		}
		if seen[h] {
			t.Fatalf("offset %d: hour %d already taken", o, h)
		}
		seen[h] = true
	}
	if len(seen) != 24 {
		t.Fatalf("want 24 distinct hours, got %d", len(seen))
	}
}

func TestDue(t *testing.T) {
	now := time.Date(2025, time.May, 5, 19, 10, 0, 0, time.UTC)
	today := DateOf(now)
	yesterday := today.AddDays(-1)

	u := &User{OffsetHours: -5}
	if !Due(u, now) {
		t.Fatal("never reminded user at target hour should be due")
	}

	u.LastReminderDate = &yesterday
	if !Due(u, now) {
		t.Fatal("user reminded yesterday should be due")
	}

	u.LastReminderDate = &today
	if Due(u, now) {
		t.Fatal("user reminded today must not be due")
	}

	other := &User{OffsetHours: 3}
	if Due(other, now) {
		t.Fatal("user with another target hour must not be due")
	}
}

func TestDue_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 22:30 at UTC+3 is 19:30 UTC.
	now := time.Date(2025, time.May, 5, 22, 30, 0, 0, loc)
	if !Due(&User{OffsetHours: -5}, now) {
		t.Fatal("want due at 19 UTC")
	}
}
