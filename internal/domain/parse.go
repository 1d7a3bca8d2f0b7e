package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinOffset = -11
	MaxOffset = 12

	// MidnightLabel is the keyboard label for a zero offset.
	MidnightLabel = "0 (Midnight UTC)"
)

var ErrInvalidOffset = errors.New("invalid offset")

// ParseOffset parses an offset keyboard label ("0 (Midnight UTC)", "+3", "-5").
// Bare numbers in range are accepted too, so typed replies work.
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidOffset)
	}
	if s == MidnightLabel {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	if n < MinOffset || n > MaxOffset {
		return 0, fmt.Errorf("%w: %d out of range [%d, %d]", ErrInvalidOffset, n, MinOffset, MaxOffset)
	}
	return n, nil
}

// NormalizeOffset folds any integer offset into [MinOffset, MaxOffset]
// without changing its target hour.
func NormalizeOffset(offset int) int {
	return ((offset-MinOffset)%24+24)%24 + MinOffset
}

// OffsetLabel returns the keyboard label for an offset.
func OffsetLabel(offset int) string {
	if offset == 0 {
		return MidnightLabel
	}
	return fmt.Sprintf("%+d", offset)
}

// OffsetLabels lists the 24 accepted labels in keyboard order:
// 0, +1..+12, -1..-11.
func OffsetLabels() []string {
	labels := make([]string, 0, MaxOffset-MinOffset+1)
	labels = append(labels, OffsetLabel(0))
	for o := 1; o <= MaxOffset; o++ {
		labels = append(labels, OffsetLabel(o))
	}
	for o := -1; o >= MinOffset; o-- {
		labels = append(labels, OffsetLabel(o))
	}
	return labels
}

// FormatHour returns HH:00 for an hour of day.
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}
