package assets

import _ "embed"

//go:embed reminders.yaml
var reminders []byte

// Reminders returns the embedded reminder template document.
func Reminders() []byte {
	return reminders
}
