package domain

import "time"

// User is a registered streak tracker: the MonkeyType credential linked to a
// Telegram identity plus the reminder schedule.
type User struct {
	Identity         string    `json:"-"`             // Telegram user id
	Credential       string    `json:"ape_key"`       // ApeKey, never logged
	OffsetHours      int       `json:"offset_hours"`  // -11..12
	DisplayName      string    `json:"username"`      // cached at registration
	ChatID           int64     `json:"chat_id"`       //
	RegisteredAt     time.Time `json:"registered_at"` // UTC
	LastReminderDate *Date     `json:"last_reminder"` // UTC, nullable
}

// TargetHour is the UTC hour at which the user's reminder is due.
func (u *User) TargetHour() int {
	return TargetHour(u.OffsetHours)
}

// RemindedOn reports whether a reminder was already sent on day d.
func (u *User) RemindedOn(d Date) bool {
	return u.LastReminderDate != nil && u.LastReminderDate.Equal(d)
}
