package domain

import (
	"strings"
	"testing"

	"github.com/notAbhay321/monkeytype-streak-notifier/assets"
)

func TestParseReminderTemplates_Embedded(t *testing.T) {
	rt, err := ParseReminderTemplates(assets.Reminders())
	if err != nil {
		t.Fatalf("parse embedded reminders: %v", err)
	}
	if rt.Len() != 5 {
		t.Fatalf("want 5 daily messages, got %d", rt.Len())
	}
	for i := 0; i < rt.Len(); i++ {
		msg, err := rt.Render(i, ReminderData{Name: "alice", Streak: 7})
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if msg == "" || strings.Contains(msg, "{{") {
			t.Fatalf("render %d: bad output %q", i, msg)
		}
	}
}

func TestReminderTemplates_Render(t *testing.T) {
	doc := []byte(`
daily:
  - "keep that {{.Streak}}-day streak, {{.Name}}"
milestone: "milestone {{.Streak}}"
milestones: [10, 25]
`)
	rt, err := ParseReminderTemplates(doc)
	if err != nil {
		t.Fatal(err)
	}

	got, err := rt.Render(3, ReminderData{Name: "bob", Streak: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got != "keep that 4-day streak, bob" {
		t.Fatalf("unexpected %q", got)
	}

	got, _ = rt.Render(0, ReminderData{Name: "bob", Streak: 25})
	if got != "keep that 25-day streak, bob\n\nmilestone 25" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParseReminderTemplates_Errors(t *testing.T) {
	if _, err := ParseReminderTemplates([]byte("daily: []")); err == nil {
		t.Fatal("want error for empty daily list")
	}
	if _, err := ParseReminderTemplates([]byte(`daily: ["{{.Streak"]`)); err == nil {
		t.Fatal("want error for broken template")
	}
	if _, err := ParseReminderTemplates([]byte("daily: [")); err == nil {
		t.Fatal("want error for broken yaml")
	}
}

func TestReminderTemplates_MilestoneStats(t *testing.T) {
	rt, err := ParseReminderTemplates(assets.Reminders())
	if err != nil {
		t.Fatal(err)
	}
	got, err := rt.Render(0, ReminderData{Name: "alice", Streak: 50, Tests: 812, WPM: 97})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "50 DAYS STREAK") || !strings.Contains(got, "812 tests completed at 97 wpm") {
		t.Fatalf("milestone without stats: %q", got)
	}

	got, _ = rt.Render(0, ReminderData{Name: "alice", Streak: 50})
	if strings.Contains(got, "tests completed") {
		t.Fatalf("stats line must be omitted when unknown: %q", got)
	}
}
