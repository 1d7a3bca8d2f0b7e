package domain

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"text/template"

	"gopkg.in/yaml.v3"
)

// ReminderData is what reminder templates are rendered with.
type ReminderData struct {
	Name   string
	Streak int
	Tests  int // completed tests, 0 when unknown
	WPM    int // rounded average wpm, 0 when unknown
}

// ReminderTemplates holds the parsed daily messages and the milestone suffix.
type ReminderTemplates struct {
	daily      []*template.Template
	milestone  *template.Template
	milestones []int
}

type reminderDoc struct {
	Daily      []string `yaml:"daily"`
	Milestone  string   `yaml:"milestone"`
	Milestones []int    `yaml:"milestones"`
}

// ParseReminderTemplates parses a YAML reminder document.
func ParseReminderTemplates(data []byte) (*ReminderTemplates, error) {
	var doc reminderDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	if len(doc.Daily) == 0 {
		return nil, errors.New("reminders: no daily messages")
	}

	rt := &ReminderTemplates{milestones: doc.Milestones}
	for i, s := range doc.Daily {
		t, err := template.New(fmt.Sprintf("daily%d", i)).Option("missingkey=error").Parse(s)
		if err != nil {
			return nil, fmt.Errorf("reminder %d: %w", i, err)
		}
		rt.daily = append(rt.daily, t)
	}
	if doc.Milestone != "" {
		t, err := template.New("milestone").Parse(doc.Milestone)
		if err != nil {
			return nil, fmt.Errorf("milestone: %w", err)
		}
		rt.milestone = t
	}
	return rt, nil
}

// Len returns the number of daily messages.
func (rt *ReminderTemplates) Len() int { return len(rt.daily) }

// IsMilestone reports whether streak is one of the configured milestones.
func (rt *ReminderTemplates) IsMilestone(streak int) bool {
	return slices.Contains(rt.milestones, streak)
}

// Render renders daily message i (modulo Len) for data, adding the milestone
// line when the streak is a milestone.
func (rt *ReminderTemplates) Render(i int, data ReminderData) (string, error) {
	if i < 0 {
		i = -i
	}
	var buf bytes.Buffer
	if err := rt.daily[i%len(rt.daily)].Execute(&buf, data); err != nil {
		return "", err
	}
	if rt.milestone != nil && rt.IsMilestone(data.Streak) {
		buf.WriteString("\n\n")
		if err := rt.milestone.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
