package models

import (
	"testing"
	"time"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Urgent", "urgent"},
		{"  produccion  ", "produccion"},
		{"BACKEND", "backend"},
		{"ya-normalizado", "ya-normalizado"},
		{"", ""},
		{"  ", ""},
	}
	for _, test := range tests {
		if got := NormalizeTag(test.input); got != test.expected {
			t.Errorf("NormalizeTag(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestIncidentTagOperations(t *testing.T) {
	incident := &Incident{}

	if !incident.AddTag("urgent") {
		t.Error("Adding a new tag should return true")
	}
	if incident.AddTag("urgent") {
		t.Error("Adding a present tag should return false")
	}
	if len(incident.Tags) != 1 {
		t.Fatalf("Expected 1 tag, got %d", len(incident.Tags))
	}

	if !incident.HasTag("urgent") {
		t.Error("HasTag should find the added tag")
	}
	if incident.HasTag("URGENT") {
		t.Error("HasTag compares exactly as stored")
	}

	if !incident.RemoveTag("urgent") {
		t.Error("Removing a present tag should return true")
	}
	if incident.RemoveTag("urgent") {
		t.Error("Removing an absent tag should return false")
	}
	if len(incident.Tags) != 0 {
		t.Errorf("Expected no tags, got %v", incident.Tags)
	}
}

func TestIncidentDaysOpen(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		expected  int
	}{
		{"just created", now, 0},
		{"under one day", now.Add(-23 * time.Hour), 0},
		{"exactly ten days", now.AddDate(0, 0, -10), 10},
		{"ten and a half days", now.Add(-252 * time.Hour), 10},
	}
	for _, test := range tests {
		incident := &Incident{CreatedAt: test.createdAt}
		if got := incident.DaysOpen(now); got != test.expected {
			t.Errorf("%s: DaysOpen = %d, expected %d", test.name, got, test.expected)
		}
	}
}

func TestValidEnumValues(t *testing.T) {
	if !ValidStatus(StatusOpen) || !ValidStatus(StatusClosed) {
		t.Error("Known statuses should be valid")
	}
	if ValidStatus("pendiente") {
		t.Error("Unknown status should be invalid")
	}

	if !ValidPriority(PriorityCritical) {
		t.Error("Known priority should be valid")
	}
	if ValidPriority("urgente") {
		t.Error("Unknown priority should be invalid")
	}

	if !ValidType(TypeTask) {
		t.Error("Known type should be valid")
	}
	if ValidType("soporte") {
		t.Error("Unknown type should be invalid")
	}
}
