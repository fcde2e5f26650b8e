package automation

import (
	"testing"
	"time"

	"github.com/incidentalert/backend/internal/models"
)

func fixedEngine(now time.Time) *Engine {
	return NewEngineAt(func() time.Time { return now })
}

func baseIncident() models.Incident {
	return models.Incident{
		ID:        "inc-1",
		Name:      "INC-0001",
		Status:    models.StatusOpen,
		Priority:  models.PriorityMedium,
		Type:      models.TypeCorrective,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestApplyNoMatchingTriggerIsNoOp(t *testing.T) {
	engine := NewEngine()
	incident := baseIncident()

	rules := []models.AutomationRule{
		{
			Name:    "escalate on status change",
			Enabled: true,
			Trigger: models.TriggerOnStatusChange,
			Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityHigh)}},
		},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, rules)

	if result.Priority != incident.Priority {
		t.Errorf("Expected priority %s, got %s", incident.Priority, result.Priority)
	}
	if result.Status != incident.Status {
		t.Errorf("Expected status %s, got %s", incident.Status, result.Status)
	}
}

func TestApplyDisabledRuleNeverFires(t *testing.T) {
	engine := NewEngine()
	incident := baseIncident()

	rules := []models.AutomationRule{
		{
			Name:    "disabled escalation",
			Enabled: false,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityCritical)}},
		},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, rules)

	if result.Priority != models.PriorityMedium {
		t.Errorf("Disabled rule fired: priority became %s", result.Priority)
	}
}

func TestApplyConditionsAreANDed(t *testing.T) {
	engine := NewEngine()

	rule := models.AutomationRule{
		Name:    "escalate corrective high",
		Enabled: true,
		Trigger: models.TriggerOnCreate,
		Conditions: models.ConditionList{
			{Field: models.FieldType, Operator: models.OperatorEquals, Value: "correctivo"},
			{Field: models.FieldPriority, Operator: models.OperatorEquals, Value: "media"},
		},
		Actions: models.ActionList{{Type: models.ActionSetStatus, Value: string(models.StatusInProgress)}},
	}

	// Both conditions hold.
	incident := baseIncident()
	result := engine.Apply(incident, models.TriggerOnCreate, []models.AutomationRule{rule})
	if result.Status != models.StatusInProgress {
		t.Errorf("Expected rule to fire with all conditions true, status is %s", result.Status)
	}

	// Flipping either condition to false prevents firing.
	incident = baseIncident()
	incident.Type = models.TypeEvolutive
	result = engine.Apply(incident, models.TriggerOnCreate, []models.AutomationRule{rule})
	if result.Status != models.StatusOpen {
		t.Errorf("Rule fired with type condition false, status is %s", result.Status)
	}

	incident = baseIncident()
	incident.Priority = models.PriorityHigh
	result = engine.Apply(incident, models.TriggerOnCreate, []models.AutomationRule{rule})
	if result.Status != models.StatusOpen {
		t.Errorf("Rule fired with priority condition false, status is %s", result.Status)
	}
}

func TestApplyDaysOpenComparisons(t *testing.T) {
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	engine := fixedEngine(now)

	incident := baseIncident()
	incident.CreatedAt = now.AddDate(0, 0, -10)

	tests := []struct {
		name      string
		condition models.Condition
		fires     bool
	}{
		{
			name:      "greater-than below days open",
			condition: models.Condition{Field: models.FieldDaysOpen, Operator: models.OperatorGreaterThan, Value: float64(7)},
			fires:     true,
		},
		{
			name:      "greater-than above days open",
			condition: models.Condition{Field: models.FieldDaysOpen, Operator: models.OperatorGreaterThan, Value: float64(14)},
			fires:     false,
		},
		{
			name:      "less-than above days open",
			condition: models.Condition{Field: models.FieldDaysOpen, Operator: models.OperatorLessThan, Value: float64(14)},
			fires:     true,
		},
		{
			name:      "less-than below days open",
			condition: models.Condition{Field: models.FieldDaysOpen, Operator: models.OperatorLessThan, Value: float64(7)},
			fires:     false,
		},
		{
			name:      "numeric string value",
			condition: models.Condition{Field: models.FieldDaysOpen, Operator: models.OperatorGreaterThan, Value: "7"},
			fires:     true,
		},
	}

	for _, test := range tests {
		rule := models.AutomationRule{
			Name:       test.name,
			Enabled:    true,
			Trigger:    models.TriggerOnTimeThreshold,
			Conditions: models.ConditionList{test.condition},
			Actions:    models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityCritical)}},
		}

		result := engine.Apply(incident, models.TriggerOnTimeThreshold, []models.AutomationRule{rule})
		fired := result.Priority == models.PriorityCritical
		if fired != test.fires {
			t.Errorf("%s: fired=%v, expected %v", test.name, fired, test.fires)
		}
	}
}

func TestApplyLaterRuleWins(t *testing.T) {
	engine := NewEngine()
	incident := baseIncident()

	rules := []models.AutomationRule{
		{
			Name:    "rule A",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityHigh)}},
		},
		{
			Name:    "rule B",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityLow)}},
		},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, rules)

	if result.Priority != models.PriorityLow {
		t.Errorf("Expected last rule to win with priority %s, got %s", models.PriorityLow, result.Priority)
	}
}

func TestApplyEarlierMutationsVisibleToLaterConditions(t *testing.T) {
	engine := NewEngine()
	incident := baseIncident()

	// Rule A raises priority; rule B only fires on the raised priority.
	rules := []models.AutomationRule{
		{
			Name:    "raise priority",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityHigh)}},
		},
		{
			Name:    "escalate high",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Conditions: models.ConditionList{
				{Field: models.FieldPriority, Operator: models.OperatorEquals, Value: "alta"},
			},
			Actions: models.ActionList{{Type: models.ActionAssignTo, Value: "equipo-urgente"}},
		},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, rules)

	if result.AssignedTo != "equipo-urgente" {
		t.Errorf("Later rule did not see earlier rule's mutation, assignedTo=%q", result.AssignedTo)
	}
}

func TestApplyCreateTriggerScenario(t *testing.T) {
	engine := NewEngine()

	incident := baseIncident()
	incident.Type = models.TypeCorrective
	incident.Priority = models.PriorityMedium

	rule := models.AutomationRule{
		Name:    "corrective incidents are urgent",
		Enabled: true,
		Trigger: models.TriggerOnCreate,
		Conditions: models.ConditionList{
			{Field: models.FieldType, Operator: models.OperatorEquals, Value: "correctivo"},
		},
		Actions: models.ActionList{{Type: models.ActionSetPriority, Value: "alta"}},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, []models.AutomationRule{rule})

	if result.Priority != "alta" {
		t.Errorf("Expected priority alta, got %s", result.Priority)
	}
}

func TestApplyHasTagContainsCondition(t *testing.T) {
	engine := NewEngine()

	rule := models.AutomationRule{
		Name:    "urgent tag escalation",
		Enabled: true,
		Trigger: models.TriggerOnTagAdded,
		Conditions: models.ConditionList{
			{Field: models.FieldHasTag, Operator: models.OperatorContains, Value: "urgent"},
		},
		Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityCritical)}},
	}

	incident := baseIncident()
	incident.Tags = []string{"urgent"}
	result := engine.Apply(incident, models.TriggerOnTagAdded, []models.AutomationRule{rule})
	if result.Priority != models.PriorityCritical {
		t.Errorf("Expected rule to fire for tagged incident, priority is %s", result.Priority)
	}

	incident = baseIncident()
	incident.Tags = nil
	result = engine.Apply(incident, models.TriggerOnTagAdded, []models.AutomationRule{rule})
	if result.Priority != models.PriorityMedium {
		t.Errorf("Rule fired for untagged incident, priority is %s", result.Priority)
	}
}

func TestApplyAddTagActionDoesNotDuplicate(t *testing.T) {
	engine := NewEngine()

	incident := baseIncident()
	incident.Tags = []string{"produccion"}

	rules := []models.AutomationRule{
		{
			Name:    "tag production",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{
				{Type: models.ActionAddTag, Value: "produccion"},
				{Type: models.ActionAddTag, Value: "revisado"},
			},
		},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, rules)

	if len(result.Tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d: %v", len(result.Tags), result.Tags)
	}
	if result.Tags[0] != "produccion" || result.Tags[1] != "revisado" {
		t.Errorf("Unexpected tags: %v", result.Tags)
	}
}

func TestApplyDoesNotMutateCallerTags(t *testing.T) {
	engine := NewEngine()

	incident := baseIncident()
	incident.Tags = []string{"uno"}

	rules := []models.AutomationRule{
		{
			Name:    "tagger",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{{Type: models.ActionAddTag, Value: "dos"}},
		},
	}

	engine.Apply(incident, models.TriggerOnCreate, rules)

	if len(incident.Tags) != 1 {
		t.Errorf("Caller's tag slice was mutated: %v", incident.Tags)
	}
}

func TestApplySilentFalseFallthroughs(t *testing.T) {
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	engine := fixedEngine(now)

	incident := baseIncident()
	incident.CreatedAt = now.AddDate(0, 0, -10)
	incident.Tags = []string{"correctivo"}

	tests := []struct {
		name      string
		condition models.Condition
	}{
		{
			name:      "greater-than on non-days-open field",
			condition: models.Condition{Field: models.FieldPriority, Operator: models.OperatorGreaterThan, Value: float64(1)},
		},
		{
			name:      "less-than on non-days-open field",
			condition: models.Condition{Field: models.FieldStatus, Operator: models.OperatorLessThan, Value: float64(1)},
		},
		{
			name:      "contains on non-tag field",
			condition: models.Condition{Field: models.FieldType, Operator: models.OperatorContains, Value: "correctivo"},
		},
		{
			name:      "unknown operator",
			condition: models.Condition{Field: models.FieldType, Operator: "matches", Value: "correctivo"},
		},
		{
			name:      "equals with non-string value",
			condition: models.Condition{Field: models.FieldType, Operator: models.OperatorEquals, Value: float64(3)},
		},
		{
			name:      "days-open with non-numeric value",
			condition: models.Condition{Field: models.FieldDaysOpen, Operator: models.OperatorGreaterThan, Value: "muchos"},
		},
	}

	for _, test := range tests {
		rule := models.AutomationRule{
			Name:       test.name,
			Enabled:    true,
			Trigger:    models.TriggerOnCreate,
			Conditions: models.ConditionList{test.condition},
			Actions:    models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityCritical)}},
		}

		result := engine.Apply(incident, models.TriggerOnCreate, []models.AutomationRule{rule})
		if result.Priority != models.PriorityMedium {
			t.Errorf("%s: condition evaluated true, expected silent false", test.name)
		}
	}
}

func TestApplyNotEqualsOnUnsupportedFieldMatches(t *testing.T) {
	// Historical behavior: not-equals against a field the engine cannot
	// read compares against nothing and therefore holds.
	engine := NewEngine()
	incident := baseIncident()

	rule := models.AutomationRule{
		Name:    "not-equals fallthrough",
		Enabled: true,
		Trigger: models.TriggerOnCreate,
		Conditions: models.ConditionList{
			{Field: models.FieldDaysOpen, Operator: models.OperatorNotEquals, Value: "5"},
		},
		Actions: models.ActionList{{Type: models.ActionSetPriority, Value: string(models.PriorityHigh)}},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, []models.AutomationRule{rule})
	if result.Priority != models.PriorityHigh {
		t.Errorf("Expected not-equals on unsupported field to hold, priority is %s", result.Priority)
	}
}

func TestApplyAssignToAction(t *testing.T) {
	engine := NewEngine()
	incident := baseIncident()

	rules := []models.AutomationRule{
		{
			Name:    "auto assign",
			Enabled: true,
			Trigger: models.TriggerOnCreate,
			Actions: models.ActionList{{Type: models.ActionAssignTo, Value: "maria"}},
		},
	}

	result := engine.Apply(incident, models.TriggerOnCreate, rules)

	if result.AssignedTo != "maria" {
		t.Errorf("Expected assignedTo maria, got %q", result.AssignedTo)
	}
}
