package models

import "testing"

func validRule() AutomationRule {
	return AutomationRule{
		Name:    "escalate corrective",
		Enabled: true,
		Trigger: TriggerOnCreate,
		Conditions: ConditionList{
			{Field: FieldType, Operator: OperatorEquals, Value: "correctivo"},
		},
		Actions: ActionList{
			{Type: ActionSetPriority, Value: "alta"},
		},
	}
}

func TestAutomationRuleValidateAccepts(t *testing.T) {
	rule := validRule()
	if err := rule.Validate(); err != nil {
		t.Errorf("Valid rule rejected: %v", err)
	}

	// days-open accepts numbers and numeric strings.
	rule = validRule()
	rule.Trigger = TriggerOnTimeThreshold
	rule.Conditions = ConditionList{
		{Field: FieldDaysOpen, Operator: OperatorGreaterThan, Value: float64(7)},
		{Field: FieldDaysOpen, Operator: OperatorLessThan, Value: "30"},
	}
	if err := rule.Validate(); err != nil {
		t.Errorf("days-open rule rejected: %v", err)
	}

	// No conditions means the rule always fires on its trigger.
	rule = validRule()
	rule.Conditions = nil
	if err := rule.Validate(); err != nil {
		t.Errorf("Unconditional rule rejected: %v", err)
	}
}

func TestAutomationRuleValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AutomationRule)
	}{
		{
			name:   "empty name",
			mutate: func(r *AutomationRule) { r.Name = "" },
		},
		{
			name:   "unknown trigger",
			mutate: func(r *AutomationRule) { r.Trigger = "on-delete" },
		},
		{
			name:   "no actions",
			mutate: func(r *AutomationRule) { r.Actions = nil },
		},
		{
			name: "greater-than on type field",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: FieldType, Operator: OperatorGreaterThan, Value: float64(1)}}
			},
		},
		{
			name: "contains on status field",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: FieldStatus, Operator: OperatorContains, Value: "abierta"}}
			},
		},
		{
			name: "equals on days-open",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: FieldDaysOpen, Operator: OperatorEquals, Value: float64(7)}}
			},
		},
		{
			name: "equals on has-tag",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: FieldHasTag, Operator: OperatorEquals, Value: "urgent"}}
			},
		},
		{
			name: "days-open non-numeric value",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: FieldDaysOpen, Operator: OperatorGreaterThan, Value: "muchos"}}
			},
		},
		{
			name: "string field numeric value",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: FieldPriority, Operator: OperatorEquals, Value: float64(2)}}
			},
		},
		{
			name: "unknown condition field",
			mutate: func(r *AutomationRule) {
				r.Conditions = ConditionList{{Field: "severity", Operator: OperatorEquals, Value: "alta"}}
			},
		},
		{
			name: "set-priority with invalid priority",
			mutate: func(r *AutomationRule) {
				r.Actions = ActionList{{Type: ActionSetPriority, Value: "urgente"}}
			},
		},
		{
			name: "set-status with invalid status",
			mutate: func(r *AutomationRule) {
				r.Actions = ActionList{{Type: ActionSetStatus, Value: "pendiente"}}
			},
		},
		{
			name: "add-tag with empty value",
			mutate: func(r *AutomationRule) {
				r.Actions = ActionList{{Type: ActionAddTag, Value: ""}}
			},
		},
		{
			name: "assign-to with empty value",
			mutate: func(r *AutomationRule) {
				r.Actions = ActionList{{Type: ActionAssignTo, Value: ""}}
			},
		},
		{
			name: "unknown action type",
			mutate: func(r *AutomationRule) {
				r.Actions = ActionList{{Type: "close-incident", Value: "x"}}
			},
		},
	}

	for _, test := range tests {
		rule := validRule()
		test.mutate(&rule)
		if err := rule.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", test.name)
		}
	}
}

func TestConditionNumberValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected float64
		ok       bool
	}{
		{"float64", float64(7), 7, true},
		{"int", 7, 7, true},
		{"numeric string", "7.5", 7.5, true},
		{"non-numeric string", "siete", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, test := range tests {
		c := Condition{Value: test.value}
		got, ok := c.NumberValue()
		if ok != test.ok || got != test.expected {
			t.Errorf("%s: NumberValue() = (%v, %v), expected (%v, %v)", test.name, got, ok, test.expected, test.ok)
		}
	}
}

func TestRolePermissionsScanNil(t *testing.T) {
	p := RolePermissions{Incidents: IncidentPermissions{Read: true}}
	if err := p.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) returned error: %v", err)
	}
	if p != (RolePermissions{}) {
		t.Errorf("Scan(nil) should reset to zero permissions, got %+v", p)
	}
}

func TestConditionListRoundTrip(t *testing.T) {
	original := ConditionList{
		{Field: FieldDaysOpen, Operator: OperatorGreaterThan, Value: float64(7)},
		{Field: FieldHasTag, Operator: OperatorContains, Value: "urgent"},
	}

	raw, err := original.Value()
	if err != nil {
		t.Fatalf("Value() returned error: %v", err)
	}

	var decoded ConditionList
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 conditions, got %d", len(decoded))
	}
	if decoded[0].Field != FieldDaysOpen || decoded[1].Value != "urgent" {
		t.Errorf("Round trip lost data: %+v", decoded)
	}

	// Numeric values come back as float64.
	if n, ok := decoded[0].NumberValue(); !ok || n != 7 {
		t.Errorf("Expected numeric value 7, got (%v, %v)", n, ok)
	}
}
