package automation

import (
	"time"

	"github.com/incidentalert/backend/internal/models"
	"github.com/lib/pq"
)

// Engine evaluates automation rules against an incident. Apply is pure
// except for the wall clock, which is injected so tests can pin it.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt builds an engine with a fixed clock source.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Apply runs every enabled rule whose trigger matches, in stored order,
// against the incident and returns the mutated copy. Conditions are ANDed
// and evaluated against the in-progress incident state, so a later rule
// sees mutations made by an earlier rule in the same pass. When two rules
// write the same field the later rule wins. The caller persists the result.
func (e *Engine) Apply(incident models.Incident, trigger models.AutomationTrigger, rules []models.AutomationRule) models.Incident {
	// Work on a private tag slice so the caller's incident stays untouched.
	incident.Tags = append(pq.StringArray(nil), incident.Tags...)

	for _, rule := range rules {
		if !rule.Enabled || rule.Trigger != trigger {
			continue
		}
		if !e.conditionsMet(incident, rule.Conditions) {
			continue
		}
		for _, action := range rule.Actions {
			applyAction(&incident, action)
		}
	}
	return incident
}

func (e *Engine) conditionsMet(incident models.Incident, conditions models.ConditionList) bool {
	for _, cond := range conditions {
		if !e.evaluate(incident, cond) {
			return false
		}
	}
	return true
}

// evaluate never errors: a condition the engine cannot make sense of counts
// as not met. Operators keep their historical field restrictions, so
// greater-than/less-than only mean something for days-open and contains only
// for has-tag; anything else falls through to false.
func (e *Engine) evaluate(incident models.Incident, cond models.Condition) bool {
	switch cond.Operator {
	case models.OperatorEquals:
		fv, ok := fieldValue(incident, cond.Field)
		want, wantOK := cond.StringValue()
		return ok && wantOK && fv == want
	case models.OperatorNotEquals:
		fv, ok := fieldValue(incident, cond.Field)
		want, wantOK := cond.StringValue()
		return !(ok && wantOK && fv == want)
	case models.OperatorGreaterThan:
		if cond.Field == models.FieldDaysOpen {
			want, ok := cond.NumberValue()
			return ok && float64(incident.DaysOpen(e.now())) > want
		}
		return false
	case models.OperatorLessThan:
		if cond.Field == models.FieldDaysOpen {
			want, ok := cond.NumberValue()
			return ok && float64(incident.DaysOpen(e.now())) < want
		}
		return false
	case models.OperatorContains:
		if cond.Field == models.FieldHasTag {
			want, ok := cond.StringValue()
			return ok && incident.HasTag(want)
		}
		return false
	}
	return false
}

func fieldValue(incident models.Incident, field models.ConditionField) (string, bool) {
	switch field {
	case models.FieldType:
		return string(incident.Type), true
	case models.FieldPriority:
		return string(incident.Priority), true
	case models.FieldStatus:
		return string(incident.Status), true
	}
	return "", false
}

func applyAction(incident *models.Incident, action models.RuleAction) {
	switch action.Type {
	case models.ActionSetPriority:
		incident.Priority = models.IncidentPriority(action.Value)
	case models.ActionSetStatus:
		incident.Status = models.IncidentStatus(action.Value)
	case models.ActionAddTag:
		// Case-sensitive as stored; normalization happened at the tag
		// entry point, not here.
		incident.AddTag(action.Value)
	case models.ActionAssignTo:
		incident.AssignedTo = action.Value
	}
}
