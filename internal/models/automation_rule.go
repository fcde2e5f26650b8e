package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AutomationTrigger string

const (
	TriggerOnCreate         AutomationTrigger = "on-create"
	TriggerOnStatusChange   AutomationTrigger = "on-status-change"
	TriggerOnPriorityChange AutomationTrigger = "on-priority-change"
	TriggerOnTypeChange     AutomationTrigger = "on-type-change"
	TriggerOnTagAdded       AutomationTrigger = "on-tag-added"
	TriggerOnTimeThreshold  AutomationTrigger = "on-time-threshold"
)

type ConditionField string

const (
	FieldType     ConditionField = "type"
	FieldPriority ConditionField = "priority"
	FieldStatus   ConditionField = "status"
	FieldDaysOpen ConditionField = "days-open"
	FieldHasTag   ConditionField = "has-tag"
)

type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not-equals"
	OperatorGreaterThan ConditionOperator = "greater-than"
	OperatorLessThan    ConditionOperator = "less-than"
	OperatorContains    ConditionOperator = "contains"
)

type ActionType string

const (
	ActionSetPriority ActionType = "set-priority"
	ActionSetStatus   ActionType = "set-status"
	ActionAddTag      ActionType = "add-tag"
	ActionAssignTo    ActionType = "assign-to"
)

// Condition compares one incident field against a value. Value carries either
// a string (type/priority/status/has-tag) or a number (days-open); rules are
// user-authored so the engine tolerates any shape and fails the condition
// rather than erroring.
type Condition struct {
	Field    ConditionField    `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    interface{}       `json:"value"`
}

// StringValue returns the condition value as a string when it is one.
func (c Condition) StringValue() (string, bool) {
	s, ok := c.Value.(string)
	return s, ok
}

// NumberValue returns the condition value as a number, accepting the numeric
// string form older rules were stored with.
func (c Condition) NumberValue() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// RuleAction mutates one incident field when a rule fires.
type RuleAction struct {
	Type  ActionType `json:"type"`
	Value string     `json:"value"`
}

type ConditionList []Condition

func (l ConditionList) Value() (driver.Value, error) {
	if l == nil {
		l = ConditionList{}
	}
	return json.Marshal(l)
}

func (l *ConditionList) Scan(value interface{}) error {
	if value == nil {
		*l = ConditionList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for ConditionList", value)
}

type ActionList []RuleAction

func (l ActionList) Value() (driver.Value, error) {
	if l == nil {
		l = ActionList{}
	}
	return json.Marshal(l)
}

func (l *ActionList) Scan(value interface{}) error {
	if value == nil {
		*l = ActionList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for ActionList", value)
}

// AutomationRule is a user-configured condition→action mapping evaluated on
// its trigger event. Rules are evaluated in stored order; there is no
// priority field.
type AutomationRule struct {
	ID         string            `json:"id" gorm:"primaryKey;type:uuid"`
	Name       string            `json:"name" gorm:"not null"`
	Enabled    bool              `json:"enabled" gorm:"default:true"`
	Trigger    AutomationTrigger `json:"trigger" gorm:"not null"`
	Conditions ConditionList     `json:"conditions" gorm:"type:jsonb"`
	Actions    ActionList        `json:"actions" gorm:"type:jsonb"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt    `json:"-" gorm:"index"`
}

func (AutomationRule) TableName() string {
	return "automation_rules"
}

func (r *AutomationRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func ValidTrigger(t AutomationTrigger) bool {
	switch t {
	case TriggerOnCreate, TriggerOnStatusChange, TriggerOnPriorityChange,
		TriggerOnTypeChange, TriggerOnTagAdded, TriggerOnTimeThreshold:
		return true
	}
	return false
}

// Validate rejects rules the engine would silently never fire: unknown
// triggers, operators applied to fields they don't support, actions with
// values outside the target enum. Evaluation itself stays lenient; this
// keeps stored rules well-formed without changing engine semantics.
func (r *AutomationRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if !ValidTrigger(r.Trigger) {
		return fmt.Errorf("unknown trigger %q", r.Trigger)
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("at least one action is required")
	}
	for _, c := range r.Conditions {
		if err := validateCondition(c); err != nil {
			return err
		}
	}
	for _, a := range r.Actions {
		if err := validateAction(a); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(c Condition) error {
	switch c.Field {
	case FieldType, FieldPriority, FieldStatus:
		if c.Operator != OperatorEquals && c.Operator != OperatorNotEquals {
			return fmt.Errorf("field %q only supports equals/not-equals, got %q", c.Field, c.Operator)
		}
		if _, ok := c.StringValue(); !ok {
			return fmt.Errorf("field %q requires a string value", c.Field)
		}
	case FieldDaysOpen:
		if c.Operator != OperatorGreaterThan && c.Operator != OperatorLessThan {
			return fmt.Errorf("days-open only supports greater-than/less-than, got %q", c.Operator)
		}
		if _, ok := c.NumberValue(); !ok {
			return fmt.Errorf("days-open requires a numeric value")
		}
	case FieldHasTag:
		if c.Operator != OperatorContains {
			return fmt.Errorf("has-tag only supports contains, got %q", c.Operator)
		}
		if _, ok := c.StringValue(); !ok {
			return fmt.Errorf("has-tag requires a string value")
		}
	default:
		return fmt.Errorf("unknown condition field %q", c.Field)
	}
	return nil
}

func validateAction(a RuleAction) error {
	switch a.Type {
	case ActionSetPriority:
		if !ValidPriority(IncidentPriority(a.Value)) {
			return fmt.Errorf("invalid priority %q", a.Value)
		}
	case ActionSetStatus:
		if !ValidStatus(IncidentStatus(a.Value)) {
			return fmt.Errorf("invalid status %q", a.Value)
		}
	case ActionAddTag, ActionAssignTo:
		if a.Value == "" {
			return fmt.Errorf("action %q requires a value", a.Type)
		}
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
