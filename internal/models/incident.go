package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type IncidentStatus string
type IncidentPriority string
type IncidentType string

const (
	StatusOpen           IncidentStatus = "abierta"
	StatusInProgress     IncidentStatus = "en-progreso"
	StatusPutInTest      IncidentStatus = "puesto-en-test"
	StatusVerifiedInTest IncidentStatus = "verificado-en-test"
	StatusResolved       IncidentStatus = "resuelta"
	StatusClosed         IncidentStatus = "cerrada"
)

const (
	PriorityLow      IncidentPriority = "baja"
	PriorityMedium   IncidentPriority = "media"
	PriorityHigh     IncidentPriority = "alta"
	PriorityCritical IncidentPriority = "crítica"
)

const (
	TypeCorrective IncidentType = "correctivo"
	TypeEvolutive  IncidentType = "evolutivo"
	TypeConsultive IncidentType = "consultivo"
	TypeTask       IncidentType = "tarea"
)

// Incident is one trackable unit of work. Comments, pull requests and time
// entries hang off it and are removed when the incident is deleted.
type Incident struct {
	ID              string           `json:"id" gorm:"primaryKey;type:uuid"`
	Name            string           `json:"name" gorm:"not null"`
	Title           string           `json:"title"`
	Description     string           `json:"description" gorm:"type:text"`
	Status          IncidentStatus   `json:"status" gorm:"not null;default:'abierta'"`
	Priority        IncidentPriority `json:"priority" gorm:"not null"`
	Type            IncidentType     `json:"type" gorm:"not null"`
	ContactUser     string           `json:"contactUser"`
	UserID          string           `json:"userId" gorm:"not null;index"`
	AssignedTo      string           `json:"assignedTo"`
	RelevantInfo    string           `json:"relevante" gorm:"type:text"`
	WorkDone        string           `json:"realizado" gorm:"type:text"`
	ModifiedClasses string           `json:"clasesModificadas" gorm:"type:text"`
	Tags            pq.StringArray   `json:"tags" gorm:"type:text[]"`
	CreationDate    string           `json:"creationDate"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt   `json:"-" gorm:"index"`

	Comments     []Comment     `json:"comments,omitempty" gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE"`
	PullRequests []PullRequest `json:"pullRequests,omitempty" gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE"`
	TimeEntries  []TimeEntry   `json:"timeTracking,omitempty" gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE"`
}

func (Incident) TableName() string {
	return "incidents"
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NormalizeTag is applied at every tag entry point. The rule engine's add-tag
// action works on stored values and does not normalize again.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// HasTag reports whether the tag is present, compared exactly as stored.
func (i *Incident) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends the tag if absent. Adding a present tag is a no-op.
func (i *Incident) AddTag(tag string) bool {
	if i.HasTag(tag) {
		return false
	}
	i.Tags = append(i.Tags, tag)
	return true
}

// RemoveTag removes the tag if present. Removing an absent tag is a no-op.
func (i *Incident) RemoveTag(tag string) bool {
	for idx, t := range i.Tags {
		if t == tag {
			i.Tags = append(i.Tags[:idx], i.Tags[idx+1:]...)
			return true
		}
	}
	return false
}

// DaysOpen is the whole number of days since the incident was created.
func (i *Incident) DaysOpen(now time.Time) int {
	return int(now.Sub(i.CreatedAt).Hours() / 24)
}

func ValidStatus(s IncidentStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusPutInTest, StatusVerifiedInTest, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(p IncidentPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func ValidType(t IncidentType) bool {
	switch t {
	case TypeCorrective, TypeEvolutive, TypeConsultive, TypeTask:
		return true
	}
	return false
}
