package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PRKind string

const (
	PRKindQA2  PRKind = "qa2"
	PRKindMain PRKind = "main"
)

// PullRequest is one entry in an incident's QA2 or main PR list. The two
// lists are independent and each keeps insertion order by CreatedAt.
type PullRequest struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	IncidentID  string    `json:"incidentId" gorm:"not null;index"`
	Kind        PRKind    `json:"kind" gorm:"not null;index"`
	Link        string    `json:"link" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (PullRequest) TableName() string {
	return "pull_requests"
}

func (pr *PullRequest) BeforeCreate(tx *gorm.DB) error {
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	return nil
}

func ValidPRKind(k PRKind) bool {
	return k == PRKindQA2 || k == PRKindMain
}
