package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntry struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	IncidentID  string    `json:"incidentId" gorm:"not null;index"`
	Hours       float64   `json:"hours" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Date        string    `json:"date"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

func (te *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if te.ID == "" {
		te.ID = uuid.NewString()
	}
	return nil
}
