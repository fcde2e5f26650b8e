package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission categories and actions. Absence of a flag always means denied.
type IncidentPermissions struct {
	Create  bool `json:"create"`
	Read    bool `json:"read"`
	Update  bool `json:"update"`
	Delete  bool `json:"delete"`
	ViewAll bool `json:"viewAll"`
}

type UserPermissions struct {
	ViewOwn bool `json:"viewOwn"`
	EditOwn bool `json:"editOwn"`
	ViewAll bool `json:"viewAll"`
	Create  bool `json:"create"`
	Edit    bool `json:"edit"`
	Delete  bool `json:"delete"`
}

type RoleCategoryPermissions struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

type SettingsPermissions struct {
	View bool `json:"view"`
	Edit bool `json:"edit"`
}

type AutomationPermissions struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// RolePermissions is stored as a single JSON column on the role row.
type RolePermissions struct {
	Incidents  IncidentPermissions     `json:"incidents"`
	Users      UserPermissions         `json:"users"`
	Roles      RoleCategoryPermissions `json:"roles"`
	Settings   SettingsPermissions     `json:"settings"`
	Automation AutomationPermissions   `json:"automation"`
}

func (p RolePermissions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *RolePermissions) Scan(value interface{}) error {
	if value == nil {
		*p = RolePermissions{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unsupported type %T for RolePermissions", value)
}

// Role is a named bundle of permission flags. System roles cannot be deleted
// or renamed.
type Role struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string          `json:"name" gorm:"uniqueIndex;not null"`
	IsSystem    bool            `json:"isSystem" gorm:"default:false"`
	Permissions RolePermissions `json:"permissions" gorm:"type:jsonb"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Role) TableName() string {
	return "roles"
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// AdminPermissions grants every flag. Used for the seeded system admin role.
func AdminPermissions() RolePermissions {
	return RolePermissions{
		Incidents:  IncidentPermissions{Create: true, Read: true, Update: true, Delete: true, ViewAll: true},
		Users:      UserPermissions{ViewOwn: true, EditOwn: true, ViewAll: true, Create: true, Edit: true, Delete: true},
		Roles:      RoleCategoryPermissions{View: true, Create: true, Edit: true, Delete: true},
		Settings:   SettingsPermissions{View: true, Edit: true},
		Automation: AutomationPermissions{View: true, Create: true, Edit: true, Delete: true},
	}
}

// DefaultUserPermissions matches the seeded non-admin system role: work on
// incidents, manage only your own account.
func DefaultUserPermissions() RolePermissions {
	return RolePermissions{
		Incidents: IncidentPermissions{Create: true, Read: true, Update: true},
		Users:     UserPermissions{ViewOwn: true, EditOwn: true},
	}
}
