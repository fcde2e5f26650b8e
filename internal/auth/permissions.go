package auth

import (
	"github.com/incidentalert/backend/internal/models"
	"gorm.io/gorm"
)

// Permission categories.
const (
	CategoryIncidents  = "incidents"
	CategoryUsers      = "users"
	CategoryRoles      = "roles"
	CategorySettings   = "settings"
	CategoryAutomation = "automation"
)

// HasPermission answers "can this role, in general, do action in category".
// A nil role, an unknown category or an unknown action all deny. Ownership
// narrowing (own incidents, own account) is the caller's job, not this
// function's.
func HasPermission(role *models.Role, category, action string) bool {
	if role == nil {
		return false
	}
	p := role.Permissions
	switch category {
	case CategoryIncidents:
		switch action {
		case "create":
			return p.Incidents.Create
		case "read":
			return p.Incidents.Read
		case "update":
			return p.Incidents.Update
		case "delete":
			return p.Incidents.Delete
		case "viewAll":
			return p.Incidents.ViewAll
		}
	case CategoryUsers:
		switch action {
		case "viewOwn":
			return p.Users.ViewOwn
		case "editOwn":
			return p.Users.EditOwn
		case "viewAll":
			return p.Users.ViewAll
		case "create":
			return p.Users.Create
		case "edit":
			return p.Users.Edit
		case "delete":
			return p.Users.Delete
		}
	case CategoryRoles:
		switch action {
		case "view":
			return p.Roles.View
		case "create":
			return p.Roles.Create
		case "edit":
			return p.Roles.Edit
		case "delete":
			return p.Roles.Delete
		}
	case CategorySettings:
		switch action {
		case "view":
			return p.Settings.View
		case "edit":
			return p.Settings.Edit
		}
	case CategoryAutomation:
		switch action {
		case "view":
			return p.Automation.View
		case "create":
			return p.Automation.Create
		case "edit":
			return p.Automation.Edit
		case "delete":
			return p.Automation.Delete
		}
	}
	return false
}

// Authorizer resolves a user's role fresh on every check. Nothing is cached,
// so a role change takes effect on the next request.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// RoleFor returns the user's role, or nil when the user or role cannot be
// resolved. Missing role means every check denies.
func (a *Authorizer) RoleFor(userID string) *models.Role {
	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil
	}
	if user.RoleID == "" {
		return nil
	}
	var role models.Role
	if err := a.db.First(&role, "id = ?", user.RoleID).Error; err != nil {
		return nil
	}
	return &role
}

// Can answers "can user U do action A" by resolving the role and delegating
// to HasPermission.
func (a *Authorizer) Can(userID, category, action string) bool {
	return HasPermission(a.RoleFor(userID), category, action)
}
