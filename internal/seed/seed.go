package seed

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/incidentalert/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run creates the system roles, the initial admin account and the default
// settings row. It is idempotent: existing rows are left alone.
func Run(db *gorm.DB) error {
	adminRole, err := ensureRole(db, "admin", models.AdminPermissions())
	if err != nil {
		return err
	}
	if _, err := ensureRole(db, "usuario", models.DefaultUserPermissions()); err != nil {
		return err
	}

	if err := ensureAdminUser(db, adminRole); err != nil {
		return err
	}

	return ensureSettings(db)
}

func ensureRole(db *gorm.DB, name string, permissions models.RolePermissions) (*models.Role, error) {
	var role models.Role
	err := db.Where("name = ? AND is_system = ?", name, true).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = models.Role{
		Name:        name,
		IsSystem:    true,
		Permissions: permissions,
	}
	if err := db.Create(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	log.Printf("✅ Created system role: %s", name)
	return &role, nil
}

func ensureAdminUser(db *gorm.DB, adminRole *models.Role) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username: "admin",
		Password: string(hashedPassword),
		Name:     "Administrador",
		Email:    "admin@incidentalert.com",
		RoleID:   adminRole.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("✅ Created user: %s", user.Username)
	return nil
}

func ensureSettings(db *gorm.DB) error {
	var settings models.Settings
	err := db.First(&settings, "id = ?", "app").Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	settings = models.Settings{
		ID:            "app",
		Theme:         "light",
		Language:      "es",
		Notifications: true,
	}
	if err := db.Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to create default settings: %w", err)
	}
	log.Println("✅ Created default settings")
	return nil
}
