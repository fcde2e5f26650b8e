package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"gorm.io/gorm"
)

type SettingsController struct {
	db *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

type UpdateSettingsRequest struct {
	Theme         *string `json:"theme"`
	Language      *string `json:"language"`
	Notifications *bool   `json:"notifications"`
	AutoAssign    *bool   `json:"autoAssign"`
}

// GetSettings returns the app settings row, creating it with defaults on
// first access.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.load()
	if err != nil {
		logger.WithError(err, "settings_controller").Error("Failed to load settings")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": settings})
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	settings, err := sc.load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load settings"})
		return
	}

	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.Notifications != nil {
		settings.Notifications = *req.Notifications
	}
	if req.AutoAssign != nil {
		settings.AutoAssign = *req.AutoAssign
	}

	if err := sc.db.Save(&settings).Error; err != nil {
		logger.WithError(err, "settings_controller").Error("Failed to update settings")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": settings})
}

func (sc *SettingsController) load() (models.Settings, error) {
	var settings models.Settings
	err := sc.db.First(&settings, "id = ?", "app").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.Settings{
			ID:            "app",
			Theme:         "light",
			Language:      "es",
			Notifications: true,
		}
		err = sc.db.Create(&settings).Error
	}
	return settings, err
}
