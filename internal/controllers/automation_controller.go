package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"gorm.io/gorm"
)

type AutomationController struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewAutomationController(db *gorm.DB, hub *realtime.Hub) *AutomationController {
	return &AutomationController{db: db, hub: hub}
}

type AutomationRuleRequest struct {
	Name       string                   `json:"name" binding:"required"`
	Enabled    *bool                    `json:"enabled"`
	Trigger    models.AutomationTrigger `json:"trigger" binding:"required"`
	Conditions models.ConditionList     `json:"conditions"`
	Actions    models.ActionList        `json:"actions" binding:"required"`
}

func (ac *AutomationController) GetRules(c *gin.Context) {
	var rules []models.AutomationRule
	if err := ac.db.Order("created_at asc, id asc").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch automation rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rules})
}

func (ac *AutomationController) GetRule(c *gin.Context) {
	var rule models.AutomationRule
	if err := ac.db.First(&rule, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Automation rule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rule})
}

func (ac *AutomationController) CreateRule(c *gin.Context) {
	var req AutomationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data", "errors": err.Error()})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := models.AutomationRule{
		Name:       req.Name,
		Enabled:    enabled,
		Trigger:    req.Trigger,
		Conditions: req.Conditions,
		Actions:    req.Actions,
	}

	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := ac.db.Create(&rule).Error; err != nil {
		logger.WithError(err, "automation_controller").Error("Failed to create automation rule")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create automation rule"})
		return
	}

	ac.publishRules()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rule})
}

func (ac *AutomationController) UpdateRule(c *gin.Context) {
	var rule models.AutomationRule
	if err := ac.db.First(&rule, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Automation rule not found"})
		return
	}

	var req AutomationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	rule.Name = req.Name
	rule.Trigger = req.Trigger
	rule.Conditions = req.Conditions
	rule.Actions = req.Actions
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := ac.db.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update automation rule"})
		return
	}

	ac.publishRules()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rule})
}

// ToggleRule flips the enabled flag without touching the rest of the rule.
func (ac *AutomationController) ToggleRule(c *gin.Context) {
	var rule models.AutomationRule
	if err := ac.db.First(&rule, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Automation rule not found"})
		return
	}

	rule.Enabled = !rule.Enabled
	if err := ac.db.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update automation rule"})
		return
	}

	ac.publishRules()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rule})
}

func (ac *AutomationController) DeleteRule(c *gin.Context) {
	var rule models.AutomationRule
	if err := ac.db.First(&rule, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Automation rule not found"})
		return
	}

	if err := ac.db.Delete(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete automation rule"})
		return
	}

	ac.publishRules()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Automation rule deleted successfully"})
}

func (ac *AutomationController) publishRules() {
	var rules []models.AutomationRule
	if err := ac.db.Order("created_at asc, id asc").Find(&rules).Error; err != nil {
		logger.WithError(err, "automation_controller").Error("Failed to load rules for snapshot")
		return
	}
	ac.hub.Publish(realtime.CollectionAutomationRules, rules)
}
