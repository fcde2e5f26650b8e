package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/auth"
	"github.com/incidentalert/backend/internal/automation"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"gorm.io/gorm"
)

type IncidentController struct {
	db     *gorm.DB
	engine *automation.Engine
	authz  *auth.Authorizer
	hub    *realtime.Hub
}

func NewIncidentController(db *gorm.DB, engine *automation.Engine, authz *auth.Authorizer, hub *realtime.Hub) *IncidentController {
	return &IncidentController{db: db, engine: engine, authz: authz, hub: hub}
}

type CreateIncidentRequest struct {
	Name            string   `json:"name" binding:"required"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        string   `json:"priority" binding:"required"`
	Type            string   `json:"type" binding:"required"`
	ContactUser     string   `json:"contactUser"`
	AssignedTo      string   `json:"assignedTo"`
	Tags            []string `json:"tags"`
	CreationDate    string   `json:"creationDate"`
	RelevantInfo    string   `json:"relevante"`
	WorkDone        string   `json:"realizado"`
	ModifiedClasses string   `json:"clasesModificadas"`
}

type UpdateIncidentRequest struct {
	Name            *string   `json:"name"`
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Status          *string   `json:"status"`
	Priority        *string   `json:"priority"`
	Type            *string   `json:"type"`
	ContactUser     *string   `json:"contactUser"`
	AssignedTo      *string   `json:"assignedTo"`
	Tags            *[]string `json:"tags"`
	CreationDate    *string   `json:"creationDate"`
	RelevantInfo    *string   `json:"relevante"`
	WorkDone        *string   `json:"realizado"`
	ModifiedClasses *string   `json:"clasesModificadas"`
}

func (ic *IncidentController) GetIncidents(c *gin.Context) {
	userID, _ := c.Get("userID")

	query := ic.db.Model(&models.Incident{})

	// Ownership narrowing happens here, not in the permission model: a role
	// without incidents.viewAll only sees its own incidents.
	if !ic.authz.Can(userID.(string), auth.CategoryIncidents, "viewAll") {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if incidentType := c.Query("type"); incidentType != "" {
		query = query.Where("type = ?", incidentType)
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}

	limit := c.DefaultQuery("limit", "50")
	if limitInt, err := strconv.Atoi(limit); err == nil && limitInt > 0 {
		query = query.Limit(limitInt)
	}

	var incidents []models.Incident
	if err := query.Order("created_at desc").Find(&incidents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch incidents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": incidents})
}

func (ic *IncidentController) GetIncident(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": incident})
}

func (ic *IncidentController) CreateIncident(c *gin.Context) {
	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data", "errors": err.Error()})
		return
	}

	if !models.ValidPriority(models.IncidentPriority(req.Priority)) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority value"})
		return
	}
	if !models.ValidType(models.IncidentType(req.Type)) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid type value"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()

	creationDate := req.CreationDate
	if creationDate == "" {
		creationDate = now.Format("2006-01-02")
	}

	incident := models.Incident{
		Name:            req.Name,
		Title:           req.Title,
		Description:     req.Description,
		Status:          models.StatusOpen,
		Priority:        models.IncidentPriority(req.Priority),
		Type:            models.IncidentType(req.Type),
		ContactUser:     req.ContactUser,
		UserID:          userID.(string),
		AssignedTo:      req.AssignedTo,
		RelevantInfo:    req.RelevantInfo,
		WorkDone:        req.WorkDone,
		ModifiedClasses: req.ModifiedClasses,
		CreationDate:    creationDate,
		CreatedAt:       now,
	}
	for _, tag := range req.Tags {
		if t := models.NormalizeTag(tag); t != "" {
			incident.AddTag(t)
		}
	}

	// Rules run on the in-memory incident before the first write.
	incident = ic.engine.Apply(incident, models.TriggerOnCreate, ic.loadRules())

	if err := ic.db.Create(&incident).Error; err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to create incident")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create incident"})
		return
	}

	ic.publishIncidents()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": incident})
}

func (ic *IncidentController) UpdateIncident(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var req UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	oldStatus := incident.Status
	oldPriority := incident.Priority
	oldType := incident.Type
	oldTags := append([]string(nil), incident.Tags...)

	if req.Name != nil {
		incident.Name = *req.Name
	}
	if req.Title != nil {
		incident.Title = *req.Title
	}
	if req.Description != nil {
		incident.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidStatus(models.IncidentStatus(*req.Status)) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status value"})
			return
		}
		incident.Status = models.IncidentStatus(*req.Status)
	}
	if req.Priority != nil {
		if !models.ValidPriority(models.IncidentPriority(*req.Priority)) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority value"})
			return
		}
		incident.Priority = models.IncidentPriority(*req.Priority)
	}
	if req.Type != nil {
		if !models.ValidType(models.IncidentType(*req.Type)) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid type value"})
			return
		}
		incident.Type = models.IncidentType(*req.Type)
	}
	if req.ContactUser != nil {
		incident.ContactUser = *req.ContactUser
	}
	if req.AssignedTo != nil {
		incident.AssignedTo = *req.AssignedTo
	}
	if req.Tags != nil {
		incident.Tags = nil
		for _, tag := range *req.Tags {
			if t := models.NormalizeTag(tag); t != "" {
				incident.AddTag(t)
			}
		}
	}
	if req.CreationDate != nil {
		incident.CreationDate = *req.CreationDate
	}
	if req.RelevantInfo != nil {
		incident.RelevantInfo = *req.RelevantInfo
	}
	if req.WorkDone != nil {
		incident.WorkDone = *req.WorkDone
	}
	if req.ModifiedClasses != nil {
		incident.ModifiedClasses = *req.ModifiedClasses
	}

	// Field transitions decide which triggers fire; each runs against the
	// incident state left by the previous one.
	var triggers []models.AutomationTrigger
	if incident.Status != oldStatus {
		triggers = append(triggers, models.TriggerOnStatusChange)
	}
	if incident.Priority != oldPriority {
		triggers = append(triggers, models.TriggerOnPriorityChange)
	}
	if incident.Type != oldType {
		triggers = append(triggers, models.TriggerOnTypeChange)
	}
	if hasNewTag(oldTags, incident.Tags) {
		triggers = append(triggers, models.TriggerOnTagAdded)
	}

	if len(triggers) > 0 {
		rules := ic.loadRules()
		for _, trigger := range triggers {
			incident = ic.engine.Apply(incident, trigger, rules)
		}
	}

	if err := ic.db.Save(&incident).Error; err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to update incident")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update incident"})
		return
	}

	ic.publishIncidents()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": incident})
}

func (ic *IncidentController) DeleteIncident(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	err := ic.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("incident_id = ?", incident.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("incident_id = ?", incident.ID).Delete(&models.PullRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("incident_id = ?", incident.ID).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&incident).Error
	})
	if err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to delete incident")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete incident"})
		return
	}

	ic.publishIncidents()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Incident deleted successfully"})
}

// AddIncidentTag adds one normalized tag and fires on-tag-added rules when
// the tag was actually new.
func (ic *IncidentController) AddIncidentTag(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		Tag string `json:"tag" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	tag := models.NormalizeTag(req.Tag)
	if tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Tag must not be empty"})
		return
	}

	if incident.AddTag(tag) {
		incident = ic.engine.Apply(incident, models.TriggerOnTagAdded, ic.loadRules())
		if err := ic.db.Save(&incident).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update incident"})
			return
		}
		ic.publishIncidents()
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": incident})
}

func (ic *IncidentController) RemoveIncidentTag(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	tag := models.NormalizeTag(c.Param("tag"))
	if incident.RemoveTag(tag) {
		if err := ic.db.Save(&incident).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update incident"})
			return
		}
		ic.publishIncidents()
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": incident})
}

// loadVisible fetches an incident and applies the ownership filter: callers
// without incidents.viewAll only reach their own incidents.
func (ic *IncidentController) loadVisible(c *gin.Context, userID, id string) (models.Incident, bool) {
	var incident models.Incident
	if err := ic.db.First(&incident, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Incident not found"})
		return incident, false
	}

	if incident.UserID != userID && !ic.authz.Can(userID, auth.CategoryIncidents, "viewAll") {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Incident not found"})
		return incident, false
	}

	return incident, true
}

// loadRules returns all automation rules in stored order. The engine does
// the enabled/trigger filtering itself.
func (ic *IncidentController) loadRules() []models.AutomationRule {
	var rules []models.AutomationRule
	if err := ic.db.Order("created_at asc, id asc").Find(&rules).Error; err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to load automation rules")
		return nil
	}
	return rules
}

func (ic *IncidentController) publishIncidents() {
	var incidents []models.Incident
	if err := ic.db.Order("created_at desc").Find(&incidents).Error; err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to load incidents for snapshot")
		return
	}
	ic.hub.Publish(realtime.CollectionIncidents, incidents)
}

func hasNewTag(oldTags, newTags []string) bool {
	seen := make(map[string]bool, len(oldTags))
	for _, t := range oldTags {
		seen[t] = true
	}
	for _, t := range newTags {
		if !seen[t] {
			return true
		}
	}
	return false
}
