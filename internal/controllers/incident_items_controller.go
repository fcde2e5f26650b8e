package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/models"
)

// Sub-resources of an incident: comments, pull-request lists and time
// entries. All of them are reached through the incident, so the same
// ownership filter applies before any of these handlers touch data.

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (ic *IncidentController) GetComments(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var comments []models.Comment
	if err := ic.db.Where("incident_id = ?", incident.ID).Order("created_at asc").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": comments})
}

func (ic *IncidentController) CreateComment(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	author := ""
	if username, exists := c.Get("username"); exists {
		author = username.(string)
	}

	comment := models.Comment{
		IncidentID: incident.ID,
		Author:     author,
		Text:       req.Text,
	}

	if err := ic.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create comment"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": comment})
}

func (ic *IncidentController) DeleteComment(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	result := ic.db.Where("id = ? AND incident_id = ?", c.Param("commentId"), incident.ID).Delete(&models.Comment{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete comment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted successfully"})
}

type CreatePullRequestRequest struct {
	Kind        string `json:"kind" binding:"required"`
	Link        string `json:"link" binding:"required"`
	Description string `json:"description"`
}

func (ic *IncidentController) GetPullRequests(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	query := ic.db.Where("incident_id = ?", incident.ID)
	if kind := c.Query("kind"); kind != "" {
		if !models.ValidPRKind(models.PRKind(kind)) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid kind value"})
			return
		}
		query = query.Where("kind = ?", kind)
	}

	var prs []models.PullRequest
	if err := query.Order("created_at asc").Find(&prs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch pull requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": prs})
}

func (ic *IncidentController) CreatePullRequest(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var req CreatePullRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	if !models.ValidPRKind(models.PRKind(req.Kind)) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid kind value"})
		return
	}

	pr := models.PullRequest{
		IncidentID:  incident.ID,
		Kind:        models.PRKind(req.Kind),
		Link:        req.Link,
		Description: req.Description,
	}

	if err := ic.db.Create(&pr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create pull request"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": pr})
}

func (ic *IncidentController) DeletePullRequest(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	result := ic.db.Where("id = ? AND incident_id = ?", c.Param("prId"), incident.ID).Delete(&models.PullRequest{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete pull request"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pull request not found"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pull request deleted successfully"})
}

type TimeEntryRequest struct {
	Hours       float64 `json:"hours" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func (ic *IncidentController) GetTimeEntries(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var entries []models.TimeEntry
	if err := ic.db.Where("incident_id = ?", incident.ID).Order("created_at asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch time entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}

func (ic *IncidentController) CreateTimeEntry(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	user := ""
	if username, exists := c.Get("username"); exists {
		user = username.(string)
	}

	entry := models.TimeEntry{
		IncidentID:  incident.ID,
		Hours:       req.Hours,
		Description: req.Description,
		Date:        req.Date,
		User:        user,
	}

	if err := ic.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create time entry"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
}

func (ic *IncidentController) UpdateTimeEntry(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	var entry models.TimeEntry
	if err := ic.db.Where("id = ? AND incident_id = ?", c.Param("entryId"), incident.ID).First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Time entry not found"})
		return
	}

	var req struct {
		Hours       *float64 `json:"hours"`
		Description *string  `json:"description"`
		Date        *string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	if req.Hours != nil {
		entry.Hours = *req.Hours
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}

	if err := ic.db.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update time entry"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

func (ic *IncidentController) DeleteTimeEntry(c *gin.Context) {
	userID, _ := c.Get("userID")

	incident, ok := ic.loadVisible(c, userID.(string), c.Param("id"))
	if !ok {
		return
	}

	result := ic.db.Where("id = ? AND incident_id = ?", c.Param("entryId"), incident.ID).Delete(&models.TimeEntry{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete time entry"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Time entry not found"})
		return
	}

	ic.touchIncident(&incident)
	ic.publishIncidents()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Time entry deleted successfully"})
}

// touchIncident refreshes UpdatedAt after a sub-resource mutation.
func (ic *IncidentController) touchIncident(incident *models.Incident) {
	ic.db.Model(incident).Update("updated_at", ic.db.NowFunc())
}
