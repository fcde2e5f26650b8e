package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"gorm.io/gorm"
)

// TagController manages the tag catalog. Incident rows store tag names, so
// renames and deletes here do not rewrite incidents.
type TagController struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewTagController(db *gorm.DB, hub *realtime.Hub) *TagController {
	return &TagController{db: db, hub: hub}
}

type TagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (tc *TagController) GetTags(c *gin.Context) {
	var tags []models.Tag
	if err := tc.db.Order("name asc").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tags})
}

func (tc *TagController) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	name := models.NormalizeTag(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Tag name must not be empty"})
		return
	}

	var existing models.Tag
	if err := tc.db.Where("name = ?", name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Tag already exists"})
		return
	}

	tag := models.Tag{Name: name, Color: req.Color}
	if err := tc.db.Create(&tag).Error; err != nil {
		logger.WithError(err, "tag_controller").Error("Failed to create tag")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create tag"})
		return
	}

	tc.publishTags()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": tag})
}

func (tc *TagController) UpdateTag(c *gin.Context) {
	var tag models.Tag
	if err := tc.db.First(&tag, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Tag not found"})
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	name := models.NormalizeTag(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Tag name must not be empty"})
		return
	}

	tag.Name = name
	tag.Color = req.Color

	if err := tc.db.Save(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update tag"})
		return
	}

	tc.publishTags()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tag})
}

func (tc *TagController) DeleteTag(c *gin.Context) {
	result := tc.db.Where("id = ?", c.Param("id")).Delete(&models.Tag{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete tag"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Tag not found"})
		return
	}

	tc.publishTags()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tag deleted successfully"})
}

func (tc *TagController) publishTags() {
	var tags []models.Tag
	if err := tc.db.Order("name asc").Find(&tags).Error; err != nil {
		logger.WithError(err, "tag_controller").Error("Failed to load tags for snapshot")
		return
	}
	tc.hub.Publish(realtime.CollectionTags, tags)
}
