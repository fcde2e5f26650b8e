package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"gorm.io/gorm"
)

type RoleController struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewRoleController(db *gorm.DB, hub *realtime.Hub) *RoleController {
	return &RoleController{db: db, hub: hub}
}

type RoleRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Permissions models.RolePermissions `json:"permissions"`
}

func (rc *RoleController) GetRoles(c *gin.Context) {
	var roles []models.Role
	if err := rc.db.Order("created_at asc").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch roles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": roles})
}

func (rc *RoleController) GetRole(c *gin.Context) {
	var role models.Role
	if err := rc.db.First(&role, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Role not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": role})
}

func (rc *RoleController) CreateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data", "errors": err.Error()})
		return
	}

	var existing models.Role
	if err := rc.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Role already exists"})
		return
	}

	role := models.Role{
		Name:        req.Name,
		Permissions: req.Permissions,
	}

	if err := rc.db.Create(&role).Error; err != nil {
		logger.WithError(err, "role_controller").Error("Failed to create role")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create role"})
		return
	}

	rc.publishRoles()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": role})
}

func (rc *RoleController) UpdateRole(c *gin.Context) {
	var role models.Role
	if err := rc.db.First(&role, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Role not found"})
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	// System roles keep their name; only the flags are editable.
	if !role.IsSystem {
		role.Name = req.Name
	}
	role.Permissions = req.Permissions

	if err := rc.db.Save(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update role"})
		return
	}

	rc.publishRoles()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": role})
}

func (rc *RoleController) DeleteRole(c *gin.Context) {
	var role models.Role
	if err := rc.db.First(&role, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Role not found"})
		return
	}

	if role.IsSystem {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "System roles cannot be deleted"})
		return
	}

	var userCount int64
	if err := rc.db.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&userCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check role usage"})
		return
	}
	if userCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role is assigned to users and cannot be deleted"})
		return
	}

	if err := rc.db.Delete(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete role"})
		return
	}

	rc.publishRoles()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role deleted successfully"})
}

func (rc *RoleController) publishRoles() {
	var roles []models.Role
	if err := rc.db.Order("created_at asc").Find(&roles).Error; err != nil {
		logger.WithError(err, "role_controller").Error("Failed to load roles for snapshot")
		return
	}
	rc.hub.Publish(realtime.CollectionRoles, roles)
}
