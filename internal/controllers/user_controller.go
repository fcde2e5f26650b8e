package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/auth"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	db    *gorm.DB
	authz *auth.Authorizer
	hub   *realtime.Hub
}

func NewUserController(db *gorm.DB, authz *auth.Authorizer, hub *realtime.Hub) *UserController {
	return &UserController{db: db, authz: authz, hub: hub}
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	RoleID   *string `json:"roleId"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
}

func (uc *UserController) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UpdateCurrentUser edits the caller's own account; gated by users.editOwn.
// Role changes are never allowed through this endpoint.
func (uc *UserController) UpdateCurrentUser(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}
	req.RoleID = nil

	uc.applyUpdate(c, userID.(string), req)
}

func (uc *UserController) GetUsers(c *gin.Context) {
	userID, _ := c.Get("userID")

	// Without users.viewAll the list narrows to the caller's own account.
	if !uc.authz.Can(userID.(string), auth.CategoryUsers, "viewAll") {
		if !uc.authz.Can(userID.(string), auth.CategoryUsers, "viewOwn") {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
			return
		}
		var user models.User
		if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		user.Password = ""
		c.JSON(http.StatusOK, gin.H{"success": true, "data": []models.User{user}})
		return
	}

	query := uc.db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("username ILIKE ? OR name ILIKE ? OR email ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var users []models.User
	if err := query.Order("created_at asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	for i := range users {
		users[i].Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data", "errors": err.Error()})
		return
	}

	var existingUser models.User
	if err := uc.db.Where("LOWER(username) = ?", strings.ToLower(req.Username)).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists"})
		return
	}

	if req.RoleID != "" {
		var role models.Role
		if err := uc.db.First(&role, "id = ?", req.RoleID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role not found"})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		RoleID:   req.RoleID,
	}

	if err := uc.db.Create(&user).Error; err != nil {
		logger.WithError(err, "user_controller").Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
		return
	}

	uc.publishUsers()

	user.Password = ""
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	uc.applyUpdate(c, c.Param("id"), req)
}

func (uc *UserController) applyUpdate(c *gin.Context, id string, req UpdateUserRequest) {
	var user models.User
	if err := uc.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		var existing models.User
		if err := uc.db.Where("LOWER(username) = ? AND id <> ?", strings.ToLower(*req.Username), id).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username already taken"})
			return
		}
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.RoleID != nil {
		if *req.RoleID != "" {
			var role models.Role
			if err := uc.db.First(&role, "id = ?", *req.RoleID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role not found"})
				return
			}
		}
		user.RoleID = *req.RoleID
	}

	if err := uc.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
		return
	}

	uc.publishUsers()

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	userID, _ := c.Get("userID")
	if id == userID.(string) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot delete your own account"})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	if err := uc.db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
		return
	}

	uc.publishUsers()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

func (uc *UserController) publishUsers() {
	var users []models.User
	if err := uc.db.Order("created_at asc").Find(&users).Error; err != nil {
		logger.WithError(err, "user_controller").Error("Failed to load users for snapshot")
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	uc.hub.Publish(realtime.CollectionUsers, users)
}
