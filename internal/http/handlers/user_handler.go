package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surajdas14/easybus-sub001/internal/repositories"
)

// GET /api/users (admin)
func GetUsers(c *gin.Context) {
	users, err := repositories.UserRepository{}.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer agent admin"`
}

// PATCH /api/users/:id/role (admin)
func SetUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req roleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	repo := repositories.UserRepository{}
	if err := repo.UpdateRole(id, req.Role); err != nil {
		RespondDomainError(c, err)
		return
	}
	user, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
