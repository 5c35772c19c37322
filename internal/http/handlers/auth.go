package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

func issueToken(u models.User) (string, error) {
	ttl := intconfig.Cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(intconfig.Cfg.JWTSecret))
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepository{}
	user, hash, err := repo.GetByEmail(req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "wrong email or password")
			return
		}
		RespondDomainError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "wrong email or password")
		return
	}

	tokenString, err := issueToken(user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user":    user,
	})
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepository{}
	exists, err := repo.CountByEmail(req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists > 0 {
		RespondError(c, http.StatusConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	id, err := repo.Insert(req.Name, req.Email, req.Phone, string(hash), models.RoleCustomer)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user": models.User{
			ID:     id,
			Name:   req.Name,
			Email:  req.Email,
			Phone:  req.Phone,
			Role:   models.RoleCustomer,
			Status: "active",
		},
	})
}
