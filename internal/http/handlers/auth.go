package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"opshub/internal/domain"
	"opshub/internal/domain/models"
	"opshub/internal/repositories"
)

// AuthHandler serves login and registration for dashboard accounts.
type AuthHandler struct {
	Users    repositories.UserRepository
	Secret   string
	TokenTTL time.Duration
}

type loginRequest struct {
	Login    string `json:"login"` // email or username
	Password string `json:"password"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Users.GetByLogin(req.Login)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "wrong login or password")
			return
		}
		RespondDomainError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "wrong login or password")
		return
	}
	if !user.Active {
		RespondError(c, http.StatusForbidden, "account is disabled")
		return
	}

	ttl := h.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(h.Secret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   signed,
		"user":    user.ToPublic(),
	})
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var user models.User
	if !BindJSONOrError(c, &user) {
		return
	}

	// self-registered accounts start as inactive viewers until an admin
	// flips them on
	user.Role = "viewer"
	user.Active = false

	id, err := h.Users.Create(user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}
