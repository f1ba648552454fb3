package http

import (
	"errors"
	"net/http"

	"freeland/internal/usecase"
	"freeland/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	authUseCase    usecase.AuthUseCase
	economyUseCase usecase.EconomyUseCase
	logger         *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, economyUseCase usecase.EconomyUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase:    authUseCase,
		economyUseCase: economyUseCase,
		logger:         log,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account with the starting balance and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Credentials"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, token, err := h.authUseCase.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrInvalidUsername), errors.Is(err, usecase.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Registration failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login godoc
// @Summary Log in
// @Produce json
// @Tags auth
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, token, err := h.authUseCase.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	user, err := h.authUseCase.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ClaimDaily godoc
// @Summary Claim the daily coin bonus
// @Tags economy
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 429 {object} map[string]string
// @Router /api/v1/claim [post]
func (h *AuthHandler) ClaimDaily(c *gin.Context) {
	userID := c.GetString("user_id")
	user, err := h.economyUseCase.ClaimDaily(userID)
	if err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "daily claim not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadAvatar godoc
// @Summary Upload an avatar image
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image file"
// @Success 200 {object} map[string]string
// @Router /api/v1/avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString("user_id")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	url, err := h.authUseCase.UploadAvatar(userID, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("Avatar upload failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
