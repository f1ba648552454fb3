package http

import (
	"errors"
	"net/http"
	"strings"

	"freeland/internal/usecase"
	"freeland/pkg/jwt"
	"freeland/pkg/logger"

	"github.com/gin-gonic/gin"
)

type QueryHandler struct {
	queryUseCase usecase.QueryUseCase
	jwtService   *jwt.Service
	logger       *logger.Logger
}

func NewQueryHandler(queryUseCase usecase.QueryUseCase, jwtService *jwt.Service, log *logger.Logger) *QueryHandler {
	return &QueryHandler{
		queryUseCase: queryUseCase,
		jwtService:   jwtService,
		logger:       log,
	}
}

// viewerID extracts the user from an optional bearer token. The feed is
// public; the token only adds per-viewer flags.
func (h *QueryHandler) viewerID(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	claims, err := h.jwtService.ValidateToken(parts[1])
	if err != nil {
		return ""
	}
	return claims.UserID
}

// Feed godoc
// @Summary Recent posts, newest first
// @Tags query
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/feed [get]
func (h *QueryHandler) Feed(c *gin.Context) {
	feed, err := h.queryUseCase.Feed(h.viewerID(c))
	if err != nil {
		h.logger.Error("Failed to load feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": feed})
}

// Stats godoc
// @Summary Economic stats for the current user
// @Tags query
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entity.UserStats
// @Router /api/v1/stats [get]
func (h *QueryHandler) Stats(c *gin.Context) {
	stats, err := h.queryUseCase.Stats(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Portfolio godoc
// @Summary Posts the current user owns
// @Tags query
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/portfolio [get]
func (h *QueryHandler) Portfolio(c *gin.Context) {
	holdings, err := h.queryUseCase.Portfolio(c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to load portfolio: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load portfolio"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// Leaderboard godoc
// @Summary Top users, posts and traders
// @Tags query
// @Produce json
// @Success 200 {object} entity.Leaderboard
// @Router /api/v1/leaderboard [get]
func (h *QueryHandler) Leaderboard(c *gin.Context) {
	board, err := h.queryUseCase.Leaderboard()
	if err != nil {
		h.logger.Error("Failed to build leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}
	c.JSON(http.StatusOK, board)
}

// Messages godoc
// @Summary Conversation with another user
// @Tags query
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Other user id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /api/v1/messages/{user_id} [get]
func (h *QueryHandler) Messages(c *gin.Context) {
	messages, err := h.queryUseCase.Messages(c.GetString("user_id"), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrDMAccessRequired) {
			c.JSON(http.StatusForbidden, gin.H{"error": "dm access required"})
			return
		}
		h.logger.Error("Failed to load messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// UserByUsername godoc
// @Summary Public profile lookup
// @Tags query
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/users/{username} [get]
func (h *QueryHandler) UserByUsername(c *gin.Context) {
	user, err := h.queryUseCase.UserByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"avatar_url": user.AvatarURL,
		"created_at": user.CreatedAt,
	})
}
