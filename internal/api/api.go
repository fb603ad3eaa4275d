// Package api exposes the HTTP surface: chat endpoints, profile
// management, and the streaming transport.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/ai"
	"github.com/careerwise-ai/careerwise/internal/auth"
	"github.com/careerwise-ai/careerwise/internal/chat"
	"github.com/careerwise-ai/careerwise/internal/models"
)

const identityKey = "identity"

// Store covers the persistence the handlers reach directly, bypassing the
// chat service. Satisfied by *db.Postgres.
type Store interface {
	CreateConversation(ctx context.Context, userID, title, userType string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string, limit int) ([]models.Conversation, error)
	GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update models.UserProfileUpdate) (*models.UserProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// ProfileCache is the cache slice the profile handlers maintain alongside
// the store. Satisfied by *cache.Cache.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, bool)
	SetProfile(ctx context.Context, userID string, profile *models.UserProfile)
	DeleteProfile(ctx context.Context, userID string)
}

type Handler struct {
	chatService *chat.Service
	store       Store
	cache       ProfileCache
	authService *auth.Service
	completer   ai.Completer
	logger      *zap.SugaredLogger
}

func NewHandler(chatService *chat.Service, store Store, cache ProfileCache, authService *auth.Service, completer ai.Completer, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		chatService: chatService,
		store:       store,
		cache:       cache,
		authService: authService,
		completer:   completer,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.handleHealth)

	apiGroup := router.Group("/api/v1")

	chatGroup := apiGroup.Group("/chat")
	chatGroup.POST("/simple", h.handleSimpleChat)
	chatGroup.GET("/test", h.handleChatTest)

	authed := chatGroup.Group("")
	authed.Use(h.requireAuth)
	authed.POST("/conversation/create", h.handleCreateConversation)
	authed.GET("/conversations", h.handleListConversations)
	authed.POST("/conversation/:id/message", h.handleSendMessage)
	authed.GET("/conversation/:id/messages", h.handleListMessages)
	authed.POST("/conversation/:id/stream", h.handleStreamMessage)

	profileGroup := apiGroup.Group("/users")
	profileGroup.Use(h.requireAuth)
	profileGroup.POST("/profile", h.handleCreateProfile)
	profileGroup.GET("/profile", h.handleGetProfile)
	profileGroup.PUT("/profile", h.handleUpdateProfile)
	profileGroup.DELETE("/profile", h.handleDeleteProfile)
}

// requireAuth resolves the bearer token into a caller identity and aborts
// with 401 when the token is missing or invalid.
func (h *Handler) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		writeError(c, http.StatusUnauthorized, "missing bearer token", auth.ErrInvalidToken)
		c.Abort()
		return
	}

	identity, err := h.authService.VerifyToken(strings.TrimSpace(token))
	if err != nil {
		writeError(c, http.StatusUnauthorized, "invalid token", err)
		c.Abort()
		return
	}

	c.Set(identityKey, identity)
	c.Next()
}

func callerIdentity(c *gin.Context) *auth.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*auth.Identity)
	return identity
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "careerwise-api"})
}

// handleChatTest reports backing-service availability for smoke checks.
func (h *Handler) handleChatTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"model":        h.completer.Model(),
		"offline_mode": h.completer.Offline(),
		"database":     h.store != nil,
		"cache":        h.cache != nil,
	})
}

func writeError(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
