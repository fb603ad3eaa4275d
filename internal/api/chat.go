package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careerwise-ai/careerwise/internal/chat"
	"github.com/careerwise-ai/careerwise/internal/db"
	"github.com/careerwise-ai/careerwise/internal/models"
)

type simpleChatRequest struct {
	Message  string `json:"message"`
	UserType string `json:"user_type"`
}

type createConversationRequest struct {
	Title    string `json:"title"`
	UserType string `json:"user_type"`
}

type sendMessageRequest struct {
	Content     string         `json:"content"`
	MessageType string         `json:"message_type"`
	Metadata    map[string]any `json:"metadata"`
}

type streamMessageRequest struct {
	Content string `json:"content"`
}

func chatResponse(result *chat.Result) gin.H {
	return gin.H{
		"response":        result.Response,
		"conversation_id": result.ConversationID,
		"message_id":      result.MessageID,
		"user_type":       string(result.UserType),
		"metadata":        result.Metadata,
	}
}

// handleSimpleChat answers one message with no auth and no persistence.
func (h *Handler) handleSimpleChat(c *gin.Context) {
	var req simpleChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "message is required", errMissingMessage)
		return
	}

	userType := models.ParseUserType(req.UserType)
	response := h.chatService.SimpleChat(c.Request.Context(), req.Message, userType)

	c.JSON(http.StatusOK, gin.H{
		"response":        response,
		"conversation_id": "demo",
		"message_id":      uuid.NewString(),
		"user_type":       string(userType),
		"metadata":        gin.H{"demo_mode": true},
	})
}

func (h *Handler) handleCreateConversation(c *gin.Context) {
	identity := callerIdentity(c)

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	userType := models.ParseUserType(req.UserType)
	conv, err := h.store.CreateConversation(c.Request.Context(), identity.ID, req.Title, string(userType))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to create conversation", err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

func (h *Handler) handleListConversations(c *gin.Context) {
	identity := callerIdentity(c)

	conversations, err := h.store.ListConversations(c.Request.Context(), identity.ID, 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list conversations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

func (h *Handler) handleSendMessage(c *gin.Context) {
	identity := callerIdentity(c)
	conversationID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if req.Content == "" {
		writeError(c, http.StatusBadRequest, "content is required", errMissingContent)
		return
	}

	messageType := models.ParseMessageType(req.MessageType)
	result, err := h.chatService.SendMessage(c.Request.Context(), conversationID, identity.ID, req.Content, messageType, req.Metadata)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			writeError(c, http.StatusNotFound, "conversation not found", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to process message", err)
		return
	}

	c.JSON(http.StatusOK, chatResponse(result))
}

func (h *Handler) handleListMessages(c *gin.Context) {
	identity := callerIdentity(c)
	conversationID := c.Param("id")

	ctx := c.Request.Context()
	if _, err := h.store.GetConversation(ctx, conversationID, identity.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "conversation not found", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to load conversation", err)
		return
	}

	messages, err := h.store.ListMessages(ctx, conversationID, 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list messages", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"messages":        messages,
		"total":           len(messages),
	})
}

// handleStreamMessage forwards completion fragments to the client as
// server-sent events, then persists the exchange once the stream is fully
// drained. A mid-stream provider error emits a terminal error event and
// persists nothing; a broken client connection also persists nothing.
func (h *Handler) handleStreamMessage(c *gin.Context) {
	identity := callerIdentity(c)
	conversationID := c.Param("id")

	var req streamMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if req.Content == "" {
		writeError(c, http.StatusBadRequest, "content is required", errMissingContent)
		return
	}

	ctx := c.Request.Context()
	stream, err := h.chatService.StreamMessage(ctx, conversationID, identity.ID, req.Content)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			writeError(c, http.StatusNotFound, "conversation not found", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to start stream", err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	var full string
	for chunk := range stream.Chunks {
		if err := writeEvent(c, gin.H{"chunk": chunk}); err != nil {
			h.logger.Warnw("client dropped mid-stream, discarding turn", "conversation_id", conversationID, "error", err)
			return
		}
		full += chunk
	}

	if err := <-stream.Errs; err != nil {
		h.logger.Warnw("streaming completion failed", "conversation_id", conversationID, "error", err)
		_ = writeEvent(c, gin.H{"error": "streaming failed, please retry"})
		return
	}

	if err := stream.Finish(ctx, full); err != nil {
		h.logger.Errorw("failed to persist streamed turn", "conversation_id", conversationID, "error", err)
		_ = writeEvent(c, gin.H{"error": "failed to save response"})
		return
	}

	_ = writeEvent(c, gin.H{"done": true})
}

func writeEvent(c *gin.Context, payload gin.H) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

var (
	errMissingMessage = errors.New("message is required")
	errMissingContent = errors.New("content is required")
)
