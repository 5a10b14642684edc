package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sargassum-ops-api/services"
)

type AIHandler struct {
	ai *services.AIService
}

func NewAIHandler(ai *services.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// Chat serves POST /api/ai/chat.
func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.ai.Chat(c.Request.Context(), req.Message, req.ConversationID)
	c.JSON(http.StatusOK, result)
}
