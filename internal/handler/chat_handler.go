package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
	"github.com/sakec/hms-backend/internal/validator"
)

// ChatHandler proxies the hostel assistant.
type ChatHandler struct {
	chat *service.ChatService
	log  zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		log:  log.With().Str("component", "chat_handler").Logger(),
	}
}

// Generate godoc
// POST /api/chat/generate
func (h *ChatHandler) Generate(c *gin.Context) {
	var req model.ChatRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reply, err := h.chat.Generate(c.Request.Context(), req.History)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, model.ChatResponse{Response: reply})
}
