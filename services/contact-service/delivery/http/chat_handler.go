package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"contactbook/contracts/contact_service"
	"contactbook/pkg/api"
	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/usecase"
)

// ChatHandler exposes the conversational front-end
type ChatHandler struct {
	ChatUseCase usecase.ChatUseCase
	Logger      logger.LoggerInterface
	API         api.Api
}

// NewChatHandler creates a new instance of ChatHandler
func NewChatHandler(chatUseCase usecase.ChatUseCase, logger logger.LoggerInterface) *ChatHandler {
	return &ChatHandler{
		ChatUseCase: chatUseCase,
		Logger:      logger,
		API:         api.New(),
	}
}

func toChatResponse(reply usecase.ChatReply) contact_service.ChatResponse {
	return contact_service.ChatResponse{
		Success:              reply.Success,
		Message:              reply.Message,
		Data:                 contact_service.ActionResultData(reply.Result),
		Intent:               reply.Intent,
		RequiresConfirmation: reply.RequiresConfirmation(),
		IntentData:           reply.Pending,
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
		h.API.JSON(ctx, w, http.StatusBadRequest, map[string]any{"success": false, "error": appErr.Message})
		return
	}
	h.Logger.ErrorContext(ctx, "Error processing chat message", "error", err)
	h.API.JSON(ctx, w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   "Failed to process chat message",
		"message": "I encountered an error while processing your request. Please try again.",
	})
}

// MessageHandler handles POST /api/chat
func (h *ChatHandler) MessageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limitBody(w, r)

	var req contact_service.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.WarnContext(ctx, "Invalid chat request body", "error", err)
		h.writeError(w, r, domain.ErrMessageRequired)
		return
	}

	reply, err := h.ChatUseCase.HandleMessage(ctx, req.Message, req.ConfirmAction, req.IntentData)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.API.JSON(ctx, w, http.StatusOK, toChatResponse(reply))
}

// ConfirmHandler handles POST /api/chat/confirm
func (h *ChatHandler) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limitBody(w, r)

	var req contact_service.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.WarnContext(ctx, "Invalid confirm request body", "error", err)
		h.writeError(w, r, domain.ErrIntentDataRequired)
		return
	}

	reply, err := h.ChatUseCase.Confirm(ctx, req.IntentData, req.Confirmed)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.API.JSON(ctx, w, http.StatusOK, toChatResponse(reply))
}
