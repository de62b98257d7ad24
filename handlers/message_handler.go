package handlers

import (
	"net/http"
	"strconv"

	"adhouse/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	Recipient string `json:"recipient"`
	AdID      string `json:"adId"`
	Body      string `json:"body"`
}

func (h *MessageHandler) Send(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req sendMessageRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.Recipient == "" || req.Body == "" {
		return apis.NewBadRequestError("Recipient and body are required", nil)
	}

	record, err := h.messageService.Send(e.Request.Context(), e.Auth.Id, req.Recipient, req.AdID, req.Body)
	if err != nil {
		return apis.NewBadRequestError("Failed to send message", nil)
	}

	return e.JSON(http.StatusCreated, record)
}

func (h *MessageHandler) Inbox(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	q := e.Request.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	records, err := h.messageService.Inbox(e.Request.Context(), e.Auth.Id, limit, offset)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load inbox", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"messages": records})
}

// Conversation - both sides of a thread about one ad
func (h *MessageHandler) Conversation(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	peerID := e.Request.PathValue("peerId")
	adID := e.Request.URL.Query().Get("adId")
	if peerID == "" || adID == "" {
		return apis.NewBadRequestError("Peer and ad are required", nil)
	}

	records, err := h.messageService.Conversation(e.Request.Context(), e.Auth.Id, peerID, adID)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load conversation", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"messages": records})
}

func (h *MessageHandler) MarkRead(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	if err := h.messageService.MarkRead(e.Request.Context(), e.Auth.Id, e.Request.PathValue("messageId")); err != nil {
		return apis.NewBadRequestError("Failed to mark message read", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Marked as read"})
}
