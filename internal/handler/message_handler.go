package handler

import (
	"net/http"

	"coachdesk/internal/actor"
	"coachdesk/internal/services"
	"coachdesk/internal/transport/httpdto"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	resolver *actor.Resolver
	service  *services.MessageService
}

func NewMessageHandler(resolver *actor.Resolver, service *services.MessageService) *MessageHandler {
	return &MessageHandler{resolver: resolver, service: service}
}

// Send handles POST /v1/threads/:id/messages. Rate limiting already
// happened in middleware; the service runs access, guard and delivery.
func (h *MessageHandler) Send(c *gin.Context) {
	threadID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}

	var req httpdto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	msg, err := h.service.Send(c.Request.Context(), act, threadID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.NewMessageDTO(msg)))
}

// List handles GET /v1/threads/:id/messages?cursor=&limit=.
func (h *MessageHandler) List(c *gin.Context) {
	threadID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}
	cursor, err := parseInt64(c.Query("cursor"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}
	limit, err := parseInt(c.Query("limit"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	page, err := h.service.ListMessages(c.Request.Context(), act, threadID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httpdto.MessagePageResponse{
		Messages:          make([]httpdto.MessageDTO, 0, len(page.Messages)),
		NextCursor:        page.NextCursor,
		LastReadMessageID: page.LastReadID,
	}
	for _, m := range page.Messages {
		resp.Messages = append(resp.Messages, httpdto.NewMessageDTO(m))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}

// MarkRead handles POST /v1/threads/:id/read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	threadID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}

	var req httpdto.MarkReadRequest
	if !bindJSON(c, &req) {
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), act, threadID, req.LastReadMessageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"lastReadMessageId": req.LastReadMessageID}))
}

// Hide handles POST /v1/threads/:id/hide.
func (h *MessageHandler) Hide(c *gin.Context) {
	threadID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	if err := h.service.Hide(c.Request.Context(), act, threadID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"hidden": true}))
}
