package handler

import (
	"net/http"

	"coachdesk/internal/actor"
	"coachdesk/internal/services"
	"coachdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type InboxHandler struct {
	resolver *actor.Resolver
	service  *services.InboxService
}

func NewInboxHandler(resolver *actor.Resolver, service *services.InboxService) *InboxHandler {
	return &InboxHandler{resolver: resolver, service: service}
}

// List handles GET /v1/inbox.
func (h *InboxHandler) List(c *gin.Context) {
	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	inbox, err := h.service.List(c.Request.Context(), act)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httpdto.InboxResponse{
		Threads:     make([]httpdto.ThreadSummaryDTO, 0, len(inbox.Threads)),
		TotalUnread: inbox.TotalUnread,
	}
	for _, t := range inbox.Threads {
		resp.Threads = append(resp.Threads, httpdto.ThreadSummaryDTO{
			Thread:      httpdto.NewThreadDTO(t.Thread),
			UnreadCount: t.UnreadCount,
		})
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}
