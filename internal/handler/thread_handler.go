package handler

import (
	"net/http"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/services"
	"coachdesk/internal/transport/httpdto"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	resolver *actor.Resolver
	service  *services.ThreadService
}

func NewThreadHandler(resolver *actor.Resolver, service *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{resolver: resolver, service: service}
}

// OpenDirect handles POST /v1/threads/direct: lazy find-or-create of a
// 1:1 thread on first contact.
func (h *ThreadHandler) OpenDirect(c *gin.Context) {
	var req httpdto.OpenThreadRequest
	if !bindJSON(c, &req) {
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	var t thread.Thread
	var err error
	switch thread.Kind(req.Kind) {
	case thread.KindStudentCoach:
		t, err = h.service.OpenStudentThread(c.Request.Context(), act, uuidOrNil(req.StudentID), uuidOrNil(req.OtherUserID))
	case thread.KindCoachCoach:
		otherID, perr := parseUUID(req.OtherUserID)
		if perr != nil {
			respondError(c, coachdesk_errors.ErrInvalidInput)
			return
		}
		t, err = h.service.OpenCoachThread(c.Request.Context(), act, otherID)
	default:
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewThreadDTO(t)))
}
