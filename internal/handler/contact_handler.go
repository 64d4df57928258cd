package handler

import (
	"net/http"

	"coachdesk/internal/actor"
	"coachdesk/internal/contacts"
	"coachdesk/internal/services"
	"coachdesk/internal/transport/httpdto"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	resolver *actor.Resolver
	engine   *contacts.Engine
	service  *services.ContactService
}

func NewContactHandler(resolver *actor.Resolver, engine *contacts.Engine, service *services.ContactService) *ContactHandler {
	return &ContactHandler{resolver: resolver, engine: engine, service: service}
}

// List handles GET /v1/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	result, err := h.engine.Resolve(c.Request.Context(), act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewContactsResponse(result)))
}

// CreateRequest handles POST /v1/coach-contacts/requests.
func (h *ContactHandler) CreateRequest(c *gin.Context) {
	var req httpdto.CreateContactRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	created, err := h.service.Request(c.Request.Context(), act, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.ContactRequestDTO{
		ID:              created.ID.String(),
		RequesterUserID: created.RequesterUserID.String(),
		RecipientUserID: created.RecipientUserID.String(),
		Status:          created.Status,
	}))
}

// Accept handles POST /v1/coach-contacts/requests/:id/accept.
func (h *ContactHandler) Accept(c *gin.Context) {
	h.respond(c, true)
}

// Reject handles POST /v1/coach-contacts/requests/:id/reject.
func (h *ContactHandler) Reject(c *gin.Context) {
	h.respond(c, false)
}

func (h *ContactHandler) respond(c *gin.Context, accept bool) {
	requestID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, coachdesk_errors.ErrInvalidInput)
		return
	}

	act, ok := resolveActor(c, h.resolver)
	if !ok {
		return
	}

	if accept {
		err = h.service.Accept(c.Request.Context(), act, requestID)
	} else {
		err = h.service.Reject(c.Request.Context(), act, requestID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"accepted": accept}))
}
