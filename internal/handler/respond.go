package handler

import (
	"errors"
	"net/http"
	"strconv"

	"coachdesk/internal/actor"
	"coachdesk/internal/services"
	"coachdesk/internal/transport/httpdto"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// respondError translates the error taxonomy to HTTP. Denials fail
// closed upstream; here they just get their status. A content block is
// reported without the matched term.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coachdesk_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, coachdesk_errors.ErrThreadFrozen):
		c.JSON(http.StatusLocked, httpdto.NewErrorResponse("this conversation is locked", "THREAD_LOCKED"))
	case errors.Is(err, coachdesk_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	case errors.Is(err, coachdesk_errors.ErrActorNotFound),
		errors.Is(err, coachdesk_errors.ErrWorkspaceNotFound),
		errors.Is(err, coachdesk_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, coachdesk_errors.ErrContentBlocked):
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("this message can't be sent", "CONTENT_BLOCKED"))
	case errors.Is(err, coachdesk_errors.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("invalid payload", "INVALID_PAYLOAD"))
	case errors.Is(err, coachdesk_errors.ErrConflict), errors.Is(err, coachdesk_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("conflict", "CONFLICT"))
	case errors.Is(err, coachdesk_errors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}

// bindJSON binds the request body and answers schema failures with a
// field-level 422.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]httpdto.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, httpdto.FieldError{Field: fe.Field(), Reason: fe.Tag()})
			}
			c.JSON(http.StatusUnprocessableEntity, httpdto.NewValidationErrorResponse(fields))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("invalid payload", "INVALID_PAYLOAD"))
		return false
	}
	return true
}

// resolveActor resolves the acting identity for a request or writes the
// appropriate error response.
func resolveActor(c *gin.Context, resolver *actor.Resolver) (*actor.Context, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, coachdesk_errors.ErrUnauthorized)
		return nil, false
	}
	act, err := resolver.Resolve(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return act, true
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// uuidOrNil parses an optional identifier, treating absence or garbage
// as the zero UUID so the service layer decides what is required.
func uuidOrNil(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseInt64(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
