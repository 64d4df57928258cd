package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the messaging core.
const (
	EventAccessDenied   = "messaging.access_denied"
	EventMessageSent    = "messaging.message_sent"
	EventContentFlagged = "moderation.content_flagged"
	EventContentBlocked = "moderation.content_blocked"
	EventRecurrentFlags = "moderation.recurrent_flags"
)

// Event is one audit record. Payload stays schemaless; operators consume
// it from the activity log, not from this service.
type Event struct {
	Type        string                 `json:"type"`
	ActorUserID uuid.UUID              `json:"actor_user_id"`
	ThreadID    uuid.UUID              `json:"thread_id,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// Sink is the fire-and-forget audit collaborator. Emit must never block
// the response path; implementations swallow their own failures.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// Now returns the timestamp format events carry.
func Now() int64 {
	return time.Now().Unix()
}

// NopSink discards events. Stands in when no sink is wired.
type NopSink struct{}

func (NopSink) Emit(ctx context.Context, event Event) {}
