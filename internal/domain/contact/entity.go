package contact

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// CoachContactRequest represents the coach_contact_requests table. A
// pending request becomes an accepted CoachContact or is rejected.
type CoachContactRequest struct {
	ID              uuid.UUID
	RequesterUserID uuid.UUID
	RecipientUserID uuid.UUID
	Status          string
	CreatedAt       time.Time
	RespondedAt     sql.NullTime
}

// CoachContact represents the coach_contacts table: an accepted opt-in
// letting two coaches in different workspaces message directly. The pair
// is stored in canonical order, so one row covers both directions.
type CoachContact struct {
	ID        uuid.UUID
	UserAID   uuid.UUID
	UserBID   uuid.UUID
	CreatedAt time.Time
}

func (CoachContactRequest) TableName() string {
	return "coach_contact_requests"
}

func (CoachContact) TableName() string {
	return "coach_contacts"
}
