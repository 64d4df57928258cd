package httpdto

import (
	"time"

	"coachdesk/internal/domain/thread"
)

type OpenThreadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=student_coach coach_coach"`
	StudentID   string `json:"studentId"`
	OtherUserID string `json:"otherUserId"`
}

type ThreadDTO struct {
	ID             string     `json:"id"`
	Kind           string     `json:"kind"`
	WorkspaceOrgID string     `json:"workspaceOrgId"`
	StudentID      *string    `json:"studentId,omitempty"`
	GroupID        *string    `json:"groupId,omitempty"`
	LastMessageID  *int64     `json:"lastMessageId"`
	LastMessageAt  *time.Time `json:"lastMessageAt"`
	Frozen         bool       `json:"frozen"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func NewThreadDTO(t thread.Thread) ThreadDTO {
	dto := ThreadDTO{
		ID:             t.ID.String(),
		Kind:           string(t.Kind),
		WorkspaceOrgID: t.WorkspaceOrgID.String(),
		Frozen:         t.Frozen(),
		CreatedAt:      t.CreatedAt,
	}
	if t.StudentID.Valid {
		s := t.StudentID.UUID.String()
		dto.StudentID = &s
	}
	if t.GroupID.Valid {
		g := t.GroupID.UUID.String()
		dto.GroupID = &g
	}
	if t.LastMessageID.Valid {
		id := t.LastMessageID.Int64
		dto.LastMessageID = &id
	}
	if t.LastMessageAt.Valid {
		at := t.LastMessageAt.Time
		dto.LastMessageAt = &at
	}
	return dto
}

type ThreadSummaryDTO struct {
	Thread      ThreadDTO `json:"thread"`
	UnreadCount int64     `json:"unreadCount"`
}

type InboxResponse struct {
	Threads     []ThreadSummaryDTO `json:"threads"`
	TotalUnread int64              `json:"totalUnread"`
}
