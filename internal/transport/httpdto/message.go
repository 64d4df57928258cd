package httpdto

import (
	"time"

	"coachdesk/internal/domain/thread"
)

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=8000"`
}

type MarkReadRequest struct {
	LastReadMessageID int64 `json:"lastReadMessageId" binding:"required,gt=0"`
}

type MessageDTO struct {
	ID           int64     `json:"id"`
	ThreadID     string    `json:"threadId"`
	SenderUserID string    `json:"senderUserId"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewMessageDTO(m thread.Message) MessageDTO {
	return MessageDTO{
		ID:           m.ID,
		ThreadID:     m.ThreadID.String(),
		SenderUserID: m.SenderUserID.String(),
		Body:         m.Body,
		CreatedAt:    m.CreatedAt,
	}
}

type MessagePageResponse struct {
	Messages          []MessageDTO `json:"messages"`
	NextCursor        *int64       `json:"nextCursor"`
	LastReadMessageID *int64       `json:"lastReadMessageId"`
}
