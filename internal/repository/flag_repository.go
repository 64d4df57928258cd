package repository

import (
	"context"
	"time"

	"coachdesk/internal/domain/thread"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresFlagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &PostgresFlagRepository{db: db}
}

func (r *PostgresFlagRepository) CreateAll(ctx context.Context, flags []thread.ContentFlag) error {
	if len(flags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&flags).Error
}

// CountFlaggedMessagesBySenderSince counts distinct flagged sends, not
// flag rows, so a message matching several terms still counts once
// toward the recurrence threshold.
func (r *PostgresFlagRepository) CountFlaggedMessagesBySenderSince(ctx context.Context, senderUserID, workspaceOrgID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&thread.ContentFlag{}).
		Distinct("content_flags.message_id").
		Joins("JOIN threads ON threads.id = content_flags.thread_id").
		Where("content_flags.sender_user_id = ? AND threads.workspace_org_id = ? AND content_flags.created_at >= ?",
			senderUserID, workspaceOrgID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
