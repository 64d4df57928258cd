package repository

import (
	"context"
	"database/sql"
	"errors"

	"coachdesk/internal/domain/thread"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

// Create inserts the message and fills in the database-assigned id. The
// id column is a single bigserial sequence shared by every thread, which
// is what makes ids usable as cross-thread cursors and read markers.
func (r *PostgresMessageRepository) Create(ctx context.Context, m *thread.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return coachdesk_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) ListPageBefore(ctx context.Context, threadID uuid.UUID, beforeID int64, limit int) ([]thread.Message, error) {
	var messages []thread.Message
	q := r.db.WithContext(ctx).Where("thread_id = ?", threadID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	err := q.Order("id DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) ExistsInThread(ctx context.Context, threadID uuid.UUID, messageID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&thread.Message{}).
		Where("thread_id = ? AND id = ?", threadID, messageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUnread counts messages past the member's read pointer, excluding
// the member's own messages.
func (r *PostgresMessageRepository) CountUnread(ctx context.Context, threadID uuid.UUID, lastRead sql.NullInt64, exceptSender uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&thread.Message{}).
		Where("thread_id = ? AND sender_user_id != ?", threadID, exceptSender)
	if lastRead.Valid {
		q = q.Where("id > ?", lastRead.Int64)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
