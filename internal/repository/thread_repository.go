package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachdesk/internal/domain/thread"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &PostgresThreadRepository{db: db}
}

func (r *PostgresThreadRepository) GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error) {
	var t thread.Thread
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return thread.Thread{}, coachdesk_errors.ErrNotFound
		}
		return thread.Thread{}, err
	}
	return t, nil
}

func (r *PostgresThreadRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]thread.Thread, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var threads []thread.Thread
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *PostgresThreadRepository) FindOneToOne(ctx context.Context, kind thread.Kind, orgID uuid.UUID, participantA, participantB uuid.UUID) (thread.Thread, error) {
	a, b := thread.OrderParticipants(participantA, participantB)
	var t thread.Thread
	err := r.db.WithContext(ctx).
		Where("kind = ? AND workspace_org_id = ? AND participant_a_id = ? AND participant_b_id = ?",
			kind, orgID, a, b).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return thread.Thread{}, coachdesk_errors.ErrNotFound
		}
		return thread.Thread{}, err
	}
	return t, nil
}

func (r *PostgresThreadRepository) Create(ctx context.Context, t *thread.Thread) error {
	res := r.db.WithContext(ctx).Create(t)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return coachdesk_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresThreadRepository) SetLastMessage(ctx context.Context, threadID uuid.UUID, messageID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&thread.Thread{}).
		Where("id = ?", threadID).
		Updates(map[string]interface{}{
			"last_message_id": messageID,
			"last_message_at": at,
			"updated_at":      at,
		}).Error
}

func (r *PostgresThreadRepository) GetMember(ctx context.Context, threadID, userID uuid.UUID) (thread.ThreadMember, error) {
	var m thread.ThreadMember
	err := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return thread.ThreadMember{}, coachdesk_errors.ErrNotFound
		}
		return thread.ThreadMember{}, err
	}
	return m, nil
}

func (r *PostgresThreadRepository) CreateMember(ctx context.Context, m *thread.ThreadMember) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return coachdesk_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresThreadRepository) ListMembers(ctx context.Context, threadID uuid.UUID) ([]thread.ThreadMember, error) {
	var members []thread.ThreadMember
	err := r.db.WithContext(ctx).Where("thread_id = ?", threadID).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresThreadRepository) ListMembershipsForUser(ctx context.Context, userID uuid.UUID) ([]thread.ThreadMember, error) {
	var members []thread.ThreadMember
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresThreadRepository) UnhideAll(ctx context.Context, threadID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&thread.ThreadMember{}).
		Where("thread_id = ? AND hidden_at IS NOT NULL", threadID).
		Update("hidden_at", nil).Error
}

func (r *PostgresThreadRepository) SetHidden(ctx context.Context, threadID, userID uuid.UUID, hiddenAt sql.NullTime) error {
	res := r.db.WithContext(ctx).
		Model(&thread.ThreadMember{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Update("hidden_at", hiddenAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return coachdesk_errors.ErrNotFound
	}
	return nil
}

// AdvanceLastRead moves the member's read pointer forward. The guard
// clause keeps a stale client from dragging the pointer backwards.
func (r *PostgresThreadRepository) AdvanceLastRead(ctx context.Context, threadID, userID uuid.UUID, messageID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&thread.ThreadMember{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Where("last_read_message_id IS NULL OR last_read_message_id < ?", messageID).
		Updates(map[string]interface{}{
			"last_read_message_id": messageID,
			"last_read_at":         at,
		}).Error
}
