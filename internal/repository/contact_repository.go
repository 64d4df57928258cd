package repository

import (
	"context"
	"errors"

	"coachdesk/internal/domain/contact"
	"coachdesk/internal/domain/thread"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &PostgresContactRepository{db: db}
}

func (r *PostgresContactRepository) GetContactForPair(ctx context.Context, userA, userB uuid.UUID) (contact.CoachContact, error) {
	a, b := thread.OrderParticipants(userA, userB)
	var c contact.CoachContact
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.CoachContact{}, coachdesk_errors.ErrNotFound
		}
		return contact.CoachContact{}, err
	}
	return c, nil
}

func (r *PostgresContactRepository) ListContactsForUser(ctx context.Context, userID uuid.UUID) ([]contact.CoachContact, error) {
	var contacts []contact.CoachContact
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *PostgresContactRepository) CreateContact(ctx context.Context, c *contact.CoachContact) error {
	c.UserAID, c.UserBID = thread.OrderParticipants(c.UserAID, c.UserBID)
	res := r.db.WithContext(ctx).Create(c)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return coachdesk_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresContactRepository) CreateRequest(ctx context.Context, req *contact.CoachContactRequest) error {
	res := r.db.WithContext(ctx).Create(req)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return coachdesk_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresContactRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (contact.CoachContactRequest, error) {
	var req contact.CoachContactRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.CoachContactRequest{}, coachdesk_errors.ErrNotFound
		}
		return contact.CoachContactRequest{}, err
	}
	return req, nil
}

func (r *PostgresContactRepository) UpdateRequest(ctx context.Context, req contact.CoachContactRequest) error {
	res := r.db.WithContext(ctx).Save(&req)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return coachdesk_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresContactRepository) ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]contact.CoachContactRequest, error) {
	var requests []contact.CoachContactRequest
	err := r.db.WithContext(ctx).
		Where("recipient_user_id = ? AND status = ?", userID, contact.RequestStatusPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresContactRepository) ListPendingOutgoing(ctx context.Context, userID uuid.UUID) ([]contact.CoachContactRequest, error) {
	var requests []contact.CoachContactRequest
	err := r.db.WithContext(ctx).
		Where("requester_user_id = ? AND status = ?", userID, contact.RequestStatusPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresContactRepository) HasPendingForPair(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&contact.CoachContactRequest{}).
		Where("status = ?", contact.RequestStatusPending).
		Where("(requester_user_id = ? AND recipient_user_id = ?) OR (requester_user_id = ? AND recipient_user_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
