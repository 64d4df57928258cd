package repository

import (
	"context"
	"errors"

	"coachdesk/internal/domain/account"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (account.Profile, error) {
	var p account.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account.Profile{}, coachdesk_errors.ErrNotFound
		}
		return account.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetByEmail(ctx context.Context, email string) (account.Profile, error) {
	var p account.Profile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account.Profile{}, coachdesk_errors.ErrNotFound
		}
		return account.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]account.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []account.Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
