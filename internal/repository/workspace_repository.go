package repository

import (
	"context"
	"errors"

	"coachdesk/internal/domain/workspace"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresWorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &PostgresWorkspaceRepository{db: db}
}

func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (workspace.Workspace, error) {
	var w workspace.Workspace
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workspace.Workspace{}, coachdesk_errors.ErrNotFound
		}
		return workspace.Workspace{}, err
	}
	return w, nil
}

func (r *PostgresWorkspaceRepository) GetMembership(ctx context.Context, orgID, userID uuid.UUID) (workspace.OrgMembership, error) {
	var m workspace.OrgMembership
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workspace.OrgMembership{}, coachdesk_errors.ErrNotFound
		}
		return workspace.OrgMembership{}, err
	}
	return m, nil
}

func (r *PostgresWorkspaceRepository) ListActiveMembers(ctx context.Context, orgID uuid.UUID) ([]workspace.OrgMembership, error) {
	var members []workspace.OrgMembership
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgID, workspace.MemberStatusActive).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
