package repository

import (
	"context"
	"errors"

	"coachdesk/internal/domain/workspace"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresGroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (workspace.Group, error) {
	var g workspace.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workspace.Group{}, coachdesk_errors.ErrNotFound
		}
		return workspace.Group{}, err
	}
	return g, nil
}

func (r *PostgresGroupRepository) IsGroupCoach(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&workspace.GroupCoach{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresGroupRepository) ContainsAnyStudent(ctx context.Context, groupID uuid.UUID, studentIDs []uuid.UUID) (bool, error) {
	if len(studentIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&workspace.GroupStudent{}).
		Where("group_id = ? AND student_id IN ?", groupID, studentIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresGroupRepository) HasStudentMembers(ctx context.Context, groupID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&workspace.GroupStudent{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresGroupRepository) ListForCoach(ctx context.Context, orgID, userID uuid.UUID) ([]workspace.Group, error) {
	var groups []workspace.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN org_group_coaches ON org_group_coaches.group_id = org_groups.id").
		Where("org_groups.org_id = ? AND org_group_coaches.user_id = ?", orgID, userID).
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresGroupRepository) ListContainingStudents(ctx context.Context, orgID uuid.UUID, studentIDs []uuid.UUID) ([]workspace.Group, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var groups []workspace.Group
	err := r.db.WithContext(ctx).
		Distinct("org_groups.*").
		Joins("JOIN org_group_students ON org_group_students.group_id = org_groups.id").
		Where("org_groups.org_id = ? AND org_group_students.student_id IN ?", orgID, studentIDs).
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}
