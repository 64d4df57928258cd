package repository

import (
	"context"
	"errors"

	"coachdesk/internal/domain/student"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresStudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &PostgresStudentRepository{db: db}
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (student.Student, error) {
	var s student.Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return student.Student{}, coachdesk_errors.ErrNotFound
		}
		return student.Student{}, err
	}
	return s, nil
}

// GetAccountUserID resolves the login linked to a student record, used
// when a coach opens a direct thread with a student.
func (r *PostgresStudentRepository) GetAccountUserID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	var acct student.StudentAccount
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, coachdesk_errors.ErrNotFound
		}
		return uuid.Nil, err
	}
	return acct.UserID, nil
}

func (r *PostgresStudentRepository) ListIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&student.StudentAccount{}).
		Where("user_id = ?", userID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresStudentRepository) ListIDsForParent(ctx context.Context, parentUserID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&student.ParentChildLink{}).
		Where("parent_user_id = ?", parentUserID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresStudentRepository) ListOwnedByOrg(ctx context.Context, orgID uuid.UUID) ([]student.Student, error) {
	var students []student.Student
	err := r.db.WithContext(ctx).Where("org_id = ?", orgID).Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *PostgresStudentRepository) ListAssignedToCoach(ctx context.Context, orgID, coachUserID uuid.UUID) ([]student.Student, error) {
	var students []student.Student
	err := r.db.WithContext(ctx).
		Joins("JOIN student_assignments ON student_assignments.student_id = students.id").
		Where("student_assignments.org_id = ? AND student_assignments.coach_user_id = ?", orgID, coachUserID).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *PostgresStudentRepository) ListAssignmentsForStudents(ctx context.Context, studentIDs []uuid.UUID) ([]student.StudentAssignment, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var assignments []student.StudentAssignment
	err := r.db.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// AnyLinkedToOrg reports whether any of the students is reachable from the
// workspace: owned by it, shared into it with an active share, or assigned
// within it.
func (r *PostgresStudentRepository) AnyLinkedToOrg(ctx context.Context, studentIDs []uuid.UUID, orgID uuid.UUID) (bool, error) {
	if len(studentIDs) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&student.Student{}).
		Where("id IN ? AND org_id = ?", studentIDs, orgID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).
		Model(&student.StudentShare{}).
		Where("student_id IN ? AND org_id = ? AND status = ?", studentIDs, orgID, student.ShareStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).
		Model(&student.StudentAssignment{}).
		Where("student_id IN ? AND org_id = ?", studentIDs, orgID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
