package student

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Share statuses
const (
	ShareStatusActive  = "active"
	ShareStatusRevoked = "revoked"
)

// Student represents the students table. A student belongs to exactly one
// owning workspace and may be reachable from others via shares or
// assignments.
type Student struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	FullName  string
	AvatarURL sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StudentAccount links a student record to a login, used when the student
// signs in directly.
type StudentAccount struct {
	StudentID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// StudentShare represents the student_shares table (owner-approved
// cross-workspace visibility).
type StudentShare struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	OrgID     uuid.UUID
	Status    string
	CreatedAt time.Time
	RevokedAt sql.NullTime
}

// StudentAssignment represents the student_assignments table (coach to
// student within one org workspace).
type StudentAssignment struct {
	ID          uuid.UUID
	StudentID   uuid.UUID
	OrgID       uuid.UUID
	CoachUserID uuid.UUID
	CreatedAt   time.Time
}

// ParentChildLink represents the parent_child_links table
type ParentChildLink struct {
	ID           uuid.UUID
	ParentUserID uuid.UUID
	StudentID    uuid.UUID
	Permissions  string
	CreatedAt    time.Time
}

func (Student) TableName() string {
	return "students"
}

func (StudentAccount) TableName() string {
	return "student_accounts"
}

func (StudentShare) TableName() string {
	return "student_shares"
}

func (StudentAssignment) TableName() string {
	return "student_assignments"
}

func (ParentChildLink) TableName() string {
	return "parent_child_links"
}
