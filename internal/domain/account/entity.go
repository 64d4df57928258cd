package account

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Actor roles
const (
	RoleOwner   = "owner"
	RoleCoach   = "coach"
	RoleStaff   = "staff"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// IsCoachLike reports whether a role acts as workspace staff rather than
// as a student or parent.
func IsCoachLike(role string) bool {
	return role == RoleOwner || role == RoleCoach || role == RoleStaff
}

// Profile represents the profiles table. One row per authenticated user.
type Profile struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Email             string
	FullName          string
	AvatarURL         sql.NullString
	Role              string
	OrgID             uuid.NullUUID
	ActiveWorkspaceID uuid.NullUUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
