package workspace

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Workspace types
const (
	TypePersonal = "personal"
	TypeOrg      = "org"
)

// Org membership roles and statuses
const (
	MemberRoleAdmin = "admin"
	MemberRoleCoach = "coach"

	MemberStatusInvited  = "invited"
	MemberStatusActive   = "active"
	MemberStatusDisabled = "disabled"
)

// Workspace represents the workspaces table. A personal workspace has
// exactly one owner and no roster; an org workspace has OrgMembership rows.
type Workspace struct {
	ID             uuid.UUID
	Type           string
	Name           string
	OwnerProfileID uuid.NullUUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrgMembership represents the org_memberships table
type OrgMembership struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	UserID    uuid.UUID
	Role      string
	Status    string
	InvitedAt sql.NullTime
	JoinedAt  sql.NullTime
	CreatedAt time.Time
}

// Group represents the org_groups table. Groups may nest under a parent
// group; the tree shape (no cycles) is enforced on write.
type Group struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	Name          string
	ParentGroupID uuid.NullUUID
	CreatedAt     time.Time
}

// GroupCoach represents the org_group_coaches table
type GroupCoach struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	AddedAt time.Time
}

// GroupStudent represents the org_group_students table
type GroupStudent struct {
	GroupID   uuid.UUID
	StudentID uuid.UUID
	AddedAt   time.Time
}

func (Workspace) TableName() string {
	return "workspaces"
}

func (OrgMembership) TableName() string {
	return "org_memberships"
}

func (Group) TableName() string {
	return "org_groups"
}

func (GroupCoach) TableName() string {
	return "org_group_coaches"
}

func (GroupStudent) TableName() string {
	return "org_group_students"
}
