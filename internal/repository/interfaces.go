package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/contact"
	"coachdesk/internal/domain/student"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (account.Profile, error)
	GetByEmail(ctx context.Context, email string) (account.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]account.Profile, error)
}

type WorkspaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (workspace.Workspace, error)
	GetMembership(ctx context.Context, orgID, userID uuid.UUID) (workspace.OrgMembership, error)
	ListActiveMembers(ctx context.Context, orgID uuid.UUID) ([]workspace.OrgMembership, error)
}

type GroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (workspace.Group, error)
	IsGroupCoach(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ContainsAnyStudent(ctx context.Context, groupID uuid.UUID, studentIDs []uuid.UUID) (bool, error)
	HasStudentMembers(ctx context.Context, groupID uuid.UUID) (bool, error)
	ListForCoach(ctx context.Context, orgID, userID uuid.UUID) ([]workspace.Group, error)
	ListContainingStudents(ctx context.Context, orgID uuid.UUID, studentIDs []uuid.UUID) ([]workspace.Group, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (student.Student, error)
	GetAccountUserID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
	ListIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListIDsForParent(ctx context.Context, parentUserID uuid.UUID) ([]uuid.UUID, error)
	ListOwnedByOrg(ctx context.Context, orgID uuid.UUID) ([]student.Student, error)
	ListAssignedToCoach(ctx context.Context, orgID, coachUserID uuid.UUID) ([]student.Student, error)
	ListAssignmentsForStudents(ctx context.Context, studentIDs []uuid.UUID) ([]student.StudentAssignment, error)
	AnyLinkedToOrg(ctx context.Context, studentIDs []uuid.UUID, orgID uuid.UUID) (bool, error)
}

type ContactRepository interface {
	GetContactForPair(ctx context.Context, userA, userB uuid.UUID) (contact.CoachContact, error)
	ListContactsForUser(ctx context.Context, userID uuid.UUID) ([]contact.CoachContact, error)
	CreateContact(ctx context.Context, c *contact.CoachContact) error
	CreateRequest(ctx context.Context, r *contact.CoachContactRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (contact.CoachContactRequest, error)
	UpdateRequest(ctx context.Context, r contact.CoachContactRequest) error
	ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]contact.CoachContactRequest, error)
	ListPendingOutgoing(ctx context.Context, userID uuid.UUID) ([]contact.CoachContactRequest, error)
	HasPendingForPair(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type ThreadRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]thread.Thread, error)
	FindOneToOne(ctx context.Context, kind thread.Kind, orgID uuid.UUID, participantA, participantB uuid.UUID) (thread.Thread, error)
	Create(ctx context.Context, t *thread.Thread) error
	SetLastMessage(ctx context.Context, threadID uuid.UUID, messageID int64, at time.Time) error

	GetMember(ctx context.Context, threadID, userID uuid.UUID) (thread.ThreadMember, error)
	CreateMember(ctx context.Context, m *thread.ThreadMember) error
	ListMembers(ctx context.Context, threadID uuid.UUID) ([]thread.ThreadMember, error)
	ListMembershipsForUser(ctx context.Context, userID uuid.UUID) ([]thread.ThreadMember, error)
	UnhideAll(ctx context.Context, threadID uuid.UUID) error
	SetHidden(ctx context.Context, threadID, userID uuid.UUID, hiddenAt sql.NullTime) error
	AdvanceLastRead(ctx context.Context, threadID, userID uuid.UUID, messageID int64, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *thread.Message) error
	ListPageBefore(ctx context.Context, threadID uuid.UUID, beforeID int64, limit int) ([]thread.Message, error)
	ExistsInThread(ctx context.Context, threadID uuid.UUID, messageID int64) (bool, error)
	CountUnread(ctx context.Context, threadID uuid.UUID, lastRead sql.NullInt64, exceptSender uuid.UUID) (int64, error)
}

type FlagRepository interface {
	CreateAll(ctx context.Context, flags []thread.ContentFlag) error
	CountFlaggedMessagesBySenderSince(ctx context.Context, senderUserID, workspaceOrgID uuid.UUID, since time.Time) (int64, error)
}
