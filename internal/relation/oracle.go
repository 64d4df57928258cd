package relation

import (
	"context"
	"errors"

	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
)

// Oracle answers the membership and linkage predicates the contact engine
// and the access validator are built on. Every authorization decision in
// the messaging core goes through these four questions; nothing else
// re-derives them.
type Oracle interface {
	IsCoachLikeActiveOrgMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)
	IsUserInOrgGroup(ctx context.Context, userID, groupID uuid.UUID) (bool, error)
	IsStudentLinkedToOrganization(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
	HasCoachContactOptIn(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type DBOracle struct {
	workspaceRepo repository.WorkspaceRepository
	groupRepo     repository.GroupRepository
	studentRepo   repository.StudentRepository
	contactRepo   repository.ContactRepository
}

func NewOracle(
	workspaceRepo repository.WorkspaceRepository,
	groupRepo repository.GroupRepository,
	studentRepo repository.StudentRepository,
	contactRepo repository.ContactRepository,
) *DBOracle {
	return &DBOracle{
		workspaceRepo: workspaceRepo,
		groupRepo:     groupRepo,
		studentRepo:   studentRepo,
		contactRepo:   contactRepo,
	}
}

func (o *DBOracle) IsCoachLikeActiveOrgMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	m, err := o.workspaceRepo.GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, coachdesk_errors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if m.Status != workspace.MemberStatusActive {
		return false, nil
	}
	return m.Role == workspace.MemberRoleAdmin || m.Role == workspace.MemberRoleCoach, nil
}

// IsUserInOrgGroup is true for group coaches and for students whose
// linked student record sits in the group roster.
func (o *DBOracle) IsUserInOrgGroup(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	isCoach, err := o.groupRepo.IsGroupCoach(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	if isCoach {
		return true, nil
	}

	studentIDs, err := o.studentRepo.ListIDsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return o.groupRepo.ContainsAnyStudent(ctx, groupID, studentIDs)
}

func (o *DBOracle) IsStudentLinkedToOrganization(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	studentIDs, err := o.studentRepo.ListIDsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return o.studentRepo.AnyLinkedToOrg(ctx, studentIDs, orgID)
}

func (o *DBOracle) HasCoachContactOptIn(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	_, err := o.contactRepo.GetContactForPair(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, coachdesk_errors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
