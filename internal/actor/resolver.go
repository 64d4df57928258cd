package actor

import (
	"context"
	"errors"

	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
)

// Context is everything the messaging core needs to know about the
// calling identity: who they are, which workspace they are acting in,
// and which student records they are linked to. Resolved once per
// request, never cached across requests.
type Context struct {
	UserID     uuid.UUID
	Profile    account.Profile
	Workspace  workspace.Workspace
	StudentIDs []uuid.UUID
}

func (c *Context) Role() string {
	return c.Profile.Role
}

func (c *Context) IsCoachLike() bool {
	return account.IsCoachLike(c.Profile.Role)
}

type Resolver struct {
	profileRepo   repository.ProfileRepository
	workspaceRepo repository.WorkspaceRepository
	studentRepo   repository.StudentRepository
}

func NewResolver(
	profileRepo repository.ProfileRepository,
	workspaceRepo repository.WorkspaceRepository,
	studentRepo repository.StudentRepository,
) *Resolver {
	return &Resolver{
		profileRepo:   profileRepo,
		workspaceRepo: workspaceRepo,
		studentRepo:   studentRepo,
	}
}

// Resolve loads the profile for an authenticated user id and resolves
// the active workspace as ActiveWorkspaceID falling back to OrgID. For
// student and parent actors it also loads the linked student ids;
// coach-like actors resolve reachable students through the contact
// engine instead.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (*Context, error) {
	profile, err := r.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, coachdesk_errors.ErrNotFound) {
			return nil, coachdesk_errors.ErrActorNotFound
		}
		return nil, err
	}

	workspaceID := profile.ActiveWorkspaceID
	if !workspaceID.Valid {
		workspaceID = profile.OrgID
	}
	if !workspaceID.Valid {
		return nil, coachdesk_errors.ErrWorkspaceNotFound
	}

	ws, err := r.workspaceRepo.GetByID(ctx, workspaceID.UUID)
	if err != nil {
		if errors.Is(err, coachdesk_errors.ErrNotFound) {
			return nil, coachdesk_errors.ErrWorkspaceNotFound
		}
		return nil, err
	}

	var studentIDs []uuid.UUID
	switch profile.Role {
	case account.RoleStudent:
		studentIDs, err = r.studentRepo.ListIDsForUser(ctx, userID)
	case account.RoleParent:
		studentIDs, err = r.studentRepo.ListIDsForParent(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return &Context{
		UserID:     userID,
		Profile:    profile,
		Workspace:  ws,
		StudentIDs: studentIDs,
	}, nil
}
