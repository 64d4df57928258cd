package actor

import (
	"context"
	"testing"

	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfileRepo struct {
	repository.ProfileRepository
	profiles map[uuid.UUID]account.Profile
}

func (r *stubProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (account.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return account.Profile{}, coachdesk_errors.ErrNotFound
	}
	return p, nil
}

type stubWorkspaceRepo struct {
	repository.WorkspaceRepository
	workspaces map[uuid.UUID]workspace.Workspace
}

func (r *stubWorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (workspace.Workspace, error) {
	w, ok := r.workspaces[id]
	if !ok {
		return workspace.Workspace{}, coachdesk_errors.ErrNotFound
	}
	return w, nil
}

type stubStudentRepo struct {
	repository.StudentRepository
	byUser   map[uuid.UUID][]uuid.UUID
	byParent map[uuid.UUID][]uuid.UUID
}

func (r *stubStudentRepo) ListIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.byUser[userID], nil
}

func (r *stubStudentRepo) ListIDsForParent(ctx context.Context, parentUserID uuid.UUID) ([]uuid.UUID, error) {
	return r.byParent[parentUserID], nil
}

func newResolverFixture() (*Resolver, *stubProfileRepo, *stubWorkspaceRepo, *stubStudentRepo) {
	profiles := &stubProfileRepo{profiles: make(map[uuid.UUID]account.Profile)}
	workspaces := &stubWorkspaceRepo{workspaces: make(map[uuid.UUID]workspace.Workspace)}
	students := &stubStudentRepo{
		byUser:   make(map[uuid.UUID][]uuid.UUID),
		byParent: make(map[uuid.UUID][]uuid.UUID),
	}
	return NewResolver(profiles, workspaces, students), profiles, workspaces, students
}

func TestResolveCoach(t *testing.T) {
	r, profiles, workspaces, _ := newResolverFixture()

	userID := uuid.New()
	activeID := uuid.New()
	orgID := uuid.New()

	profiles.profiles[userID] = account.Profile{
		UserID:            userID,
		Role:              account.RoleCoach,
		OrgID:             uuid.NullUUID{UUID: orgID, Valid: true},
		ActiveWorkspaceID: uuid.NullUUID{UUID: activeID, Valid: true},
	}
	workspaces.workspaces[activeID] = workspace.Workspace{ID: activeID, Type: workspace.TypeOrg}

	act, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, activeID, act.Workspace.ID, "active workspace wins over org")
	assert.True(t, act.IsCoachLike())
	assert.Empty(t, act.StudentIDs, "coach-like actors carry no student links")
}

func TestResolveWorkspaceFallsBackToOrg(t *testing.T) {
	r, profiles, workspaces, _ := newResolverFixture()

	userID := uuid.New()
	orgID := uuid.New()

	profiles.profiles[userID] = account.Profile{
		UserID: userID,
		Role:   account.RoleCoach,
		OrgID:  uuid.NullUUID{UUID: orgID, Valid: true},
	}
	workspaces.workspaces[orgID] = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

	act, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, orgID, act.Workspace.ID)
}

func TestResolveStudentLoadsLinks(t *testing.T) {
	r, profiles, workspaces, students := newResolverFixture()

	userID := uuid.New()
	orgID := uuid.New()
	studentID := uuid.New()

	profiles.profiles[userID] = account.Profile{
		UserID: userID,
		Role:   account.RoleStudent,
		OrgID:  uuid.NullUUID{UUID: orgID, Valid: true},
	}
	workspaces.workspaces[orgID] = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}
	students.byUser[userID] = []uuid.UUID{studentID}

	act, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{studentID}, act.StudentIDs)
	assert.False(t, act.IsCoachLike())
}

func TestResolveParentLoadsChildLinks(t *testing.T) {
	r, profiles, workspaces, students := newResolverFixture()

	userID := uuid.New()
	orgID := uuid.New()
	childA := uuid.New()
	childB := uuid.New()

	profiles.profiles[userID] = account.Profile{
		UserID: userID,
		Role:   account.RoleParent,
		OrgID:  uuid.NullUUID{UUID: orgID, Valid: true},
	}
	workspaces.workspaces[orgID] = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}
	students.byParent[userID] = []uuid.UUID{childA, childB}

	act, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, act.StudentIDs, 2, "parents act on behalf of their children")
}

func TestResolveUnknownUser(t *testing.T) {
	r, _, _, _ := newResolverFixture()

	_, err := r.Resolve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, coachdesk_errors.ErrActorNotFound)
}

func TestResolveWithoutWorkspace(t *testing.T) {
	r, profiles, _, _ := newResolverFixture()

	userID := uuid.New()
	profiles.profiles[userID] = account.Profile{UserID: userID, Role: account.RoleCoach}

	_, err := r.Resolve(context.Background(), userID)
	assert.ErrorIs(t, err, coachdesk_errors.ErrWorkspaceNotFound)
}

func TestResolveDanglingWorkspace(t *testing.T) {
	r, profiles, _, _ := newResolverFixture()

	userID := uuid.New()
	profiles.profiles[userID] = account.Profile{
		UserID: userID,
		Role:   account.RoleCoach,
		OrgID:  uuid.NullUUID{UUID: uuid.New(), Valid: true},
	}

	_, err := r.Resolve(context.Background(), userID)
	assert.ErrorIs(t, err, coachdesk_errors.ErrWorkspaceNotFound)
}
