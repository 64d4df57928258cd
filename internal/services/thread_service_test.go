package services

import (
	"context"
	"testing"

	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/student"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type threadFixture struct {
	service     *ThreadService
	threadRepo  *memThreadRepo
	studentRepo *stubStudentRepo
	oracle      *stubOracle
}

func newThreadFixture(profiles map[uuid.UUID]account.Profile, memberships map[uuid.UUID]workspace.OrgMembership, oracle *stubOracle) *threadFixture {
	if oracle == nil {
		oracle = &stubOracle{}
	}
	threadRepo := newMemThreadRepo()
	studentRepo := &stubStudentRepo{
		students:   make(map[uuid.UUID]student.Student),
		accounts:   make(map[uuid.UUID]uuid.UUID),
		linkedOrgs: make(map[uuid.UUID]bool),
	}
	service := NewThreadService(
		threadRepo,
		&stubProfileRepo{profiles: profiles},
		studentRepo,
		&stubWorkspaceRepo{memberships: memberships},
		oracle,
	)
	return &threadFixture{service: service, threadRepo: threadRepo, studentRepo: studentRepo, oracle: oracle}
}

func TestOpenStudentThreadAsAssignedCoach(t *testing.T) {
	orgID := uuid.New()
	coachID := uuid.New()
	studentID := uuid.New()
	studentUserID := uuid.New()

	f := newThreadFixture(nil, map[uuid.UUID]workspace.OrgMembership{
		coachID: {OrgID: orgID, UserID: coachID, Role: workspace.MemberRoleCoach, Status: workspace.MemberStatusActive},
	}, nil)
	f.studentRepo.students[studentID] = student.Student{ID: studentID, OrgID: orgID}
	f.studentRepo.accounts[studentID] = studentUserID
	f.studentRepo.assignments = []student.StudentAssignment{
		{StudentID: studentID, OrgID: orgID, CoachUserID: coachID},
	}

	act := coachActor(coachID)
	act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

	th, err := f.service.OpenStudentThread(context.Background(), act, studentID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, thread.KindStudentCoach, th.Kind)
	assert.Equal(t, orgID, th.WorkspaceOrgID)
	assert.Equal(t, studentID, th.StudentID.UUID)

	// Both participants get membership rows immediately.
	assert.NotNil(t, f.threadRepo.member(th.ID, coachID))
	assert.NotNil(t, f.threadRepo.member(th.ID, studentUserID))

	// Second open returns the same thread.
	again, err := f.service.OpenStudentThread(context.Background(), act, studentID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, th.ID, again.ID)
}

func TestOpenStudentThreadUnassignedCoachDenied(t *testing.T) {
	orgID := uuid.New()
	coachID := uuid.New()
	studentID := uuid.New()

	f := newThreadFixture(nil, map[uuid.UUID]workspace.OrgMembership{
		coachID: {OrgID: orgID, UserID: coachID, Role: workspace.MemberRoleCoach, Status: workspace.MemberStatusActive},
	}, nil)
	f.studentRepo.students[studentID] = student.Student{ID: studentID, OrgID: orgID}

	act := coachActor(coachID)
	act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

	_, err := f.service.OpenStudentThread(context.Background(), act, studentID, uuid.Nil)
	assert.ErrorIs(t, err, coachdesk_errors.ErrForbidden)
}

func TestOpenStudentThreadAdminReachesLinkedStudent(t *testing.T) {
	orgID := uuid.New()
	adminID := uuid.New()
	studentID := uuid.New()
	studentUserID := uuid.New()

	f := newThreadFixture(nil, map[uuid.UUID]workspace.OrgMembership{
		adminID: {OrgID: orgID, UserID: adminID, Role: workspace.MemberRoleAdmin, Status: workspace.MemberStatusActive},
	}, nil)
	f.studentRepo.students[studentID] = student.Student{ID: studentID, OrgID: orgID}
	f.studentRepo.accounts[studentID] = studentUserID
	f.studentRepo.linkedOrgs[orgID] = true

	act := coachActor(adminID)
	act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

	_, err := f.service.OpenStudentThread(context.Background(), act, studentID, uuid.Nil)
	assert.NoError(t, err)
}

func TestOpenStudentThreadNoLinkedAccount(t *testing.T) {
	orgID := uuid.New()
	coachID := uuid.New()
	studentID := uuid.New()

	f := newThreadFixture(nil, map[uuid.UUID]workspace.OrgMembership{
		coachID: {OrgID: orgID, UserID: coachID, Role: workspace.MemberRoleCoach, Status: workspace.MemberStatusActive},
	}, nil)
	f.studentRepo.students[studentID] = student.Student{ID: studentID, OrgID: orgID}
	f.studentRepo.assignments = []student.StudentAssignment{
		{StudentID: studentID, OrgID: orgID, CoachUserID: coachID},
	}

	act := coachActor(coachID)
	act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

	_, err := f.service.OpenStudentThread(context.Background(), act, studentID, uuid.Nil)
	assert.ErrorIs(t, err, coachdesk_errors.ErrInvalidInput, "nobody to deliver to without a login")
}

func TestOpenStudentThreadAsStudent(t *testing.T) {
	orgID := uuid.New()
	coachID := uuid.New()
	strangerID := uuid.New()
	studentID := uuid.New()
	studentUserID := uuid.New()

	f := newThreadFixture(nil, nil, nil)
	f.studentRepo.assignments = []student.StudentAssignment{
		{StudentID: studentID, OrgID: orgID, CoachUserID: coachID},
	}

	act := studentActor(studentUserID)
	act.StudentIDs = []uuid.UUID{studentID}

	th, err := f.service.OpenStudentThread(context.Background(), act, uuid.Nil, coachID)
	require.NoError(t, err)
	assert.Equal(t, orgID, th.WorkspaceOrgID, "thread lives in the assignment's org")

	_, err = f.service.OpenStudentThread(context.Background(), act, uuid.Nil, strangerID)
	assert.ErrorIs(t, err, coachdesk_errors.ErrForbidden, "students only reach assigned coaches")
}

func TestOpenCoachThread(t *testing.T) {
	orgID := uuid.New()
	coachA := uuid.New()
	coachB := uuid.New()
	studentUserID := uuid.New()

	profiles := map[uuid.UUID]account.Profile{
		coachB:        {UserID: coachB, Role: account.RoleCoach},
		studentUserID: {UserID: studentUserID, Role: account.RoleStudent},
	}

	t.Run("requires opt-in or shared org", func(t *testing.T) {
		f := newThreadFixture(profiles, nil, &stubOracle{})
		act := coachActor(coachA)
		act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

		_, err := f.service.OpenCoachThread(context.Background(), act, coachB)
		assert.ErrorIs(t, err, coachdesk_errors.ErrForbidden)
	})

	t.Run("opt-in opens the thread", func(t *testing.T) {
		f := newThreadFixture(profiles, nil, &stubOracle{optIn: true})
		act := coachActor(coachA)
		act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

		th, err := f.service.OpenCoachThread(context.Background(), act, coachB)
		require.NoError(t, err)
		assert.Equal(t, thread.KindCoachCoach, th.Kind)
	})

	t.Run("shared active org opens the thread", func(t *testing.T) {
		f := newThreadFixture(profiles, nil, &stubOracle{
			staff: map[uuid.UUID]bool{coachA: true, coachB: true},
		})
		act := coachActor(coachA)
		act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

		_, err := f.service.OpenCoachThread(context.Background(), act, coachB)
		assert.NoError(t, err)
	})

	t.Run("target must be coach-like", func(t *testing.T) {
		f := newThreadFixture(profiles, nil, &stubOracle{optIn: true})
		act := coachActor(coachA)
		act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

		_, err := f.service.OpenCoachThread(context.Background(), act, studentUserID)
		assert.ErrorIs(t, err, coachdesk_errors.ErrForbidden)
	})

	t.Run("self-thread denied", func(t *testing.T) {
		f := newThreadFixture(profiles, nil, &stubOracle{optIn: true})
		act := coachActor(coachA)
		act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

		_, err := f.service.OpenCoachThread(context.Background(), act, coachA)
		assert.ErrorIs(t, err, coachdesk_errors.ErrForbidden)
	})
}

func TestFindOrCreateResolvesRace(t *testing.T) {
	orgID := uuid.New()
	coachA := uuid.New()
	coachB := uuid.New()

	f := newThreadFixture(map[uuid.UUID]account.Profile{
		coachB: {UserID: coachB, Role: account.RoleCoach},
	}, nil, &stubOracle{optIn: true})

	// Another request won the insert between our find and create.
	a, b := thread.OrderParticipants(coachA, coachB)
	winner := thread.Thread{
		ID:             uuid.New(),
		Kind:           thread.KindCoachCoach,
		WorkspaceOrgID: orgID,
		ParticipantAID: uuid.NullUUID{UUID: a, Valid: true},
		ParticipantBID: uuid.NullUUID{UUID: b, Valid: true},
	}
	f.threadRepo.createErr = coachdesk_errors.ErrAlreadyExists
	f.threadRepo.findMisses = 1
	f.threadRepo.add(winner)

	act := coachActor(coachA)
	act.Workspace = workspace.Workspace{ID: orgID, Type: workspace.TypeOrg}

	th, err := f.service.OpenCoachThread(context.Background(), act, coachB)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, th.ID, "duplicate-key races re-read the winner")
}
