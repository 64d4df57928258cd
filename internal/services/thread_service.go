package services

import (
	"context"
	"errors"
	"time"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/relation"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
)

// ThreadService handles lazy 1:1 thread creation. A thread between the
// same kind, workspace and participant pair is found-or-created, never
// duplicated: the unique index does the heavy lifting and a re-read
// resolves the race when two first messages cross.
type ThreadService struct {
	threadRepo    repository.ThreadRepository
	profileRepo   repository.ProfileRepository
	studentRepo   repository.StudentRepository
	workspaceRepo repository.WorkspaceRepository
	oracle        relation.Oracle
}

func NewThreadService(
	threadRepo repository.ThreadRepository,
	profileRepo repository.ProfileRepository,
	studentRepo repository.StudentRepository,
	workspaceRepo repository.WorkspaceRepository,
	oracle relation.Oracle,
) *ThreadService {
	return &ThreadService{
		threadRepo:    threadRepo,
		profileRepo:   profileRepo,
		studentRepo:   studentRepo,
		workspaceRepo: workspaceRepo,
		oracle:        oracle,
	}
}

// OpenStudentThread finds or creates the student_coach thread between
// the caller and a student. Coaches address the student record; student
// and parent actors address the coach.
func (s *ThreadService) OpenStudentThread(ctx context.Context, act *actor.Context, studentID, coachUserID uuid.UUID) (thread.Thread, error) {
	if act.IsCoachLike() {
		return s.openStudentThreadAsCoach(ctx, act, studentID)
	}
	return s.openStudentThreadAsStudent(ctx, act, coachUserID)
}

func (s *ThreadService) openStudentThreadAsCoach(ctx context.Context, act *actor.Context, studentID uuid.UUID) (thread.Thread, error) {
	st, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return thread.Thread{}, err
	}

	ok, err := s.canCoachReachStudent(ctx, act, st.ID, st.OrgID)
	if err != nil {
		return thread.Thread{}, err
	}
	if !ok {
		return thread.Thread{}, coachdesk_errors.ErrForbidden
	}

	studentUserID, err := s.studentRepo.GetAccountUserID(ctx, studentID)
	if err != nil {
		if errors.Is(err, coachdesk_errors.ErrNotFound) {
			// No login linked; there is nobody to deliver to.
			return thread.Thread{}, coachdesk_errors.ErrInvalidInput
		}
		return thread.Thread{}, err
	}

	return s.findOrCreate(ctx, thread.KindStudentCoach, act.Workspace.ID, act.UserID, studentUserID, uuid.NullUUID{UUID: studentID, Valid: true})
}

func (s *ThreadService) openStudentThreadAsStudent(ctx context.Context, act *actor.Context, coachUserID uuid.UUID) (thread.Thread, error) {
	if len(act.StudentIDs) == 0 {
		return thread.Thread{}, coachdesk_errors.ErrForbidden
	}

	assignments, err := s.studentRepo.ListAssignmentsForStudents(ctx, act.StudentIDs)
	if err != nil {
		return thread.Thread{}, err
	}
	for _, a := range assignments {
		if a.CoachUserID == coachUserID {
			return s.findOrCreate(ctx, thread.KindStudentCoach, a.OrgID, coachUserID, act.UserID, uuid.NullUUID{UUID: a.StudentID, Valid: true})
		}
	}
	return thread.Thread{}, coachdesk_errors.ErrForbidden
}

// OpenCoachThread finds or creates the coach_coach thread between two
// coach-like users. First contact requires the same relationship a
// write does: an accepted opt-in or shared org membership.
func (s *ThreadService) OpenCoachThread(ctx context.Context, act *actor.Context, otherUserID uuid.UUID) (thread.Thread, error) {
	if !act.IsCoachLike() || otherUserID == act.UserID {
		return thread.Thread{}, coachdesk_errors.ErrForbidden
	}

	other, err := s.profileRepo.GetByUserID(ctx, otherUserID)
	if err != nil {
		return thread.Thread{}, err
	}
	if !account.IsCoachLike(other.Role) {
		return thread.Thread{}, coachdesk_errors.ErrForbidden
	}

	optIn, err := s.oracle.HasCoachContactOptIn(ctx, act.UserID, otherUserID)
	if err != nil {
		return thread.Thread{}, err
	}
	if !optIn {
		sameOrg, err := s.oracle.IsCoachLikeActiveOrgMember(ctx, act.Workspace.ID, otherUserID)
		if err != nil {
			return thread.Thread{}, err
		}
		self, err := s.oracle.IsCoachLikeActiveOrgMember(ctx, act.Workspace.ID, act.UserID)
		if err != nil {
			return thread.Thread{}, err
		}
		if !sameOrg || !self {
			return thread.Thread{}, coachdesk_errors.ErrForbidden
		}
	}

	return s.findOrCreate(ctx, thread.KindCoachCoach, act.Workspace.ID, act.UserID, otherUserID, uuid.NullUUID{})
}

func (s *ThreadService) canCoachReachStudent(ctx context.Context, act *actor.Context, studentID, owningOrgID uuid.UUID) (bool, error) {
	ws := act.Workspace
	if ws.Type == workspace.TypePersonal {
		return ws.OwnerProfileID.Valid && ws.OwnerProfileID.UUID == act.Profile.ID && owningOrgID == ws.ID, nil
	}

	membership, err := s.workspaceRepo.GetMembership(ctx, ws.ID, act.UserID)
	if err != nil {
		if errors.Is(err, coachdesk_errors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if membership.Status != workspace.MemberStatusActive {
		return false, nil
	}

	if membership.Role == workspace.MemberRoleAdmin {
		return s.studentRepo.AnyLinkedToOrg(ctx, []uuid.UUID{studentID}, ws.ID)
	}

	assignments, err := s.studentRepo.ListAssignmentsForStudents(ctx, []uuid.UUID{studentID})
	if err != nil {
		return false, err
	}
	for _, a := range assignments {
		if a.OrgID == ws.ID && a.CoachUserID == act.UserID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ThreadService) findOrCreate(ctx context.Context, kind thread.Kind, orgID, userA, userB uuid.UUID, studentID uuid.NullUUID) (thread.Thread, error) {
	existing, err := s.threadRepo.FindOneToOne(ctx, kind, orgID, userA, userB)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, coachdesk_errors.ErrNotFound) {
		return thread.Thread{}, err
	}

	now := time.Now().UTC()
	a, b := thread.OrderParticipants(userA, userB)
	t := thread.Thread{
		ID:             uuid.New(),
		Kind:           kind,
		WorkspaceOrgID: orgID,
		StudentID:      studentID,
		ParticipantAID: uuid.NullUUID{UUID: a, Valid: true},
		ParticipantBID: uuid.NullUUID{UUID: b, Valid: true},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = s.threadRepo.Create(ctx, &t)
	if errors.Is(err, coachdesk_errors.ErrAlreadyExists) {
		// Lost the race to a concurrent first contact; use theirs.
		return s.threadRepo.FindOneToOne(ctx, kind, orgID, userA, userB)
	}
	if err != nil {
		return thread.Thread{}, err
	}

	for _, userID := range []uuid.UUID{a, b} {
		err := s.threadRepo.CreateMember(ctx, &thread.ThreadMember{
			ThreadID: t.ID,
			UserID:   userID,
			JoinedAt: now,
		})
		if err != nil && !errors.Is(err, coachdesk_errors.ErrAlreadyExists) {
			return thread.Thread{}, err
		}
	}
	return t, nil
}
