package access

import (
	"context"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/relation"
	coachdesk_errors "coachdesk/pkg/errors"
)

// ruleContext carries everything a kind rule may consult. Rules only
// read from it; they never mutate state.
type ruleContext struct {
	thread thread.Thread
	actor  *actor.Context
	oracle relation.Oracle
}

// rule is the per-kind authorization capability. One value per thread
// kind; the table in kindRules is the single source of truth for who can
// do what to which conversation shape.
type rule interface {
	checkRead(ctx context.Context, rc ruleContext) error
	checkWrite(ctx context.Context, rc ruleContext) error
}

var kindRules = map[thread.Kind]rule{
	thread.KindStudentCoach: studentCoachRule{},
	thread.KindCoachCoach:   coachCoachRule{},
	thread.KindGroup:        groupRule{},
	thread.KindGroupInfo:    groupInfoRule{},
	thread.KindOrgInfo:      orgInfoRule{},
	thread.KindOrgCoaches:   orgCoachesRule{},
}

func isParticipant(rc ruleContext) bool {
	t := rc.thread
	id := rc.actor.UserID
	return (t.ParticipantAID.Valid && t.ParticipantAID.UUID == id) ||
		(t.ParticipantBID.Valid && t.ParticipantBID.UUID == id)
}

// student_coach: both fixed participants, and nobody else.
type studentCoachRule struct{}

func (studentCoachRule) checkRead(ctx context.Context, rc ruleContext) error {
	if !isParticipant(rc) {
		return coachdesk_errors.ErrForbidden
	}
	return nil
}

func (studentCoachRule) checkWrite(ctx context.Context, rc ruleContext) error {
	if !isParticipant(rc) {
		return coachdesk_errors.ErrForbidden
	}
	return nil
}

// coach_coach: participants only, and writing additionally requires a
// live opt-in or shared org membership. An existing thread does not
// grandfather past a revoked opt-in.
type coachCoachRule struct{}

func (coachCoachRule) checkRead(ctx context.Context, rc ruleContext) error {
	if !isParticipant(rc) {
		return coachdesk_errors.ErrForbidden
	}
	return nil
}

func (coachCoachRule) checkWrite(ctx context.Context, rc ruleContext) error {
	if !isParticipant(rc) {
		return coachdesk_errors.ErrForbidden
	}

	other := rc.thread.ParticipantAID.UUID
	if other == rc.actor.UserID {
		other = rc.thread.ParticipantBID.UUID
	}

	optIn, err := rc.oracle.HasCoachContactOptIn(ctx, rc.actor.UserID, other)
	if err != nil {
		return err
	}
	if optIn {
		return nil
	}

	sameOrg, err := rc.oracle.IsCoachLikeActiveOrgMember(ctx, rc.thread.WorkspaceOrgID, rc.actor.UserID)
	if err != nil {
		return err
	}
	if sameOrg {
		return nil
	}
	return coachdesk_errors.ErrForbidden
}

// group: membership is derived from the group roster. Any member, coach
// or student, may read and post.
type groupRule struct{}

func (groupRule) checkRead(ctx context.Context, rc ruleContext) error {
	return requireGroupMember(ctx, rc)
}

func (groupRule) checkWrite(ctx context.Context, rc ruleContext) error {
	return requireGroupMember(ctx, rc)
}

// group_info: the announcement channel of a group. Same membership check
// as group, but students may read and never post, even though they may
// post in the parallel group thread.
type groupInfoRule struct{}

func (groupInfoRule) checkRead(ctx context.Context, rc ruleContext) error {
	return requireGroupMember(ctx, rc)
}

func (groupInfoRule) checkWrite(ctx context.Context, rc ruleContext) error {
	if err := requireGroupMember(ctx, rc); err != nil {
		return err
	}
	if !rc.actor.IsCoachLike() {
		return coachdesk_errors.ErrForbidden
	}
	return nil
}

func requireGroupMember(ctx context.Context, rc ruleContext) error {
	if !rc.thread.GroupID.Valid {
		return coachdesk_errors.ErrForbidden
	}
	ok, err := rc.oracle.IsUserInOrgGroup(ctx, rc.actor.UserID, rc.thread.GroupID.UUID)
	if err != nil {
		return err
	}
	if !ok {
		return coachdesk_errors.ErrForbidden
	}
	return nil
}

// org_info: workspace-wide announcements. Readable by staff and by any
// student linked to the workspace; writable by staff only.
type orgInfoRule struct{}

func (orgInfoRule) checkRead(ctx context.Context, rc ruleContext) error {
	staff, err := rc.oracle.IsCoachLikeActiveOrgMember(ctx, rc.thread.WorkspaceOrgID, rc.actor.UserID)
	if err != nil {
		return err
	}
	if staff {
		return nil
	}
	linked, err := rc.oracle.IsStudentLinkedToOrganization(ctx, rc.actor.UserID, rc.thread.WorkspaceOrgID)
	if err != nil {
		return err
	}
	if linked {
		return nil
	}
	return coachdesk_errors.ErrForbidden
}

func (orgInfoRule) checkWrite(ctx context.Context, rc ruleContext) error {
	return requireActiveStaff(ctx, rc)
}

// org_coaches: the staff room. Both directions staff-only.
type orgCoachesRule struct{}

func (orgCoachesRule) checkRead(ctx context.Context, rc ruleContext) error {
	return requireActiveStaff(ctx, rc)
}

func (orgCoachesRule) checkWrite(ctx context.Context, rc ruleContext) error {
	return requireActiveStaff(ctx, rc)
}

func requireActiveStaff(ctx context.Context, rc ruleContext) error {
	ok, err := rc.oracle.IsCoachLikeActiveOrgMember(ctx, rc.thread.WorkspaceOrgID, rc.actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return coachdesk_errors.ErrForbidden
	}
	return nil
}
