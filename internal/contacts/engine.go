package contacts

import (
	"context"
	"errors"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"
	"coachdesk/pkg/logger"

	"github.com/google/uuid"
)

// Contact sources. A coach visible through both channels is shown once,
// tagged same_org.
const (
	SourceSameOrg = "same_org"
	SourceOptIn   = "opt_in"
)

// CoachEntry is one coach the actor may message.
type CoachEntry struct {
	UserID    uuid.UUID
	FullName  string
	AvatarURL string
	Source    string
}

// StudentEntry is one student the actor may message. Only ever exposes
// the student's own identity, never other students' coaches.
type StudentEntry struct {
	StudentID uuid.UUID
	FullName  string
	AvatarURL string
}

// GroupEntry is one group channel the actor may post into or read.
type GroupEntry struct {
	GroupID uuid.UUID
	Name    string
}

// PendingRequest is an actionable coach-contact request, surfaced
// separately from contacts.
type PendingRequest struct {
	RequestID uuid.UUID
	UserID    uuid.UUID
	FullName  string
	AvatarURL string
}

// Result is the complete set of valid message destinations for an actor,
// partitioned by destination type.
type Result struct {
	CoachContacts   []CoachEntry
	StudentTargets  []StudentEntry
	GroupTargets    []GroupEntry
	PendingIncoming []PendingRequest
	PendingOutgoing []PendingRequest
}

// Engine resolves message targets per actor role. Contact listing is
// advisory, not authorization-critical, so partial data-source failures
// degrade to empty sub-lists instead of failing the response.
type Engine struct {
	profileRepo   repository.ProfileRepository
	workspaceRepo repository.WorkspaceRepository
	groupRepo     repository.GroupRepository
	studentRepo   repository.StudentRepository
	contactRepo   repository.ContactRepository
	log           *logger.Logger
}

func NewEngine(
	profileRepo repository.ProfileRepository,
	workspaceRepo repository.WorkspaceRepository,
	groupRepo repository.GroupRepository,
	studentRepo repository.StudentRepository,
	contactRepo repository.ContactRepository,
	log *logger.Logger,
) *Engine {
	return &Engine{
		profileRepo:   profileRepo,
		workspaceRepo: workspaceRepo,
		groupRepo:     groupRepo,
		studentRepo:   studentRepo,
		contactRepo:   contactRepo,
		log:           log,
	}
}

func (e *Engine) Resolve(ctx context.Context, act *actor.Context) (*Result, error) {
	if act.IsCoachLike() {
		return e.resolveCoachLike(ctx, act)
	}
	return e.resolveStudentSide(ctx, act)
}

// resolveStudentSide covers student and parent actors: direct targets
// are the coaches assigned to any linked student, plus the groups in the
// active workspace containing those students. Student-to-student contact
// is never offered.
func (e *Engine) resolveStudentSide(ctx context.Context, act *actor.Context) (*Result, error) {
	out := &Result{}
	if len(act.StudentIDs) == 0 {
		return out, nil
	}

	assignments, err := e.studentRepo.ListAssignmentsForStudents(ctx, act.StudentIDs)
	if err != nil {
		e.warn(err, "contacts: assignments lookup failed")
	} else {
		seen := make(map[uuid.UUID]bool)
		var coachIDs []uuid.UUID
		for _, a := range assignments {
			if !seen[a.CoachUserID] {
				seen[a.CoachUserID] = true
				coachIDs = append(coachIDs, a.CoachUserID)
			}
		}
		out.CoachContacts = e.coachEntries(ctx, coachIDs, SourceSameOrg, nil)
	}

	groups, err := e.groupRepo.ListContainingStudents(ctx, act.Workspace.ID, act.StudentIDs)
	if err != nil {
		e.warn(err, "contacts: group lookup failed")
	} else {
		for _, g := range groups {
			out.GroupTargets = append(out.GroupTargets, GroupEntry{GroupID: g.ID, Name: g.Name})
		}
	}

	return out, nil
}

func (e *Engine) resolveCoachLike(ctx context.Context, act *actor.Context) (*Result, error) {
	out := &Result{}

	switch act.Workspace.Type {
	case workspace.TypePersonal:
		// Student targets: every student owned by the workspace, owner only.
		if act.Workspace.OwnerProfileID.Valid && act.Workspace.OwnerProfileID.UUID == act.Profile.ID {
			e.appendOwnedStudents(ctx, act.Workspace.ID, out)
		}
	case workspace.TypeOrg:
		membership, err := e.workspaceRepo.GetMembership(ctx, act.Workspace.ID, act.UserID)
		if err != nil && !errors.Is(err, coachdesk_errors.ErrNotFound) {
			e.warn(err, "contacts: membership lookup failed")
		}
		if err == nil && membership.Role == workspace.MemberRoleAdmin {
			e.appendOwnedStudents(ctx, act.Workspace.ID, out)
		} else {
			students, err := e.studentRepo.ListAssignedToCoach(ctx, act.Workspace.ID, act.UserID)
			if err != nil {
				e.warn(err, "contacts: assigned students lookup failed")
			}
			for _, s := range students {
				out.StudentTargets = append(out.StudentTargets, StudentEntry{
					StudentID: s.ID,
					FullName:  s.FullName,
					AvatarURL: s.AvatarURL.String,
				})
			}
		}

		groups, err := e.groupRepo.ListForCoach(ctx, act.Workspace.ID, act.UserID)
		if err != nil {
			e.warn(err, "contacts: coach groups lookup failed")
		}
		for _, g := range groups {
			out.GroupTargets = append(out.GroupTargets, GroupEntry{GroupID: g.ID, Name: g.Name})
		}
	}

	e.appendCoachContacts(ctx, act, out)
	e.appendPendingRequests(ctx, act.UserID, out)
	return out, nil
}

func (e *Engine) appendOwnedStudents(ctx context.Context, orgID uuid.UUID, out *Result) {
	students, err := e.studentRepo.ListOwnedByOrg(ctx, orgID)
	if err != nil {
		e.warn(err, "contacts: owned students lookup failed")
		return
	}
	for _, s := range students {
		out.StudentTargets = append(out.StudentTargets, StudentEntry{
			StudentID: s.ID,
			FullName:  s.FullName,
			AvatarURL: s.AvatarURL.String,
		})
	}
}

// appendCoachContacts unions same-org active members with accepted
// opt-in contacts. Same-org availability wins the dedup when a coach is
// reachable both ways.
func (e *Engine) appendCoachContacts(ctx context.Context, act *actor.Context, out *Result) {
	seen := make(map[uuid.UUID]bool)

	if act.Workspace.Type == workspace.TypeOrg {
		members, err := e.workspaceRepo.ListActiveMembers(ctx, act.Workspace.ID)
		if err != nil {
			e.warn(err, "contacts: active members lookup failed")
		} else {
			var ids []uuid.UUID
			for _, m := range members {
				if m.UserID != act.UserID {
					ids = append(ids, m.UserID)
				}
			}
			out.CoachContacts = append(out.CoachContacts, e.coachEntries(ctx, ids, SourceSameOrg, seen)...)
		}
	}

	optIns, err := e.contactRepo.ListContactsForUser(ctx, act.UserID)
	if err != nil {
		e.warn(err, "contacts: opt-in lookup failed")
		return
	}
	var ids []uuid.UUID
	for _, c := range optIns {
		other := c.UserAID
		if other == act.UserID {
			other = c.UserBID
		}
		ids = append(ids, other)
	}
	out.CoachContacts = append(out.CoachContacts, e.coachEntries(ctx, ids, SourceOptIn, seen)...)
}

func (e *Engine) appendPendingRequests(ctx context.Context, userID uuid.UUID, out *Result) {
	incoming, err := e.contactRepo.ListPendingIncoming(ctx, userID)
	if err != nil {
		e.warn(err, "contacts: pending incoming lookup failed")
	} else {
		for _, req := range incoming {
			out.PendingIncoming = append(out.PendingIncoming, e.pendingEntry(ctx, req.ID, req.RequesterUserID))
		}
	}

	outgoing, err := e.contactRepo.ListPendingOutgoing(ctx, userID)
	if err != nil {
		e.warn(err, "contacts: pending outgoing lookup failed")
	} else {
		for _, req := range outgoing {
			out.PendingOutgoing = append(out.PendingOutgoing, e.pendingEntry(ctx, req.ID, req.RecipientUserID))
		}
	}
}

func (e *Engine) pendingEntry(ctx context.Context, requestID, otherUserID uuid.UUID) PendingRequest {
	entry := PendingRequest{RequestID: requestID, UserID: otherUserID}
	if p, err := e.profileRepo.GetByUserID(ctx, otherUserID); err == nil {
		entry.FullName = p.FullName
		entry.AvatarURL = p.AvatarURL.String
	}
	return entry
}

// coachEntries resolves profiles for the given user ids and returns
// entries tagged with source, skipping ids already in seen.
func (e *Engine) coachEntries(ctx context.Context, userIDs []uuid.UUID, source string, seen map[uuid.UUID]bool) []CoachEntry {
	if len(userIDs) == 0 {
		return nil
	}
	var fresh []uuid.UUID
	for _, id := range userIDs {
		if seen != nil && seen[id] {
			continue
		}
		if seen != nil {
			seen[id] = true
		}
		fresh = append(fresh, id)
	}
	if len(fresh) == 0 {
		return nil
	}

	profiles, err := e.profileRepo.GetByUserIDs(ctx, fresh)
	if err != nil {
		e.warn(err, "contacts: profile lookup failed")
		return nil
	}
	byID := make(map[uuid.UUID]account.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}

	var entries []CoachEntry
	for _, id := range fresh {
		p, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, CoachEntry{
			UserID:    id,
			FullName:  p.FullName,
			AvatarURL: p.AvatarURL.String,
			Source:    source,
		})
	}
	return entries
}

func (e *Engine) warn(err error, msg string) {
	if e.log != nil {
		e.log.Warnf("%s: %v", msg, err)
	}
}
