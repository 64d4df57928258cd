package access

import (
	"context"
	"errors"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/relation"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
)

// Mode is the direction of access being checked.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Grant is a successful access decision: the thread, the caller's own
// membership row (nil when the caller has not joined a roster-derived
// thread yet), and for 1:1 kinds the counterpart's membership row.
type Grant struct {
	Thread            thread.Thread
	OwnMember         *thread.ThreadMember
	CounterpartMember *thread.ThreadMember
}

// Validator is the one authorization gate for existing threads. It loads
// the thread, dispatches to the kind rule table, applies the freeze
// check, and never creates or mutates rows: calling it twice with
// unchanged state yields the same decision.
type Validator struct {
	threadRepo repository.ThreadRepository
	oracle     relation.Oracle
}

func NewValidator(threadRepo repository.ThreadRepository, oracle relation.Oracle) *Validator {
	return &Validator{threadRepo: threadRepo, oracle: oracle}
}

func (v *Validator) Validate(ctx context.Context, threadID uuid.UUID, act *actor.Context, mode Mode) (*Grant, error) {
	t, err := v.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return v.ValidateThread(ctx, t, act, mode)
}

func (v *Validator) ValidateThread(ctx context.Context, t thread.Thread, act *actor.Context, mode Mode) (*Grant, error) {
	r, ok := kindRules[t.Kind]
	if !ok {
		// Unknown kind fails closed.
		return nil, coachdesk_errors.ErrForbidden
	}

	rc := ruleContext{thread: t, actor: act, oracle: v.oracle}
	if mode == ModeWrite {
		if err := r.checkWrite(ctx, rc); err != nil {
			return nil, err
		}
		// Freeze beats every role, including workspace admins. Reads
		// stay open so the history remains visible.
		if t.Frozen() {
			return nil, coachdesk_errors.ErrThreadFrozen
		}
	} else {
		if err := r.checkRead(ctx, rc); err != nil {
			return nil, err
		}
	}

	grant := &Grant{Thread: t}

	own, err := v.threadRepo.GetMember(ctx, t.ID, act.UserID)
	if err == nil {
		grant.OwnMember = &own
	} else if !errors.Is(err, coachdesk_errors.ErrNotFound) {
		return nil, err
	}

	if t.Kind.IsOneToOne() {
		other := t.ParticipantAID.UUID
		if other == act.UserID {
			other = t.ParticipantBID.UUID
		}
		counterpart, err := v.threadRepo.GetMember(ctx, t.ID, other)
		if err == nil {
			grant.CounterpartMember = &counterpart
		} else if !errors.Is(err, coachdesk_errors.ErrNotFound) {
			return nil, err
		}
	}

	return grant, nil
}
