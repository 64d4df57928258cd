package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachdesk/internal/access"
	"coachdesk/internal/actor"
	"coachdesk/internal/audit"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/moderation"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"
	"coachdesk/pkg/logger"

	"github.com/google/uuid"
)

// MessagePage is one page of thread history plus the caller's read
// state.
type MessagePage struct {
	Messages   []thread.Message
	NextCursor *int64
	LastReadID *int64
}

const defaultPageLimit = 50
const maxPageLimit = 200

// MessageService runs the delivery pipeline: access validation, content
// guard, persistence, unhide and read-pointer bookkeeping. The rate
// limiter sits in front of it as middleware.
type MessageService struct {
	threadRepo  repository.ThreadRepository
	messageRepo repository.MessageRepository
	flagRepo    repository.FlagRepository
	groupRepo   repository.GroupRepository
	validator   *access.Validator
	policy      moderation.Policy
	recurCount  int
	recurWindow time.Duration
	sink        audit.Sink
	log         *logger.Logger
}

func NewMessageService(
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	flagRepo repository.FlagRepository,
	groupRepo repository.GroupRepository,
	validator *access.Validator,
	policy moderation.Policy,
	recurCount int,
	recurWindow time.Duration,
	sink audit.Sink,
	log *logger.Logger,
) *MessageService {
	if sink == nil {
		sink = audit.NopSink{}
	}
	if recurCount <= 0 {
		recurCount = 3
	}
	if recurWindow <= 0 {
		recurWindow = 24 * time.Hour
	}
	return &MessageService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		flagRepo:    flagRepo,
		groupRepo:   groupRepo,
		validator:   validator,
		policy:      policy,
		recurCount:  recurCount,
		recurWindow: recurWindow,
		sink:        sink,
		log:         log,
	}
}

// Send persists an outgoing message after the full gate sequence. A
// guard block happens before the insert, so a rejected message leaves no
// Message row behind.
func (s *MessageService) Send(ctx context.Context, act *actor.Context, threadID uuid.UUID, body string) (thread.Message, error) {
	grant, err := s.validator.Validate(ctx, threadID, act, access.ModeWrite)
	if err != nil {
		s.auditDenied(ctx, act, threadID, err)
		return thread.Message{}, err
	}
	t := grant.Thread

	minorInvolved, err := s.involvesMinor(ctx, t)
	if err != nil {
		// Ambiguous classification falls back to the stricter branch.
		s.warn("send: minor classification failed: %v", err)
		minorInvolved = true
	}

	verdict := moderation.Evaluate(body, s.policy, minorInvolved)
	if verdict.Blocked {
		s.recordFlags(ctx, t, act.UserID, sql.NullInt64{}, verdict.Flags)
		s.sink.Emit(ctx, audit.Event{
			Type:        audit.EventContentBlocked,
			ActorUserID: act.UserID,
			ThreadID:    t.ID,
			Payload:     map[string]interface{}{"flag_count": len(verdict.Flags)},
		})
		return thread.Message{}, coachdesk_errors.ErrContentBlocked
	}

	now := time.Now().UTC()
	msg := thread.Message{
		ThreadID:     t.ID,
		SenderUserID: act.UserID,
		Body:         body,
		CreatedAt:    now,
	}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return thread.Message{}, err
	}

	if err := s.threadRepo.SetLastMessage(ctx, t.ID, msg.ID, now); err != nil {
		return thread.Message{}, err
	}

	// A new message puts the thread back in everyone's inbox, the
	// sender's and the counterpart's included.
	if err := s.threadRepo.UnhideAll(ctx, t.ID); err != nil {
		return thread.Message{}, err
	}

	if err := s.ensureMember(ctx, t.ID, act.UserID, grant.OwnMember); err != nil {
		return thread.Message{}, err
	}
	// The sender has implicitly read their own message. The counterpart
	// pointer only moves on an explicit read.
	if err := s.threadRepo.AdvanceLastRead(ctx, t.ID, act.UserID, msg.ID, now); err != nil {
		return thread.Message{}, err
	}

	if len(verdict.Flags) > 0 {
		s.recordFlags(ctx, t, act.UserID, sql.NullInt64{Int64: msg.ID, Valid: true}, verdict.Flags)
		s.checkRecurrence(ctx, act.UserID, t)
	}

	s.sink.Emit(ctx, audit.Event{
		Type:        audit.EventMessageSent,
		ActorUserID: act.UserID,
		ThreadID:    t.ID,
		Payload:     map[string]interface{}{"message_id": msg.ID},
	})
	return msg, nil
}

// ListMessages pages thread history backwards from cursor and returns
// the page in ascending id order. NextCursor is the oldest id in a full
// page, nil once history is exhausted.
func (s *MessageService) ListMessages(ctx context.Context, act *actor.Context, threadID uuid.UUID, cursor int64, limit int) (*MessagePage, error) {
	grant, err := s.validator.Validate(ctx, threadID, act, access.ModeRead)
	if err != nil {
		s.auditDenied(ctx, act, threadID, err)
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	page, err := s.messageRepo.ListPageBefore(ctx, threadID, cursor, limit)
	if err != nil {
		return nil, err
	}

	out := &MessagePage{}
	if len(page) == limit {
		oldest := page[len(page)-1].ID
		out.NextCursor = &oldest
	}

	// Re-sort ascending for rendering.
	out.Messages = make([]thread.Message, len(page))
	for i, m := range page {
		out.Messages[len(page)-1-i] = m
	}

	if grant.OwnMember != nil && grant.OwnMember.LastReadMessageID.Valid {
		id := grant.OwnMember.LastReadMessageID.Int64
		out.LastReadID = &id
	}
	return out, nil
}

// MarkRead advances the caller's own read pointer to a message that
// exists in the thread. It never moves the pointer backwards.
func (s *MessageService) MarkRead(ctx context.Context, act *actor.Context, threadID uuid.UUID, messageID int64) error {
	grant, err := s.validator.Validate(ctx, threadID, act, access.ModeRead)
	if err != nil {
		return err
	}

	ok, err := s.messageRepo.ExistsInThread(ctx, threadID, messageID)
	if err != nil {
		return err
	}
	if !ok {
		return coachdesk_errors.ErrInvalidInput
	}

	if err := s.ensureMember(ctx, threadID, act.UserID, grant.OwnMember); err != nil {
		return err
	}
	return s.threadRepo.AdvanceLastRead(ctx, threadID, act.UserID, messageID, time.Now().UTC())
}

// Hide tucks the thread away from the caller's inbox without leaving it.
// Any subsequent message in the thread unhides it.
func (s *MessageService) Hide(ctx context.Context, act *actor.Context, threadID uuid.UUID) error {
	grant, err := s.validator.Validate(ctx, threadID, act, access.ModeRead)
	if err != nil {
		return err
	}
	if err := s.ensureMember(ctx, threadID, act.UserID, grant.OwnMember); err != nil {
		return err
	}
	return s.threadRepo.SetHidden(ctx, threadID, act.UserID, sql.NullTime{Time: time.Now().UTC(), Valid: true})
}

// involvesMinor classifies the thread for the content guard: any
// student_coach thread, and any group-scoped thread whose group has
// student members.
func (s *MessageService) involvesMinor(ctx context.Context, t thread.Thread) (bool, error) {
	if t.Kind == thread.KindStudentCoach {
		return true, nil
	}
	if t.Kind.IsGroupScoped() && t.GroupID.Valid {
		return s.groupRepo.HasStudentMembers(ctx, t.GroupID.UUID)
	}
	return false, nil
}

func (s *MessageService) ensureMember(ctx context.Context, threadID, userID uuid.UUID, existing *thread.ThreadMember) error {
	if existing != nil {
		return nil
	}
	err := s.threadRepo.CreateMember(ctx, &thread.ThreadMember{
		ThreadID: threadID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	})
	if errors.Is(err, coachdesk_errors.ErrAlreadyExists) {
		return nil
	}
	return err
}

func (s *MessageService) recordFlags(ctx context.Context, t thread.Thread, senderID uuid.UUID, messageID sql.NullInt64, candidates []moderation.FlagCandidate) {
	if len(candidates) == 0 {
		return
	}
	now := time.Now().UTC()
	flags := make([]thread.ContentFlag, 0, len(candidates))
	for _, c := range candidates {
		flags = append(flags, thread.ContentFlag{
			ID:           uuid.New(),
			ThreadID:     t.ID,
			MessageID:    messageID,
			SenderUserID: senderID,
			FlagType:     c.FlagType,
			MatchedValue: c.MatchedValue,
			CreatedAt:    now,
		})
	}
	if err := s.flagRepo.CreateAll(ctx, flags); err != nil {
		s.warn("send: recording content flags failed: %v", err)
		return
	}
	s.sink.Emit(ctx, audit.Event{
		Type:        audit.EventContentFlagged,
		ActorUserID: senderID,
		ThreadID:    t.ID,
		Payload:     map[string]interface{}{"flag_count": len(flags)},
	})
}

// checkRecurrence raises the operator alert once a sender reaches the
// configured number of flagged sends inside the rolling window.
func (s *MessageService) checkRecurrence(ctx context.Context, senderID uuid.UUID, t thread.Thread) {
	since := time.Now().UTC().Add(-s.recurWindow)
	count, err := s.flagRepo.CountFlaggedMessagesBySenderSince(ctx, senderID, t.WorkspaceOrgID, since)
	if err != nil {
		s.warn("send: recurrence count failed: %v", err)
		return
	}
	if count >= int64(s.recurCount) {
		s.sink.Emit(ctx, audit.Event{
			Type:        audit.EventRecurrentFlags,
			ActorUserID: senderID,
			ThreadID:    t.ID,
			Payload:     map[string]interface{}{"flagged_messages": count, "window_hours": s.recurWindow.Hours()},
		})
	}
}

func (s *MessageService) auditDenied(ctx context.Context, act *actor.Context, threadID uuid.UUID, cause error) {
	if errors.Is(cause, coachdesk_errors.ErrForbidden) || errors.Is(cause, coachdesk_errors.ErrThreadFrozen) {
		s.sink.Emit(ctx, audit.Event{
			Type:        audit.EventAccessDenied,
			ActorUserID: act.UserID,
			ThreadID:    threadID,
			Payload:     map[string]interface{}{"reason": cause.Error()},
		})
	}
}

func (s *MessageService) warn(template string, args ...interface{}) {
	if s.log != nil {
		s.log.Warnf(template, args...)
	}
}
