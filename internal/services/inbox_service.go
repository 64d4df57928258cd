package services

import (
	"context"
	"sort"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/repository"
	"coachdesk/pkg/logger"

	"github.com/google/uuid"
)

// ThreadSummary is one inbox row.
type ThreadSummary struct {
	Thread      thread.Thread
	UnreadCount int64
}

// Inbox is the full visible thread list with unread accounting, used by
// the inbox screen and the notification badge.
type Inbox struct {
	Threads     []ThreadSummary
	TotalUnread int64
}

// InboxService renders the caller's visible, non-hidden threads with
// per-thread and total unread counts.
type InboxService struct {
	threadRepo  repository.ThreadRepository
	messageRepo repository.MessageRepository
	log         *logger.Logger
}

func NewInboxService(threadRepo repository.ThreadRepository, messageRepo repository.MessageRepository, log *logger.Logger) *InboxService {
	return &InboxService{threadRepo: threadRepo, messageRepo: messageRepo, log: log}
}

func (s *InboxService) List(ctx context.Context, act *actor.Context) (*Inbox, error) {
	memberships, err := s.threadRepo.ListMembershipsForUser(ctx, act.UserID)
	if err != nil {
		return nil, err
	}

	visible := make(map[uuid.UUID]thread.ThreadMember, len(memberships))
	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		if m.Hidden() {
			continue
		}
		visible[m.ThreadID] = m
		ids = append(ids, m.ThreadID)
	}

	threads, err := s.threadRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &Inbox{}
	for _, t := range threads {
		m := visible[t.ID]
		unread, err := s.unreadCount(ctx, t, m, act.UserID)
		if err != nil {
			// Unread accounting is display-only; a failed count renders
			// as zero rather than failing the inbox.
			if s.log != nil {
				s.log.Warnf("inbox: unread count failed for thread %s: %v", t.ID, err)
			}
			unread = 0
		}
		out.Threads = append(out.Threads, ThreadSummary{Thread: t, UnreadCount: unread})
		out.TotalUnread += unread
	}

	// Latest activity first; threads without messages sink to the end.
	sort.SliceStable(out.Threads, func(i, j int) bool {
		a, b := out.Threads[i].Thread, out.Threads[j].Thread
		if a.LastMessageID.Valid != b.LastMessageID.Valid {
			return a.LastMessageID.Valid
		}
		return a.LastMessageID.Int64 > b.LastMessageID.Int64
	})
	return out, nil
}

func (s *InboxService) unreadCount(ctx context.Context, t thread.Thread, m thread.ThreadMember, userID uuid.UUID) (int64, error) {
	if !t.LastMessageID.Valid {
		return 0, nil
	}
	if m.LastReadMessageID.Valid && m.LastReadMessageID.Int64 >= t.LastMessageID.Int64 {
		return 0, nil
	}
	return s.messageRepo.CountUnread(ctx, t.ID, m.LastReadMessageID, userID)
}
