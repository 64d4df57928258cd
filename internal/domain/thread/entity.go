package thread

import (
	"bytes"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the conversation shape a thread carries. The access
// rules dispatch on it, so the set is closed.
type Kind string

const (
	KindStudentCoach Kind = "student_coach"
	KindCoachCoach   Kind = "coach_coach"
	KindGroup        Kind = "group"
	KindGroupInfo    Kind = "group_info"
	KindOrgInfo      Kind = "org_info"
	KindOrgCoaches   Kind = "org_coaches"
)

// IsOneToOne reports whether the participant columns carry meaning for
// this kind. Group and org channels derive membership from rosters.
func (k Kind) IsOneToOne() bool {
	return k == KindStudentCoach || k == KindCoachCoach
}

// IsGroupScoped reports whether the thread hangs off an org group.
func (k Kind) IsGroupScoped() bool {
	return k == KindGroup || k == KindGroupInfo
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindStudentCoach, KindCoachCoach, KindGroup, KindGroupInfo, KindOrgInfo, KindOrgCoaches:
		return true
	}
	return false
}

// OrderParticipants returns the pair in canonical (byte-wise ascending)
// order. 1:1 threads and coach contacts store pairs this way so the
// unique index deduplicates regardless of who initiated.
func OrderParticipants(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// Thread represents the threads table. Threads are created lazily on
// first contact and are never deleted, only frozen.
type Thread struct {
	ID             uuid.UUID
	Kind           Kind
	WorkspaceOrgID uuid.UUID
	StudentID      uuid.NullUUID
	GroupID        uuid.NullUUID
	ParticipantAID uuid.NullUUID
	ParticipantBID uuid.NullUUID
	LastMessageID  sql.NullInt64
	LastMessageAt  sql.NullTime
	FrozenAt       sql.NullTime
	FrozenBy       uuid.NullUUID
	FrozenReason   sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Frozen reports whether workspace staff locked the thread. Frozen
// threads reject every write regardless of role; reads stay open.
func (t Thread) Frozen() bool {
	return t.FrozenAt.Valid
}

// ThreadMember represents the thread_members table, one row per
// (thread, user). LastReadMessageID doubles as the unread watermark.
type ThreadMember struct {
	ThreadID          uuid.UUID
	UserID            uuid.UUID
	LastReadMessageID sql.NullInt64
	LastReadAt        sql.NullTime
	HiddenAt          sql.NullTime
	JoinedAt          time.Time
}

// Hidden reports whether the member tucked the thread away from their
// inbox. Any new message unhides it for everyone.
func (m ThreadMember) Hidden() bool {
	return m.HiddenAt.Valid
}

// Message represents the messages table. Append-only; ID comes from a
// single global sequence so it works as both ordering key and cursor
// across arbitrary thread sets.
type Message struct {
	ID           int64
	ThreadID     uuid.UUID
	SenderUserID uuid.UUID
	Body         string
	CreatedAt    time.Time
}

// ContentFlag represents the content_flags table, one row per matched
// sensitive term per message.
type ContentFlag struct {
	ID           uuid.UUID
	ThreadID     uuid.UUID
	MessageID    sql.NullInt64
	SenderUserID uuid.UUID
	FlagType     string
	MatchedValue string
	CreatedAt    time.Time
}

func (Thread) TableName() string {
	return "threads"
}

func (ThreadMember) TableName() string {
	return "thread_members"
}

func (Message) TableName() string {
	return "messages"
}

func (ContentFlag) TableName() string {
	return "content_flags"
}
