package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"coachdesk/internal/audit"
	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/contact"
	"coachdesk/internal/domain/student"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
)

// memThreadRepo is an in-memory ThreadRepository with the same
// observable behavior as the Postgres implementation.
type memThreadRepo struct {
	mu         sync.Mutex
	threads    map[uuid.UUID]*thread.Thread
	members    map[uuid.UUID]map[uuid.UUID]*thread.ThreadMember
	createErr  error
	findMisses int
}

func newMemThreadRepo() *memThreadRepo {
	return &memThreadRepo{
		threads: make(map[uuid.UUID]*thread.Thread),
		members: make(map[uuid.UUID]map[uuid.UUID]*thread.ThreadMember),
	}
}

func (r *memThreadRepo) add(t thread.Thread) *thread.Thread {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := t
	r.threads[t.ID] = &stored
	return &stored
}

func (r *memThreadRepo) addMember(m thread.ThreadMember) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[m.ThreadID] == nil {
		r.members[m.ThreadID] = make(map[uuid.UUID]*thread.ThreadMember)
	}
	stored := m
	r.members[m.ThreadID][m.UserID] = &stored
}

func (r *memThreadRepo) member(threadID, userID uuid.UUID) *thread.ThreadMember {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[threadID][userID]
}

func (r *memThreadRepo) GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[id]
	if !ok {
		return thread.Thread{}, coachdesk_errors.ErrNotFound
	}
	return *t, nil
}

func (r *memThreadRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]thread.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []thread.Thread
	for _, id := range ids {
		if t, ok := r.threads[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memThreadRepo) FindOneToOne(ctx context.Context, kind thread.Kind, orgID uuid.UUID, participantA, participantB uuid.UUID) (thread.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findMisses > 0 {
		r.findMisses--
		return thread.Thread{}, coachdesk_errors.ErrNotFound
	}
	a, b := thread.OrderParticipants(participantA, participantB)
	for _, t := range r.threads {
		if t.Kind == kind && t.WorkspaceOrgID == orgID &&
			t.ParticipantAID.Valid && t.ParticipantAID.UUID == a &&
			t.ParticipantBID.Valid && t.ParticipantBID.UUID == b {
			return *t, nil
		}
	}
	return thread.Thread{}, coachdesk_errors.ErrNotFound
}

func (r *memThreadRepo) Create(ctx context.Context, t *thread.Thread) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.threads {
		if existing.Kind == t.Kind && existing.WorkspaceOrgID == t.WorkspaceOrgID &&
			existing.ParticipantAID == t.ParticipantAID && existing.ParticipantBID == t.ParticipantBID &&
			t.ParticipantAID.Valid {
			return coachdesk_errors.ErrAlreadyExists
		}
	}
	stored := *t
	r.threads[t.ID] = &stored
	return nil
}

func (r *memThreadRepo) SetLastMessage(ctx context.Context, threadID uuid.UUID, messageID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[threadID]
	if !ok {
		return coachdesk_errors.ErrNotFound
	}
	t.LastMessageID = sql.NullInt64{Int64: messageID, Valid: true}
	t.LastMessageAt = sql.NullTime{Time: at, Valid: true}
	return nil
}

func (r *memThreadRepo) GetMember(ctx context.Context, threadID, userID uuid.UUID) (thread.ThreadMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[threadID][userID]
	if !ok {
		return thread.ThreadMember{}, coachdesk_errors.ErrNotFound
	}
	return *m, nil
}

func (r *memThreadRepo) CreateMember(ctx context.Context, m *thread.ThreadMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[m.ThreadID] == nil {
		r.members[m.ThreadID] = make(map[uuid.UUID]*thread.ThreadMember)
	}
	if _, ok := r.members[m.ThreadID][m.UserID]; ok {
		return coachdesk_errors.ErrAlreadyExists
	}
	stored := *m
	r.members[m.ThreadID][m.UserID] = &stored
	return nil
}

func (r *memThreadRepo) ListMembers(ctx context.Context, threadID uuid.UUID) ([]thread.ThreadMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []thread.ThreadMember
	for _, m := range r.members[threadID] {
		out = append(out, *m)
	}
	return out, nil
}

func (r *memThreadRepo) ListMembershipsForUser(ctx context.Context, userID uuid.UUID) ([]thread.ThreadMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []thread.ThreadMember
	for _, byUser := range r.members {
		if m, ok := byUser[userID]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memThreadRepo) UnhideAll(ctx context.Context, threadID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[threadID] {
		m.HiddenAt = sql.NullTime{}
	}
	return nil
}

func (r *memThreadRepo) SetHidden(ctx context.Context, threadID, userID uuid.UUID, hiddenAt sql.NullTime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[threadID][userID]
	if !ok {
		return coachdesk_errors.ErrNotFound
	}
	m.HiddenAt = hiddenAt
	return nil
}

func (r *memThreadRepo) AdvanceLastRead(ctx context.Context, threadID, userID uuid.UUID, messageID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[threadID][userID]
	if !ok {
		return nil
	}
	if m.LastReadMessageID.Valid && m.LastReadMessageID.Int64 >= messageID {
		return nil
	}
	m.LastReadMessageID = sql.NullInt64{Int64: messageID, Valid: true}
	m.LastReadAt = sql.NullTime{Time: at, Valid: true}
	return nil
}

// memMessageRepo assigns ids from a single ascending sequence, like the
// bigserial column does.
type memMessageRepo struct {
	mu       sync.Mutex
	messages []thread.Message
	nextID   int64
	countErr error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{nextID: 1}
}

func (r *memMessageRepo) Create(ctx context.Context, m *thread.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memMessageRepo) ListPageBefore(ctx context.Context, threadID uuid.UUID, beforeID int64, limit int) ([]thread.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []thread.Message
	for _, m := range r.messages {
		if m.ThreadID != threadID {
			continue
		}
		if beforeID > 0 && m.ID >= beforeID {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepo) ExistsInThread(ctx context.Context, threadID uuid.UUID, messageID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ThreadID == threadID && m.ID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMessageRepo) CountUnread(ctx context.Context, threadID uuid.UUID, lastRead sql.NullInt64, exceptSender uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.ThreadID != threadID || m.SenderUserID == exceptSender {
			continue
		}
		if lastRead.Valid && m.ID <= lastRead.Int64 {
			continue
		}
		count++
	}
	return count, nil
}

type memFlagRepo struct {
	mu    sync.Mutex
	flags []thread.ContentFlag
}

func (r *memFlagRepo) CreateAll(ctx context.Context, flags []thread.ContentFlag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = append(r.flags, flags...)
	return nil
}

func (r *memFlagRepo) CountFlaggedMessagesBySenderSince(ctx context.Context, senderUserID, workspaceOrgID uuid.UUID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	distinct := make(map[int64]bool)
	for _, f := range r.flags {
		if f.SenderUserID == senderUserID && f.MessageID.Valid {
			distinct[f.MessageID.Int64] = true
		}
	}
	return int64(len(distinct)), nil
}

type stubGroupRepo struct {
	repository.GroupRepository
	hasStudents map[uuid.UUID]bool
	hasErr      error
}

func (r *stubGroupRepo) HasStudentMembers(ctx context.Context, groupID uuid.UUID) (bool, error) {
	if r.hasErr != nil {
		return false, r.hasErr
	}
	return r.hasStudents[groupID], nil
}

type stubOracle struct {
	staff  map[uuid.UUID]bool
	groups map[uuid.UUID]bool
	linked map[uuid.UUID]bool
	optIn  bool
}

func (o *stubOracle) IsCoachLikeActiveOrgMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	return o.staff[userID], nil
}

func (o *stubOracle) IsUserInOrgGroup(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	return o.groups[userID], nil
}

func (o *stubOracle) IsStudentLinkedToOrganization(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	return o.linked[userID], nil
}

func (o *stubOracle) HasCoachContactOptIn(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	return o.optIn, nil
}

// captureSink records emitted audit events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *captureSink) Emit(ctx context.Context, e audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *captureSink) byType(eventType string) []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

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

func (r *stubProfileRepo) GetByEmail(ctx context.Context, email string) (account.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return account.Profile{}, coachdesk_errors.ErrNotFound
}

type stubStudentRepo struct {
	repository.StudentRepository
	students    map[uuid.UUID]student.Student
	accounts    map[uuid.UUID]uuid.UUID
	assignments []student.StudentAssignment
	linkedOrgs  map[uuid.UUID]bool
}

func (r *stubStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return student.Student{}, coachdesk_errors.ErrNotFound
	}
	return s, nil
}

func (r *stubStudentRepo) GetAccountUserID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	userID, ok := r.accounts[studentID]
	if !ok {
		return uuid.Nil, coachdesk_errors.ErrNotFound
	}
	return userID, nil
}

func (r *stubStudentRepo) ListAssignmentsForStudents(ctx context.Context, studentIDs []uuid.UUID) ([]student.StudentAssignment, error) {
	want := make(map[uuid.UUID]bool, len(studentIDs))
	for _, id := range studentIDs {
		want[id] = true
	}
	var out []student.StudentAssignment
	for _, a := range r.assignments {
		if want[a.StudentID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubStudentRepo) AnyLinkedToOrg(ctx context.Context, studentIDs []uuid.UUID, orgID uuid.UUID) (bool, error) {
	return r.linkedOrgs[orgID], nil
}

type stubWorkspaceRepo struct {
	repository.WorkspaceRepository
	memberships map[uuid.UUID]workspace.OrgMembership
}

func (r *stubWorkspaceRepo) GetMembership(ctx context.Context, orgID, userID uuid.UUID) (workspace.OrgMembership, error) {
	m, ok := r.memberships[userID]
	if !ok {
		return workspace.OrgMembership{}, coachdesk_errors.ErrNotFound
	}
	return m, nil
}

type stubContactRepo struct {
	repository.ContactRepository
	contacts  map[uuid.UUID]contact.CoachContact
	requests  map[uuid.UUID]contact.CoachContactRequest
	pending   bool
	createErr error
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{
		contacts: make(map[uuid.UUID]contact.CoachContact),
		requests: make(map[uuid.UUID]contact.CoachContactRequest),
	}
}

func (r *stubContactRepo) GetContactForPair(ctx context.Context, userA, userB uuid.UUID) (contact.CoachContact, error) {
	a, b := thread.OrderParticipants(userA, userB)
	for _, c := range r.contacts {
		if c.UserAID == a && c.UserBID == b {
			return c, nil
		}
	}
	return contact.CoachContact{}, coachdesk_errors.ErrNotFound
}

func (r *stubContactRepo) CreateContact(ctx context.Context, c *contact.CoachContact) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.UserAID, c.UserBID = thread.OrderParticipants(c.UserAID, c.UserBID)
	r.contacts[c.ID] = *c
	return nil
}

func (r *stubContactRepo) CreateRequest(ctx context.Context, req *contact.CoachContactRequest) error {
	r.requests[req.ID] = *req
	return nil
}

func (r *stubContactRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (contact.CoachContactRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrNotFound
	}
	return req, nil
}

func (r *stubContactRepo) UpdateRequest(ctx context.Context, req contact.CoachContactRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *stubContactRepo) HasPendingForPair(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	return r.pending, nil
}
