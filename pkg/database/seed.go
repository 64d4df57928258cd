package database

import (
	"fmt"
	"log"
	"time"

	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/student"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"

	"github.com/google/uuid"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	OrgName      string
	OwnerEmail   string
	StudentCount int
	WithMessages bool
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		OrgName:      "Demo Coaching Org",
		OwnerEmail:   "owner@coachdesk.local",
		StudentCount: 5,
		WithMessages: true,
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Org      *workspace.Workspace
	Owner    *account.Profile
	Coach    *account.Profile
	Students []*student.Student
	Group    *workspace.Group
	Threads  []*thread.Thread
}

// Seed populates an empty database with a small org: one owner, one
// coach, a student roster with accounts and assignments, one group and
// a student_coach thread per assigned student.
func Seed(cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	result := &SeedResult{}
	now := time.Now().UTC()

	log.Println("Starting database seeding...")

	org := &workspace.Workspace{
		ID:        uuid.New(),
		Type:      workspace.TypeOrg,
		Name:      cfg.OrgName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := DB.Create(org).Error; err != nil {
		return nil, fmt.Errorf("seed workspace: %w", err)
	}
	result.Org = org

	owner := &account.Profile{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Email:             cfg.OwnerEmail,
		FullName:          "Org Owner",
		Role:              account.RoleOwner,
		OrgID:             uuid.NullUUID{UUID: org.ID, Valid: true},
		ActiveWorkspaceID: uuid.NullUUID{UUID: org.ID, Valid: true},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	coach := &account.Profile{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Email:             "coach@coachdesk.local",
		FullName:          "Demo Coach",
		Role:              account.RoleCoach,
		OrgID:             uuid.NullUUID{UUID: org.ID, Valid: true},
		ActiveWorkspaceID: uuid.NullUUID{UUID: org.ID, Valid: true},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := DB.Create([]*account.Profile{owner, coach}).Error; err != nil {
		return nil, fmt.Errorf("seed profiles: %w", err)
	}
	result.Owner = owner
	result.Coach = coach

	memberships := []*workspace.OrgMembership{
		{ID: uuid.New(), OrgID: org.ID, UserID: owner.UserID, Role: workspace.MemberRoleAdmin, Status: workspace.MemberStatusActive, CreatedAt: now},
		{ID: uuid.New(), OrgID: org.ID, UserID: coach.UserID, Role: workspace.MemberRoleCoach, Status: workspace.MemberStatusActive, CreatedAt: now},
	}
	if err := DB.Create(memberships).Error; err != nil {
		return nil, fmt.Errorf("seed memberships: %w", err)
	}

	group := &workspace.Group{
		ID:        uuid.New(),
		OrgID:     org.ID,
		Name:      "Morning Cohort",
		CreatedAt: now,
	}
	if err := DB.Create(group).Error; err != nil {
		return nil, fmt.Errorf("seed group: %w", err)
	}
	if err := DB.Create(&workspace.GroupCoach{GroupID: group.ID, UserID: coach.UserID, AddedAt: now}).Error; err != nil {
		return nil, fmt.Errorf("seed group coach: %w", err)
	}
	result.Group = group

	for i := 0; i < cfg.StudentCount; i++ {
		st := &student.Student{
			ID:        uuid.New(),
			OrgID:     org.ID,
			FullName:  fmt.Sprintf("Student %d", i+1),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := DB.Create(st).Error; err != nil {
			return nil, fmt.Errorf("seed student: %w", err)
		}
		result.Students = append(result.Students, st)

		studentUserID := uuid.New()
		studentProfile := &account.Profile{
			ID:        uuid.New(),
			UserID:    studentUserID,
			Email:     fmt.Sprintf("student%d@coachdesk.local", i+1),
			FullName:  st.FullName,
			Role:      account.RoleStudent,
			OrgID:     uuid.NullUUID{UUID: org.ID, Valid: true},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := DB.Create(studentProfile).Error; err != nil {
			return nil, fmt.Errorf("seed student profile: %w", err)
		}
		if err := DB.Create(&student.StudentAccount{StudentID: st.ID, UserID: studentUserID, CreatedAt: now}).Error; err != nil {
			return nil, fmt.Errorf("seed student account: %w", err)
		}
		if err := DB.Create(&student.StudentAssignment{
			ID:          uuid.New(),
			StudentID:   st.ID,
			OrgID:       org.ID,
			CoachUserID: coach.UserID,
			CreatedAt:   now,
		}).Error; err != nil {
			return nil, fmt.Errorf("seed assignment: %w", err)
		}
		if err := DB.Create(&workspace.GroupStudent{GroupID: group.ID, StudentID: st.ID, AddedAt: now}).Error; err != nil {
			return nil, fmt.Errorf("seed group student: %w", err)
		}

		if !cfg.WithMessages {
			continue
		}

		a, b := thread.OrderParticipants(coach.UserID, studentUserID)
		t := &thread.Thread{
			ID:             uuid.New(),
			Kind:           thread.KindStudentCoach,
			WorkspaceOrgID: org.ID,
			StudentID:      uuid.NullUUID{UUID: st.ID, Valid: true},
			ParticipantAID: uuid.NullUUID{UUID: a, Valid: true},
			ParticipantBID: uuid.NullUUID{UUID: b, Valid: true},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := DB.Create(t).Error; err != nil {
			return nil, fmt.Errorf("seed thread: %w", err)
		}
		for _, userID := range []uuid.UUID{a, b} {
			if err := DB.Create(&thread.ThreadMember{ThreadID: t.ID, UserID: userID, JoinedAt: now}).Error; err != nil {
				return nil, fmt.Errorf("seed thread member: %w", err)
			}
		}

		msg := &thread.Message{
			ThreadID:     t.ID,
			SenderUserID: coach.UserID,
			Body:         fmt.Sprintf("Welcome aboard, %s!", st.FullName),
			CreatedAt:    now,
		}
		if err := DB.Create(msg).Error; err != nil {
			return nil, fmt.Errorf("seed message: %w", err)
		}
		if err := DB.Model(&thread.Thread{}).Where("id = ?", t.ID).
			Updates(map[string]interface{}{"last_message_id": msg.ID, "last_message_at": now}).Error; err != nil {
			return nil, fmt.Errorf("seed thread pointer: %w", err)
		}
		result.Threads = append(result.Threads, t)
	}

	log.Printf("Seeding complete: org=%s students=%d threads=%d", org.ID, len(result.Students), len(result.Threads))
	return result, nil
}

// Truncate empties every seeded table. Development use only.
func Truncate() error {
	tables := []string{
		"content_flags", "messages", "thread_members", "threads",
		"coach_contacts", "coach_contact_requests",
		"parent_child_links", "student_assignments", "student_shares",
		"student_accounts", "students",
		"org_group_students", "org_group_coaches", "org_groups",
		"org_memberships", "workspaces", "profiles",
	}
	for _, table := range tables {
		if err := DB.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
