package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"coachdesk/internal/config"
	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/contact"
	"coachdesk/internal/domain/student"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"
	"coachdesk/pkg/database"

	"github.com/joho/godotenv"
)

const usage = `
Coachdesk - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run GORM migrations
  status      Show database connection status
  seed        Seed the database with a demo org
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -org string          Org name for seeding (default "Demo Coaching Org")
  -owner-email string  Owner email for seeding (default "owner@coachdesk.local")
  -students int        Number of students to seed (default 5)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed -students 10
  go run cmd/migrate/main.go truncate
`

func main() {
	orgName := flag.String("org", "Demo Coaching Org", "Org name for seeding")
	ownerEmail := flag.String("owner-email", "owner@coachdesk.local", "Owner email for seeding")
	studentCount := flag.Int("students", 5, "Number of students to seed")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	database.Connect(cfg)

	switch command {
	case "up":
		if err := migrateUp(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "status":
		sqlDB, err := database.DB.DB()
		if err != nil {
			log.Fatalf("Status failed: %v", err)
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		log.Println("Database connection OK")
	case "seed":
		if err := migrateUp(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		_, err := database.Seed(&database.SeedConfig{
			OrgName:      *orgName,
			OwnerEmail:   *ownerEmail,
			StudentCount: *studentCount,
			WithMessages: true,
		})
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	case "truncate":
		if err := database.Truncate(); err != nil {
			log.Fatalf("Truncate failed: %v", err)
		}
		log.Println("Tables truncated")
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func migrateUp() error {
	return database.DB.AutoMigrate(
		&account.Profile{},
		&workspace.Workspace{},
		&workspace.OrgMembership{},
		&workspace.Group{},
		&workspace.GroupCoach{},
		&workspace.GroupStudent{},
		&student.Student{},
		&student.StudentAccount{},
		&student.StudentShare{},
		&student.StudentAssignment{},
		&student.ParentChildLink{},
		&thread.Thread{},
		&thread.ThreadMember{},
		&thread.Message{},
		&thread.ContentFlag{},
		&contact.CoachContactRequest{},
		&contact.CoachContact{},
	)
}
