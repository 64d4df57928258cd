package main

import (
	"fmt"
	"log"
	"net/http"

	"coachdesk/internal/access"
	"coachdesk/internal/actor"
	"coachdesk/internal/audit"
	"coachdesk/internal/config"
	"coachdesk/internal/contacts"
	"coachdesk/internal/domain/account"
	contactdomain "coachdesk/internal/domain/contact"
	"coachdesk/internal/domain/student"
	"coachdesk/internal/domain/thread"
	"coachdesk/internal/domain/workspace"
	"coachdesk/internal/handler"
	"coachdesk/internal/middleware"
	"coachdesk/internal/moderation"
	appredis "coachdesk/internal/redis"
	"coachdesk/internal/relation"
	"coachdesk/internal/repository"
	"coachdesk/internal/services"
	"coachdesk/pkg/database"
	"coachdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Server.Environment)
	logger.SetGlobalLogger(appLogger)

	// Connect to Database
	database.Connect(cfg)

	// Run GORM AutoMigrate for Tables
	if err := database.DB.AutoMigrate(
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
		&contactdomain.CoachContactRequest{},
		&contactdomain.CoachContact{},
	); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}

	appredis.Initialize(appredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisClient := appredis.GetClient()

	// Repositories
	profileRepo := repository.NewProfileRepository(database.DB)
	workspaceRepo := repository.NewWorkspaceRepository(database.DB)
	groupRepo := repository.NewGroupRepository(database.DB)
	studentRepo := repository.NewStudentRepository(database.DB)
	contactRepo := repository.NewContactRepository(database.DB)
	threadRepo := repository.NewThreadRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	flagRepo := repository.NewFlagRepository(database.DB)

	// Core components
	oracle := relation.NewOracle(workspaceRepo, groupRepo, studentRepo, contactRepo)
	resolver := actor.NewResolver(profileRepo, workspaceRepo, studentRepo)
	validator := access.NewValidator(threadRepo, oracle)
	engine := contacts.NewEngine(profileRepo, workspaceRepo, groupRepo, studentRepo, contactRepo, appLogger)
	auditSink := audit.NewRedisSink(redisClient, appLogger)
	policy := moderation.PolicyFromConfig(cfg.Moderation)
	limiter := appredis.NewRateLimiter(redisClient)

	// Services
	authService := services.NewAuthService(cfg.Auth.JWTSecret)
	messageService := services.NewMessageService(
		threadRepo, messageRepo, flagRepo, groupRepo,
		validator, policy,
		cfg.Moderation.RecurrenceCount, cfg.Moderation.RecurrenceWin,
		auditSink, appLogger,
	)
	inboxService := services.NewInboxService(threadRepo, messageRepo, appLogger)
	threadService := services.NewThreadService(threadRepo, profileRepo, studentRepo, workspaceRepo, oracle)
	contactService := services.NewContactService(contactRepo, profileRepo)

	// Handlers
	messageHandler := handler.NewMessageHandler(resolver, messageService)
	inboxHandler := handler.NewInboxHandler(resolver, inboxService)
	threadHandler := handler.NewThreadHandler(resolver, threadService)
	contactHandler := handler.NewContactHandler(resolver, engine, contactService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(appLogger))
	r.Use(middleware.ErrorHandler(appLogger))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	sendAction := appredis.Action{
		Name:   appredis.ActionMessageSend.Name,
		Limit:  cfg.RateLimit.MessageLimit,
		Window: cfg.RateLimit.MessageWindow,
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(authService))
	{
		v1.GET("/contacts", contactHandler.List)
		v1.GET("/inbox", inboxHandler.List)

		v1.POST("/threads/direct", threadHandler.OpenDirect)
		v1.GET("/threads/:id/messages", messageHandler.List)
		v1.POST("/threads/:id/messages", middleware.RateLimitMiddleware(limiter, sendAction), messageHandler.Send)
		v1.POST("/threads/:id/read", messageHandler.MarkRead)
		v1.POST("/threads/:id/hide", messageHandler.Hide)

		v1.POST("/coach-contacts/requests", contactHandler.CreateRequest)
		v1.POST("/coach-contacts/requests/:id/accept", contactHandler.Accept)
		v1.POST("/coach-contacts/requests/:id/reject", contactHandler.Reject)
	}

	appLogger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
