package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/account"
	googleauth "interview-backend/internal/auth"
	"interview-backend/internal/candidates"
	"interview-backend/internal/interviews"
	"interview-backend/internal/llm"
	openai "interview-backend/internal/llm/openai"
	"interview-backend/internal/notify"
	"interview-backend/internal/queue"
	"interview-backend/internal/services/health"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/server"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/storage/object"
	localstore "interview-backend/internal/shared/storage/object/local"
	s3store "interview-backend/internal/shared/storage/object/s3"
	"interview-backend/internal/usage"
	"interview-backend/internal/users"
)

// App holds the wired dependencies shared by the api and worker binaries.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Notifier          notify.Dispatcher
	CandidatesRepo    candidates.CandidatesRepo
	InterviewsRepo    interviews.Repo
	UsersRepo         users.Repo
	CandidatesService *candidates.Service
	InterviewsService *interviews.Service
	UsageService      *usage.Service
	UsersService      *users.Service
	AccountService    *account.Service
	Health            *health.Service
	CandidatesHandler *candidates.Handler
	InterviewsHandler *interviews.Handler
	UsageHandler      *usage.Handler
	UsersHandler      *users.Handler
	AccountHandler    *account.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Notifier: notifier,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Health:            app.Health,
		CandidatesHandler: app.CandidatesHandler,
		InterviewsHandler: app.InterviewsHandler,
		UsageHandler:      app.UsageHandler,
		UsersHandler:      app.UsersHandler,
		AccountHandler:    app.AccountHandler,
		GoogleAuth:        app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildNotifier prefers the SQS queue so emails go out through the worker;
// with no queue configured it falls back to direct delivery, and with no email
// provider at all, to a logging placeholder.
func buildNotifier(ctx context.Context, cfg config.Config) (notify.Dispatcher, error) {
	if strings.TrimSpace(cfg.NotifyQueueURL) != "" {
		client, err := queue.NewSQSClient(ctx)
		if err != nil {
			return nil, err
		}
		return &queue.Dispatcher{Client: client}, nil
	}
	if strings.TrimSpace(cfg.EmailAPIURL) != "" {
		return notify.NewEmailDispatcher(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFromAddr)
	}
	return notify.PlaceholderDispatcher{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var candidatesRepo candidates.CandidatesRepo
	var interviewsRepo interviews.Repo
	var usersRepo users.Repo

	if app.DB != nil {
		candidatesRepo = &candidates.PGRepo{DB: app.DB}
		interviewsRepo = &interviews.PGRepo{DB: app.DB}
		usersRepo = &users.PGRepo{DB: app.DB}
	} else {
		candidatesRepo = candidates.NewMemoryRepo()
		interviewsRepo = interviews.NewMemoryRepo()
		usersRepo = users.NewMemoryRepo()
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	llmReady := false
	if app.Config.LLMProvider == "openai" && app.Config.LLMModel != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			if !isDevLike(app.Config.Env) {
				return err
			}
			log.Printf("bootstrap: openai client unavailable; using placeholder: %v", err)
		} else {
			llmClient = openaiClient
			llmReady = true
		}
	}

	candidatesSvc := &candidates.Service{Repo: candidatesRepo, Store: app.Store}
	interviewsSvc := &interviews.Service{
		Repo:       interviewsRepo,
		LLM:        llmClient,
		Usage:      usageSvc,
		Candidates: candidateDirectory{svc: candidatesSvc},
		Notifier:   app.Notifier,
	}
	usersSvc := users.NewService(usersRepo)
	accountSvc := account.NewService(candidatesRepo, interviewsRepo, usageSvc)

	_, notifierIsPlaceholder := app.Notifier.(notify.PlaceholderDispatcher)

	app.CandidatesRepo = candidatesRepo
	app.InterviewsRepo = interviewsRepo
	app.UsersRepo = usersRepo
	app.CandidatesService = candidatesSvc
	app.InterviewsService = interviewsSvc
	app.UsageService = usageSvc
	app.UsersService = usersSvc
	app.AccountService = accountSvc
	app.Health = health.NewService(app.DB, llmReady, !notifierIsPlaceholder)
	app.CandidatesHandler = candidates.NewHandler(candidatesSvc)
	app.InterviewsHandler = interviews.NewHandler(interviewsSvc, app.Store)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.UsersHandler = users.NewHandler(usersSvc)
	app.AccountHandler = account.NewHandler(accountSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		usersSvc,
	)

	return nil
}

// candidateDirectory adapts the candidates service to the interview
// notification lookup.
type candidateDirectory struct {
	svc *candidates.Service
}

func (d candidateDirectory) ContactByID(ctx context.Context, candidateID string) (interviews.CandidateContact, error) {
	candidate, err := d.svc.Get(ctx, candidateID)
	if err != nil {
		return interviews.CandidateContact{}, err
	}
	return interviews.CandidateContact{
		ID:    candidate.ID,
		Name:  candidate.Name,
		Email: candidate.Email,
	}, nil
}

func (d candidateDirectory) ProfileByID(ctx context.Context, candidateID string) (interviews.CandidateProfile, error) {
	candidate, err := d.svc.Get(ctx, candidateID)
	if err != nil {
		return interviews.CandidateProfile{}, err
	}
	return interviews.CandidateProfile{
		Name:            candidate.Name,
		Role:            candidate.Role,
		ExperienceLevel: candidate.ExperienceLevel,
		Skills:          candidate.Skills,
		Qualifications:  candidate.Qualifications,
	}, nil
}
