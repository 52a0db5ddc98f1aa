package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/controller"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/pkg/configwatcher"
	"nexus_academy_backend/pkg/database"
	"nexus_academy_backend/pkg/logger"
	"nexus_academy_backend/pkg/monitoring"
	"nexus_academy_backend/pkg/security"
	"nexus_academy_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	student     *repository.StudentRepository
	ledger      *repository.LedgerRepository
	quiz        *repository.QuizRepository
	ticket      *repository.TicketRepository
	mastery     *repository.MasteryRepository
	progression *repository.ProgressionRepository
	evidence    *repository.EvidenceRepository
	learning    *repository.LearningRepository
	activity    *repository.ActivityRepository
}

type services struct {
	auth        *service.AuthService
	xp          *service.XPService
	mastery     *service.MasteryService
	quiz        *service.QuizService
	ticket      *service.TicketService
	progression *service.ProgressionService
	student     *service.StudentService
	leaderboard *service.LeaderboardService
	activity    *service.ActivityService
	evidence    *service.EvidenceService
	learning    *service.LearningService
}

type controllers struct {
	auth        *controller.AuthController
	student     *controller.StudentController
	quiz        *controller.QuizController
	ticket      *controller.TicketController
	admin       *controller.AdminController
	evidence    *controller.EvidenceController
	leaderboard *controller.LeaderboardController
	learning    *controller.LearningController
	health      *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		student:     repository.NewStudentRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		quiz:        repository.NewQuizRepository(db),
		ticket:      repository.NewTicketRepository(db),
		mastery:     repository.NewMasteryRepository(db),
		progression: repository.NewProgressionRepository(db),
		evidence:    repository.NewEvidenceRepository(db),
		learning:    repository.NewLearningRepository(db),
		activity:    repository.NewActivityRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageProvider(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var grader service.TicketGrader
	if cfg.Grader.BaseURL != "" {
		grader = service.NewHTTPGrader(cfg.Grader)
	} else {
		logger.Log.Warn("no grader gateway configured, using offline rubric grader")
		grader = service.RubricGrader{}
	}

	s := &services{}
	s.auth = service.NewAuthService(repos.student, repos.activity, cfg.JWT)
	s.xp = service.NewXPService(db, repos.ledger)
	s.mastery = service.NewMasteryService(db, repos.mastery)
	s.quiz = service.NewQuizService(db, repos.quiz, repos.student, s.xp, s.mastery)
	s.ticket = service.NewTicketService(db, repos.ticket, repos.student, s.xp, s.mastery, grader)
	s.progression = service.NewProgressionService(db, repos.progression, repos.student, repos.ticket, s.mastery)
	s.student = service.NewStudentService(repos.student, repos.ledger, repos.quiz, repos.ticket, repos.activity, s.mastery, s.progression)
	s.leaderboard = service.NewLeaderboardService(repos.student, repos.mastery, repos.activity, rdb)
	s.activity = service.NewActivityService(repos.activity)
	s.evidence = service.NewEvidenceService(repos.evidence, repos.ticket, storage)
	s.learning = service.NewLearningService(repos.learning, repos.quiz, s.mastery, storage)
	return s, nil
}

func initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		student:     controller.NewStudentController(s.student, s.xp, s.activity, s.mastery, s.progression),
		quiz:        controller.NewQuizController(s.quiz),
		ticket:      controller.NewTicketController(s.ticket),
		admin:       controller.NewAdminController(s.quiz, s.ticket, s.student, s.xp, s.mastery, s.progression, s.leaderboard, s.learning, s.activity),
		evidence:    controller.NewEvidenceController(s.evidence),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		learning:    controller.NewLearningController(s.learning),
		health:      controller.NewHealthController(db),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}
	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("logger initialized")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The leaderboard cache degrades gracefully without Redis.
		logger.Log.Warn("redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{Config: cfg, DB: db, Redis: rdb}

	repos := initRepositories(db)
	services, err := initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("failed to initialize services", zap.Error(err))
	}
	controllers := initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("nexus-academy", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	go configwatcher.WatchConfig("configs/config.yaml", func(updated *config.Config) {
		logger.Log.Info("configuration reloaded",
			zap.Int("rate_limit", updated.RateLimit.MaxRequests))
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
