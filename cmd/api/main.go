package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/teraclinic/clinic-api/config"
	"github.com/teraclinic/clinic-api/internal/email"
	"github.com/teraclinic/clinic-api/internal/handler"
	appointmentHandler "github.com/teraclinic/clinic-api/internal/handler/appointment"
	authHandler "github.com/teraclinic/clinic-api/internal/handler/auth"
	chatHandler "github.com/teraclinic/clinic-api/internal/handler/chat"
	documentHandler "github.com/teraclinic/clinic-api/internal/handler/document"
	evolutionHandler "github.com/teraclinic/clinic-api/internal/handler/evolution"
	financialHandler "github.com/teraclinic/clinic-api/internal/handler/financial"
	licenseHandler "github.com/teraclinic/clinic-api/internal/handler/license"
	patientHandler "github.com/teraclinic/clinic-api/internal/handler/patient"
	portalHandler "github.com/teraclinic/clinic-api/internal/handler/portal"
	settingsHandler "github.com/teraclinic/clinic-api/internal/handler/settings"
	userHandler "github.com/teraclinic/clinic-api/internal/handler/user"
	"github.com/teraclinic/clinic-api/internal/middleware"
	"github.com/teraclinic/clinic-api/internal/repository/postgres"
	"github.com/teraclinic/clinic-api/internal/router"
	appointmentService "github.com/teraclinic/clinic-api/internal/service/appointment"
	authService "github.com/teraclinic/clinic-api/internal/service/auth"
	chatService "github.com/teraclinic/clinic-api/internal/service/chat"
	documentService "github.com/teraclinic/clinic-api/internal/service/document"
	evolutionService "github.com/teraclinic/clinic-api/internal/service/evolution"
	financialService "github.com/teraclinic/clinic-api/internal/service/financial"
	licenseService "github.com/teraclinic/clinic-api/internal/service/license"
	patientService "github.com/teraclinic/clinic-api/internal/service/patient"
	settingsService "github.com/teraclinic/clinic-api/internal/service/settings"
	userService "github.com/teraclinic/clinic-api/internal/service/user"
	"github.com/teraclinic/clinic-api/pkg/ai"
	"github.com/teraclinic/clinic-api/pkg/auth"
	redisBroker "github.com/teraclinic/clinic-api/pkg/messaging/redis"
	"github.com/teraclinic/clinic-api/pkg/metrics"
	"github.com/teraclinic/clinic-api/pkg/security"
	"github.com/teraclinic/clinic-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.RegisterCustomValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewRedisBroker(cfg.Redis, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("teraclinic", "api")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	evolutionRepo := postgres.NewEvolutionRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	financialRepo := postgres.NewFinancialRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)

	// Shared infrastructure
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtSvc := auth.NewJWTService(cfg.JWT)
	emailSvc := email.NewSMTPService(cfg.SMTP)
	generator := ai.NewGeminiClient(cfg.AI)

	// Services
	settingsSvc := settingsService.NewService(settingsRepo)
	licenseSvc := licenseService.NewService(userRepo, settingsSvc)
	authSvc := authService.NewService(userRepo, patientRepo, settingsRepo, tokenRepo, hasher, jwtSvc, emailSvc)
	userSvc := userService.NewService(userRepo, licenseSvc, hasher)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo)
	evolutionSvc := evolutionService.NewService(evolutionRepo, patientRepo, generator, m)
	chatSvc := chatService.NewService(chatRepo, patientRepo, broker, m)
	financialSvc := financialService.NewService(financialRepo)
	documentSvc := documentService.NewService(documentRepo, patientRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc, userRepo)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		h,
		authHandler.NewHandler(authSvc, m),
		userHandler.NewHandler(userSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		evolutionHandler.NewHandler(evolutionSvc),
		chatHandler.NewHandler(chatSvc),
		financialHandler.NewHandler(financialSvc),
		documentHandler.NewHandler(documentSvc),
		settingsHandler.NewHandler(settingsSvc),
		licenseHandler.NewHandler(licenseSvc, m),
		portalHandler.NewHandler(patientSvc, appointmentSvc, evolutionSvc, chatSvc, documentSvc),
		router.Config{
			RateLimitRPS:   rateLimitRPS(cfg),
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     corsConfig(cfg),
			MetricsPrefix:  "teraclinic",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func rateLimitRPS(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RequestsPerSecond
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		corsCfg.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.CORS.AllowedHeaders
	}
	return corsCfg
}
