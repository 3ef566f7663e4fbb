package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appointmentHandler "github.com/emilyhospital/hospital-api/internal/handler/appointment"
	authHandler "github.com/emilyhospital/hospital-api/internal/handler/auth"
	doctorHandler "github.com/emilyhospital/hospital-api/internal/handler/doctor"
	healthHandler "github.com/emilyhospital/hospital-api/internal/handler/health"
	insightHandler "github.com/emilyhospital/hospital-api/internal/handler/insight"
	medicalRecordHandler "github.com/emilyhospital/hospital-api/internal/handler/medicalrecord"
	patientHandler "github.com/emilyhospital/hospital-api/internal/handler/patient"
	userHandler "github.com/emilyhospital/hospital-api/internal/handler/user"

	"github.com/emilyhospital/hospital-api/internal/config"
	"github.com/emilyhospital/hospital-api/internal/middleware"
	"github.com/emilyhospital/hospital-api/internal/notification"
	"github.com/emilyhospital/hospital-api/internal/repository/postgres"
	"github.com/emilyhospital/hospital-api/internal/router"
	appointmentService "github.com/emilyhospital/hospital-api/internal/service/appointment"
	authService "github.com/emilyhospital/hospital-api/internal/service/auth"
	doctorService "github.com/emilyhospital/hospital-api/internal/service/doctor"
	insightService "github.com/emilyhospital/hospital-api/internal/service/insight"
	medicalService "github.com/emilyhospital/hospital-api/internal/service/medical"
	patientService "github.com/emilyhospital/hospital-api/internal/service/patient"
	userService "github.com/emilyhospital/hospital-api/internal/service/user"
	"github.com/emilyhospital/hospital-api/pkg/auth"
	"github.com/emilyhospital/hospital-api/pkg/logger"
	redisbroker "github.com/emilyhospital/hospital-api/pkg/messaging/redis"
	"github.com/emilyhospital/hospital-api/pkg/metrics"
	"github.com/emilyhospital/hospital-api/pkg/predictor"
	"github.com/emilyhospital/hospital-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Output: os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("hospital_api")

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	medicalRecordRepo := postgres.NewMedicalRecordRepository(db)
	insightRepo := postgres.NewAIInsightRepository(db)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	notifSvc := notification.NewService(notification.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log.Zerolog())
	predictorClient := predictor.NewClient(predictor.Config{
		DeploymentURL: cfg.ML.DeploymentURL,
		APIKey:        cfg.ML.APIKey,
		Timeout:       cfg.ML.RequestTimeout,
	}, log.Zerolog())

	authSvc := authService.NewService(userRepo, jwtSvc, hasher, notifSvc)
	userSvc := userService.NewService(userRepo)
	doctorSvc := doctorService.NewService(doctorRepo)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, broker, m)
	medicalSvc := medicalService.NewService(medicalRecordRepo)
	insightSvc := insightService.NewService(insightRepo, appointmentRepo, predictorClient, m)

	authMw := middleware.NewAuthMiddleware(jwtSvc, userRepo, doctorRepo)

	r := router.NewRouter(
		authMw,
		authHandler.NewHandler(authSvc),
		healthHandler.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "hospital_api_http",
		},
		userHandler.NewHandler(userSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		medicalRecordHandler.NewHandler(medicalSvc),
		insightHandler.NewHandler(insightSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "forced shutdown")
	}

	log.Info("server stopped")
}
