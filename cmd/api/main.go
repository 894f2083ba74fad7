package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/williamdagle/clinic-admin-api/internal/config"
	"github.com/williamdagle/clinic-admin-api/internal/email"
	appointmenthandler "github.com/williamdagle/clinic-admin-api/internal/handler/appointment"
	audithandler "github.com/williamdagle/clinic-admin-api/internal/handler/audit"
	formhandler "github.com/williamdagle/clinic-admin-api/internal/handler/form"
	giftcardhandler "github.com/williamdagle/clinic-admin-api/internal/handler/giftcard"
	grouphandler "github.com/williamdagle/clinic-admin-api/internal/handler/group"
	healthhandler "github.com/williamdagle/clinic-admin-api/internal/handler/health"
	inventoryhandler "github.com/williamdagle/clinic-admin-api/internal/handler/inventory"
	membershiphandler "github.com/williamdagle/clinic-admin-api/internal/handler/membership"
	notehandler "github.com/williamdagle/clinic-admin-api/internal/handler/note"
	patienthandler "github.com/williamdagle/clinic-admin-api/internal/handler/patient"
	taskhandler "github.com/williamdagle/clinic-admin-api/internal/handler/task"
	userhandler "github.com/williamdagle/clinic-admin-api/internal/handler/user"
	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/repository/postgres"
	"github.com/williamdagle/clinic-admin-api/internal/router"
	appointmentservice "github.com/williamdagle/clinic-admin-api/internal/service/appointment"
	auditservice "github.com/williamdagle/clinic-admin-api/internal/service/audit"
	eventservice "github.com/williamdagle/clinic-admin-api/internal/service/event"
	formservice "github.com/williamdagle/clinic-admin-api/internal/service/form"
	giftcardservice "github.com/williamdagle/clinic-admin-api/internal/service/giftcard"
	groupservice "github.com/williamdagle/clinic-admin-api/internal/service/group"
	inventoryservice "github.com/williamdagle/clinic-admin-api/internal/service/inventory"
	membershipservice "github.com/williamdagle/clinic-admin-api/internal/service/membership"
	noteservice "github.com/williamdagle/clinic-admin-api/internal/service/note"
	patientservice "github.com/williamdagle/clinic-admin-api/internal/service/patient"
	taskservice "github.com/williamdagle/clinic-admin-api/internal/service/task"
	userservice "github.com/williamdagle/clinic-admin-api/internal/service/user"
	"github.com/williamdagle/clinic-admin-api/pkg/auth"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
	"github.com/williamdagle/clinic-admin-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(nil)

	pools, err := postgres.NewPools(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer pools.Close()

	// Repositories. Identity writes go through the privileged pool only.
	identityRepo := postgres.NewIdentityRepository(pools.Privileged)
	profileRepo := postgres.NewProfileRepository(pools.App, pools.Privileged)
	patientRepo := postgres.NewPatientRepository(pools.App)
	noteRepo := postgres.NewNoteRepository(pools.App)
	appointmentRepo := postgres.NewAppointmentRepository(pools.App)
	groupRepo := postgres.NewGroupRepository(pools.App)
	giftCardRepo := postgres.NewGiftCardRepository(pools.App)
	membershipRepo := postgres.NewMembershipRepository(pools.App)
	inventoryRepo := postgres.NewInventoryRepository(pools.App)
	formRepo := postgres.NewFormRepository(pools.App)
	taskRepo := postgres.NewTaskRepository(pools.App)
	auditRepo := postgres.NewAuditRepository(pools.App)
	outboxRepo := postgres.NewOutboxRepository(pools.App)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(0)
	mailer := email.NewService(cfg.Email, log)

	auditSvc := auditservice.NewService(auditRepo, log)
	emitter := eventservice.NewService(outboxRepo, log)

	userSvc := userservice.NewService(identityRepo, profileRepo, hasher, jwtSvc, auditSvc, log)
	patientSvc := patientservice.NewService(patientRepo, emitter, auditSvc)
	noteSvc := noteservice.NewService(noteRepo, patientRepo, auditSvc)
	appointmentSvc := appointmentservice.NewService(appointmentRepo, patientRepo, auditSvc, mailer, log)
	groupSvc := groupservice.NewService(groupRepo, patientRepo, auditSvc)
	giftCardSvc := giftcardservice.NewService(giftCardRepo, auditSvc)
	membershipSvc := membershipservice.NewService(membershipRepo, patientRepo, emitter, auditSvc)
	inventorySvc := inventoryservice.NewService(inventoryRepo, auditSvc)
	formSvc := formservice.NewService(formRepo, patientRepo, auditSvc)
	taskSvc := taskservice.NewService(taskRepo, emitter, auditSvc)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, userSvc)

	r := router.NewRouter(
		authMiddleware,
		userhandler.NewHandler(userSvc, authMiddleware),
		healthhandler.NewHandler(pools.App),
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimit),
			RateBurst:  cfg.Server.RateBurst,
			CORSConfig: middleware.DefaultCORSConfig(),
			Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		patienthandler.NewHandler(patientSvc),
		notehandler.NewHandler(noteSvc),
		appointmenthandler.NewHandler(appointmentSvc),
		grouphandler.NewHandler(groupSvc),
		giftcardhandler.NewHandler(giftCardSvc),
		membershiphandler.NewHandler(membershipSvc),
		inventoryhandler.NewHandler(inventorySvc),
		formhandler.NewHandler(formSvc),
		taskhandler.NewHandler(taskSvc),
		audithandler.NewHandler(auditSvc),
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
		log.Error(err, "forced shutdown")
	}
}
