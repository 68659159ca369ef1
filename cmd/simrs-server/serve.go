package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simrs/simrs/internal/config"
	"github.com/simrs/simrs/internal/domain/billing"
	"github.com/simrs/simrs/internal/domain/dashboard"
	"github.com/simrs/simrs/internal/domain/inpatient"
	"github.com/simrs/simrs/internal/domain/laboratory"
	"github.com/simrs/simrs/internal/domain/medicalrecord"
	"github.com/simrs/simrs/internal/domain/patient"
	"github.com/simrs/simrs/internal/domain/pharmacy"
	"github.com/simrs/simrs/internal/domain/scheduling"
	"github.com/simrs/simrs/internal/domain/staff"
	"github.com/simrs/simrs/internal/platform/auth"
	"github.com/simrs/simrs/internal/platform/db"
	"github.com/simrs/simrs/internal/platform/middleware"
	"github.com/simrs/simrs/internal/platform/redislock"
	"github.com/simrs/simrs/internal/platform/satusehat"
)

// repositories bundles every domain store so serve can swap the whole set
// between the in-memory and PostgreSQL implementations.
type repositories struct {
	patients  patient.Repository
	doctors   staff.Repository
	appts     scheduling.Repository
	records   medicalrecord.Repository
	pharmacy  pharmacy.Repository
	labs      laboratory.Repository
	inpatient inpatient.Repository
	billing   billing.Repository
	syncJobs  satusehat.JobStore
}

func memRepositories() *repositories {
	return &repositories{
		patients:  patient.NewMemRepo(),
		doctors:   staff.NewMemRepo(),
		appts:     scheduling.NewMemRepo(),
		records:   medicalrecord.NewMemRepo(),
		pharmacy:  pharmacy.NewMemRepo(),
		labs:      laboratory.NewMemRepo(),
		inpatient: inpatient.NewMemRepo(),
		billing:   billing.NewMemRepo(),
		syncJobs:  satusehat.NewMemStore(),
	}
}

func pgRepositories(pool *pgxpool.Pool) *repositories {
	return &repositories{
		patients:  patient.NewPGRepo(pool),
		doctors:   staff.NewPGRepo(pool),
		appts:     scheduling.NewPGRepo(pool),
		records:   medicalrecord.NewPGRepo(pool),
		pharmacy:  pharmacy.NewPGRepo(pool),
		labs:      laboratory.NewPGRepo(pool),
		inpatient: inpatient.NewPGRepo(pool),
		billing:   billing.NewPGRepo(pool),
		syncJobs:  satusehat.NewPGStore(pool),
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg, newLogger(cfg))
		},
	}
}

func serve(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos *repositories
	var pool *pgxpool.Pool
	if cfg.UseMemoryStore() {
		log.Warn().Msg("running on the in-memory store")
		repos = memRepositories()
	} else {
		var err error
		pool, err = db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		repos = pgRepositories(pool)
	}

	var locker redislock.Locker
	if cfg.RedisURL != "" {
		rdb, err := redislock.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		locker = redislock.New(rdb, 10*time.Second)
		log.Info().Msg("redis bed locking enabled")
	}

	// services
	patientSvc := patient.NewService(repos.patients)
	staffSvc := staff.NewService(repos.doctors)
	schedulingSvc := scheduling.NewService(repos.appts)
	recordSvc := medicalrecord.NewService(repos.records)
	pharmacySvc := pharmacy.NewService(repos.pharmacy)
	labSvc := laboratory.NewService(repos.labs)
	inpatientSvc := inpatient.NewService(repos.inpatient, locker)
	billingSvc := billing.NewService(repos.billing)
	dashboardSvc := dashboard.NewService(patientSvc, schedulingSvc, inpatientSvc, billingSvc)

	if cfg.SatuSehatEnabled() {
		bridge := &satuSehatBridge{store: repos.syncJobs, orgID: cfg.SatuSehatOrgID, log: log}
		patientSvc.SetSyncer(bridge)
		recordSvc.SetSyncer(bridge)

		tokens := satusehat.NewTokenManager(
			satusehat.NewHTTPClient(cfg.SatuSehatAuthURL),
			cfg.SatuSehatAuthURL, cfg.SatuSehatClientID, cfg.SatuSehatClientSecret)
		client := satusehat.NewClient(satusehat.NewHTTPClient(cfg.SatuSehatBaseURL), tokens, cfg.SatuSehatOrgID)
		worker := satusehat.NewWorker(repos.syncJobs, client, cfg.SatuSehatSyncInterval, log)
		go worker.Run(ctx)
	} else {
		log.Info().Msg("satusehat sync disabled")
	}

	// http server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))
	e.Use(middleware.Recovery(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	api := e.Group("/api")
	if cfg.AuthSecret != "" {
		api.Use(auth.JWTMiddleware(auth.JWTConfig{SigningKey: []byte(cfg.AuthSecret)}))
	} else {
		log.Warn().Msg("AUTH_SECRET not set, every request runs as admin")
		api.Use(auth.DevAuthMiddleware())
	}

	patient.NewHandler(patientSvc).RegisterRoutes(api)
	staff.NewHandler(staffSvc).RegisterRoutes(api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)
	medicalrecord.NewHandler(recordSvc).RegisterRoutes(api)
	pharmacy.NewHandler(pharmacySvc).RegisterRoutes(api)
	laboratory.NewHandler(labSvc).RegisterRoutes(api)
	inpatient.NewHandler(inpatientSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api)
	satusehat.NewHandler(repos.syncJobs).RegisterRoutes(api)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// satuSehatBridge turns domain events into queued FHIR pushes. Enqueue
// failures are logged and never surface to the clinical workflow.
type satuSehatBridge struct {
	store satusehat.JobStore
	orgID string
	log   zerolog.Logger
}

func (b *satuSehatBridge) PatientRegistered(ctx context.Context, p *patient.Patient) {
	if p.NIK == nil {
		return
	}
	payload, err := satusehat.PatientResource(*p.NIK, p.Name, p.Gender, p.BirthDate.Format("2006-01-02"))
	if err != nil {
		b.log.Error().Err(err).Msg("build patient resource")
		return
	}
	b.enqueue(ctx, "Patient", "patient:"+p.ID.String(), payload)
}

func (b *satuSehatBridge) EncounterCreated(ctx context.Context, rec *medicalrecord.Record) {
	payload, err := satusehat.EncounterResource(b.orgID,
		"Patient/"+rec.PatientID.String(),
		"Practitioner/"+rec.DoctorID.String(),
		"AMB", rec.CreatedAt)
	if err != nil {
		b.log.Error().Err(err).Msg("build encounter resource")
		return
	}
	b.enqueue(ctx, "Encounter", "encounter:"+rec.ID.String(), payload)
}

func (b *satuSehatBridge) enqueue(ctx context.Context, resourceType, key string, payload json.RawMessage) {
	job := &satusehat.Job{ResourceType: resourceType, IdempotencyKey: key, Payload: payload}
	if err := b.store.Enqueue(ctx, job); err != nil {
		b.log.Error().Err(err).Str("idempotency_key", key).Msg("enqueue sync job")
	}
}
