package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"roomfindr-data/internal/config"
	"roomfindr-data/internal/domain"
	httpapi "roomfindr-data/internal/http"
	"roomfindr-data/internal/notify"
	"roomfindr-data/internal/repository"
	"roomfindr-data/internal/service"
	"roomfindr-data/internal/store"
	"roomfindr-data/pkg/database"
	"roomfindr-data/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "roomfindr-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Sessions live in Redis so any instance can resolve any token; fall back
	// to the in-process KV when Redis isn't reachable (dev).
	var kv store.KV
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory sessions", zap.Error(err))
		kv = store.NewMemoryKV()
	} else {
		kv = store.NewRedisKV(redisClient)
	}
	identity := httpapi.NewIdentityContext(kv)

	notifier := buildNotifier(cfg, redisClient, log)

	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for roomfindr-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}

	var (
		users        repository.UsersRepository
		properties   repository.PropertiesRepository
		reservations repository.ReservationsRepository
		templates    repository.PolicyTemplatesRepository
		bindings     repository.PropertyPoliciesRepository
		updates      repository.PolicyUpdatesRepository
		agreements   repository.RentalAgreementsRepository
	)
	if db != nil {
		users = repository.NewPostgresUsersRepository(db)
		properties = repository.NewPostgresPropertiesRepository(db)
		reservations = repository.NewPostgresReservationsRepository(db)
		templates = repository.NewPostgresPolicyTemplatesRepository(db)
		bindings = repository.NewPostgresPropertyPoliciesRepository(db)
		updates = repository.NewPostgresPolicyUpdatesRepository(db)
		agreements = repository.NewPostgresRentalAgreementsRepository(db)
	} else {
		memTemplates := repository.NewMemoryPolicyTemplatesRepo()
		users = repository.NewMemoryUsersRepo()
		properties = repository.NewMemoryPropertiesRepo()
		reservations = repository.NewMemoryReservationsRepo()
		templates = memTemplates
		bindings = repository.NewMemoryPropertyPoliciesRepo(memTemplates)
		updates = repository.NewMemoryPolicyUpdatesRepo()
		agreements = repository.NewMemoryRentalAgreementsRepo()
	}

	if os.Getenv("SEED_SYSTEM_TEMPLATES") != "false" {
		seedSystemTemplates(context.Background(), templates, log)
	}
	// Dev bootstrap so the API is usable without a registration flow.
	if db == nil && os.Getenv("SEED_DEMO_USERS") != "false" {
		seedDemoUsers(context.Background(), users, log)
	}

	changeSvc := service.NewPolicyChangeService(updates, reservations, notifier, log)
	templateSvc := service.NewPolicyTemplateService(templates, bindings, log)
	policySvc := service.NewPropertyPolicyService(bindings, templates, properties, changeSvc, log)
	agreementSvc := service.NewRentalAgreementService(agreements, reservations, properties, bindings, log)

	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(users, identity, log))
	router.RegisterPolicyTemplateRoutes(httpapi.NewPolicyTemplateHandler(templateSvc, identity, log))
	router.RegisterPropertyPolicyRoutes(httpapi.NewPropertyPolicyHandler(policySvc, identity, log))
	router.RegisterPolicyUpdateRoutes(httpapi.NewPolicyUpdateHandler(changeSvc, identity, log))
	router.RegisterRentalRoutes(httpapi.NewRentalHandler(properties, reservations, agreementSvc, policySvc, identity, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if closer, ok := notifier.(interface{ Close() }); ok {
		closer.Close()
	}
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}

// buildNotifier selects the outbound notification channel by NOTIFY_DRIVER.
func buildNotifier(cfg *config.Config, redisClient *redis.Client, log *zap.Logger) notify.Notifier {
	switch cfg.Notify.Driver {
	case "webhook":
		return notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.WebhookKey, log)
	case "stream":
		return notify.NewStreamNotifier(redisClient, cfg.Notify.Stream)
	case "mqtt":
		n, err := notify.NewMQTTNotifier(notify.MQTTConfig{
			Broker:   cfg.Notify.MQTT.Broker,
			ClientID: cfg.Notify.MQTT.ClientID,
			Username: cfg.Notify.MQTT.Username,
			Password: cfg.Notify.MQTT.Password,
			Topic:    cfg.Notify.MQTT.Topic,
			QoS:      1,
		})
		if err != nil {
			log.Warn("MQTT notifier unavailable, notifications disabled", zap.Error(err))
			return notify.NopNotifier{}
		}
		return n
	default:
		log.Info("no notification driver configured")
		return notify.NopNotifier{}
	}
}

// seedSystemTemplates ensures the platform baseline templates exist. Memory
// repos start empty on every boot; against Postgres the inserts only run when
// no system templates are present yet.
func seedSystemTemplates(ctx context.Context, templates repository.PolicyTemplatesRepository, log *zap.Logger) {
	// No owner filter: system templates only.
	existing, err := templates.ListTemplates(ctx, repository.TemplateFilters{})
	if err != nil {
		log.Warn("system template seed: list failed", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}

	seeds := []domain.PolicyTemplate{
		{Title: "Pets", Description: "Whether pets are allowed on the premises", Category: domain.CategoryPets, DefaultValue: "not allowed"},
		{Title: "Smoking", Description: "Whether smoking is allowed on the premises", Category: domain.CategorySmoking, DefaultValue: "not allowed"},
		{Title: "Overnight guests", Description: "Whether overnight guests are allowed", Category: domain.CategoryGuests, DefaultValue: "allowed with notice"},
		{Title: "Cleaning schedule", Description: "Shared-space cleaning expectations", Category: domain.CategoryCleaning, DefaultValue: "weekly"},
		{Title: "Cancellation", Description: "Notice required to cancel a reservation", Category: domain.CategoryCancellation, DefaultValue: "30 days notice"},
	}
	for i := range seeds {
		seeds[i].IsSystemTemplate = true
		if _, err := templates.CreateTemplate(ctx, &seeds[i]); err != nil {
			log.Warn("system template seed: insert failed",
				zap.String("title", seeds[i].Title), zap.Error(err))
		}
	}
	log.Info("seeded system policy templates", zap.Int("count", len(seeds)))
}

// seedDemoUsers creates one landlord and one tenant for local development.
func seedDemoUsers(ctx context.Context, users repository.UsersRepository, log *zap.Logger) {
	demo := []struct {
		account  string
		password string
		nickname string
		role     string
	}{
		{"landlord@roomfindr.local", "ChangeMe123!", "Demo Landlord", domain.RoleLandlord},
		{"tenant@roomfindr.local", "ChangeMe123!", "Demo Tenant", domain.RoleTenant},
	}
	for _, d := range demo {
		_, err := users.CreateUser(ctx, &domain.User{
			Nickname:     d.nickname,
			Email:        d.account,
			AccountHash:  httpapi.HashAccount(d.account),
			PasswordHash: httpapi.HashAccountPassword(d.account, d.password),
			Role:         d.role,
			Status:       "active",
		})
		if err != nil {
			log.Warn("demo user seed failed", zap.String("account", d.account), zap.Error(err))
		}
	}
	log.Info("seeded demo users", zap.Int("count", len(demo)))
}
