package main

import (
	"context"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhishek622/portfolio/internal/auth"
	"github.com/abhishek622/portfolio/internal/cache"
	"github.com/abhishek622/portfolio/internal/config"
	"github.com/abhishek622/portfolio/internal/database"
	"github.com/abhishek622/portfolio/internal/handler"
	"github.com/abhishek622/portfolio/internal/logger"
	"github.com/abhishek622/portfolio/internal/mailer"
	"github.com/abhishek622/portfolio/internal/ratelimit"
	"github.com/abhishek622/portfolio/internal/repository"
	"github.com/abhishek622/portfolio/internal/service"
)

type application struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository *repository.Repository
	Redis      *redis.Client
	Limiter    ratelimit.Store
	Contacts   *service.ContactService
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, %s", cfg)

	openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	repo, err := database.Open(openCtx, cfg.Store)
	cancel()
	if err != nil {
		sugar.Fatalw("failed to open store", "driver", cfg.Store.Driver, "err", err)
	}
	sugar.Infow("store connected", "driver", repo.Name())

	checks := []handler.HealthCheck{repo}

	var (
		rdb     *redis.Client
		limiter ratelimit.Store
	)
	if cfg.Redis.Enabled {
		rdb = cache.NewRedisClient(cfg.Redis)
		if err := cache.Ping(ctx, rdb); err != nil {
			sugar.Fatalw("failed to connect to redis", "addr", cfg.Redis.Addr, "err", err)
		}
		checks = append(checks, cache.Checker{Client: rdb})
		limiter = ratelimit.NewRedisStore(rdb)
	} else {
		limiter = ratelimit.NewMemoryStore(cfg.Limiter.CleanupInterval)
	}

	mail := mailer.New(cfg.SMTP)
	var notifier service.Notifier
	if mail.Enabled() {
		if err := mail.Verify(ctx); err != nil {
			sugar.Warnw("smtp verification failed, notifications may not be delivered", "host", cfg.SMTP.Host, "err", err)
		} else {
			sugar.Infow("smtp server is ready", "host", cfg.SMTP.Host)
		}
		notifier = mail
	}

	var admin *auth.AdminAuthenticator
	if cfg.AdminEnabled() {
		maker := auth.NewJWTMaker(cfg.JWT.Secret, cfg.JWT.Issuer)
		admin = auth.NewAdminAuthenticator(cfg.Admin.Username, cfg.Admin.PasswordHash, maker, cfg.JWT.AccessTokenTTL)
	} else {
		sugar.Warn("ADMIN_PASSWORD_HASH is empty, admin API disabled")
	}

	contacts := service.NewContactService(repo.Contact, notifier, log)

	app := &application{
		Config:     cfg,
		Logger:     log,
		Repository: repo,
		Redis:      rdb,
		Limiter:    limiter,
		Contacts:   contacts,
		Handler: &handler.Handler{
			Logger:     log,
			Interviews: service.NewInterviewService(repo.Interview),
			Contacts:   contacts,
			Auth:       admin,
			Checks:     checks,
			Production: cfg.IsProduction(),
		},
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
