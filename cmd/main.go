package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/andressep95/deen-service/internal/access"
	"github.com/andressep95/deen-service/internal/config"
	"github.com/andressep95/deen-service/internal/handler"
	"github.com/andressep95/deen-service/internal/handler/middleware"
	"github.com/andressep95/deen-service/internal/metrics"
	"github.com/andressep95/deen-service/internal/repository/postgres"
	"github.com/andressep95/deen-service/internal/seed"
	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/blacklist"
	"github.com/andressep95/deen-service/pkg/email"
	"github.com/andressep95/deen-service/pkg/hash"
	"github.com/andressep95/deen-service/pkg/jwt"
	"github.com/andressep95/deen-service/pkg/logger"
	"github.com/andressep95/deen-service/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("service stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("error closing database connection")
		}
	}()
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			return err
		}
	}

	redisClient, err := initRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Warn("error closing redis connection")
		}
	}()
	log.Info("redis connection established")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	permRepo := postgres.NewPermissionRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	duaRepo := postgres.NewDuaRepository(db)
	ayahRepo := postgres.NewAyahRepository(db)

	tokenService, err := jwt.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.Issuer,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	hasher := hash.New(hash.DefaultParams)
	tokenBlacklist := blacklist.NewTokenBlacklist(redisClient)
	notifier := newNotifier(cfg, log)

	if cfg.Seed.Enabled {
		err := seed.Run(ctx, seed.Deps{Users: userRepo, Permissions: permRepo, Hasher: hasher, Log: log}, cfg.SuperAdmin)
		if err != nil {
			return err
		}
	}

	// Services
	authService := service.NewAuthService(userRepo, tokenService, hasher, tokenBlacklist, notifier, log)
	userService := service.NewUserService(userRepo, tokenBlacklist, tokenService, notifier, log)
	permService := service.NewPermissionService(permRepo, userRepo, log)
	bookmarkService := service.NewBookmarkService(postgres.NewBookmarkRepository(db), duaRepo, ayahRepo, log)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	gate := access.NewGate(tokenService, userRepo, permRepo, access.WithObserver(m))

	loginLimiter, err := middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst, cfg.RateLimit.MaxClients)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	validate := validator.NewValidator()
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, validate, cfg.Server.IsProduction(), cfg.JWT.RefreshTokenExpiry),
		User:       handler.NewUserHandler(userService, validate),
		Permission: handler.NewPermissionHandler(permService, validate),
		Bookmark:   handler.NewBookmarkHandler(bookmarkService, validate),
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"database": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
		Category:   handler.NewContentHandler(service.NewCategoryService(categoryRepo), validate, "Category"),
		Book:       handler.NewContentHandler(service.NewBookService(postgres.NewBookRepository(db)), validate, "Book"),
		Dictionary: handler.NewContentHandler(service.NewDictionaryService(postgres.NewDictionaryRepository(db)), validate, "Dictionary word"),
		Dua:        handler.NewContentHandler(service.NewDuaService(duaRepo), validate, "Dua"),
		Tafsir:     handler.NewContentHandler(service.NewTafsirService(postgres.NewTafsirRepository(db)), validate, "Tafsir"),
		Blog:       handler.NewContentHandler(service.NewBlogService(postgres.NewBlogRepository(db)), validate, "Blog"),

		Surah:       handler.NewContentHandler(service.NewSurahService(postgres.NewSurahRepository(db)), validate, "Surah"),
		Para:        handler.NewContentHandler(service.NewParaService(postgres.NewParaRepository(db)), validate, "Para"),
		Ayah:        handler.NewContentHandler(service.NewAyahService(ayahRepo), validate, "Ayah"),
		BookContent: handler.NewContentHandler(service.NewBookContentService(postgres.NewBookContentRepository(db)), validate, "Book content"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Deen Service",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler(log),
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
	})

	app.Use(middleware.Recovery(log))
	app.Use(requestid.New())
	app.Use(middleware.Logger(log))
	app.Use(m.Middleware())
	app.Use(middleware.CORS(cfg.Server.AllowOrigins))

	handler.SetupRoutes(app, handlers, gate, loginLimiter.Handler(), m.Handler())

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		log.WithFields(logrus.Fields{"addr": addr, "environment": cfg.Server.Environment}).Info("server starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	}
	log.Info("server stopped")
	return nil
}

// initDB connects to PostgreSQL, retrying while the database starts up.
func initDB(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*sqlx.DB, error) {
	const maxRetries = 5
	retryInterval := 2 * time.Second

	var (
		db  *sqlx.DB
		err error
	)
	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
		if err == nil {
			break
		}

		log.WithError(err).WithField("attempt", i+1).Warn("failed to connect to database")
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryInterval):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func initRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func newNotifier(cfg *config.Config, log logrus.FieldLogger) email.Notifier {
	if !cfg.Email.Enabled {
		log.Info("email disabled, using log notifier")
		return email.NewNoopNotifier(log)
	}

	n, err := email.NewResendNotifier(email.Config{
		APIKey:    cfg.Email.ResendAPIKey,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		AppName:   "Deen",
	}, log)
	if err != nil {
		log.WithError(err).Warn("email disabled, resend notifier could not be created")
		return email.NewNoopNotifier(log)
	}
	return n
}
