package main

import (
	"ERPAuth/config"
	"ERPAuth/controllers"
	"ERPAuth/database"
	"ERPAuth/middlewares"
	"ERPAuth/repositories"
	"ERPAuth/services"
	"ERPAuth/utils/logger"
	"ERPAuth/utils/metrics"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	Config        *config.Config
	DB            *gorm.DB
	RedisClient   *redis.Client
	UserRepo      repositories.UserRepository
	TokenRepo     repositories.TokenRepositoryInterface
	PolicySvc     *services.PasswordPolicyService
	LockoutSvc    *services.AccountLockoutService
	AuthService   *services.AuthService
	ResetService  *services.PasswordResetService
	RateLimiter   services.RateLimiter
	Security      *middlewares.SecurityConfig
	Proxies       middlewares.TrustedProxies
	EmailService  services.EmailService
	CleanupPeriod time.Duration
}

// NewDependencies wires the services. The policy must already be validated.
func NewDependencies(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, policySvc *services.PasswordPolicyService, emailSvc services.EmailService) (*Dependencies, error) {
	security, err := middlewares.NewSecurityConfig(cfg.Environment, cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}
	proxies, err := middlewares.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	lockoutSvc := services.NewAccountLockoutService(redisClient, services.DefaultLockoutConfig())

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		RedisClient:  redisClient,
		UserRepo:     userRepo,
		TokenRepo:    tokenRepo,
		PolicySvc:    policySvc,
		LockoutSvc:   lockoutSvc,
		AuthService:  services.NewAuthService(userRepo, tokenRepo, policySvc, lockoutSvc, redisClient, cfg),
		ResetService: services.NewPasswordResetService(userRepo, tokenRepo, policySvc, lockoutSvc, emailSvc, cfg.Password.ResetTokenTTL),
		RateLimiter: services.NewRateLimiter(redisClient, services.RateLimiterConfig{
			MaxAttempts: 100,
			Window:      time.Minute,
		}),
		Security:      security,
		Proxies:       proxies,
		EmailService:  emailSvc,
		CleanupPeriod: 24 * time.Hour,
	}, nil
}

func initLogger() zerolog.Logger {
	logger.Init()
	return logger.GetLogger("main")
}

func initPolicy(cfg *config.Config, log zerolog.Logger) *services.PasswordPolicyService {
	policy, err := cfg.PasswordPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid password policy")
	}
	log.Info().
		Int("min_length", policy.MinLength).
		Int("max_length", policy.MaxLength).
		Int("common_passwords", len(policy.CommonPasswords)).
		Int("keyboard_patterns", len(policy.KeyboardPatterns)).
		Msg("Password policy loaded")
	return services.NewPasswordPolicyService(policy)
}

func initDatabase(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := database.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database schema")
	}
	log.Info().Msg("Database schema migrated successfully")
	return db
}

func initRedis(cfg *config.Config, log zerolog.Logger) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Connected to Redis successfully")
	return redisClient
}

func setupRouter(deps *Dependencies) *mux.Router {
	healthController := controllers.NewHealthController(deps.DB, deps.RedisClient)
	authController := controllers.NewAuthController(deps.AuthService, deps.PolicySvc)
	resetController := controllers.NewPasswordResetController(deps.ResetService, deps.PolicySvc)
	policyController := controllers.NewPasswordPolicyController(deps.PolicySvc)
	authMiddleware := middlewares.NewAuthMiddleware(deps.AuthService)

	router := mux.NewRouter()
	router.Use(middlewares.LoggerMiddleware)
	router.Use(deps.Security.SecurityMiddleware)

	router.HandleFunc("/health", healthController.Check).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middlewares.RateLimitMiddleware(deps.RateLimiter, deps.Proxies))

	api.HandleFunc("/password/check", policyController.Check).Methods("POST", "OPTIONS")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authController.Register).Methods("POST", "OPTIONS")
	auth.HandleFunc("/login", authController.Login).Methods("POST", "OPTIONS")
	auth.HandleFunc("/refresh", authController.RefreshToken).Methods("POST", "OPTIONS")
	auth.HandleFunc("/password-reset/request", resetController.RequestReset).Methods("POST", "OPTIONS")
	auth.HandleFunc("/password-reset/confirm", resetController.ResetPassword).Methods("POST", "OPTIONS")

	protected := auth.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/logout", authController.Logout).Methods("POST", "OPTIONS")
	protected.HandleFunc("/password", authController.ChangePassword).Methods("POST", "OPTIONS")

	return router
}

func startCleanupRoutine(ctx context.Context, tokenRepo repositories.TokenRepositoryInterface, period time.Duration, log zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := tokenRepo.CleanupExpiredTokens(); err != nil {
					log.Error().Err(err).Msg("Failed to cleanup expired tokens")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func startServer(router *mux.Router, deps *Dependencies, log zerolog.Logger) {
	srv := &http.Server{
		Addr:         ":" + deps.Config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", deps.Config.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := database.Close(deps.DB); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}
	if err := deps.RedisClient.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Redis connection")
	}

	log.Info().Msg("Server exited properly")
}

func main() {
	log := initLogger()
	log.Info().Msg("Starting ERP authentication service")

	cfg := config.LoadConfig()
	log.Debug().Str("env", cfg.Environment).Str("port", cfg.Port).Msg("Configuration loaded")

	policySvc := initPolicy(cfg, log)
	db := initDatabase(cfg, log)
	redisClient := initRedis(cfg, log)

	deps, err := NewDependencies(db, redisClient, cfg, policySvc, services.NewSMTPEmailService(cfg.SMTP, cfg.FrontendURL))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	router := setupRouter(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startCleanupRoutine(ctx, deps.TokenRepo, deps.CleanupPeriod, log)
	startServer(router, deps, log)
}
