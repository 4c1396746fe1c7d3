package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/expensio/backend/internal/auth/http"
	authservice "github.com/expensio/backend/internal/auth/service"
	"github.com/expensio/backend/internal/common/clock"
	"github.com/expensio/backend/internal/common/config"
	commoncrypto "github.com/expensio/backend/internal/common/crypto"
	"github.com/expensio/backend/internal/common/db"
	commonhttp "github.com/expensio/backend/internal/common/http"
	"github.com/expensio/backend/internal/common/jwtverify"
	"github.com/expensio/backend/internal/common/logger"
	srv "github.com/expensio/backend/internal/common/server"
	expensehttp "github.com/expensio/backend/internal/expense/http"
	expenserepo "github.com/expensio/backend/internal/expense/repository"
	expenseservice "github.com/expensio/backend/internal/expense/service"
	userrepo "github.com/expensio/backend/internal/user/repository"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	systemClock := &clock.RealClock{}
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := &commoncrypto.UUIDGenerator{}

	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, systemClock)
	authService := authservice.NewAuthService(authservice.AuthServiceDeps{
		Repo:        userrepo.NewPgRepository(pool),
		Issuer:      issuer,
		Hasher:      hasher,
		IDGenerator: idGenerator,
		Clock:       systemClock,
		Log:         log,
	})
	expenseService := expenseservice.NewExpenseService(expenseservice.ExpenseServiceDeps{
		Repo:        expenserepo.NewPgRepository(pool),
		IDGenerator: idGenerator,
		Clock:       systemClock,
		Log:         log,
	})

	authHandler := authhttp.NewHandler(authService, log, cfg.RequestTimeout)
	expenseHandler := expensehttp.NewHandler(expenseService, log, cfg.RequestTimeout)

	requireToken := jwtverify.Middleware(cfg.JWTSecret, log)

	expenseMux := http.NewServeMux()
	expenseHandler.Register(expenseMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	authHandler.Register(mux)
	mux.Handle("/api/expenses", requireToken(expenseMux))
	mux.Handle("/api/expenses/", requireToken(expenseMux))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler("api", log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.Middleware()(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	srv.StartWithGracefulShutdown(server, log, "api")
}
