package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/pkaminski-dev/FinanceTracker/internal/auth"
	database "github.com/pkaminski-dev/FinanceTracker/internal/db"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/application"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/infrastructure"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/interfaces"
	"github.com/pkaminski-dev/FinanceTracker/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	authService        auth.Service
	userHandler        *user.Handler
	transactionHandler *interfaces.TransactionHandler
	accountHandler     *interfaces.AccountHandler
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	transactionHandler *interfaces.TransactionHandler,
	accountHandler *interfaces.AccountHandler,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		authHandler:        authHandler,
		authService:        authService,
		userHandler:        userHandler,
		transactionHandler: transactionHandler,
		accountHandler:     accountHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleSignup))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	withAuth := s.authService.JWTAccessTokenMiddleware()

	protectedRoutes.Handle("GET /api/protected/profile", withAuth(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", withAuth(http.HandlerFunc(s.userHandler.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", withAuth(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/confirm", withAuth(http.HandlerFunc(s.authHandler.HandleConfirmTwoFactor)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", withAuth(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// ACCOUNTS API
	protectedRoutes.Handle("POST /api/protected/accounts",
		withAuth(http.HandlerFunc(s.accountHandler.HandleCreateAccount)))
	protectedRoutes.Handle("PUT /api/protected/accounts/{accountID}",
		withAuth(http.HandlerFunc(s.accountHandler.HandleRenameAccount)))
	protectedRoutes.Handle("DELETE /api/protected/accounts/{accountID}",
		withAuth(http.HandlerFunc(s.accountHandler.HandleDeleteAccount)))

	// CATEGORIES API
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/categories",
		withAuth(http.HandlerFunc(s.accountHandler.HandleAddCategory)))
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/categories/{categoryID}/subcategories",
		withAuth(http.HandlerFunc(s.accountHandler.HandleAddSubcategory)))
	protectedRoutes.Handle("DELETE /api/protected/accounts/{accountID}/categories/{categoryID}",
		withAuth(http.HandlerFunc(s.accountHandler.HandleDeleteCategory)))

	// TRANSACTIONS API
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/transactions",
		withAuth(http.HandlerFunc(s.transactionHandler.HandleAddTransaction)))
	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}/transactions",
		withAuth(http.HandlerFunc(s.transactionHandler.HandleFilterTransactions)))
	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}/transactions/{transactionID}",
		withAuth(http.HandlerFunc(s.transactionHandler.HandleGetTransaction)))
	protectedRoutes.Handle("PUT /api/protected/accounts/{accountID}/transactions/{transactionID}",
		withAuth(http.HandlerFunc(s.transactionHandler.HandleUpdateTransaction)))
	protectedRoutes.Handle("DELETE /api/protected/accounts/{accountID}/transactions/{transactionID}",
		withAuth(http.HandlerFunc(s.transactionHandler.HandleDeleteTransaction)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.HandleRefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

// StartAuditScheduler periodically recomputes every account's income and
// expense totals from its stored transactions and logs any drift.
func StartAuditScheduler(auditService *application.AuditService) error {
	c := cron.New()
	_, err := c.AddFunc("@every 6h", func() {
		drifted, err := auditService.AuditAll()
		if err != nil {
			log.Printf("Error auditing account totals: %v", err)
			return
		}
		if drifted > 0 {
			log.Printf("Audit finished: %d account(s) with drifted totals", drifted)
		} else {
			log.Println("Audit finished: all account totals consistent.")
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.EnsureSchema(); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}

	userRepo := infrastructure.NewUserRepository(dbService.DB)

	sessionManager := auth.NewSessionManager()
	jwtManager := auth.NewJWTManager()
	authenticator := auth.Authenticator{}

	userService := user.NewUserService(userRepo)
	userHandler := user.NewHandler(userService)
	authService := auth.NewAuthService(userService, sessionManager, jwtManager, authenticator)
	authHandler := auth.NewHandler(authService)

	ledger := application.NewLedger()
	transactionService := application.NewTransactionService(userRepo, ledger)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)

	accountService := application.NewAccountService(userRepo)
	accountHandler := interfaces.NewAccountHandler(accountService, respondJSON, respondError)

	server := NewServer(authHandler, authService, userHandler, transactionHandler, accountHandler)
	server.RegisterRoutes()

	sessionManager.StartSessionTokenCleanup(10 * time.Minute)

	auditService := application.NewAuditService(userRepo)
	if err := StartAuditScheduler(auditService); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	handler := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
