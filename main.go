package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"cypress/backend/auth"
	"cypress/backend/config"
	"cypress/backend/database"
	"cypress/backend/handlers"
	"cypress/backend/logger"
	"cypress/backend/mailer"
	"cypress/backend/middleware"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Init(config.C.DatabasePath)
	if err != nil {
		log.Fatal("Failed to init database:", err)
	}

	// Initialize structured logging
	slog.SetDefault(slog.New(logger.NewDBHandler(db)))
	go logger.CleanupOldLogs(db, config.C.Logs.MaxAge)

	m := mailer.New(&config.C.SMTP, config.C.PublicURL)
	svc := auth.NewService(db, m)
	h := handlers.New(db, svc)

	slog.Info("server starting", "source", "main", "listen", config.C.Listen, "public_url", config.C.PublicURL)

	mux := http.NewServeMux()

	// Health check (unauthenticated, for load balancers)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Home (requires a resolvable Session cookie)
	mux.HandleFunc("GET /{$}", middleware.RequireAuth(db, h.HomePage))

	// Account routes
	mux.HandleFunc("GET /signin", middleware.RequireGuest(h.SigninPage))
	mux.HandleFunc("POST /signin", middleware.RequireGuest(h.Signin))
	mux.HandleFunc("GET /signup", middleware.RequireGuest(h.SignupPage))
	mux.HandleFunc("POST /signup", middleware.RequireGuest(h.Signup))
	mux.HandleFunc("POST /signout", middleware.RequireAuth(db, h.Signout))

	// MFA enrollment (auth + factor-not-yet-enabled guards)
	mux.HandleFunc("GET /mfa/totp/activate", middleware.RequireTOTPNotEnabled(db, h.TOTPActivatePage))
	mux.HandleFunc("POST /mfa/totp/activate", middleware.RequireTOTPNotEnabled(db, h.TOTPActivate))
	mux.HandleFunc("GET /mfa/eotp/activate", middleware.RequireEOTPNotEnabled(db, h.EOTPActivatePage))
	mux.HandleFunc("POST /mfa/eotp/activate", middleware.RequireEOTPNotEnabled(db, h.EOTPActivate))

	// Everything else renders the not-found page
	mux.HandleFunc("/", h.NotFound)

	csrfSecret := config.C.Session.Secret
	if csrfSecret == "" {
		buf := make([]byte, 32)
		rand.Read(buf)
		csrfSecret = hex.EncodeToString(buf)
		slog.Warn("no session secret configured, CSRF tokens will not survive restarts", "source", "main")
	}
	csrf := middleware.NewCSRFProtection(csrfSecret)

	// Wrap all routes with CSRF validation and security headers
	handler := middleware.SecurityHeaders(csrf.Protect(mux))

	fmt.Printf("Server running at %s (public: %s)\n", config.C.Listen, config.C.PublicURL)
	if config.C.TLS.Enabled {
		slog.Info("starting server with TLS", "source", "main")
		log.Fatal(http.ListenAndServeTLS(config.C.Listen, config.C.TLS.Cert, config.C.TLS.Key, handler))
	} else {
		log.Fatal(http.ListenAndServe(config.C.Listen, handler))
	}
}
