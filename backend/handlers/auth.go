package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cypress/backend/auth"
	"cypress/backend/config"
	"cypress/backend/models"
	"cypress/frontend/templates"

	"gorm.io/gorm"
)

// Handler holds the request-scoped dependencies. Everything is injected;
// there are no package-level singletons.
type Handler struct {
	DB   *gorm.DB
	Auth *auth.Service
}

func New(db *gorm.DB, svc *auth.Service) *Handler {
	return &Handler{DB: db, Auth: svc}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.C.Session.Timeout.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.C.TLS.Enabled,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.C.TLS.Enabled,
	})
}

// formBool reads a checkbox-style form value under either of the accepted
// field names.
func formBool(r *http.Request, names ...string) bool {
	for _, name := range names {
		switch r.FormValue(name) {
		case "true", "on", "1":
			return true
		}
	}
	return false
}

// HomePage renders the signed-in landing page with a Gravatar avatar.
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request, user *models.User) {
	sum := md5.Sum([]byte(strings.ToLower(user.Email)))
	gravatarQuery := hex.EncodeToString(sum[:]) + "?d=identicon&s=300"
	templates.Home(user.Name, user.Email, gravatarQuery).Render(r.Context(), w)
}

func (h *Handler) SigninPage(w http.ResponseWriter, r *http.Request) {
	templates.Signin("", "").Render(r.Context(), w)
}

// Signin runs one round trip of the MFA challenge engine and renders
// whichever state it lands in.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	in := auth.SigninInput{
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		OTPCode:     r.FormValue("otp_code"),
		UseEmailMFA: formBool(r, "use_email_mfa", "email_mfa"),
	}

	res, err := h.Auth.Signin(r.Context(), in)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		slog.Warn("signin failed: invalid credentials", "source", "auth", "email", in.Email)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Signin("Invalid email or password", in.Email).Render(r.Context(), w)
	case errors.Is(err, auth.ErrInvalidOTPCode):
		slog.Warn("signin failed: invalid OTP code", "source", "auth", "user_id", res.User.ID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.MFAChallenge(res.Challenge, "Invalid OTP code", in.Email, in.Password, in.UseEmailMFA).Render(r.Context(), w)
	case err != nil:
		slog.Error("signin failed", "source", "auth", "error", err.Error())
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	case res.State == auth.SigninChallengeIssued:
		slog.Info("signin challenge issued", "source", "auth", "user_id", res.User.ID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.MFAChallenge(res.Challenge, "", in.Email, in.Password, in.UseEmailMFA).Render(r.Context(), w)
	default:
		slog.Info("user signed in", "source", "auth", "user_id", res.User.ID)
		setSessionCookie(w, res.Token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	templates.Signup("", "", "").Render(r.Context(), w)
}

// Signup creates the account and signs the user in directly. The only
// duplicate check is the store's unique index on email.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, token, err := h.Auth.Signup(r.Context(), name, email, password)
	if err != nil {
		slog.Error("signup failed", "source", "auth", "email", email, "error", err.Error())
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Signup("Failed to create account", name, email).Render(r.Context(), w)
		return
	}

	slog.Info("user signed up", "source", "auth", "user_id", user.ID, "email", user.Email)
	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Signout(w http.ResponseWriter, r *http.Request, user *models.User) {
	slog.Info("user signed out", "source", "auth", "user_id", user.ID)
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NotFound renders the 404 fallback page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	templates.NotFound().Render(r.Context(), w)
}
