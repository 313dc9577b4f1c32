package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"cypress/backend/auth"
	"cypress/backend/models"
	"cypress/frontend/templates"
)

// TOTPActivatePage generates a fresh TOTP key and renders it as a QR code
// plus the raw secret. Nothing is persisted until the code is confirmed.
func (h *Handler) TOTPActivatePage(w http.ResponseWriter, r *http.Request, user *models.User) {
	key, err := auth.GenerateTOTPKey(user.Email)
	if err != nil {
		slog.Error("failed to generate TOTP key", "source", "mfa", "user_id", user.ID, "error", err.Error())
		http.Error(w, "Failed to generate TOTP secret", http.StatusInternalServerError)
		return
	}

	qrCode, err := auth.QRCodeBase64(key)
	if err != nil {
		slog.Error("failed to generate QR code", "source", "mfa", "user_id", user.ID, "error", err.Error())
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	templates.TOTPActivate(qrCode, key.Secret(), "").Render(r.Context(), w)
}

// TOTPActivate verifies the submitted code against the submitted secret and
// enrolls the authenticator factor.
func (h *Handler) TOTPActivate(w http.ResponseWriter, r *http.Request, user *models.User) {
	otpKey := r.FormValue("otp_key")
	otpCode := r.FormValue("otp_code")

	err := h.Auth.EnrollTOTP(r.Context(), user, otpKey, otpCode)
	switch {
	case errors.Is(err, auth.ErrInvalidOTPCode):
		slog.Warn("TOTP activation failed: invalid code", "source", "mfa", "user_id", user.ID)
		qrCode := ""
		if key, keyErr := auth.KeyFromSecret(otpKey, user.Email); keyErr == nil {
			qrCode, _ = auth.QRCodeBase64(key)
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.TOTPActivate(qrCode, otpKey, "Invalid OTP code").Render(r.Context(), w)
	case errors.Is(err, auth.ErrAlreadyEnrolled):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case err != nil:
		slog.Error("TOTP activation failed", "source", "mfa", "user_id", user.ID, "error", err.Error())
		http.Error(w, "Failed to activate authenticator MFA", http.StatusInternalServerError)
	default:
		slog.Info("authenticator MFA enabled", "source", "mfa", "user_id", user.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// EOTPActivatePage issues a fresh email code and renders the confirmation
// form. The page succeeds even when delivery fails; the engine only logs
// transport errors.
func (h *Handler) EOTPActivatePage(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := h.Auth.IssueEmailCode(r.Context(), user); err != nil {
		slog.Error("failed to issue email code", "source", "mfa", "user_id", user.ID, "error", err.Error())
		http.Error(w, "Failed to issue email code", http.StatusInternalServerError)
		return
	}
	templates.EOTPActivate("").Render(r.Context(), w)
}

// EOTPActivate verifies the submitted code against the stored one and
// enrolls the email factor.
func (h *Handler) EOTPActivate(w http.ResponseWriter, r *http.Request, user *models.User) {
	err := h.Auth.EnrollEmail(r.Context(), user, r.FormValue("otp_code"))
	switch {
	case errors.Is(err, auth.ErrInvalidOTPCode):
		slog.Warn("email MFA activation failed: invalid code", "source", "mfa", "user_id", user.ID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.EOTPActivate("Invalid OTP code").Render(r.Context(), w)
	case errors.Is(err, auth.ErrAlreadyEnrolled):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case err != nil:
		slog.Error("email MFA activation failed", "source", "mfa", "user_id", user.ID, "error", err.Error())
		http.Error(w, "Failed to activate email MFA", http.StatusInternalServerError)
	default:
		slog.Info("email MFA enabled", "source", "mfa", "user_id", user.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
