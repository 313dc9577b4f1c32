package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

// CSRFProtection validates a double-submit token on state-changing requests.
// Safe requests get a _csrf cookie; forms echo it back via a hidden field
// filled in by a small inline script in the page layout.
type CSRFProtection struct {
	secret []byte
}

// NewCSRFProtection creates a new CSRF protection middleware
func NewCSRFProtection(secret string) *CSRFProtection {
	return &CSRFProtection{secret: []byte(secret)}
}

// generateToken creates a new CSRF token
func (c *CSRFProtection) generateToken() string {
	randomBytes := make([]byte, 32)
	rand.Read(randomBytes)

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(randomBytes)
	signature := mac.Sum(nil)

	token := append(randomBytes, signature...)
	return base64.URLEncoding.EncodeToString(token)
}

// validateToken checks if a token is valid
func (c *CSRFProtection) validateToken(token string) bool {
	if token == "" {
		return false
	}

	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil || len(decoded) < 64 {
		return false
	}

	randomBytes := decoded[:32]
	providedSig := decoded[32:]

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(randomBytes)
	expectedSig := mac.Sum(nil)

	return hmac.Equal(providedSig, expectedSig)
}

// Protect wraps a handler with CSRF protection
func (c *CSRFProtection) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Safe methods don't need validation, but get a token cookie
		if r.Method == "GET" || r.Method == "HEAD" || r.Method == "OPTIONS" {
			if _, err := r.Cookie("_csrf"); err != nil {
				token := c.generateToken()
				http.SetCookie(w, &http.Cookie{
					Name:     "_csrf",
					Value:    token,
					Path:     "/",
					HttpOnly: false, // the form-submit script needs to read this
					SameSite: http.SameSiteStrictMode,
				})
			}
			next.ServeHTTP(w, r)
			return
		}

		cookieToken, err := r.Cookie("_csrf")
		if err != nil {
			http.Error(w, "CSRF token missing", http.StatusForbidden)
			return
		}

		formToken := r.FormValue("_csrf")
		if formToken == "" {
			formToken = r.Header.Get("X-CSRF-Token")
		}

		if formToken != cookieToken.Value || !c.validateToken(formToken) {
			http.Error(w, "CSRF token invalid", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ProtectFunc wraps a HandlerFunc
func (c *CSRFProtection) ProtectFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Protect(next).ServeHTTP(w, r)
	}
}
