package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cypress/backend/auth"
	"cypress/backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func sessionRequest(target, token string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}
	return req
}

func TestCurrentUser_ResolvesToken(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.User{Name: "Ada", Email: "a@x.com", Password: "hash"})
	db.Create(&models.User{Name: "Bob", Email: "b@x.com", Password: "hash"})

	user, err := CurrentUser(db, sessionRequest("/", auth.SessionToken("b@x.com")))
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Email != "b@x.com" {
		t.Errorf("Resolved wrong user: %q", user.Email)
	}
}

func TestCurrentUser_MissingCookie(t *testing.T) {
	db := setupDB(t)

	_, err := CurrentUser(db, sessionRequest("/", ""))
	if !errors.Is(err, auth.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestCurrentUser_UnknownToken(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.User{Email: "a@x.com", Password: "hash"})

	_, err := CurrentUser(db, sessionRequest("/", "not-a-real-token"))
	if !errors.Is(err, auth.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireAuth_RedirectsToSignin(t *testing.T) {
	db := setupDB(t)

	called := false
	handler := RequireAuth(db, func(w http.ResponseWriter, r *http.Request, user *models.User) {
		called = true
	})

	rr := httptest.NewRecorder()
	handler(rr, sessionRequest("/", ""))

	if called {
		t.Error("Handler should not run without a session")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("Expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/signin" {
		t.Errorf("Expected redirect to /signin, got %q", loc)
	}
}

func TestRequireAuth_PassesUserThrough(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.User{Email: "a@x.com", Password: "hash"})

	var got *models.User
	handler := RequireAuth(db, func(w http.ResponseWriter, r *http.Request, user *models.User) {
		got = user
	})

	rr := httptest.NewRecorder()
	handler(rr, sessionRequest("/", auth.SessionToken("a@x.com")))

	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("Handler should receive the resolved user, got %+v", got)
	}
}

// The guest gate keys off the Authorization cookie, not the Session cookie.
func TestRequireGuest(t *testing.T) {
	called := false
	handler := RequireGuest(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/signin", nil)
	req.AddCookie(&http.Cookie{Name: "Authorization", Value: "anything"})
	rr := httptest.NewRecorder()
	handler(rr, req)

	if called {
		t.Error("Guest page should be blocked when the Authorization cookie is set")
	}
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("Expected 303 to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = httptest.NewRecorder()
	handler(rr, httptest.NewRequest("GET", "/signin", nil))
	if !called {
		t.Error("Guest page should be served without the Authorization cookie")
	}
}

func TestRequireTOTPNotEnabled_BlocksEnrolledUser(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.User{Email: "a@x.com", Password: "hash", AuthenticatorMFAEnabled: true})

	called := false
	handler := RequireTOTPNotEnabled(db, func(w http.ResponseWriter, r *http.Request, user *models.User) {
		called = true
	})

	rr := httptest.NewRecorder()
	handler(rr, sessionRequest("/mfa/totp/activate", auth.SessionToken("a@x.com")))

	if called {
		t.Error("Re-enrollment should be blocked for an active factor")
	}
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("Expected 303 to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestRequireTOTPNotEnabled_AllowsUnenrolledUser(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.User{Email: "a@x.com", Password: "hash"})

	called := false
	handler := RequireTOTPNotEnabled(db, func(w http.ResponseWriter, r *http.Request, user *models.User) {
		called = true
	})

	rr := httptest.NewRecorder()
	handler(rr, sessionRequest("/mfa/totp/activate", auth.SessionToken("a@x.com")))

	if !called {
		t.Error("Unenrolled user should reach the enrollment page")
	}
}

func TestRequireEOTPNotEnabled_BlocksEnrolledUser(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.User{Email: "a@x.com", Password: "hash", EmailMFAEnabled: true})

	called := false
	handler := RequireEOTPNotEnabled(db, func(w http.ResponseWriter, r *http.Request, user *models.User) {
		called = true
	})

	rr := httptest.NewRecorder()
	handler(rr, sessionRequest("/mfa/eotp/activate", auth.SessionToken("a@x.com")))

	if called {
		t.Error("Re-enrollment should be blocked for an active factor")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("Expected 303, got %d", rr.Code)
	}
}
