package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"cypress/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Challenge prompts shown to the user when a second factor is required.
const (
	ChallengeAuthenticator = "Open your Authenticator application to get the Code"
	ChallengeEmail         = "Check your email for the Code"
)

// SigninState is the terminal or intermediate outcome of one signin round trip.
type SigninState int

const (
	// SigninChallengeIssued means credentials checked out but a one-time
	// code is still required; the client must resubmit with a code.
	SigninChallengeIssued SigninState = iota
	// SigninAuthenticated means the attempt is complete and a session
	// token has been derived.
	SigninAuthenticated
)

// Sender delivers one-time codes out of band.
type Sender interface {
	SendOTPCode(ctx context.Context, to, code string) error
}

// SigninInput carries one signin form submission. OTPCode is empty on the
// first submission; UseEmailMFA lets a user with both factors enrolled pick
// the email path.
type SigninInput struct {
	Email       string
	Password    string
	OTPCode     string
	UseEmailMFA bool
}

// SigninResult describes a non-rejected signin outcome. Challenge is set
// when State is SigninChallengeIssued (and on OTP mismatch, so the same
// prompt can be re-rendered). Token is set when State is SigninAuthenticated.
type SigninResult struct {
	State     SigninState
	Challenge string
	User      *models.User
	Token     string
}

// Service is the MFA challenge engine. It owns every decision about whether
// a signin attempt needs a second factor, which factor, and whether a
// submitted code satisfies it.
type Service struct {
	db     *gorm.DB
	sender Sender
}

func NewService(db *gorm.DB, sender Sender) *Service {
	return &Service{db: db, sender: sender}
}

// Signin runs one round trip of the signin state machine.
//
// Rejections come back as ErrInvalidCredentials or ErrInvalidOTPCode; for
// the latter the result still carries the challenge prompt so the caller can
// re-render it. The stored email code is compared, not cleared, so it stays
// valid for a retry until the next issuance supersedes it.
func (s *Service) Signin(ctx context.Context, in SigninInput) (*SigninResult, error) {
	email := NormalizeEmail(in.Email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.AuthenticatorMFAEnabled && !user.EmailMFAEnabled {
		return &SigninResult{
			State: SigninAuthenticated,
			User:  &user,
			Token: SessionToken(user.Email),
		}, nil
	}

	useAuthenticator := user.AuthenticatorMFAEnabled && !in.UseEmailMFA
	challenge := ChallengeEmail
	if useAuthenticator {
		challenge = ChallengeAuthenticator
	}

	if in.OTPCode == "" {
		if !useAuthenticator {
			if err := s.IssueEmailCode(ctx, &user); err != nil {
				return nil, err
			}
		}
		return &SigninResult{
			State:     SigninChallengeIssued,
			Challenge: challenge,
			User:      &user,
		}, nil
	}

	var valid bool
	if useAuthenticator {
		valid = ValidateTOTP(user.Key, in.OTPCode)
	} else {
		valid = user.Code != "" &&
			subtle.ConstantTimeCompare([]byte(in.OTPCode), []byte(user.Code)) == 1
	}
	if !valid {
		return &SigninResult{Challenge: challenge, User: &user}, ErrInvalidOTPCode
	}

	return &SigninResult{
		State: SigninAuthenticated,
		User:  &user,
		Token: SessionToken(user.Email),
	}, nil
}

// Signup creates a user with both MFA factors off and returns the user with
// a session token. The unique index on email is the only duplicate check.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    NormalizeEmail(email),
		Password: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	return &user, SessionToken(user.Email), nil
}

// IssueEmailCode generates a fresh 6-digit code, persists it on the user
// record (overwriting any previous one) and hands it to the sender. Delivery
// failures are logged and swallowed; the challenge response must not depend
// on transport success.
func (s *Service) IssueEmailCode(ctx context.Context, user *models.User) error {
	code, err := GenerateEmailCode()
	if err != nil {
		return err
	}
	user.Code = code
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("save email code: %w", err)
	}
	if err := s.sender.SendOTPCode(ctx, user.Email, code); err != nil {
		slog.Warn("failed to send OTP email", "source", "auth", "user_id", user.ID, "error", err.Error())
	}
	return nil
}

// EnrollTOTP verifies a code against the submitted secret and, on success,
// stores the secret and flips the authenticator flag. The transition is
// one-way; nothing in the engine turns it back off.
func (s *Service) EnrollTOTP(ctx context.Context, user *models.User, secret, code string) error {
	if user.AuthenticatorMFAEnabled {
		return ErrAlreadyEnrolled
	}
	if !ValidateTOTP(secret, code) {
		return ErrInvalidOTPCode
	}
	user.Key = secret
	user.AuthenticatorMFAEnabled = true
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("enroll totp: %w", err)
	}
	return nil
}

// EnrollEmail verifies a code against the last issued email code and, on
// success, flips the email MFA flag.
func (s *Service) EnrollEmail(ctx context.Context, user *models.User, code string) error {
	if user.EmailMFAEnabled {
		return ErrAlreadyEnrolled
	}
	if user.Code == "" || subtle.ConstantTimeCompare([]byte(code), []byte(user.Code)) != 1 {
		return ErrInvalidOTPCode
	}
	user.EmailMFAEnabled = true
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("enroll email mfa: %w", err)
	}
	return nil
}
