package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so that responses do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidOTPCode is returned when a submitted one-time code does not
	// verify against the user's enrolled factor.
	ErrInvalidOTPCode = errors.New("invalid OTP code")
	// ErrAlreadyEnrolled is returned when enrollment is attempted for a
	// factor that is already active.
	ErrAlreadyEnrolled = errors.New("MFA factor already enrolled")
	// ErrUnauthenticated is returned when a request carries no resolvable
	// session cookie.
	ErrUnauthenticated = errors.New("unauthenticated")
)
