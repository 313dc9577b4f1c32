package auth

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"image/png"
	"math/big"
	"net/url"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Issuer is the name shown in authenticator apps for enrolled accounts.
const Issuer = "Cypress MFA"

// GenerateEmailCode returns a uniformly random 6-digit code in
// 100000-999999. The range deliberately excludes leading zeros so the code
// is always exactly six digits.
func GenerateEmailCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate email code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// GenerateTOTPKey creates a new TOTP key for the given email.
func GenerateTOTPKey(email string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: email,
	})
}

// ValidateTOTP checks a code against a secret for the current 30-second
// window, with the library's default adjacent-window tolerance.
func ValidateTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}

// KeyFromSecret rebuilds a provisioning key from a raw base32 secret, for
// re-rendering the enrollment QR after a failed verification.
func KeyFromSecret(secret, email string) (*otp.Key, error) {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", Issuer)
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + Issuer + ":" + email,
		RawQuery: v.Encode(),
	}
	return otp.NewKeyFromURL(u.String())
}

// QRCodeBase64 renders the key's otpauth:// URI as a base64-encoded PNG for
// inline display during enrollment.
func QRCodeBase64(key *otp.Key) (string, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
