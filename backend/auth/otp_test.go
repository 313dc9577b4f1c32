package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestGenerateEmailCode_AlwaysSixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateEmailCode()
		if err != nil {
			t.Fatalf("GenerateEmailCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("Expected 6-digit code, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("Code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("Code %d outside 100000-999999", n)
		}
	}
}

func TestGenerateTOTPKey_IssuerAndAccount(t *testing.T) {
	key, err := GenerateTOTPKey("test@example.com")
	if err != nil {
		t.Fatalf("GenerateTOTPKey failed: %v", err)
	}

	if key.Secret() == "" {
		t.Error("Generated secret should not be empty")
	}
	if key.Issuer() != "Cypress MFA" {
		t.Errorf("Expected issuer 'Cypress MFA', got %q", key.Issuer())
	}
	if key.AccountName() != "test@example.com" {
		t.Errorf("Expected account 'test@example.com', got %q", key.AccountName())
	}
}

func TestValidateTOTP_ValidCode(t *testing.T) {
	key, err := GenerateTOTPKey("test@example.com")
	if err != nil {
		t.Fatalf("GenerateTOTPKey failed: %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("Failed to generate TOTP code: %v", err)
	}

	if !ValidateTOTP(key.Secret(), code) {
		t.Error("ValidateTOTP should return true for valid code")
	}
}

func TestValidateTOTP_CodeFromOtherSecret(t *testing.T) {
	key, _ := GenerateTOTPKey("test@example.com")
	other, _ := GenerateTOTPKey("other@example.com")

	code, err := totp.GenerateCode(other.Secret(), time.Now())
	if err != nil {
		t.Fatalf("Failed to generate TOTP code: %v", err)
	}

	if ValidateTOTP(key.Secret(), code) {
		t.Error("Code from a different secret should not validate")
	}
	if ValidateTOTP(key.Secret(), "invalid") {
		t.Error("Non-numeric code should not validate")
	}
}

func TestKeyFromSecret_RoundTrip(t *testing.T) {
	key, _ := GenerateTOTPKey("test@example.com")

	rebuilt, err := KeyFromSecret(key.Secret(), "test@example.com")
	if err != nil {
		t.Fatalf("KeyFromSecret failed: %v", err)
	}

	if rebuilt.Secret() != key.Secret() {
		t.Errorf("Rebuilt secret %q does not match original %q", rebuilt.Secret(), key.Secret())
	}
	if rebuilt.Issuer() != "Cypress MFA" {
		t.Errorf("Expected issuer 'Cypress MFA', got %q", rebuilt.Issuer())
	}
}

func TestQRCodeBase64_NonEmpty(t *testing.T) {
	key, _ := GenerateTOTPKey("test@example.com")

	qr, err := QRCodeBase64(key)
	if err != nil {
		t.Fatalf("QRCodeBase64 failed: %v", err)
	}
	if qr == "" {
		t.Error("QR code should not be empty")
	}
}
