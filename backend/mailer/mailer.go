package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cypress/backend/config"

	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time codes over SMTP. When the SMTP config is
// incomplete it logs a warning and drops the message instead of dialing, so
// a dev setup without credentials still serves every page.
type Mailer struct {
	cfg       *config.SMTPConfig
	publicURL string
}

func New(cfg *config.SMTPConfig, publicURL string) *Mailer {
	return &Mailer{cfg: cfg, publicURL: publicURL}
}

// SendOTPCode emails a one-time code to the given address.
func (m *Mailer) SendOTPCode(ctx context.Context, to, code string) error {
	if m.cfg.Server == "" || m.cfg.Username == "" || m.cfg.Password == "" || m.cfg.SendFrom == "" {
		slog.Warn("SMTP credentials are not fully provided, skipping email", "source", "mailer")
		return nil
	}
	if strings.TrimSpace(to) == "" {
		slog.Warn("email recipient empty, skipping email", "source", "mailer")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SendFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your One Time Password")
	msg.SetBody("text/html", m.buildOTPBody(code))

	d := gomail.NewDialer(m.cfg.Server, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Info("OTP email sent", "source", "mailer", "to", to)
	return nil
}

func (m *Mailer) buildOTPBody(code string) string {
	template := `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f6f7fb; color: #1f2937;">
  <div style="max-width: 520px; margin: 24px auto; background: #ffffff; border-radius: 12px; border: 1px solid #e5e7eb; padding: 24px;">
    <h2 style="margin-top: 0;">Your one-time code</h2>
    <p>Use this code to continue signing in at <a href="%s">%s</a>:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>If you did not request a code, you can ignore this email.</p>
    <div style="margin-top: 20px; font-size: 12px; color: #6b7280;">&copy; %d Cypress MFA</div>
  </div>
</body>
</html>`

	return fmt.Sprintf(template, m.publicURL, m.publicURL, code, time.Now().Year())
}
