package infrastructure

import (
	"context"
	"fmt"
	"time"

	"registration-service/internal/config"
)

// Mailer delivers a verification code to a recipient. Implementations wrap
// an external mail provider; the returned id is the provider message id.
// The code is only ever written to the recipient's inbox, never echoed back
// through the API.
type Mailer interface {
	SendOTP(ctx context.Context, recipientEmail, recipientName, otp string, expiry time.Duration) (string, error)
}

// NewMailer selects the mailer implementation from configuration.
func NewMailer(cfg *config.Config) (Mailer, error) {
	switch cfg.EmailProvider {
	case "resend":
		return NewResendMailer(cfg), nil
	case "sendgrid":
		return NewSendGridMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.EmailProvider)
	}
}

func otpEmailSubject() string {
	return "Your verification code"
}

func otpEmailText(recipientName, otp string, expiry time.Duration) string {
	return fmt.Sprintf("Hi %s,\n\nYour verification code is: %s\n\nIt expires in %d minutes.\n", recipientName, otp, int(expiry.Minutes()))
}

func otpEmailHTML(recipientName, otp string, expiry time.Duration) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is: <strong>%s</strong></p><p>It expires in %d minutes.</p>", recipientName, otp, int(expiry.Minutes()))
}

func maskAPIKey(apiKey string) string {
	if len(apiKey) > 8 {
		return apiKey[:4] + "****" + apiKey[len(apiKey)-4:]
	}
	return "****"
}
