package infrastructure

import (
	"context"
	"log"
	"time"

	"github.com/resend/resend-go/v2"
	"registration-service/internal/config"
)

type ResendMailer struct {
	sender string
	client *resend.Client
}

func NewResendMailer(cfg *config.Config) *ResendMailer {
	log.Printf("Mailer config - provider: resend, API key: %s, sender: %s",
		maskAPIKey(cfg.EmailAPIKey), cfg.EmailSender)

	return &ResendMailer{
		sender: cfg.EmailSender,
		client: resend.NewClient(cfg.EmailAPIKey),
	}
}

func (m *ResendMailer) SendOTP(ctx context.Context, recipientEmail, recipientName, otp string, expiry time.Duration) (string, error) {
	params := &resend.SendEmailRequest{
		From:    m.sender,
		To:      []string{recipientEmail},
		Subject: otpEmailSubject(),
		Text:    otpEmailText(recipientName, otp, expiry),
		Html:    otpEmailHTML(recipientName, otp, expiry),
	}

	response, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("Resend error: %+v", err)
		return "", err
	}

	return response.Id, nil
}
