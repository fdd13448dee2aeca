package infrastructure

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"registration-service/internal/config"
)

type SendGridMailer struct {
	sender string
	client *sendgrid.Client
}

func NewSendGridMailer(cfg *config.Config) *SendGridMailer {
	log.Printf("Mailer config - provider: sendgrid, API key: %s, sender: %s",
		maskAPIKey(cfg.EmailAPIKey), cfg.EmailSender)

	return &SendGridMailer{
		sender: cfg.EmailSender,
		client: sendgrid.NewSendClient(cfg.EmailAPIKey),
	}
}

func (m *SendGridMailer) SendOTP(ctx context.Context, recipientEmail, recipientName, otp string, expiry time.Duration) (string, error) {
	from := mail.NewEmail("", m.sender)
	to := mail.NewEmail(recipientName, recipientEmail)
	message := mail.NewSingleEmail(from, otpEmailSubject(), to,
		otpEmailText(recipientName, otp, expiry),
		otpEmailHTML(recipientName, otp, expiry))

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("SendGrid error: %v", err)
		return "", err
	}
	if response.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid rejected the message: status %d", response.StatusCode)
	}

	messageID := ""
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	return messageID, nil
}
