package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/config"
)

type EmailSender interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// --------------------------------------------------
// SendGrid
// --------------------------------------------------

type SendGridSender struct {
	client   *sendgrid.Client
	fromName string
	from     string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		from:     fromEmail,
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, toName, toEmail, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// --------------------------------------------------
// Twilio
// --------------------------------------------------

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: fromNumber,
	}
}

func (s *TwilioSender) SendSMS(_ context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Unconfigured
// --------------------------------------------------

// LogSender stands in when a provider's credentials are not configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendEmail(_ context.Context, _, toEmail, subject, _ string) error {
	s.log.Info("email not configured, skipping", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, _ string) error {
	s.log.Info("sms not configured, skipping", zap.String("to", to))
	return nil
}

func NewEmailSender(cfg *config.Config, log *zap.Logger) EmailSender {
	if cfg.SendGridAPIKey == "" || cfg.SendGridFromEmail == "" {
		return NewLogSender(log)
	}
	return NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
}

func NewSMSSender(cfg *config.Config, log *zap.Logger) SMSSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		return NewLogSender(log)
	}
	return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
}
