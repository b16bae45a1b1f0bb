package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/rs/zerolog"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, htmlContent string) error
}

// New picks the mailer named by cfg.Backend. Anything but "brevo" logs mail
// instead of sending it.
func New(cfg config.EmailConfig, log zerolog.Logger) Mailer {
	if cfg.Backend == "brevo" {
		return &BrevoService{
			APIKey:      cfg.BrevoKey,
			SenderEmail: cfg.From,
			SenderName:  cfg.SenderName,
			Endpoint:    brevoEndpoint,
			Client:      &http.Client{Timeout: 10 * time.Second},
		}
	}
	return &ConsoleMailer{From: cfg.From, Log: log}
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	Client      *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *BrevoService) Send(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo: status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// ConsoleMailer writes outgoing mail to the log.
type ConsoleMailer struct {
	From string
	Log  zerolog.Logger
}

func (m *ConsoleMailer) Send(_ context.Context, toName, toEmail, subject, htmlContent string) error {
	m.Log.Info().
		Str("component", "mail").
		Str("from", m.From).
		Str("to", toEmail).
		Str("to_name", toName).
		Str("subject", subject).
		Str("body", htmlContent).
		Msg("email")
	return nil
}

// SendAsync delivers in the background so request handling never waits on
// the mail provider. Failures are only logged.
func SendAsync(m Mailer, log zerolog.Logger, toName, toEmail, subject, htmlContent string) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := m.Send(ctx, toName, toEmail, subject, htmlContent); err != nil {
			log.Error().Err(err).Str("to", toEmail).Str("subject", subject).Msg("failed to send email")
		}
	}()
}
