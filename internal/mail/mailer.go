// Package mail delivers the expanded report by email. Dispatch is always
// best effort: the caller records whether sending succeeded but never fails
// a request over it. When SMTP is not configured the mailer is a logged
// no-op that reports ErrDisabled.
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/ai-group/businessscan-backend/internal/config"
	"github.com/ai-group/businessscan-backend/internal/domain"
)

// ErrDisabled is returned when SMTP settings are absent and nothing was
// sent.
var ErrDisabled = errors.New("mail: smtp not configured")

// sendFunc matches gomail's Dialer.DialAndSend and is the seam used by
// tests.
type sendFunc func(m ...*gomail.Message) error

// Mailer sends the report to the requester and an annotated internal copy
// to the operator address.
type Mailer struct {
	cfg  config.SMTPConfig
	send sendFunc
}

// New constructs a Mailer. With incomplete SMTP settings the returned
// mailer refuses to send and returns ErrDisabled from SendReport.
func New(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	if cfg.Enabled() {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
		m.send = dialer.DialAndSend
	}
	return m
}

// SendReport renders the report to HTML and sends it to the requester,
// followed by an internal copy annotated with the requester's address.
// A failure on either message is returned; the internal copy is only
// attempted after the requester's copy went out.
func (m *Mailer) SendReport(toEmail, url string, report domain.ReportBody) error {
	if m.send == nil {
		log.Info().
			Str("to", toEmail).
			Str("internal_copy", m.cfg.InternalCopy).
			Str("url", url).
			Msg("smtp not configured, report email skipped")
		return ErrDisabled
	}

	now := time.Now()
	userHTML, err := renderReport(url, report, "", now)
	if err != nil {
		return fmt.Errorf("render report email: %w", err)
	}

	userMsg := gomail.NewMessage()
	userMsg.SetHeader("From", m.cfg.From)
	userMsg.SetHeader("To", toEmail)
	userMsg.SetHeader("Subject", fmt.Sprintf("Uitgebreide AI Business Quickscan - %s", url))
	userMsg.SetBody("text/html", userHTML)

	if err := m.send(userMsg); err != nil {
		return fmt.Errorf("send report to %s: %w", toEmail, err)
	}

	internalHTML, err := renderReport(url, report, toEmail, now)
	if err != nil {
		return fmt.Errorf("render internal copy: %w", err)
	}

	internalMsg := gomail.NewMessage()
	internalMsg.SetHeader("From", m.cfg.From)
	internalMsg.SetHeader("To", m.cfg.InternalCopy)
	internalMsg.SetHeader("Subject", fmt.Sprintf("[Interne Kopie] Uitgebreide AI Business Quickscan - %s (voor %s)", url, toEmail))
	internalMsg.SetBody("text/html", internalHTML)

	if err := m.send(internalMsg); err != nil {
		return fmt.Errorf("send internal copy: %w", err)
	}
	return nil
}

// renderReport produces the HTML body. A non-empty internalFor renders the
// internal-copy annotation naming the original recipient.
func renderReport(url string, report domain.ReportBody, internalFor string, at time.Time) (string, error) {
	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, reportTemplateData{
		URL:         url,
		Report:      report,
		InternalFor: internalFor,
		GeneratedAt: at.Format("02-01-2006"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
