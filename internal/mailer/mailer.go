package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"text/template"
)

// ActivationSubject is the fixed subject line for subscription activation
// emails.
const ActivationSubject = "Tu suscripción ha sido activada"

const activationBodyTemplate = `Hola {{.RecipientName}},

¡Tu suscripción al plan {{.PlanName}} ha sido activada!

Ya puedes acceder a tu panel: {{.PanelURL}}

Saludos,
El equipo de soporte
`

// ActivationEmailData feeds the activation body template.
type ActivationEmailData struct {
	RecipientName string
	PlanName      string
	PanelURL      string
}

// Sender delivers a rendered email. Implementations must not retry; the
// queue owns retries.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Mailer renders notification emails and hands them to a Sender.
type Mailer struct {
	sender   Sender
	panelURL string
	tmpl     *template.Template
}

func New(sender Sender, panelURL string) *Mailer {
	return &Mailer{
		sender:   sender,
		panelURL: panelURL,
		tmpl:     template.Must(template.New("activation").Parse(activationBodyTemplate)),
	}
}

// RenderActivationBody interpolates the recipient and plan into the fixed
// activation template.
func (m *Mailer) RenderActivationBody(recipientName, planName string) (string, error) {
	var buf strings.Builder
	err := m.tmpl.Execute(&buf, ActivationEmailData{
		RecipientName: recipientName,
		PlanName:      planName,
		PanelURL:      m.panelURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render activation email: %w", err)
	}
	return buf.String(), nil
}

// SendActivation renders and dispatches the activation email.
func (m *Mailer) SendActivation(ctx context.Context, recipientEmail, recipientName, planName string) error {
	body, err := m.RenderActivationBody(recipientName, planName)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, recipientEmail, ActivationSubject, body)
}

// LogSender logs outbound email instead of delivering it. Stands in until an
// SMTP or provider transport is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, recipient, subject, body string) error {
	log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", recipient, subject, body)
	return nil
}
