package notification

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/wneessen/go-mail"
)

// SMTPConfig contains SMTP connection settings
type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

// noticeTemplate holds the subject and text body template for a notice type
type noticeTemplate struct {
	Subject string
	Text    string
}

var emailTemplates = map[NoticeType]noticeTemplate{
	NewDeviceRememberedNotice: {
		Subject: "New device remembered for two-step verification",
		Text: "Hi {{.Username}},\n\n" +
			"A new device was just remembered for two-step verification on your account. " +
			"It will skip the verification code on future sign-ins.\n\n" +
			"If this wasn't you, change your password immediately.\n",
	},
}

// EmailNotifier implements Notifier over SMTP
type EmailNotifier struct {
	config SMTPConfig
	client *mail.Client
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if !config.TLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}),
			mail.WithTLSPolicy(mail.NoTLS),
		)
	} else {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	}

	slog.Info("Creating mail client", "host", config.Host, "port", config.Port)
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "err", err)
		return nil, err
	}

	return &EmailNotifier{config: config, client: client}, nil
}

// Send delivers the notice by email
func (e *EmailNotifier) Send(noticeType NoticeType, notification NotificationData) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	tmpl, exists := emailTemplates[noticeType]
	if !exists {
		return fmt.Errorf("no email template registered for notice type: %s", noticeType)
	}

	parsed, err := template.New("text").Parse(tmpl.Text)
	if err != nil {
		return fmt.Errorf("failed to parse notice template: %w", err)
	}
	var body bytes.Buffer
	if err := parsed.Execute(&body, notification.Data); err != nil {
		return fmt.Errorf("failed to render notice template: %w", err)
	}

	subject := notification.Subject
	if subject == "" {
		subject = tmpl.Subject
	}

	msg := mail.NewMsg()
	if err := msg.From(e.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(notification.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	if err := e.client.DialAndSend(msg); err != nil {
		slog.Error("Failed to send notification email", "to", notification.To, "type", noticeType, "err", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
