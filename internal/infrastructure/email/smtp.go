package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/infrastructure/template"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/services/markdown"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	FrontendURL string
}

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotificationService renders lifecycle emails from markdown templates
// and delivers them over SMTP.
type SMTPNotificationService struct {
	config    SMTPConfig
	sender    mailSender
	templates *template.EmailTemplateLoader
	renderer  markdown.Renderer
	logger    logger.Interface
}

func NewSMTPNotificationService(
	config SMTPConfig,
	templates *template.EmailTemplateLoader,
	renderer markdown.Renderer,
	logger logger.Interface,
) *SMTPNotificationService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return newSMTPNotificationService(config, dialer, templates, renderer, logger)
}

func newSMTPNotificationService(
	config SMTPConfig,
	sender mailSender,
	templates *template.EmailTemplateLoader,
	renderer markdown.Renderer,
	logger logger.Interface,
) *SMTPNotificationService {
	return &SMTPNotificationService{
		config:    config,
		sender:    sender,
		templates: templates,
		renderer:  renderer,
		logger:    logger,
	}
}

func (s *SMTPNotificationService) SendActivation(ctx context.Context, n services.Notice) error {
	return s.send(ctx, n, template.KindActivation, "Your subscription is active")
}

func (s *SMTPNotificationService) SendCancellation(ctx context.Context, n services.Notice) error {
	return s.send(ctx, n, template.KindCancellation, "Your subscription has been cancelled")
}

func (s *SMTPNotificationService) SendExpiration(ctx context.Context, n services.Notice) error {
	return s.send(ctx, n, template.KindExpiration, "Your subscription has expired")
}

func (s *SMTPNotificationService) SendExpiringSoon(ctx context.Context, n services.Notice) error {
	return s.send(ctx, n, template.KindExpiringSoon, "Your subscription ends soon")
}

func (s *SMTPNotificationService) send(ctx context.Context, n services.Notice, kind, subject string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.templates.Render(kind, template.Data{
		Name:         n.Name,
		Subject:      n.Subject,
		EndDate:      FormatDate(n.EndDate),
		Amount:       FormatMoney(n.Amount, n.Currency),
		Reason:       n.Reason,
		Immediate:    n.Immediate,
		DashboardURL: strings.TrimRight(s.config.FrontendURL, "/") + "/subscriptions/" + n.SubscriptionSID,
	})
	if err != nil {
		return err
	}

	htmlBody, err := s.renderer.ToHTMLSanitized(body)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetAddressHeader("To", n.Email, n.Name)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", htmlBody)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	s.logger.Debugw("lifecycle email sent", "kind", kind, "subscription_id", n.SubscriptionSID)
	return nil
}
