package email

import (
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/infrastructure/template"
	"learnhub/internal/shared/config"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/services/markdown"
)

// NewNotificationService returns the SMTP service when email is enabled and a
// host is configured, and the logging stand-in otherwise.
func NewNotificationService(cfg config.EmailConfig, templates *template.EmailTemplateLoader, log logger.Interface) services.NotificationService {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		log.Infow("email service not configured, notices will only be logged")
		return NewLogNotificationService(log)
	}

	log.Infow("email service initialized",
		"host", cfg.SMTPHost,
		"port", cfg.SMTPPort,
		"from", cfg.FromAddress,
	)
	return NewSMTPNotificationService(SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		FrontendURL: cfg.FrontendURL,
	}, templates, markdown.NewRenderer(), log)
}
