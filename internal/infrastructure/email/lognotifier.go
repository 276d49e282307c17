package email

import (
	"context"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/shared/logger"
)

// LogNotificationService records notices instead of sending them. It is used
// when email delivery is disabled.
type LogNotificationService struct {
	logger logger.Interface
}

func NewLogNotificationService(logger logger.Interface) *LogNotificationService {
	return &LogNotificationService{logger: logger}
}

func (s *LogNotificationService) SendActivation(_ context.Context, n services.Notice) error {
	s.log("activation", n)
	return nil
}

func (s *LogNotificationService) SendCancellation(_ context.Context, n services.Notice) error {
	s.log("cancellation", n)
	return nil
}

func (s *LogNotificationService) SendExpiration(_ context.Context, n services.Notice) error {
	s.log("expiration", n)
	return nil
}

func (s *LogNotificationService) SendExpiringSoon(_ context.Context, n services.Notice) error {
	s.log("expiring_soon", n)
	return nil
}

func (s *LogNotificationService) log(kind string, n services.Notice) {
	s.logger.Infow("email delivery disabled, notice not sent",
		"kind", kind,
		"subscription_id", n.SubscriptionSID,
		"end_date", n.EndDate,
	)
}
