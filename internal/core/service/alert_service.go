package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// AlertService exposes targeted notification operations. New alerts fan
// out as emails through the async mailer.
type AlertService struct {
	repo   ports.AlertRepository
	users  ports.UserRepository
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewAlertService(repo ports.AlertRepository, users ports.UserRepository, mailer ports.Mailer, log zerolog.Logger) *AlertService {
	return &AlertService{repo: repo, users: users, mailer: mailer, log: log}
}

// ListAlerts returns unexpired alerts addressed to the caller's role or
// entity code.
func (s *AlertService) ListAlerts(ctx context.Context, callerRole, entityCode string) ([]*domain.Alert, error) {
	receivers := []string{callerRole}
	if entityCode != "" {
		receivers = append(receivers, entityCode)
	}

	alerts, err := s.repo.ListForReceiver(ctx, receivers)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	active := alerts[:0]
	for _, a := range alerts {
		if a.Active(now) {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *AlertService) CreateAlert(ctx context.Context, a *domain.Alert) (*domain.Alert, error) {
	if a.IssuedAt.IsZero() {
		a.IssuedAt = time.Now().UTC()
	}
	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	s.notifyReceiver(ctx, created)

	s.log.Info().Str("receiver", created.Receiver).Str("title", created.Title).Msg("alert created")
	return created, nil
}

func (s *AlertService) UpdateAlert(ctx context.Context, a *domain.Alert) error {
	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("update alert %s: %w", a.ID, err)
	}
	return nil
}

func (s *AlertService) DeleteAlert(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete alert %s: %w", id, err)
	}
	return nil
}

// notifyReceiver emails the alert to the credential behind the receiver
// entity code, when one exists. Role-wide alerts produce no email fanout.
func (s *AlertService) notifyReceiver(ctx context.Context, a *domain.Alert) {
	if domain.ValidRole(a.Receiver) {
		return
	}

	user, err := s.users.FindByEntityCode(ctx, a.Receiver)
	if err != nil {
		s.log.Debug().Err(err).Str("receiver", a.Receiver).Msg("no credential behind alert receiver")
		return
	}
	if user.Email == "" {
		return
	}
	if err := s.mailer.SendChangeConfirmation(ctx, user.Email, "new alert: "+a.Title); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("alert email failed")
	}
}
