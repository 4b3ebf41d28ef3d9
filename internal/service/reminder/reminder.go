package remindersrv

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/notifier"
	"github.com/creditos/creditos-backend/internal/repository"
	"github.com/creditos/creditos-backend/internal/service"

	"go.uber.org/zap"
)

// systemActor marks estado changes made by the scanner, not a staff user.
const systemActor uint64 = 0

type reminderService struct {
	creditRepository repository.CreditRepository
	clientRepository repository.ClientRepository
	dispatcher       *notifier.Dispatcher

	dueSoonDays int

	log *zap.Logger
}

// Run implements service.ReminderServices: one full portfolio scan. A
// failing credit is logged and skipped so the rest of the batch still
// runs; only scan-level query errors abort the pass.
func (s *reminderService) Run(ctx context.Context) error {
	now := time.Now()

	s.log.Info("Starting reminder scan", zap.Int("due_soon_days", s.dueSoonDays))

	upcoming, err := s.creditRepository.FindUpcomingDue(ctx, now, s.dueSoonDays)
	if err != nil {
		return fmt.Errorf("failed to list upcoming due credits: %w", err)
	}
	for i := range upcoming {
		s.remindUpcoming(ctx, &upcoming[i], now)
	}

	overdue, err := s.creditRepository.FindOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list overdue credits: %w", err)
	}
	for i := range overdue {
		s.processOverdue(ctx, &overdue[i], now)
	}

	s.log.Info("Reminder scan completed",
		zap.Int("upcoming", len(upcoming)),
		zap.Int("overdue", len(overdue)),
	)

	return nil
}

func (s *reminderService) remindUpcoming(ctx context.Context, credit *domain.Credit, now time.Time) {
	client, err := s.clientRepository.FindByID(ctx, credit.ClienteID)
	if err != nil || client == nil {
		s.log.Error("Could not load client for upcoming-due reminder",
			zap.String("numero_credito", credit.NumeroCredito),
			zap.Uint64("cliente_id", credit.ClienteID),
			zap.Error(err),
		)
		return
	}

	diasRestantes := int(math.Ceil(credit.FechaVencimiento.Sub(now).Hours() / 24))

	sent := s.dispatcher.Dispatch(ctx, client, domain.NotificationUpcomingDue,
		notifier.UpcomingDueMessage(client, credit, diasRestantes))
	if sent {
		s.log.Info("Upcoming-due reminder sent",
			zap.String("numero_credito", credit.NumeroCredito),
			zap.String("cliente", client.Nombre),
			zap.Int("dias_restantes", diasRestantes),
		)
	}
}

// processOverdue demotes overdue ACTIVO credits to INCUMPLIDO before
// sending the notice. Credits already INCUMPLIDO just get the notice
// again until they settle.
func (s *reminderService) processOverdue(ctx context.Context, credit *domain.Credit, now time.Time) {
	if credit.Estado == domain.CreditActivo {
		// Conditional write: a payment may have settled the credit to
		// PAGADO between the scan query and this update, and a terminal
		// estado must never be overwritten.
		demoted, err := s.creditRepository.UpdateEstadoFrom(ctx, credit.ID, domain.CreditActivo, domain.CreditIncumplido, systemActor)
		if err != nil {
			s.log.Error("Failed to mark credit INCUMPLIDO",
				zap.String("numero_credito", credit.NumeroCredito),
				zap.Error(err),
			)
			return
		}
		if !demoted {
			s.log.Info("Credit estado changed during scan, skipping overdue notice",
				zap.String("numero_credito", credit.NumeroCredito),
			)
			return
		}
		credit.Estado = domain.CreditIncumplido
		s.log.Warn("Credit marked INCUMPLIDO",
			zap.String("numero_credito", credit.NumeroCredito),
			zap.Uint64("cliente_id", credit.ClienteID),
		)
	}

	client, err := s.clientRepository.FindByID(ctx, credit.ClienteID)
	if err != nil || client == nil {
		s.log.Error("Could not load client for overdue notice",
			zap.String("numero_credito", credit.NumeroCredito),
			zap.Uint64("cliente_id", credit.ClienteID),
			zap.Error(err),
		)
		return
	}

	diasVencidos := int(math.Ceil(now.Sub(credit.FechaVencimiento).Hours() / 24))

	sent := s.dispatcher.Dispatch(ctx, client, domain.NotificationOverdue,
		notifier.OverdueMessage(client, credit, diasVencidos))
	if sent {
		s.log.Info("Overdue notice sent",
			zap.String("numero_credito", credit.NumeroCredito),
			zap.String("cliente", client.Nombre),
			zap.Int("dias_vencidos", diasVencidos),
		)
	}
}

func NewReminderService(
	creditRepository repository.CreditRepository,
	clientRepository repository.ClientRepository,
	dispatcher *notifier.Dispatcher,
	dueSoonDays int,
	log *zap.Logger,
) service.ReminderServices {
	return &reminderService{
		creditRepository: creditRepository,
		clientRepository: clientRepository,
		dispatcher:       dispatcher,
		dueSoonDays:      dueSoonDays,
		log:              log,
	}
}
