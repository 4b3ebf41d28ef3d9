package repository

import (
	"context"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
)

type ClientRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Client, error)
	// FindByIDWithLock issues SELECT ... FOR UPDATE on the client row.
	// Only meaningful inside a transaction.
	FindByIDWithLock(ctx context.Context, id uint64) (*domain.Client, error)
}

type CreditRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Credit, error)
	FindByIDWithLock(ctx context.Context, id uint64) (*domain.Credit, error)
	FindByNumero(ctx context.Context, numeroCredito string) (*domain.Credit, error)
	Create(ctx context.Context, credit *domain.Credit) error
	UpdateEstado(ctx context.Context, id uint64, estado domain.CreditStatus, updatedBy uint64) error
	// UpdateEstadoFrom writes estado only when the row still holds the
	// expected current estado, reporting whether a row changed. Callers
	// outside a credit row lock use this to avoid stomping a concurrent
	// transition.
	UpdateEstadoFrom(ctx context.Context, id uint64, from, to domain.CreditStatus, updatedBy uint64) (bool, error)
	// HasActiveCredit reports whether the client holds a credit in estado
	// ACTIVO or INCUMPLIDO.
	HasActiveCredit(ctx context.Context, clienteID uint64) (bool, error)
	// NextNumeroCredito returns the next CRE-<year>-NNNNNN for the given
	// year, locking the current maximum when called inside a transaction.
	NextNumeroCredito(ctx context.Context, year int) (string, error)
	FindByClient(ctx context.Context, clienteID uint64) ([]domain.Credit, error)
	FindUpcomingDue(ctx context.Context, now time.Time, dias int) ([]domain.Credit, error)
	FindOverdue(ctx context.Context, now time.Time) ([]domain.Credit, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// SumByCredit must observe rows inserted earlier in the same
	// transaction when constructed over a tx handle.
	SumByCredit(ctx context.Context, creditID uint64) (float64, error)
	FindByCredit(ctx context.Context, creditID uint64) ([]domain.Payment, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
}

type NotificationRepository interface {
	Record(ctx context.Context, notification *domain.Notification) error
	FindByClient(ctx context.Context, clienteID uint64) ([]domain.Notification, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
