package service

import (
	"context"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
)

// CreditServices drives the credit lifecycle: solicitud, aprobación y
// rechazo, plus the detail view with settlement figures.
type CreditServices interface {
	CreateCredit(ctx context.Context, req dto.CreateCreditRequest, createdBy uint64) (*domain.Credit, error)
	ApproveCredit(ctx context.Context, creditID, approvedBy uint64) (*dto.StatusChangeResponse, error)
	RejectCredit(ctx context.Context, creditID, rejectedBy uint64, motivo string) (*dto.StatusChangeResponse, error)
	GetCreditByID(ctx context.Context, creditID uint64) (*dto.CreditDetailResponse, error)
	ListCreditsByClient(ctx context.Context, clienteID uint64) ([]dto.CreditResponse, error)
	// ListClientNotifications returns the delivery audit trail for a
	// client, newest first.
	ListClientNotifications(ctx context.Context, clienteID uint64) ([]dto.NotificationResponse, error)
}

// PaymentServices settles installment payments atomically: payment row,
// receipt, and the PAGADO transition when the credit is fully covered.
type PaymentServices interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, createdBy uint64) (*dto.CreatePaymentResponse, error)
}

// ReminderServices scans the portfolio for upcoming and overdue credits,
// demoting overdue ACTIVO credits to INCUMPLIDO and notifying clients.
type ReminderServices interface {
	Run(ctx context.Context) error
}

type PrivateService interface {
	Login(ctx context.Context, data dto.LoginRequest) (*dto.LoginResponse, error)
	// Me returns the profile of the authenticated staff user.
	Me(ctx context.Context, userID uint64) (*dto.UserResponse, error)
}
