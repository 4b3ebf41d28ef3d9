package paymentrepo

import (
	"context"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/internal/repository"

	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// Create implements repository.PaymentRepository.
func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	data := model.PaymentFromEntity(payment)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		return err
	}

	payment.ID = data.ID
	payment.CreatedAt = data.CreatedAt
	payment.UpdatedAt = data.UpdatedAt
	return nil
}

// SumByCredit implements repository.PaymentRepository. When the repository
// is constructed over a transaction handle the sum includes rows inserted
// earlier in that transaction.
func (r *paymentRepository) SumByCredit(ctx context.Context, creditID uint64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("credit_id = ?", creditID).
		Select("COALESCE(SUM(monto), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// FindByCredit implements repository.PaymentRepository, newest first.
func (r *paymentRepository) FindByCredit(ctx context.Context, creditID uint64) ([]domain.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("credit_id = ?", creditID).
		Order("fecha_pago DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return model.PaymentsToEntity(payments), nil
}

func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}
