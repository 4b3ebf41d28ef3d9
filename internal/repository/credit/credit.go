package creditrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/internal/repository"
	"github.com/creditos/creditos-backend/pkg/common"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type creditRepository struct {
	db *gorm.DB
}

// FindByID implements repository.CreditRepository.
func (r *creditRepository) FindByID(ctx context.Context, id uint64) (*domain.Credit, error) {
	var credit model.Credit
	if err := r.db.WithContext(ctx).First(&credit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.CreditToEntity(credit), nil
}

// FindByIDWithLock implements repository.CreditRepository. Uses
// SELECT ... FOR UPDATE so concurrent settlements on the same credit
// serialize; meaningful only over a transaction handle.
func (r *creditRepository) FindByIDWithLock(ctx context.Context, id uint64) (*domain.Credit, error) {
	var credit model.Credit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&credit, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.CreditToEntity(credit), nil
}

// FindByNumero implements repository.CreditRepository.
func (r *creditRepository) FindByNumero(ctx context.Context, numeroCredito string) (*domain.Credit, error) {
	var credit model.Credit
	err := r.db.WithContext(ctx).
		Where("numero_credito = ?", numeroCredito).
		First(&credit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.CreditToEntity(credit), nil
}

// Create implements repository.CreditRepository. A numero_credito
// unique-index violation maps to ErrDuplicateCreditNumber so callers can
// treat it as a retryable conflict.
func (r *creditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	data := model.CreditFromEntity(credit)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		var mysqlErr *mysqldriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return fmt.Errorf("%w: %s", common.ErrDuplicateCreditNumber, credit.NumeroCredito)
		}
		return err
	}

	credit.ID = data.ID
	credit.CreatedAt = data.CreatedAt
	credit.UpdatedAt = data.UpdatedAt
	return nil
}

// UpdateEstado implements repository.CreditRepository.
func (r *creditRepository) UpdateEstado(ctx context.Context, id uint64, estado domain.CreditStatus, updatedBy uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.Credit{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"estado":     model.CreditStatus(estado),
			"updated_by": updatedBy,
		}).Error
}

// UpdateEstadoFrom implements repository.CreditRepository. The estado
// predicate makes the write a no-op when another transaction already moved
// the credit elsewhere, surfacing as zero affected rows.
func (r *creditRepository) UpdateEstadoFrom(ctx context.Context, id uint64, from, to domain.CreditStatus, updatedBy uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Credit{}).
		Where("id = ? AND estado = ?", id, model.CreditStatus(from)).
		Updates(map[string]any{
			"estado":     model.CreditStatus(to),
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// HasActiveCredit implements repository.CreditRepository. A client may
// hold at most one credit in ACTIVO or INCUMPLIDO.
func (r *creditRepository) HasActiveCredit(ctx context.Context, clienteID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Credit{}).
		Where("cliente_id = ? AND estado IN ?", clienteID,
			[]model.CreditStatus{model.CreditActivo, model.CreditIncumplido}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// NextNumeroCredito implements repository.CreditRepository. The maximum
// for the year prefix is read FOR UPDATE so two creations in flight cannot
// hand out the same sequence; numero_credito also carries a unique index.
func (r *creditRepository) NextNumeroCredito(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("CRE-%d-", year)

	var last model.Credit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("numero_credito LIKE ?", prefix+"%").
		Order("numero_credito DESC").
		First(&last).Error

	next := 1
	if err == nil {
		parts := strings.Split(last.NumeroCredito, "-")
		seq, parseErr := strconv.Atoi(parts[len(parts)-1])
		if parseErr != nil {
			return "", fmt.Errorf("malformed numero_credito %q: %w", last.NumeroCredito, parseErr)
		}
		next = seq + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%06d", prefix, next), nil
}

// FindByClient implements repository.CreditRepository.
func (r *creditRepository) FindByClient(ctx context.Context, clienteID uint64) ([]domain.Credit, error) {
	var credits []model.Credit
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("created_at DESC").
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return model.CreditsToEntity(credits), nil
}

// FindUpcomingDue implements repository.CreditRepository: ACTIVO credits
// falling due within the next dias days.
func (r *creditRepository) FindUpcomingDue(ctx context.Context, now time.Time, dias int) ([]domain.Credit, error) {
	limit := now.AddDate(0, 0, dias)

	var credits []model.Credit
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_vencimiento >= ? AND fecha_vencimiento <= ?",
			model.CreditActivo, now, limit).
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return model.CreditsToEntity(credits), nil
}

// FindOverdue implements repository.CreditRepository: ACTIVO or
// INCUMPLIDO credits past their due date.
func (r *creditRepository) FindOverdue(ctx context.Context, now time.Time) ([]domain.Credit, error) {
	var credits []model.Credit
	err := r.db.WithContext(ctx).
		Where("estado IN ? AND fecha_vencimiento < ?",
			[]model.CreditStatus{model.CreditActivo, model.CreditIncumplido}, now).
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return model.CreditsToEntity(credits), nil
}

func NewCreditRepository(db *gorm.DB) repository.CreditRepository {
	return &creditRepository{
		db: db,
	}
}
