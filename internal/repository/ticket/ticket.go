package ticketrepo

import (
	"context"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/internal/repository"

	"gorm.io/gorm"
)

type ticketRepository struct {
	db *gorm.DB
}

// Create implements repository.TicketRepository.
func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	data := model.TicketFromEntity(ticket)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		return err
	}

	ticket.ID = data.ID
	ticket.CreatedAt = data.CreatedAt
	return nil
}

func NewTicketRepository(db *gorm.DB) repository.TicketRepository {
	return &ticketRepository{
		db: db,
	}
}
