package model

import (
	"github.com/creditos/creditos-backend/internal/domain"
)

func CreditFromEntity(data *domain.Credit) Credit {
	return Credit{
		ID:                  data.ID,
		NumeroCredito:       data.NumeroCredito,
		ClienteID:           data.ClienteID,
		MontoPrincipal:      data.MontoPrincipal,
		Cuotas:              data.Cuotas,
		TasaInteresAplicada: data.TasaInteresAplicada,
		FechaVencimiento:    data.FechaVencimiento,
		Estado:              CreditStatus(data.Estado),
		CreatedAt:           data.CreatedAt,
		CreatedBy:           data.CreatedBy,
		UpdatedAt:           data.UpdatedAt,
		UpdatedBy:           data.UpdatedBy,
	}
}

func CreditToEntity(data Credit) *domain.Credit {
	return &domain.Credit{
		ID:                  data.ID,
		NumeroCredito:       data.NumeroCredito,
		ClienteID:           data.ClienteID,
		MontoPrincipal:      data.MontoPrincipal,
		Cuotas:              data.Cuotas,
		TasaInteresAplicada: data.TasaInteresAplicada,
		FechaVencimiento:    data.FechaVencimiento,
		Estado:              domain.CreditStatus(data.Estado),
		CreatedAt:           data.CreatedAt,
		CreatedBy:           data.CreatedBy,
		UpdatedAt:           data.UpdatedAt,
		UpdatedBy:           data.UpdatedBy,
	}
}

func CreditsToEntity(data []Credit) []domain.Credit {
	responses := make([]domain.Credit, len(data))
	for i, c := range data {
		responses[i] = *CreditToEntity(c)
	}

	return responses
}
