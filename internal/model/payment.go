package model

import (
	"github.com/creditos/creditos-backend/internal/domain"
)

func PaymentFromEntity(data *domain.Payment) Payment {
	return Payment{
		ID:                    data.ID,
		CreditID:              data.CreditID,
		ClienteID:             data.ClienteID,
		UserID:                data.UserID,
		Monto:                 data.Monto,
		FechaPago:             data.FechaPago,
		MetodoPago:            PaymentMethod(data.MetodoPago),
		CuotaNumero:           data.CuotaNumero,
		ComprobanteReferencia: data.ComprobanteReferencia,
		CreatedAt:             data.CreatedAt,
		CreatedBy:             data.CreatedBy,
		UpdatedAt:             data.UpdatedAt,
		UpdatedBy:             data.UpdatedBy,
	}
}

func PaymentToEntity(data Payment) *domain.Payment {
	return &domain.Payment{
		ID:                    data.ID,
		CreditID:              data.CreditID,
		ClienteID:             data.ClienteID,
		UserID:                data.UserID,
		Monto:                 data.Monto,
		FechaPago:             data.FechaPago,
		MetodoPago:            domain.PaymentMethod(data.MetodoPago),
		CuotaNumero:           data.CuotaNumero,
		ComprobanteReferencia: data.ComprobanteReferencia,
		CreatedAt:             data.CreatedAt,
		CreatedBy:             data.CreatedBy,
		UpdatedAt:             data.UpdatedAt,
		UpdatedBy:             data.UpdatedBy,
	}
}

func PaymentsToEntity(data []Payment) []domain.Payment {
	responses := make([]domain.Payment, len(data))
	for i, p := range data {
		responses[i] = *PaymentToEntity(p)
	}

	return responses
}

func TicketFromEntity(data *domain.Ticket) Ticket {
	return Ticket{
		ID:                data.ID,
		PaymentID:         data.PaymentID,
		NumeroComprobante: data.NumeroComprobante,
		Monto:             data.Monto,
		FechaEmision:      data.FechaEmision,
		ClienteID:         data.ClienteID,
		ContenidoTexto:    data.ContenidoTexto,
		CreatedAt:         data.CreatedAt,
		CreatedBy:         data.CreatedBy,
	}
}

func TicketToEntity(data Ticket) *domain.Ticket {
	return &domain.Ticket{
		ID:                data.ID,
		PaymentID:         data.PaymentID,
		NumeroComprobante: data.NumeroComprobante,
		Monto:             data.Monto,
		FechaEmision:      data.FechaEmision,
		ClienteID:         data.ClienteID,
		ContenidoTexto:    data.ContenidoTexto,
		CreatedAt:         data.CreatedAt,
		CreatedBy:         data.CreatedBy,
	}
}
