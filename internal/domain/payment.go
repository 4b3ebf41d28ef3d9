package domain

import (
	"time"

	"github.com/creditos/creditos-backend/pkg/common"
)

type PaymentMethod string

const (
	MethodEfectivo      PaymentMethod = "EFECTIVO"
	MethodTransferencia PaymentMethod = "TRANSFERENCIA"
	MethodCheque        PaymentMethod = "CHEQUE"
	MethodTarjeta       PaymentMethod = "TARJETA"
)

// Payment is one installment payment against a credit. Payments are
// append-only: they are never mutated or deleted once recorded.
type Payment struct {
	ID                    uint64
	CreditID              uint64
	ClienteID             uint64
	UserID                uint64
	Monto                 float64
	FechaPago             time.Time
	MetodoPago            PaymentMethod
	CuotaNumero           uint
	ComprobanteReferencia string
	CreatedAt             time.Time
	CreatedBy             uint64
	UpdatedAt             time.Time
	UpdatedBy             uint64
}

func (p *Payment) Validate() error {
	if p.CreditID == 0 {
		return common.NewValidationError("creditId", "el ID del crédito es requerido")
	}
	if p.ClienteID == 0 {
		return common.NewValidationError("clienteId", "el ID del cliente es requerido")
	}
	if p.UserID == 0 {
		return common.NewValidationError("userId", "el ID del cobrador es requerido")
	}
	if p.Monto <= 0 {
		return common.NewValidationError("monto", "el monto debe ser mayor a 0")
	}
	if p.MetodoPago == "" {
		return common.NewValidationError("metodoPago", "el método de pago es requerido")
	}
	if p.CuotaNumero == 0 {
		return common.NewValidationError("cuotaNumero", "el número de cuota debe ser mayor a 0")
	}

	return nil
}
