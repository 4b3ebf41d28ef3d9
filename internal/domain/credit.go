package domain

import (
	"math"
	"time"

	"github.com/creditos/creditos-backend/pkg/common"
)

type CreditStatus string

const (
	CreditPendiente  CreditStatus = "PENDIENTE"
	CreditActivo     CreditStatus = "ACTIVO"
	CreditPagado     CreditStatus = "PAGADO"
	CreditIncumplido CreditStatus = "INCUMPLIDO"
	CreditRechazado  CreditStatus = "RECHAZADO"
)

// Credit is a lending contract. TasaInteresAplicada is the rate applied
// once over the principal, not per installment.
type Credit struct {
	ID                  uint64
	NumeroCredito       string
	ClienteID           uint64
	MontoPrincipal      float64
	Cuotas              uint
	TasaInteresAplicada float64
	FechaVencimiento    time.Time
	Estado              CreditStatus
	CreatedAt           time.Time
	CreatedBy           uint64
	UpdatedAt           time.Time
	UpdatedBy           uint64
}

func (c *Credit) Validate() error {
	if c.NumeroCredito == "" {
		return common.NewValidationError("numeroCredito", "el número de crédito es requerido")
	}
	if c.ClienteID == 0 {
		return common.NewValidationError("clienteId", "el cliente es requerido")
	}
	if c.MontoPrincipal <= 0 {
		return common.NewValidationError("montoPrincipal", "el monto principal debe ser mayor a 0")
	}
	if c.Cuotas == 0 {
		return common.NewValidationError("cuotas", "el número de cuotas debe ser mayor a 0")
	}
	if c.TasaInteresAplicada < 0 {
		return common.NewValidationError("tasaInteresAplicada", "la tasa de interés debe ser mayor o igual a 0")
	}
	if c.FechaVencimiento.IsZero() {
		return common.NewValidationError("fechaVencimiento", "la fecha de vencimiento es requerida")
	}

	return nil
}

// MontoTotal is principal plus the interest applied over it.
func (c *Credit) MontoTotal() float64 {
	return c.MontoPrincipal * (1 + c.TasaInteresAplicada)
}

func (c *Credit) ValorCuota() float64 {
	return c.MontoTotal() / float64(c.Cuotas)
}

func (c *Credit) TotalInteres() float64 {
	return c.MontoPrincipal * c.TasaInteresAplicada
}

// IsVencido reports whether the credit is past due and still collectible.
func (c *Credit) IsVencido() bool {
	return time.Now().After(c.FechaVencimiento) &&
		(c.Estado == CreditActivo || c.Estado == CreditIncumplido)
}

// IsProximoAVencer reports whether an active credit falls due within the
// next dias days (exclusive of already-due credits).
func (c *Credit) IsProximoAVencer(dias int) bool {
	if c.Estado != CreditActivo {
		return false
	}

	diff := int(math.Ceil(time.Until(c.FechaVencimiento).Hours() / 24))
	return diff > 0 && diff <= dias
}

// CanTransitionTo encodes the lifecycle state machine. PAGADO and
// RECHAZADO are terminal; INCUMPLIDO can still settle to PAGADO.
func (c *Credit) CanTransitionTo(next CreditStatus) bool {
	switch c.Estado {
	case CreditPendiente:
		return next == CreditActivo || next == CreditRechazado
	case CreditActivo:
		return next == CreditIncumplido || next == CreditPagado
	case CreditIncumplido:
		return next == CreditPagado
	default:
		return false
	}
}
