package dto

import (
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
)

type LoginResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID     uint64 `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func UserToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Nombre: u.Nombre,
		Email:  u.Email,
		Role:   string(u.Role),
	}
}

type CreditResponse struct {
	ID                  uint64    `json:"id"`
	NumeroCredito       string    `json:"numeroCredito"`
	ClienteID           uint64    `json:"clienteId"`
	MontoPrincipal      float64   `json:"montoPrincipal"`
	Cuotas              uint      `json:"cuotas"`
	TasaInteresAplicada float64   `json:"tasaInteresAplicada"`
	MontoTotal          float64   `json:"montoTotal"`
	ValorCuota          float64   `json:"valorCuota"`
	FechaVencimiento    time.Time `json:"fechaVencimiento"`
	Estado              string    `json:"estado"`
	CreatedAt           time.Time `json:"createdAt"`
}

type PaymentResponse struct {
	ID          uint64    `json:"id"`
	CreditID    uint64    `json:"creditId"`
	Monto       float64   `json:"monto"`
	FechaPago   time.Time `json:"fechaPago"`
	MetodoPago  string    `json:"metodoPago"`
	CuotaNumero uint      `json:"cuotaNumero"`
}

type TicketResponse struct {
	ID                uint64    `json:"id"`
	NumeroComprobante string    `json:"numeroComprobante"`
	Monto             float64   `json:"monto"`
	FechaEmision      time.Time `json:"fechaEmision"`
}

// CreditDetailResponse adds the settlement figures and payment history to
// the base credit view. SaldoPendiente never goes below zero.
type CreditDetailResponse struct {
	CreditResponse
	TotalInteres   float64           `json:"totalInteres"`
	TotalPagado    float64           `json:"totalPagado"`
	SaldoPendiente float64           `json:"saldoPendiente"`
	Pagos          []PaymentResponse `json:"pagos"`
}

type StatusChangeResponse struct {
	Credit              CreditResponse `json:"credit"`
	NotificacionEnviada bool           `json:"notificacionEnviada"`
	Mensaje             string         `json:"mensaje"`
}

type CreatePaymentResponse struct {
	Payment             PaymentResponse `json:"payment"`
	Ticket              TicketResponse  `json:"ticket"`
	CreditoActualizado  bool            `json:"creditoActualizado"`
	NuevoEstadoCredito  string          `json:"nuevoEstadoCredito"`
	SaldoPendiente      float64         `json:"saldoPendiente"`
	NotificacionEnviada bool            `json:"notificacionEnviada"`
}

type NotificationResponse struct {
	ID          uint64     `json:"id"`
	ClienteID   uint64     `json:"clienteId"`
	Tipo        string     `json:"tipo"`
	Medio       string     `json:"medio"`
	EstadoEnvio string     `json:"estadoEnvio"`
	FechaEnvio  *time.Time `json:"fechaEnvio"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// --- Mapping --- //

func CreditToResponse(credit *domain.Credit) CreditResponse {
	return CreditResponse{
		ID:                  credit.ID,
		NumeroCredito:       credit.NumeroCredito,
		ClienteID:           credit.ClienteID,
		MontoPrincipal:      credit.MontoPrincipal,
		Cuotas:              credit.Cuotas,
		TasaInteresAplicada: credit.TasaInteresAplicada,
		MontoTotal:          credit.MontoTotal(),
		ValorCuota:          credit.ValorCuota(),
		FechaVencimiento:    credit.FechaVencimiento,
		Estado:              string(credit.Estado),
		CreatedAt:           credit.CreatedAt,
	}
}

func PaymentToResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		CreditID:    payment.CreditID,
		Monto:       payment.Monto,
		FechaPago:   payment.FechaPago,
		MetodoPago:  string(payment.MetodoPago),
		CuotaNumero: payment.CuotaNumero,
	}
}

func TicketToResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                ticket.ID,
		NumeroComprobante: ticket.NumeroComprobante,
		Monto:             ticket.Monto,
		FechaEmision:      ticket.FechaEmision,
	}
}

func NotificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		ClienteID:   n.ClienteID,
		Tipo:        string(n.Tipo),
		Medio:       string(n.Medio),
		EstadoEnvio: string(n.EstadoEnvio),
		FechaEnvio:  n.FechaEnvio,
		CreatedAt:   n.CreatedAt,
	}
}
