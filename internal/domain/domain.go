package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	AdminRole    Role = "ADMIN"
	CobradorRole Role = "COBRADOR"
)

// Client is a borrower. Destinations for the notification channels live
// here: TelegramChatID for the bot channel, Email for SMTP.
type Client struct {
	ID             uint64
	Nombre         string
	Cedula         string
	Direccion      string
	Telefono       string
	TelegramChatID string
	Email          string
	Referencias    string
	ModalidadPago  string
	AssignedTo     uint64
	CreatedAt      time.Time
	CreatedBy      uint64
	UpdatedAt      time.Time
	UpdatedBy      uint64
}

// User is a staff actor (admin or cobrador) recording operations.
type User struct {
	ID           uint64
	Nombre       string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NotificationType string

const (
	NotificationCreditApproved NotificationType = "CREDITO_APROBADO"
	NotificationCreditRejected NotificationType = "CREDITO_RECHAZADO"
	NotificationPaymentPosted  NotificationType = "PAGO_REGISTRADO"
	NotificationUpcomingDue    NotificationType = "VENCIMIENTO_PROXIMO"
	NotificationOverdue        NotificationType = "CREDITO_VENCIDO"
)

type NotificationMedium string

const (
	MediumTelegram NotificationMedium = "TELEGRAM"
	MediumEmail    NotificationMedium = "EMAIL"
)

type SendStatus string

const (
	SendDelivered SendStatus = "ENVIADO"
	SendFailed    SendStatus = "FALLIDO"
)

// Notification is the audit record of one outbound message attempt. It is
// written whether or not the channel accepted the message.
type Notification struct {
	ID          uint64
	ClienteID   uint64
	Tipo        NotificationType
	Mensaje     string
	Medio       NotificationMedium
	EstadoEnvio SendStatus
	ResponseAPI string
	FechaEnvio  *time.Time
	CreatedAt   time.Time
}

// Ticket is the receipt generated for exactly one payment.
type Ticket struct {
	ID                uint64
	PaymentID         uint64
	NumeroComprobante string
	Monto             float64
	FechaEmision      time.Time
	ClienteID         uint64
	ContenidoTexto    string
	CreatedAt         time.Time
	CreatedBy         uint64
}

type JwtCustomClaims struct {
	UserID uint64 `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
