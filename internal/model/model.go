package model

import (
	"time"

	"gorm.io/gorm"
)

// Client represents the clients table
type Client struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre         string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Cedula         string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"cedula"`
	Direccion      string    `gorm:"type:varchar(255)" json:"direccion"`
	Telefono       string    `gorm:"type:varchar(20);not null" json:"telefono"`
	TelegramChatID string    `gorm:"type:varchar(50)" json:"telegramChatId"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`
	Referencias    string    `gorm:"type:text" json:"referencias"`
	ModalidadPago  string    `gorm:"type:varchar(20)" json:"modalidadPago"`
	AssignedTo     uint64    `gorm:"index" json:"assignedTo"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	CreatedBy      uint64    `json:"createdBy"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	UpdatedBy      uint64    `json:"updatedBy"`

	Credits  []Credit  `gorm:"foreignKey:ClienteID" json:"credits,omitempty"`
	Payments []Payment `gorm:"foreignKey:ClienteID" json:"payments,omitempty"`
}

// CreditStatus enum for the credit lifecycle
type CreditStatus string

const (
	CreditPendiente  CreditStatus = "PENDIENTE"
	CreditActivo     CreditStatus = "ACTIVO"
	CreditPagado     CreditStatus = "PAGADO"
	CreditIncumplido CreditStatus = "INCUMPLIDO"
	CreditRechazado  CreditStatus = "RECHAZADO"
)

// Credit represents the credits table
type Credit struct {
	ID                  uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	NumeroCredito       string       `gorm:"type:varchar(20);not null;uniqueIndex" json:"numeroCredito"`
	ClienteID           uint64       `gorm:"not null;index" json:"clienteId"`
	MontoPrincipal      float64      `gorm:"type:decimal(15,2);not null" json:"montoPrincipal"`
	Cuotas              uint         `gorm:"not null" json:"cuotas"`
	TasaInteresAplicada float64      `gorm:"type:decimal(6,4);not null" json:"tasaInteresAplicada"`
	FechaVencimiento    time.Time    `gorm:"not null;index" json:"fechaVencimiento"`
	Estado              CreditStatus `gorm:"type:enum('PENDIENTE','ACTIVO','PAGADO','INCUMPLIDO','RECHAZADO');default:'PENDIENTE';not null;index" json:"estado"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	CreatedBy           uint64       `json:"createdBy"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
	UpdatedBy           uint64       `json:"updatedBy"`

	Client   Client    `gorm:"foreignKey:ClienteID;constraint:OnDelete:RESTRICT" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:CreditID" json:"payments,omitempty"`
}

// PaymentMethod enum for payments
type PaymentMethod string

const (
	MethodEfectivo      PaymentMethod = "EFECTIVO"
	MethodTransferencia PaymentMethod = "TRANSFERENCIA"
	MethodCheque        PaymentMethod = "CHEQUE"
	MethodTarjeta       PaymentMethod = "TARJETA"
)

// Payment represents the payments table
type Payment struct {
	ID                    uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	CreditID              uint64        `gorm:"not null;index" json:"creditId"`
	ClienteID             uint64        `gorm:"not null;index" json:"clienteId"`
	UserID                uint64        `gorm:"not null" json:"userId"`
	Monto                 float64       `gorm:"type:decimal(15,2);not null" json:"monto"`
	FechaPago             time.Time     `gorm:"not null" json:"fechaPago"`
	MetodoPago            PaymentMethod `gorm:"type:enum('EFECTIVO','TRANSFERENCIA','CHEQUE','TARJETA');not null" json:"metodoPago"`
	CuotaNumero           uint          `gorm:"not null" json:"cuotaNumero"`
	ComprobanteReferencia string        `gorm:"type:varchar(100)" json:"comprobanteReferencia"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	CreatedBy             uint64        `json:"createdBy"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
	UpdatedBy             uint64        `json:"updatedBy"`

	Credit Credit `gorm:"foreignKey:CreditID;constraint:OnDelete:RESTRICT" json:"credit,omitempty"`
	Client Client `gorm:"foreignKey:ClienteID;constraint:OnDelete:RESTRICT" json:"client,omitempty"`
}

// Ticket represents the tickets table, one receipt per payment
type Ticket struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID         uint64    `gorm:"not null;uniqueIndex" json:"paymentId"`
	NumeroComprobante string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"numeroComprobante"`
	Monto             float64   `gorm:"type:decimal(15,2);not null" json:"monto"`
	FechaEmision      time.Time `gorm:"not null" json:"fechaEmision"`
	ClienteID         uint64    `gorm:"not null;index" json:"clienteId"`
	ContenidoTexto    string    `gorm:"type:text" json:"contenidoTexto"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
	CreatedBy         uint64    `json:"createdBy"`

	Payment Payment `gorm:"foreignKey:PaymentID;constraint:OnDelete:RESTRICT" json:"payment,omitempty"`
}

// Notification represents the notifications table
type Notification struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClienteID   uint64     `gorm:"not null;index" json:"clienteId"`
	Tipo        string     `gorm:"type:varchar(30);not null" json:"tipo"`
	Mensaje     string     `gorm:"type:text;not null" json:"mensaje"`
	Medio       string     `gorm:"type:varchar(20);not null" json:"medio"`
	EstadoEnvio string     `gorm:"type:enum('ENVIADO','FALLIDO');not null" json:"estadoEnvio"`
	ResponseAPI string     `gorm:"type:text" json:"responseApi"`
	FechaEnvio  *time.Time `json:"fechaEnvio"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`

	Client Client `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
}

// User represents the users table
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre       string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:enum('ADMIN','COBRADOR');default:'COBRADOR';not null" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Client) TableName() string {
	return "clients"
}

func (Credit) TableName() string {
	return "credits"
}

func (Payment) TableName() string {
	return "payments"
}

func (Ticket) TableName() string {
	return "tickets"
}

func (Notification) TableName() string {
	return "notifications"
}

func (User) TableName() string {
	return "users"
}

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Credit{},
		&Payment{},
		&Ticket{},
		&Notification{},
	)
}
