package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateCreditRequest struct {
	ClienteID      uint64  `json:"clienteId" validate:"required,gt=0"`
	MontoPrincipal float64 `json:"montoPrincipal" validate:"required,gt=0"`
	Cuotas         uint    `json:"cuotas" validate:"required,gt=0"`
	// TasaInteresAplicada falls back to the configured global rate when
	// omitted. A pointer distinguishes "not sent" from an explicit zero.
	TasaInteresAplicada *float64 `json:"tasaInteresAplicada,omitempty" validate:"omitempty,gte=0"`
	// FechaVencimiento defaults to 30 days per installment when omitted.
	FechaVencimiento string `json:"fechaVencimiento,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type RejectCreditRequest struct {
	Motivo string `json:"motivo,omitempty"`
}

type CreatePaymentRequest struct {
	CreditID              uint64  `json:"creditId" validate:"required,gt=0"`
	Monto                 float64 `json:"monto" validate:"required,gt=0"`
	MetodoPago            string  `json:"metodoPago" validate:"required,oneof=EFECTIVO TRANSFERENCIA CHEQUE TARJETA"`
	CuotaNumero           uint    `json:"cuotaNumero" validate:"required,gt=0"`
	ComprobanteReferencia string  `json:"comprobanteReferencia,omitempty"`
	// FechaPago defaults to now when omitted; collectors back-date cash
	// payments received in the field.
	FechaPago string `json:"fechaPago,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
