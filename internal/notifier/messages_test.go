package notifier_test

import (
	"testing"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/notifier"

	"github.com/stretchr/testify/assert"
)

func messageFixtures() (*domain.Client, *domain.Credit) {
	client := &domain.Client{
		ID:     7,
		Nombre: "Carlos Pérez",
	}
	credit := &domain.Credit{
		ID:                  3,
		NumeroCredito:       "CRE-2026-000003",
		ClienteID:           7,
		MontoPrincipal:      1000000,
		Cuotas:              12,
		TasaInteresAplicada: 0.20,
		FechaVencimiento:    time.Date(2027, 8, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:           time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
	return client, credit
}

func TestApprovedMessage(t *testing.T) {
	client, credit := messageFixtures()

	msg := notifier.ApprovedMessage(client, credit)

	assert.Contains(t, msg, "¡CRÉDITO APROBADO! ✅")
	assert.Contains(t, msg, "Estimado/a Carlos Pérez")
	assert.Contains(t, msg, "Número: CRE-2026-000003")
	assert.Contains(t, msg, "Monto: $1000000.00")
	assert.Contains(t, msg, "Tasa de interés: 20.00%")
	assert.Contains(t, msg, "Total a pagar: $1200000.00")
	assert.Contains(t, msg, "Número de cuotas: 12")
	assert.Contains(t, msg, "Valor por cuota: $100000.00")
	assert.Contains(t, msg, "Fecha de vencimiento: 15/08/2027")
}

func TestRejectedMessage_WithMotivo(t *testing.T) {
	client, credit := messageFixtures()

	msg := notifier.RejectedMessage(client, credit, "ingresos insuficientes")

	assert.Contains(t, msg, "CRÉDITO RECHAZADO ❌")
	assert.Contains(t, msg, "N° CRE-2026-000003 ha sido RECHAZADO.")
	assert.Contains(t, msg, "Motivo: ingresos insuficientes")
	assert.Contains(t, msg, "Fecha de solicitud: 20/08/2026")
}

func TestRejectedMessage_WithoutMotivo(t *testing.T) {
	client, credit := messageFixtures()

	msg := notifier.RejectedMessage(client, credit, "")

	assert.NotContains(t, msg, "Motivo:")
}

func TestPaymentMessage(t *testing.T) {
	client, credit := messageFixtures()
	payment := &domain.Payment{
		Monto:       100000,
		CuotaNumero: 4,
		MetodoPago:  domain.MethodEfectivo,
	}

	msg := notifier.PaymentMessage(client, credit, payment, "COMP-1756500000000-9", 800000)

	assert.Contains(t, msg, "*¡Pago registrado exitosamente!* 🎉")
	assert.Contains(t, msg, "COMP-1756500000000-9")
	assert.Contains(t, msg, "*Cliente:* Carlos Pérez")
	assert.Contains(t, msg, "*Monto Pagado:* $100000.00")
	assert.Contains(t, msg, "*Cuota:* 4")
	assert.Contains(t, msg, "*Método:* EFECTIVO")
	assert.Contains(t, msg, "*Saldo Pendiente:* $800000.00")
}

func TestUpcomingDueMessage(t *testing.T) {
	client, credit := messageFixtures()

	msg := notifier.UpcomingDueMessage(client, credit, 3)

	assert.Contains(t, msg, "🔔 Recordatorio de Pago")
	assert.Contains(t, msg, "Vence en: 3 día(s)")
	assert.Contains(t, msg, "Crédito: CRE-2026-000003")
}

func TestOverdueMessage(t *testing.T) {
	client, credit := messageFixtures()

	msg := notifier.OverdueMessage(client, credit, 10)

	assert.Contains(t, msg, "⚠️ CRÉDITO VENCIDO")
	assert.Contains(t, msg, "Días vencidos: 10")
	assert.Contains(t, msg, "Fecha de vencimiento: 15/08/2027")
}
