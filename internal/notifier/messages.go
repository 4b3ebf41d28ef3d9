package notifier

import (
	"fmt"
	"strings"

	"github.com/creditos/creditos-backend/internal/domain"
)

const dateLayout = "02/01/2006"

// ApprovedMessage builds the message sent when a credit moves to ACTIVO.
func ApprovedMessage(client *domain.Client, credit *domain.Credit) string {
	return strings.TrimSpace(fmt.Sprintf(`
¡CRÉDITO APROBADO! ✅

Estimado/a %s,

Su crédito ha sido APROBADO.

📋 Detalles del crédito:
• Número: %s
• Monto: $%.2f
• Tasa de interés: %.2f%%
• Total a pagar: $%.2f
• Número de cuotas: %d
• Valor por cuota: $%.2f
• Fecha de vencimiento: %s

¡Gracias por su confianza!`,
		client.Nombre,
		credit.NumeroCredito,
		credit.MontoPrincipal,
		credit.TasaInteresAplicada*100,
		credit.MontoTotal(),
		credit.Cuotas,
		credit.ValorCuota(),
		credit.FechaVencimiento.Format(dateLayout),
	))
}

// RejectedMessage builds the message sent when a credit moves to RECHAZADO.
// The motivo line is omitted when no reason was given.
func RejectedMessage(client *domain.Client, credit *domain.Credit, motivo string) string {
	motivoTexto := ""
	if motivo != "" {
		motivoTexto = fmt.Sprintf("\n\nMotivo: %s", motivo)
	}

	return strings.TrimSpace(fmt.Sprintf(`
CRÉDITO RECHAZADO ❌

Estimado/a %s,

Lamentamos informarle que su crédito N° %s ha sido RECHAZADO.%s

📋 Datos del crédito:
• Número: %s
• Monto solicitado: $%.2f
• Fecha de solicitud: %s

Para más información, por favor comuníquese con nosotros.

Gracias por su comprensión.`,
		client.Nombre,
		credit.NumeroCredito,
		motivoTexto,
		credit.NumeroCredito,
		credit.MontoPrincipal,
		credit.CreatedAt.Format(dateLayout),
	))
}

// PaymentMessage builds the receipt message sent after a settled payment.
// saldoPendiente arrives already clamped at zero.
func PaymentMessage(
	client *domain.Client,
	credit *domain.Credit,
	payment *domain.Payment,
	numeroComprobante string,
	saldoPendiente float64,
) string {
	return strings.TrimSpace(fmt.Sprintf(`
*¡Pago registrado exitosamente!* 🎉

*Comprobante:* `+"` %s `"+`
*Cliente:* %s
*Crédito:* %s
*Monto Principal:* $%.2f
*Cuotas:* %d

*Detalles del Pago:*
*Monto Pagado:* $%.2f
*Cuota:* %d
*Método:* %s

*Saldo Pendiente:* $%.2f

_Gracias por su pago._`,
		numeroComprobante,
		client.Nombre,
		credit.NumeroCredito,
		credit.MontoPrincipal,
		credit.Cuotas,
		payment.Monto,
		payment.CuotaNumero,
		payment.MetodoPago,
		saldoPendiente,
	))
}

// UpcomingDueMessage builds the reminder for credits due within the
// configured window.
func UpcomingDueMessage(client *domain.Client, credit *domain.Credit, diasRestantes int) string {
	return strings.TrimSpace(fmt.Sprintf(`
🔔 Recordatorio de Pago

Estimado/a %s,

Le recordamos que su crédito está próximo a vencer.

📋 Detalles:
• Crédito: %s
• Monto: $%.2f
• Vence en: %d día(s)
• Fecha de vencimiento: %s

Por favor, realice su pago a tiempo para evitar cargos adicionales.

Gracias.`,
		client.Nombre,
		credit.NumeroCredito,
		credit.MontoPrincipal,
		diasRestantes,
		credit.FechaVencimiento.Format(dateLayout),
	))
}

// OverdueMessage builds the notice for credits past their due date.
func OverdueMessage(client *domain.Client, credit *domain.Credit, diasVencidos int) string {
	return strings.TrimSpace(fmt.Sprintf(`
⚠️ CRÉDITO VENCIDO

Estimado/a %s,

Su crédito se encuentra VENCIDO.

📋 Detalles:
• Crédito: %s
• Monto: $%.2f
• Días vencidos: %d
• Fecha de vencimiento: %s

⚠️ Es importante que regularice su pago lo antes posible para evitar cargos adicionales.

Por favor, comuníquese con nosotros.`,
		client.Nombre,
		credit.NumeroCredito,
		credit.MontoPrincipal,
		diasVencidos,
		credit.FechaVencimiento.Format(dateLayout),
	))
}
