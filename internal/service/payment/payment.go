package paymentsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
	"github.com/creditos/creditos-backend/internal/notifier"
	clientrepo "github.com/creditos/creditos-backend/internal/repository/client"
	creditrepo "github.com/creditos/creditos-backend/internal/repository/credit"
	paymentrepo "github.com/creditos/creditos-backend/internal/repository/payment"
	ticketrepo "github.com/creditos/creditos-backend/internal/repository/ticket"
	"github.com/creditos/creditos-backend/internal/service"
	"github.com/creditos/creditos-backend/pkg/common"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentService struct {
	db         *gorm.DB
	dispatcher *notifier.Dispatcher

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger

	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	paymentsCreated   metric.Int64Counter
	creditsSettled    metric.Int64Counter
}

// ticketSnapshot is the receipt content frozen at payment time, stored as
// JSON so the ticket survives later changes to the credit or client.
type ticketSnapshot struct {
	NumeroComprobante string    `json:"numeroComprobante"`
	Cliente           string    `json:"cliente"`
	NumeroCredito     string    `json:"numeroCredito"`
	Monto             float64   `json:"monto"`
	MetodoPago        string    `json:"metodoPago"`
	CuotaNumero       uint      `json:"cuotaNumero"`
	FechaPago         time.Time `json:"fechaPago"`
	SaldoPendiente    float64   `json:"saldoPendiente"`
}

// CreatePayment implements service.PaymentServices. Payment row, receipt
// and the PAGADO transition all land in one database transaction; the
// credit row lock serializes concurrent settlements so the running total
// is never computed against a stale state.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, createdBy uint64) (*dto.CreatePaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreatePayment")
	defer span.End()

	start := time.Now()

	s.log.Debug("Registering payment",
		zap.Uint64("credit_id", req.CreditID),
		zap.Float64("monto", req.Monto),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "create_payment"),
			attribute.String("service", "payment"),
		),
	)

	span.SetAttributes(
		attribute.Int64("credit.id", int64(req.CreditID)),
		attribute.Float64("payment.monto", req.Monto),
		attribute.String("payment.metodo", req.MetodoPago),
		attribute.String("service", "payment"),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.recordError(ctx, span, start, "transaction_begin_error", "Failed to begin transaction", tx.Error)
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	creditTx := creditrepo.NewCreditRepository(tx)
	credit, err := creditTx.FindByIDWithLock(ctx, req.CreditID)
	if err != nil {
		s.recordError(ctx, span, start, "credit_lookup_error", "Error finding credit", err)
		return nil, fmt.Errorf("error finding credit: %w", err)
	}
	if credit == nil {
		err = common.ErrCreditNotFound
		s.recordError(ctx, span, start, "credit_not_found", "Credit not found", err)
		return nil, err
	}

	if credit.Estado != domain.CreditActivo && credit.Estado != domain.CreditIncumplido {
		err = fmt.Errorf("%w: cannot register a payment on a credit in estado %s",
			common.ErrInvalidCreditState, credit.Estado)
		s.recordError(ctx, span, start, "invalid_state", "Credit not payable", err)
		return nil, err
	}

	clientTx := clientrepo.NewClientRepository(
		tx,
		otel.GetMeterProvider().Meter(""),
		otel.GetTracerProvider().Tracer(""),
		zap.L(),
	)
	client, err := clientTx.FindByID(ctx, credit.ClienteID)
	if err != nil {
		s.recordError(ctx, span, start, "client_lookup_error", "Error finding client", err)
		return nil, err
	}
	if client == nil {
		err = common.ErrClientNotFound
		s.recordError(ctx, span, start, "client_not_found", "Client not found", err)
		return nil, err
	}

	now := time.Now()
	fechaPago := now
	if req.FechaPago != "" {
		fechaPago, err = time.Parse("2006-01-02", req.FechaPago)
		if err != nil {
			err = common.NewValidationError("fechaPago", "la fecha de pago no es válida")
			s.recordError(ctx, span, start, "validation_error", "Invalid payment date", err)
			return nil, err
		}
	}
	payment := domain.Payment{
		CreditID:              credit.ID,
		ClienteID:             credit.ClienteID,
		UserID:                createdBy,
		Monto:                 req.Monto,
		FechaPago:             fechaPago,
		MetodoPago:            domain.PaymentMethod(req.MetodoPago),
		CuotaNumero:           req.CuotaNumero,
		ComprobanteReferencia: req.ComprobanteReferencia,
		CreatedBy:             createdBy,
		UpdatedBy:             createdBy,
	}
	if err := payment.Validate(); err != nil {
		s.recordError(ctx, span, start, "validation_error", "Payment validation failed", err)
		return nil, err
	}

	paymentTx := paymentrepo.NewPaymentRepository(tx)
	if err := paymentTx.Create(ctx, &payment); err != nil {
		s.recordError(ctx, span, start, "create_record_failed", "Failed to create payment record", err)
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	// Running total includes the row just inserted: the repository is
	// constructed over the tx handle.
	totalPagado, err := paymentTx.SumByCredit(ctx, credit.ID)
	if err != nil {
		s.recordError(ctx, span, start, "sum_payments_error", "Error summing payments", err)
		return nil, err
	}

	montoTotal := credit.MontoTotal()
	saldoPendiente := montoTotal - totalPagado
	if saldoPendiente < 0 {
		saldoPendiente = 0
	}

	numeroComprobante := fmt.Sprintf("COMP-%d-%d", now.UnixMilli(), payment.ID)
	contenido, err := json.Marshal(ticketSnapshot{
		NumeroComprobante: numeroComprobante,
		Cliente:           client.Nombre,
		NumeroCredito:     credit.NumeroCredito,
		Monto:             payment.Monto,
		MetodoPago:        string(payment.MetodoPago),
		CuotaNumero:       payment.CuotaNumero,
		FechaPago:         payment.FechaPago,
		SaldoPendiente:    saldoPendiente,
	})
	if err != nil {
		s.recordError(ctx, span, start, "snapshot_encode_error", "Failed to encode ticket snapshot", err)
		return nil, err
	}

	ticket := domain.Ticket{
		PaymentID:         payment.ID,
		NumeroComprobante: numeroComprobante,
		Monto:             payment.Monto,
		FechaEmision:      now,
		ClienteID:         credit.ClienteID,
		ContenidoTexto:    string(contenido),
		CreatedBy:         createdBy,
	}
	ticketTx := ticketrepo.NewTicketRepository(tx)
	if err := ticketTx.Create(ctx, &ticket); err != nil {
		s.recordError(ctx, span, start, "create_ticket_failed", "Failed to create ticket", err)
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	creditoActualizado := false
	nuevoEstado := credit.Estado
	if totalPagado >= montoTotal && credit.CanTransitionTo(domain.CreditPagado) {
		if err := creditTx.UpdateEstado(ctx, credit.ID, domain.CreditPagado, createdBy); err != nil {
			s.recordError(ctx, span, start, "settle_failed", "Failed to settle credit", err)
			return nil, fmt.Errorf("failed to settle credit: %w", err)
		}
		creditoActualizado = true
		nuevoEstado = domain.CreditPagado
	}

	if err := tx.Commit().Error; err != nil {
		s.recordError(ctx, span, start, "transaction_commit_error", "Failed to commit transaction", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The payment already committed: delivery failures only flip the
	// notificacionEnviada flag.
	notified := s.dispatcher.Dispatch(ctx, client, domain.NotificationPaymentPosted,
		notifier.PaymentMessage(client, credit, &payment, numeroComprobante, saldoPendiente))

	s.paymentsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "payment")))
	if creditoActualizado {
		s.creditsSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "payment")))
	}
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_payment"), attribute.String("service", "payment"), attribute.String("status", "success")))
	s.log.Info("Payment registered successfully",
		zap.String("numero_comprobante", numeroComprobante),
		zap.String("numero_credito", credit.NumeroCredito),
		zap.Float64("monto", payment.Monto),
		zap.Float64("saldo_pendiente", saldoPendiente),
		zap.Bool("credito_actualizado", creditoActualizado),
		zap.Bool("notificacion_enviada", notified),
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
	span.SetStatus(codes.Ok, "Payment registered successfully")
	span.SetAttributes(attribute.String("ticket.numero_comprobante", numeroComprobante))

	return &dto.CreatePaymentResponse{
		Payment:             dto.PaymentToResponse(&payment),
		Ticket:              dto.TicketToResponse(&ticket),
		CreditoActualizado:  creditoActualizado,
		NuevoEstadoCredito:  string(nuevoEstado),
		SaldoPendiente:      saldoPendiente,
		NotificacionEnviada: notified,
	}, nil
}

func (s *paymentService) recordError(ctx context.Context, span trace.Span, start time.Time, errType, msg string, err error) {
	span.SetStatus(codes.Error, msg)
	span.RecordError(err)
	s.log.Error(msg,
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "create_payment"),
			attribute.String("service", "payment"),
			attribute.String("error_type", errType),
		),
	)
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", "create_payment"),
			attribute.String("service", "payment"),
			attribute.String("status", "error"),
		),
	)
}

func NewPaymentService(
	db *gorm.DB,
	dispatcher *notifier.Dispatcher,

	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.PaymentServices {
	operationDuration, _ := meter.Float64Histogram(
		"service.operation.duration",
		metric.WithDescription("Duration of service operations"),
		metric.WithUnit("ms"),
	)
	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)
	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)
	paymentsCreated, _ := meter.Int64Counter(
		"service.payments.created",
		metric.WithDescription("Number of payments registered"),
		metric.WithUnit("{payment}"),
	)
	creditsSettled, _ := meter.Int64Counter(
		"service.credits.settled",
		metric.WithDescription("Number of credits settled in full"),
		metric.WithUnit("{credit}"),
	)

	return &paymentService{
		db:                db,
		dispatcher:        dispatcher,
		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		paymentsCreated:   paymentsCreated,
		creditsSettled:    creditsSettled,
	}
}
