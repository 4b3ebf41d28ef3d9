package creditsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
	"github.com/creditos/creditos-backend/internal/notifier"
	"github.com/creditos/creditos-backend/internal/repository"
	clientrepo "github.com/creditos/creditos-backend/internal/repository/client"
	creditrepo "github.com/creditos/creditos-backend/internal/repository/credit"
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

// daysPerInstallment spaces the default due date: 30 days per cuota.
const daysPerInstallment = 30

type creditService struct {
	db                     *gorm.DB
	creditRepository       repository.CreditRepository
	clientRepository       repository.ClientRepository
	paymentRepository      repository.PaymentRepository
	notificationRepository repository.NotificationRepository
	dispatcher             *notifier.Dispatcher

	defaultRate float64

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger

	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	creditsCreated    metric.Int64Counter
	creditsApproved   metric.Int64Counter
	creditsRejected   metric.Int64Counter
}

// CreateCredit implements service.CreditServices. The new credit is born
// PENDIENTE; the one-active-credit rule is checked under a lock on the
// client row so two concurrent solicitudes cannot both pass it.
func (s *creditService) CreateCredit(ctx context.Context, req dto.CreateCreditRequest, createdBy uint64) (*domain.Credit, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateCredit")
	defer span.End()

	start := time.Now()

	s.log.Debug("Creating new credit",
		zap.Uint64("cliente_id", req.ClienteID),
		zap.Float64("monto_principal", req.MontoPrincipal),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "create_credit"),
			attribute.String("service", "credit"),
		),
	)

	span.SetAttributes(
		attribute.Int64("cliente.id", int64(req.ClienteID)),
		attribute.Float64("credit.monto_principal", req.MontoPrincipal),
		attribute.Int("credit.cuotas", int(req.Cuotas)),
		attribute.String("service", "credit"),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		span.SetStatus(codes.Error, "Failed to begin transaction")
		span.RecordError(tx.Error)
		s.log.Error("Failed to begin transaction",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(tx.Error),
		)
		s.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "create_credit"),
				attribute.String("service", "credit"),
				attribute.String("error_type", "transaction_begin_error"),
			),
		)
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration,
			metric.WithAttributes(
				attribute.String("operation", "create_credit"),
				attribute.String("service", "credit"),
				attribute.String("status", "error"),
			),
		)
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	// Lock the client row so concurrent solicitudes for the same client
	// serialize on the active-credit check below.
	clientTx := clientrepo.NewClientRepository(tx, s.meter, s.tracer, s.log)
	lockedClient, err := clientTx.FindByIDWithLock(ctx, req.ClienteID)
	if err != nil {
		span.SetStatus(codes.Error, "Error finding client")
		span.RecordError(err)
		s.log.Error("Error finding client with lock",
			zap.Uint64("cliente_id", req.ClienteID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "create_credit"),
				attribute.String("service", "credit"),
				attribute.String("error_type", "client_lookup_error"),
			),
		)
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, fmt.Errorf("error finding client: %w", err)
	}
	if lockedClient == nil {
		err = common.ErrClientNotFound
		span.SetStatus(codes.Error, "Client not found")
		span.RecordError(err)
		s.log.Warn("Client not found for credit creation", zap.Uint64("cliente_id", req.ClienteID), zap.String("trace_id", span.SpanContext().TraceID().String()))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "client_not_found")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, err
	}

	creditTx := creditrepo.NewCreditRepository(tx)
	hasActive, err := creditTx.HasActiveCredit(ctx, req.ClienteID)
	if err != nil {
		span.SetStatus(codes.Error, "Error checking active credits")
		span.RecordError(err)
		s.log.Error("Error checking active credits", zap.Uint64("cliente_id", req.ClienteID), zap.String("trace_id", span.SpanContext().TraceID().String()), zap.Error(err))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "active_check_error")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, err
	}
	if hasActive {
		err = common.ErrActiveCreditExists
		span.SetStatus(codes.Error, "Client already has an active credit")
		span.RecordError(err)
		s.log.Warn("Client already has an active credit", zap.Uint64("cliente_id", req.ClienteID), zap.String("trace_id", span.SpanContext().TraceID().String()))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "active_credit_exists")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, err
	}

	now := time.Now()
	numeroCredito, err := creditTx.NextNumeroCredito(ctx, now.Year())
	if err != nil {
		span.SetStatus(codes.Error, "Error generating credit number")
		span.RecordError(err)
		s.log.Error("Error generating credit number", zap.String("trace_id", span.SpanContext().TraceID().String()), zap.Error(err))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "numero_generation_error")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, err
	}

	tasa := s.defaultRate
	if req.TasaInteresAplicada != nil {
		tasa = *req.TasaInteresAplicada
	}

	fechaVencimiento := now.AddDate(0, 0, int(req.Cuotas)*daysPerInstallment)
	if req.FechaVencimiento != "" {
		fechaVencimiento, err = time.Parse("2006-01-02", req.FechaVencimiento)
		if err != nil {
			err = common.NewValidationError("fechaVencimiento", "la fecha de vencimiento no es válida")
			span.SetStatus(codes.Error, "Invalid due date")
			span.RecordError(err)
			s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "invalid_due_date")))
			duration := float64(time.Since(start).Milliseconds())
			s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
			return nil, err
		}
	}

	newCredit := domain.Credit{
		NumeroCredito:       numeroCredito,
		ClienteID:           lockedClient.ID,
		MontoPrincipal:      req.MontoPrincipal,
		Cuotas:              req.Cuotas,
		TasaInteresAplicada: tasa,
		FechaVencimiento:    fechaVencimiento,
		Estado:              domain.CreditPendiente,
		CreatedBy:           createdBy,
		UpdatedBy:           createdBy,
	}

	if err := newCredit.Validate(); err != nil {
		span.SetStatus(codes.Error, "Credit validation failed")
		span.RecordError(err)
		s.log.Warn("Credit validation failed", zap.String("trace_id", span.SpanContext().TraceID().String()), zap.Error(err))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "validation_error")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, err
	}

	if err := creditTx.Create(ctx, &newCredit); err != nil {
		span.SetStatus(codes.Error, "Failed to create credit record")
		span.RecordError(err)
		s.log.Error("Failed to create credit record", zap.String("numero_credito", numeroCredito), zap.String("trace_id", span.SpanContext().TraceID().String()), zap.Error(err))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "create_record_failed")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, fmt.Errorf("failed to create credit record: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		span.SetStatus(codes.Error, "Failed to commit transaction")
		span.RecordError(err)
		s.log.Error("Failed to commit transaction", zap.String("trace_id", span.SpanContext().TraceID().String()), zap.Error(err))
		s.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("error_type", "transaction_commit_error")))
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "error")))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.creditsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "credit")))
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "create_credit"), attribute.String("service", "credit"), attribute.String("status", "success")))
	s.log.Info("Credit created successfully",
		zap.String("numero_credito", newCredit.NumeroCredito),
		zap.Uint64("cliente_id", newCredit.ClienteID),
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
	span.SetStatus(codes.Ok, "Credit created successfully")
	span.SetAttributes(attribute.String("credit.numero_credito", newCredit.NumeroCredito))

	return &newCredit, nil
}

// ApproveCredit implements service.CreditServices. Only PENDIENTE credits
// can be approved; the one-active-credit rule is re-checked under the lock
// because another credit may have been approved since the solicitud.
func (s *creditService) ApproveCredit(ctx context.Context, creditID, approvedBy uint64) (*dto.StatusChangeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ApproveCredit")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "approve_credit"),
			attribute.String("service", "credit"),
		),
	)
	span.SetAttributes(
		attribute.Int64("credit.id", int64(creditID)),
		attribute.String("service", "credit"),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.recordError(ctx, span, start, "approve_credit", "transaction_begin_error", "Failed to begin transaction", tx.Error)
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	creditTx := creditrepo.NewCreditRepository(tx)
	credit, err := creditTx.FindByIDWithLock(ctx, creditID)
	if err != nil {
		s.recordError(ctx, span, start, "approve_credit", "credit_lookup_error", "Error finding credit", err)
		return nil, fmt.Errorf("error finding credit: %w", err)
	}
	if credit == nil {
		err = common.ErrCreditNotFound
		s.recordError(ctx, span, start, "approve_credit", "credit_not_found", "Credit not found", err)
		return nil, err
	}

	if !credit.CanTransitionTo(domain.CreditActivo) {
		err = fmt.Errorf("%w: cannot approve a credit in estado %s", common.ErrInvalidCreditState, credit.Estado)
		s.recordError(ctx, span, start, "approve_credit", "invalid_state", "Credit not approvable", err)
		return nil, err
	}

	// Another credit of the same client may have gone ACTIVO between the
	// solicitud and this approval.
	clientTx := clientrepo.NewClientRepository(
		tx,
		otel.GetMeterProvider().Meter(""),
		otel.GetTracerProvider().Tracer(""),
		zap.L(),
	)
	lockedClient, err := clientTx.FindByIDWithLock(ctx, credit.ClienteID)
	if err != nil {
		s.recordError(ctx, span, start, "approve_credit", "client_lookup_error", "Error finding client", err)
		return nil, err
	}
	if lockedClient == nil {
		err = common.ErrClientNotFound
		s.recordError(ctx, span, start, "approve_credit", "client_not_found", "Client not found", err)
		return nil, err
	}

	hasActive, err := creditTx.HasActiveCredit(ctx, credit.ClienteID)
	if err != nil {
		s.recordError(ctx, span, start, "approve_credit", "active_check_error", "Error checking active credits", err)
		return nil, err
	}
	if hasActive {
		err = common.ErrActiveCreditExists
		s.recordError(ctx, span, start, "approve_credit", "active_credit_exists", "Client already has an active credit", err)
		return nil, err
	}

	if err := creditTx.UpdateEstado(ctx, credit.ID, domain.CreditActivo, approvedBy); err != nil {
		s.recordError(ctx, span, start, "approve_credit", "update_estado_failed", "Failed to update credit estado", err)
		return nil, fmt.Errorf("failed to update credit estado: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		s.recordError(ctx, span, start, "approve_credit", "transaction_commit_error", "Failed to commit transaction", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	credit.Estado = domain.CreditActivo
	credit.UpdatedBy = approvedBy

	// Notification is best-effort: the approval already committed.
	notified := s.dispatcher.Dispatch(ctx, lockedClient, domain.NotificationCreditApproved,
		notifier.ApprovedMessage(lockedClient, credit))

	s.creditsApproved.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "credit")))
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "approve_credit"), attribute.String("service", "credit"), attribute.String("status", "success")))
	s.log.Info("Credit approved successfully",
		zap.String("numero_credito", credit.NumeroCredito),
		zap.Uint64("cliente_id", credit.ClienteID),
		zap.Bool("notificacion_enviada", notified),
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Credit approved successfully")

	return &dto.StatusChangeResponse{
		Credit:              dto.CreditToResponse(credit),
		NotificacionEnviada: notified,
		Mensaje:             "Crédito aprobado exitosamente",
	}, nil
}

// RejectCredit implements service.CreditServices. RECHAZADO is terminal;
// only PENDIENTE credits can be rejected.
func (s *creditService) RejectCredit(ctx context.Context, creditID, rejectedBy uint64, motivo string) (*dto.StatusChangeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.RejectCredit")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "reject_credit"),
			attribute.String("service", "credit"),
		),
	)
	span.SetAttributes(
		attribute.Int64("credit.id", int64(creditID)),
		attribute.String("service", "credit"),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.recordError(ctx, span, start, "reject_credit", "transaction_begin_error", "Failed to begin transaction", tx.Error)
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	creditTx := creditrepo.NewCreditRepository(tx)
	credit, err := creditTx.FindByIDWithLock(ctx, creditID)
	if err != nil {
		s.recordError(ctx, span, start, "reject_credit", "credit_lookup_error", "Error finding credit", err)
		return nil, fmt.Errorf("error finding credit: %w", err)
	}
	if credit == nil {
		err = common.ErrCreditNotFound
		s.recordError(ctx, span, start, "reject_credit", "credit_not_found", "Credit not found", err)
		return nil, err
	}

	if !credit.CanTransitionTo(domain.CreditRechazado) {
		err = fmt.Errorf("%w: cannot reject a credit in estado %s", common.ErrInvalidCreditState, credit.Estado)
		s.recordError(ctx, span, start, "reject_credit", "invalid_state", "Credit not rejectable", err)
		return nil, err
	}

	if err := creditTx.UpdateEstado(ctx, credit.ID, domain.CreditRechazado, rejectedBy); err != nil {
		s.recordError(ctx, span, start, "reject_credit", "update_estado_failed", "Failed to update credit estado", err)
		return nil, fmt.Errorf("failed to update credit estado: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		s.recordError(ctx, span, start, "reject_credit", "transaction_commit_error", "Failed to commit transaction", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	credit.Estado = domain.CreditRechazado
	credit.UpdatedBy = rejectedBy

	notified := false
	client, err := s.clientRepository.FindByID(ctx, credit.ClienteID)
	if err != nil || client == nil {
		s.log.Error("Could not load client for rejection notice",
			zap.Uint64("cliente_id", credit.ClienteID),
			zap.Error(err),
		)
	} else {
		notified = s.dispatcher.Dispatch(ctx, client, domain.NotificationCreditRejected,
			notifier.RejectedMessage(client, credit, motivo))
	}

	s.creditsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "credit")))
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "reject_credit"), attribute.String("service", "credit"), attribute.String("status", "success")))
	s.log.Info("Credit rejected",
		zap.String("numero_credito", credit.NumeroCredito),
		zap.Uint64("cliente_id", credit.ClienteID),
		zap.String("motivo", motivo),
		zap.Bool("notificacion_enviada", notified),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Credit rejected")

	return &dto.StatusChangeResponse{
		Credit:              dto.CreditToResponse(credit),
		NotificacionEnviada: notified,
		Mensaje:             "Crédito rechazado exitosamente",
	}, nil
}

// GetCreditByID implements service.CreditServices: the credit plus its
// derived figures, payment total and history.
func (s *creditService) GetCreditByID(ctx context.Context, creditID uint64) (*dto.CreditDetailResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetCreditByID")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "get_credit"),
			attribute.String("service", "credit"),
		),
	)

	credit, err := s.creditRepository.FindByID(ctx, creditID)
	if err != nil {
		s.recordError(ctx, span, start, "get_credit", "credit_lookup_error", "Error finding credit", err)
		return nil, err
	}
	if credit == nil {
		err = common.ErrCreditNotFound
		s.recordError(ctx, span, start, "get_credit", "credit_not_found", "Credit not found", err)
		return nil, err
	}

	totalPagado, err := s.paymentRepository.SumByCredit(ctx, credit.ID)
	if err != nil {
		s.recordError(ctx, span, start, "get_credit", "sum_payments_error", "Error summing payments", err)
		return nil, err
	}

	payments, err := s.paymentRepository.FindByCredit(ctx, credit.ID)
	if err != nil {
		s.recordError(ctx, span, start, "get_credit", "payments_lookup_error", "Error listing payments", err)
		return nil, err
	}

	saldoPendiente := credit.MontoTotal() - totalPagado
	if saldoPendiente < 0 {
		saldoPendiente = 0
	}

	pagos := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		pagos = append(pagos, dto.PaymentToResponse(&payments[i]))
	}

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "get_credit"), attribute.String("service", "credit"), attribute.String("status", "success")))
	span.SetStatus(codes.Ok, "Credit retrieved")

	return &dto.CreditDetailResponse{
		CreditResponse: dto.CreditToResponse(credit),
		TotalInteres:   credit.TotalInteres(),
		TotalPagado:    totalPagado,
		SaldoPendiente: saldoPendiente,
		Pagos:          pagos,
	}, nil
}

// ListCreditsByClient implements service.CreditServices.
func (s *creditService) ListCreditsByClient(ctx context.Context, clienteID uint64) ([]dto.CreditResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListCreditsByClient")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "list_credits"),
			attribute.String("service", "credit"),
		),
	)

	client, err := s.clientRepository.FindByID(ctx, clienteID)
	if err != nil {
		s.recordError(ctx, span, start, "list_credits", "client_lookup_error", "Error finding client", err)
		return nil, err
	}
	if client == nil {
		err = common.ErrClientNotFound
		s.recordError(ctx, span, start, "list_credits", "client_not_found", "Client not found", err)
		return nil, err
	}

	credits, err := s.creditRepository.FindByClient(ctx, clienteID)
	if err != nil {
		s.recordError(ctx, span, start, "list_credits", "credits_lookup_error", "Error listing credits", err)
		return nil, err
	}

	responses := make([]dto.CreditResponse, 0, len(credits))
	for i := range credits {
		responses = append(responses, dto.CreditToResponse(&credits[i]))
	}

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "list_credits"), attribute.String("service", "credit"), attribute.String("status", "success")))
	span.SetStatus(codes.Ok, "Credits retrieved")

	return responses, nil
}

// ListClientNotifications implements service.CreditServices: the client's
// delivery audit trail, newest first.
func (s *creditService) ListClientNotifications(ctx context.Context, clienteID uint64) ([]dto.NotificationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListClientNotifications")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "list_notifications"),
			attribute.String("service", "credit"),
		),
	)

	client, err := s.clientRepository.FindByID(ctx, clienteID)
	if err != nil {
		s.recordError(ctx, span, start, "list_notifications", "client_lookup_error", "Error finding client", err)
		return nil, err
	}
	if client == nil {
		err = common.ErrClientNotFound
		s.recordError(ctx, span, start, "list_notifications", "client_not_found", "Client not found", err)
		return nil, err
	}

	notifications, err := s.notificationRepository.FindByClient(ctx, clienteID)
	if err != nil {
		s.recordError(ctx, span, start, "list_notifications", "notifications_lookup_error", "Error listing notifications", err)
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.NotificationToResponse(&notifications[i]))
	}

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("operation", "list_notifications"), attribute.String("service", "credit"), attribute.String("status", "success")))
	span.SetStatus(codes.Ok, "Notifications retrieved")

	return responses, nil
}

func (s *creditService) recordError(ctx context.Context, span trace.Span, start time.Time, operation, errType, msg string, err error) {
	span.SetStatus(codes.Error, msg)
	span.RecordError(err)
	s.log.Error(msg,
		zap.String("operation", operation),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "credit"),
			attribute.String("error_type", errType),
		),
	)
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "credit"),
			attribute.String("status", "error"),
		),
	)
}

func NewCreditService(
	db *gorm.DB,
	creditRepository repository.CreditRepository,
	clientRepository repository.ClientRepository,
	paymentRepository repository.PaymentRepository,
	notificationRepository repository.NotificationRepository,
	dispatcher *notifier.Dispatcher,
	defaultRate float64,

	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.CreditServices {
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
	creditsCreated, _ := meter.Int64Counter(
		"service.credits.created",
		metric.WithDescription("Number of credits created"),
		metric.WithUnit("{credit}"),
	)
	creditsApproved, _ := meter.Int64Counter(
		"service.credits.approved",
		metric.WithDescription("Number of credits approved"),
		metric.WithUnit("{credit}"),
	)
	creditsRejected, _ := meter.Int64Counter(
		"service.credits.rejected",
		metric.WithDescription("Number of credits rejected"),
		metric.WithUnit("{credit}"),
	)

	return &creditService{
		db:                     db,
		creditRepository:       creditRepository,
		clientRepository:       clientRepository,
		paymentRepository:      paymentRepository,
		notificationRepository: notificationRepository,
		dispatcher:             dispatcher,
		defaultRate:            defaultRate,
		meter:                  meter,
		tracer:                 tracer,
		log:                    log,
		operationDuration:      operationDuration,
		operationCount:         operationCount,
		errorCount:             errorCount,
		creditsCreated:         creditsCreated,
		creditsApproved:        creditsApproved,
		creditsRejected:        creditsRejected,
	}
}
