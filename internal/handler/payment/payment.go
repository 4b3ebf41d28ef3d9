package paymenthandler

import (
	"context"
	"errors"
	"time"

	"github.com/creditos/creditos-backend/internal/dto"
	"github.com/creditos/creditos-backend/internal/service"
	"github.com/creditos/creditos-backend/middleware"
	"github.com/creditos/creditos-backend/pkg/common"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService  service.PaymentServices
	validate        *validator.Validate
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewPaymentHandler(
	paymentService service.PaymentServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *PaymentHandler {
	requestCount, err := meter.Int64Counter(
		"api.request.count",
		metric.WithDescription("Number of API requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request count metric", zap.Error(err))
	}

	requestDuration, err := meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request duration metric", zap.Error(err))
	}

	errorCount, err := meter.Int64Counter(
		"api.error.count",
		metric.WithDescription("Number of API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create error count metric", zap.Error(err))
	}

	return &PaymentHandler{
		paymentService:  paymentService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *PaymentHandler) recordError(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, err error, statusCode int, errorType, message string, fields ...zap.Field) error {
	h.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.String("error_type", errorType),
		attribute.Int("status_code", statusCode),
	))

	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.String("error.type", errorType),
		attribute.Int("http.status_code", statusCode),
	)
	span.RecordError(err)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.String("error_type", errorType),
	}, fields...)

	h.log.Error(message, logFields...)

	return c.Status(statusCode).JSON(fiber.Map{"error": message})
}

func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreatePayment")
	defer span.End()
	start := time.Now()

	span.SetAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", c.Path()),
		attribute.String("http.client_ip", c.IP()),
	)

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	claims, err := middleware.GetClaimsFromLocals(c)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusUnauthorized, "claims_error", "Could not read user claims")
	}

	span.SetAttributes(
		attribute.Int64("credit.id", int64(req.CreditID)),
		attribute.Float64("payment.monto", req.Monto),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := h.paymentService.CreatePayment(serviceCtx, req, claims.UserID)
	if err != nil {
		switch {
		case common.IsValidationError(err):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, common.ErrCreditNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "credit_not_found", "Credit not found",
				zap.Uint64("credit_id", req.CreditID))
		case errors.Is(err, common.ErrClientNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "client_not_found", "Client not found")
		case errors.Is(err, common.ErrInvalidCreditState):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusConflict, "invalid_state", err.Error(),
				zap.Uint64("credit_id", req.CreditID))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "An internal server error occurred", zap.Error(err))
		}
	}

	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", fiber.StatusCreated),
	))
	span.SetAttributes(
		attribute.Int("http.status_code", fiber.StatusCreated),
		attribute.String("ticket.numero_comprobante", res.Ticket.NumeroComprobante),
	)
	h.log.Info("Payment request completed",
		zap.String("numero_comprobante", res.Ticket.NumeroComprobante),
		zap.Bool("credito_actualizado", res.CreditoActualizado),
		zap.Bool("notificacion_enviada", res.NotificacionEnviada),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	return common.SuccessResponse(c, fiber.StatusCreated, res)
}
