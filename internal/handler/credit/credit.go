package credithandler

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

type CreditHandler struct {
	creditService   service.CreditServices
	validate        *validator.Validate
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
	responseSize    metric.Int64Histogram
}

func NewCreditHandler(
	creditService service.CreditServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *CreditHandler {
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

	responseSize, err := meter.Int64Histogram(
		"api.response.size",
		metric.WithDescription("Size of API responses in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create response size metric", zap.Error(err))
	}

	return &CreditHandler{
		creditService:   creditService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
		responseSize:    responseSize,
	}
}

func (h *CreditHandler) recordError(
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
		attribute.String("error.message", err.Error()),
		attribute.Int("http.status_code", statusCode),
	)
	span.RecordError(err)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
		zap.Int("status_code", statusCode),
		zap.String("error_type", errorType),
		zap.Float64("duration_ms", duration),
	}, fields...)

	h.log.Error(message, logFields...)

	return c.Status(statusCode).JSON(fiber.Map{"error": message})
}

func (h *CreditHandler) recordSuccess(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, statusCode int, responseData interface{}, fields ...zap.Field) error {
	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Float64("request.duration_ms", duration),
	)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
		zap.Int("status_code", statusCode),
		zap.Float64("duration_ms", duration),
	}, fields...)

	h.log.Info("Request completed successfully", logFields...)

	return common.SuccessResponse(c, statusCode, responseData)
}

// mapLifecycleError translates sentinel errors into HTTP statuses shared
// by the lifecycle endpoints.
func (h *CreditHandler) mapLifecycleError(
	ctx context.Context, span trace.Span, c *fiber.Ctx, start time.Time, err error) error {
	switch {
	case common.IsValidationError(err):
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, common.ErrClientNotFound):
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusNotFound, "client_not_found", "Client not found")
	case errors.Is(err, common.ErrCreditNotFound):
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusNotFound, "credit_not_found", "Credit not found")
	case errors.Is(err, common.ErrActiveCreditExists):
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusConflict, "active_credit_exists", "Client already has an active credit")
	case errors.Is(err, common.ErrInvalidCreditState):
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, common.ErrDuplicateCreditNumber):
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusConflict, "duplicate_numero", "Credit number already assigned, retry the request")
	default:
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "An internal server error occurred", zap.Error(err))
	}
}

func (h *CreditHandler) CreateCredit(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreateCredit")
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

	var req dto.CreateCreditRequest
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
		attribute.Int64("cliente.id", int64(req.ClienteID)),
		attribute.Float64("credit.monto_principal", req.MontoPrincipal),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	credit, err := h.creditService.CreateCredit(serviceCtx, req, claims.UserID)
	if err != nil {
		return h.mapLifecycleError(ctx, span, c, start, err)
	}

	span.SetAttributes(attribute.String("credit.numero_credito", credit.NumeroCredito))

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.CreditToResponse(credit),
		zap.String("numero_credito", credit.NumeroCredito),
		zap.Uint64("cliente_id", credit.ClienteID),
	)
}

func (h *CreditHandler) ApproveCredit(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ApproveCredit")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	creditID, err := c.ParamsInt("id")
	if err != nil || creditID <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid credit id"),
			fiber.StatusBadRequest, "parse_error", "Invalid credit id")
	}

	claims, err := middleware.GetClaimsFromLocals(c)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusUnauthorized, "claims_error", "Could not read user claims")
	}

	span.SetAttributes(attribute.Int("credit.id", creditID))

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := h.creditService.ApproveCredit(serviceCtx, uint64(creditID), claims.UserID)
	if err != nil {
		return h.mapLifecycleError(ctx, span, c, start, err)
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, res,
		zap.String("numero_credito", res.Credit.NumeroCredito),
		zap.Bool("notificacion_enviada", res.NotificacionEnviada),
	)
}

func (h *CreditHandler) RejectCredit(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.RejectCredit")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	creditID, err := c.ParamsInt("id")
	if err != nil || creditID <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid credit id"),
			fiber.StatusBadRequest, "parse_error", "Invalid credit id")
	}

	// Body optional: rejection without a motivo is allowed.
	var req dto.RejectCreditRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
		}
	}

	claims, err := middleware.GetClaimsFromLocals(c)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusUnauthorized, "claims_error", "Could not read user claims")
	}

	span.SetAttributes(attribute.Int("credit.id", creditID))

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := h.creditService.RejectCredit(serviceCtx, uint64(creditID), claims.UserID, req.Motivo)
	if err != nil {
		return h.mapLifecycleError(ctx, span, c, start, err)
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, res,
		zap.String("numero_credito", res.Credit.NumeroCredito),
		zap.Bool("notificacion_enviada", res.NotificacionEnviada),
	)
}

func (h *CreditHandler) GetCredit(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.GetCredit")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	creditID, err := c.ParamsInt("id")
	if err != nil || creditID <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid credit id"),
			fiber.StatusBadRequest, "parse_error", "Invalid credit id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := h.creditService.GetCreditByID(serviceCtx, uint64(creditID))
	if err != nil {
		return h.mapLifecycleError(ctx, span, c, start, err)
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, res,
		zap.String("numero_credito", res.NumeroCredito),
	)
}

func (h *CreditHandler) ListClientCredits(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListClientCredits")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	clienteID, err := c.ParamsInt("id")
	if err != nil || clienteID <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid client id"),
			fiber.StatusBadRequest, "parse_error", "Invalid client id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := h.creditService.ListCreditsByClient(serviceCtx, uint64(clienteID))
	if err != nil {
		return h.mapLifecycleError(ctx, span, c, start, err)
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, res,
		zap.Int("cliente_id", clienteID),
		zap.Int("credits", len(res)),
	)
}

func (h *CreditHandler) ListClientNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListClientNotifications")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	clienteID, err := c.ParamsInt("id")
	if err != nil || clienteID <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid client id"),
			fiber.StatusBadRequest, "parse_error", "Invalid client id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := h.creditService.ListClientNotifications(serviceCtx, uint64(clienteID))
	if err != nil {
		return h.mapLifecycleError(ctx, span, c, start, err)
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, res,
		zap.Int("cliente_id", clienteID),
		zap.Int("notifications", len(res)),
	)
}
