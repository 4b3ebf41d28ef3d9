package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
	paymenthandler "github.com/creditos/creditos-backend/internal/handler/payment"
	"github.com/creditos/creditos-backend/middleware"
	"github.com/creditos/creditos-backend/pkg/common"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	app                *fiber.App
	handler            *paymenthandler.PaymentHandler
	mockPaymentService *MockPaymentService

	jwtSecret string
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	suite.mockPaymentService = &MockPaymentService{}
	suite.jwtSecret = "test-payment-secret-key"

	log := zap.NewNop()
	tracer := noop_trace.NewTracerProvider().Tracer("test-payment-handler-tracer")
	meter := noop_metric.NewMeterProvider().Meter("test-payment-handler-meter")

	suite.handler = paymenthandler.NewPaymentHandler(
		suite.mockPaymentService,
		meter,
		tracer,
		log,
	)

	app := fiber.New()
	jwtAuth := middleware.NewJWTAuthMiddleware(suite.jwtSecret)
	requireStaff := middleware.RequireRole(domain.AdminRole, domain.CobradorRole)
	app.Post("/payments", jwtAuth, requireStaff, suite.handler.CreatePayment)

	suite.app = app
}

func (suite *PaymentHandlerTestSuite) newPaymentRequest(body any) *http.Request {
	claims := &domain.JwtCustomClaims{
		UserID: 8,
		Role:   domain.CobradorRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	assert.NoError(suite.T(), err)

	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		assert.NoError(suite.T(), err)
	}

	req := httptest.NewRequest(http.MethodPost, "/payments", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signed)

	return req
}

func (suite *PaymentHandlerTestSuite) TestCreatePayment() {
	requestBody := map[string]any{
		"creditId":    1,
		"monto":       100000.0,
		"metodoPago":  "EFECTIVO",
		"cuotaNumero": 1,
	}

	suite.Run("Success", func() {
		suite.mockPaymentService.MockResult = &dto.CreatePaymentResponse{
			Payment:             dto.PaymentResponse{ID: 1, CreditID: 1, Monto: 100000},
			Ticket:              dto.TicketResponse{ID: 1, NumeroComprobante: "COMP-1756500000000-1"},
			NuevoEstadoCredito:  "ACTIVO",
			SaldoPendiente:      1100000,
			NotificacionEnviada: true,
		}
		suite.mockPaymentService.MockError = nil

		req := suite.newPaymentRequest(requestBody)
		resp, err := suite.app.Test(req)
		assert.NoError(suite.T(), err)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(suite.T(), "success", body["status"])
		data, ok := body["data"].(map[string]any)
		assert.True(suite.T(), ok, "response data must carry the payment result")
		ticket, _ := data["ticket"].(map[string]any)
		assert.Equal(suite.T(), "COMP-1756500000000-1", ticket["numeroComprobante"])
	})

	suite.Run("Failure - Credit Not Found", func() {
		suite.mockPaymentService.MockError = common.ErrCreditNotFound

		req := suite.newPaymentRequest(requestBody)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	})

	suite.Run("Failure - Credit Not Payable", func() {
		suite.mockPaymentService.MockError = common.ErrInvalidCreditState

		req := suite.newPaymentRequest(requestBody)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	})

	suite.Run("Failure - Invalid Metodo Pago", func() {
		suite.mockPaymentService.MockError = nil

		req := suite.newPaymentRequest(map[string]any{
			"creditId":    1,
			"monto":       100000.0,
			"metodoPago":  "BITCOIN",
			"cuotaNumero": 1,
		})
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	})

	suite.Run("Failure - No Token", func() {
		req := httptest.NewRequest(http.MethodPost, "/payments", nil)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPaymentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
