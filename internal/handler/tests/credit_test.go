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
	credithandler "github.com/creditos/creditos-backend/internal/handler/credit"
	"github.com/creditos/creditos-backend/middleware"
	"github.com/creditos/creditos-backend/pkg/common"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"go.opentelemetry.io/otel/metric"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

type CreditHandlerTestSuite struct {
	suite.Suite
	app               *fiber.App
	handler           *credithandler.CreditHandler
	mockCreditService *MockCreditService

	jwtSecret string

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

func (suite *CreditHandlerTestSuite) SetupTest() {
	suite.mockCreditService = &MockCreditService{}
	suite.jwtSecret = "test-credit-secret-key"

	suite.log = zap.NewNop()
	noopTracerProvider := noop_trace.NewTracerProvider()
	suite.tracer = noopTracerProvider.Tracer("test-credit-handler-tracer")
	noopMeterProvider := noop_metric.NewMeterProvider()
	suite.meter = noopMeterProvider.Meter("test-credit-handler-meter")

	suite.handler = credithandler.NewCreditHandler(
		suite.mockCreditService,
		suite.meter,
		suite.tracer,
		suite.log,
	)

	suite.app = suite.setupCreditApp()
}

func (suite *CreditHandlerTestSuite) setupCreditApp() *fiber.App {
	app := fiber.New()

	jwtAuth := middleware.NewJWTAuthMiddleware(suite.jwtSecret)
	requireAdmin := middleware.RequireRole(domain.AdminRole)
	requireStaff := middleware.RequireRole(domain.AdminRole, domain.CobradorRole)

	creditGroup := app.Group("/credits", jwtAuth)
	{
		creditGroup.Post("/", requireStaff, suite.handler.CreateCredit)
		creditGroup.Get("/:id", requireStaff, suite.handler.GetCredit)
		creditGroup.Put("/:id/approve", requireAdmin, suite.handler.ApproveCredit)
		creditGroup.Put("/:id/reject", requireAdmin, suite.handler.RejectCredit)
	}
	app.Get("/clients/:id/credits", jwtAuth, requireStaff, suite.handler.ListClientCredits)
	app.Get("/clients/:id/notifications", jwtAuth, requireStaff, suite.handler.ListClientNotifications)

	return app
}

func (suite *CreditHandlerTestSuite) signToken(role domain.Role) string {
	claims := &domain.JwtCustomClaims{
		UserID: 3,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	assert.NoError(suite.T(), err)

	return signed
}

func (suite *CreditHandlerTestSuite) newJSONRequest(method, target string, body any, role domain.Role) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		assert.NoError(suite.T(), err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.signToken(role))

	return req
}

func sampleCredit() *domain.Credit {
	return &domain.Credit{
		ID:                  1,
		NumeroCredito:       "CRE-2026-000001",
		ClienteID:           5,
		MontoPrincipal:      1000000,
		Cuotas:              12,
		TasaInteresAplicada: 0.20,
		FechaVencimiento:    time.Now().AddDate(0, 0, 360),
		Estado:              domain.CreditPendiente,
	}
}

func (suite *CreditHandlerTestSuite) TestCreateCredit() {
	requestBody := map[string]any{
		"clienteId":      5,
		"montoPrincipal": 1000000.0,
		"cuotas":         12,
	}

	suite.Run("Success", func() {
		suite.mockCreditService.MockCredit = sampleCredit()
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodPost, "/credits/", requestBody, domain.CobradorRole)
		resp, err := suite.app.Test(req)
		assert.NoError(suite.T(), err)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
		assert.Equal(suite.T(), uint64(3), suite.mockCreditService.LastCreatedBy,
			"creator id must come from the token claims")

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(suite.T(), "success", body["status"])
		data, ok := body["data"].(map[string]any)
		assert.True(suite.T(), ok, "response data must carry the created credit")
		assert.Equal(suite.T(), "CRE-2026-000001", data["numeroCredito"])
	})

	suite.Run("Failure - Active Credit Exists", func() {
		suite.mockCreditService.MockError = common.ErrActiveCreditExists

		req := suite.newJSONRequest(http.MethodPost, "/credits/", requestBody, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	})

	suite.Run("Failure - Duplicate Credit Number", func() {
		suite.mockCreditService.MockError = common.ErrDuplicateCreditNumber

		req := suite.newJSONRequest(http.MethodPost, "/credits/", requestBody, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		// Retryable conflict, not an internal error.
		assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	})

	suite.Run("Failure - Client Not Found", func() {
		suite.mockCreditService.MockError = common.ErrClientNotFound

		req := suite.newJSONRequest(http.MethodPost, "/credits/", requestBody, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	})

	suite.Run("Failure - Invalid Body", func() {
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodPost, "/credits/", map[string]any{
			"clienteId": 5,
		}, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	})

	suite.Run("Failure - No Token", func() {
		req := httptest.NewRequest(http.MethodPost, "/credits/", nil)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	})
}

func (suite *CreditHandlerTestSuite) TestApproveCredit() {
	approved := sampleCredit()
	approved.Estado = domain.CreditActivo

	suite.Run("Success", func() {
		suite.mockCreditService.MockStatusChange = &dto.StatusChangeResponse{
			Credit:              dto.CreditToResponse(approved),
			NotificacionEnviada: true,
			Mensaje:             "Crédito aprobado exitosamente",
		}
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodPut, "/credits/1/approve", nil, domain.AdminRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	})

	suite.Run("Failure - Cobrador Cannot Approve", func() {
		req := suite.newJSONRequest(http.MethodPut, "/credits/1/approve", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
	})

	suite.Run("Failure - Invalid State", func() {
		suite.mockCreditService.MockError = common.ErrInvalidCreditState

		req := suite.newJSONRequest(http.MethodPut, "/credits/1/approve", nil, domain.AdminRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	})

	suite.Run("Failure - Invalid ID", func() {
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodPut, "/credits/abc/approve", nil, domain.AdminRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	})
}

func (suite *CreditHandlerTestSuite) TestRejectCredit() {
	rejected := sampleCredit()
	rejected.Estado = domain.CreditRechazado

	suite.Run("Success - With Motivo", func() {
		suite.mockCreditService.MockStatusChange = &dto.StatusChangeResponse{
			Credit:              dto.CreditToResponse(rejected),
			NotificacionEnviada: true,
			Mensaje:             "Crédito rechazado exitosamente",
		}
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodPut, "/credits/1/reject", map[string]any{
			"motivo": "ingresos insuficientes",
		}, domain.AdminRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		assert.Equal(suite.T(), "ingresos insuficientes", suite.mockCreditService.LastMotivo)
	})

	suite.Run("Success - Without Body", func() {
		suite.mockCreditService.MockError = nil
		suite.mockCreditService.LastMotivo = "unset"

		req := httptest.NewRequest(http.MethodPut, "/credits/1/reject", nil)
		req.Header.Set("Authorization", "Bearer "+suite.signToken(domain.AdminRole))
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		assert.Equal(suite.T(), "", suite.mockCreditService.LastMotivo)
	})
}

func (suite *CreditHandlerTestSuite) TestGetCredit() {
	suite.Run("Success", func() {
		suite.mockCreditService.MockDetail = &dto.CreditDetailResponse{
			CreditResponse: dto.CreditToResponse(sampleCredit()),
			TotalInteres:   200000,
			TotalPagado:    300000,
			SaldoPendiente: 900000,
		}
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodGet, "/credits/1", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	})

	suite.Run("Failure - Not Found", func() {
		suite.mockCreditService.MockError = common.ErrCreditNotFound

		req := suite.newJSONRequest(http.MethodGet, "/credits/99", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	})
}

func (suite *CreditHandlerTestSuite) TestListClientCredits() {
	suite.Run("Success", func() {
		suite.mockCreditService.MockList = []dto.CreditResponse{
			dto.CreditToResponse(sampleCredit()),
		}
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodGet, "/clients/5/credits", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	})

	suite.Run("Failure - Client Not Found", func() {
		suite.mockCreditService.MockError = common.ErrClientNotFound

		req := suite.newJSONRequest(http.MethodGet, "/clients/99/credits", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	})
}

func (suite *CreditHandlerTestSuite) TestListClientNotifications() {
	suite.Run("Success", func() {
		suite.mockCreditService.MockNotifs = []dto.NotificationResponse{
			{ID: 1, ClienteID: 5, Tipo: "CREDITO_APROBADO", Medio: "TELEGRAM", EstadoEnvio: "ENVIADO"},
		}
		suite.mockCreditService.MockError = nil

		req := suite.newJSONRequest(http.MethodGet, "/clients/5/notifications", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(suite.T(), "success", body["status"])
	})

	suite.Run("Failure - Client Not Found", func() {
		suite.mockCreditService.MockError = common.ErrClientNotFound

		req := suite.newJSONRequest(http.MethodGet, "/clients/99/notifications", nil, domain.CobradorRole)
		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreditHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CreditHandlerTestSuite))
}
