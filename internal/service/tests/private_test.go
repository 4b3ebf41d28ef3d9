package service_test

import (
	"context"
	"testing"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
	"github.com/creditos/creditos-backend/internal/model"
	userrepo "github.com/creditos/creditos-backend/internal/repository/user"
	"github.com/creditos/creditos-backend/internal/service"
	privatesrv "github.com/creditos/creditos-backend/internal/service/private"
	"github.com/creditos/creditos-backend/pkg/common"
	"github.com/creditos/creditos-backend/pkg/password"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testJWTSecret = "test-login-secret"

type PrivateServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	privateService service.PrivateService
}

func (suite *PrivateServiceTestSuite) SetupSuite() {
	db, err := openTestDatabase("creditos_private_test")
	suite.Require().NoError(err)

	suite.db = db
	suite.ctx = context.Background()

	err = model.AutoMigrate(suite.db)
	suite.Require().NoError(err)

	meter := noop_metric.NewMeterProvider().Meter("test-private-service-meter")
	tracer := noop_trace.NewTracerProvider().Tracer("test-private-service-tracer")

	suite.privateService = privatesrv.NewPrivateService(
		suite.db,
		testJWTSecret,
		userrepo.NewUserRepository(suite.db),
		meter,
		tracer,
		zap.NewNop(),
	)
}

func (suite *PrivateServiceTestSuite) TearDownSuite() {
	if suite.db != nil {
		sqlDB, err := suite.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (suite *PrivateServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM users")

	hash, err := password.HashPassword("secreto123")
	suite.Require().NoError(err)

	user := &model.User{
		Nombre:       "Admin de Prueba",
		Email:        "admin@creditos.local",
		PasswordHash: hash,
		Role:         "ADMIN",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
}

func (suite *PrivateServiceTestSuite) TestLogin_Success() {
	result, err := suite.privateService.Login(suite.ctx, dto.LoginRequest{
		Email:    "admin@creditos.local",
		Password: "secreto123",
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.NotEmpty(suite.T(), result.Token)

	// The token carries the user's role and id.
	claims := &domain.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(result.Token, claims, func(t *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), token.Valid)
	assert.Equal(suite.T(), domain.AdminRole, claims.Role)
	assert.Equal(suite.T(), "creditos", claims.Issuer)
}

func (suite *PrivateServiceTestSuite) TestLogin_Failure_WrongPassword() {
	result, err := suite.privateService.Login(suite.ctx, dto.LoginRequest{
		Email:    "admin@creditos.local",
		Password: "incorrecta",
	})

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCredentials)
}

func (suite *PrivateServiceTestSuite) TestLogin_Failure_UnknownEmail() {
	result, err := suite.privateService.Login(suite.ctx, dto.LoginRequest{
		Email:    "nadie@creditos.local",
		Password: "secreto123",
	})

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCredentials)
}

func (suite *PrivateServiceTestSuite) TestMe_Success() {
	var seeded model.User
	suite.Require().NoError(suite.db.Where("email = ?", "admin@creditos.local").First(&seeded).Error)

	result, err := suite.privateService.Me(suite.ctx, seeded.ID)

	assert.NoError(suite.T(), err)
	suite.Require().NotNil(result)
	assert.Equal(suite.T(), seeded.ID, result.ID)
	assert.Equal(suite.T(), "Admin de Prueba", result.Nombre)
	assert.Equal(suite.T(), "admin@creditos.local", result.Email)
	assert.Equal(suite.T(), "ADMIN", result.Role)
}

func (suite *PrivateServiceTestSuite) TestMe_Failure_UserMissing() {
	result, err := suite.privateService.Me(suite.ctx, 424242)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, common.ErrUserNotFound)
}

func TestPrivateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PrivateServiceTestSuite))
}
