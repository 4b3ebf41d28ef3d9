package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/internal/repository"
	creditrepo "github.com/creditos/creditos-backend/internal/repository/credit"
	"github.com/creditos/creditos-backend/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CreditRepositoryTestSuite struct {
	suite.Suite
	db               *gorm.DB
	ctx              context.Context
	creditRepository repository.CreditRepository

	testClient *model.Client
}

func (suite *CreditRepositoryTestSuite) SetupSuite() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "127.0.0.1"),
		common.GetEnv("MYSQL_PORT", "3306"),
	)
	sqlDB, err := sql.Open("mysql", dsn)
	require.NoError(suite.T(), err)

	testDBName := "creditos_credit_repository_test"
	_, err = sqlDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
	require.NoError(suite.T(), err)
	_, err = sqlDB.Exec(fmt.Sprintf("CREATE DATABASE %s", testDBName))
	require.NoError(suite.T(), err)
	sqlDB.Close()

	testDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "127.0.0.1"),
		common.GetEnv("MYSQL_PORT", "3306"),
		testDBName,
	)
	gormDB, err := gorm.Open(mysql.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	suite.db = gormDB
	suite.ctx = context.Background()

	err = model.AutoMigrate(suite.db)
	require.NoError(suite.T(), err)

	suite.creditRepository = creditrepo.NewCreditRepository(suite.db)
}

func (suite *CreditRepositoryTestSuite) TearDownSuite() {
	testDBName := "creditos_credit_repository_test"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "127.0.0.1"),
		common.GetEnv("MYSQL_PORT", "3306"),
	)
	sqlDB, err := sql.Open("mysql", dsn)
	if err == nil {
		sqlDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
		sqlDB.Close()
	}
}

func (suite *CreditRepositoryTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM notifications")
	suite.db.Exec("DELETE FROM tickets")
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM credits")
	suite.db.Exec("DELETE FROM clients")

	suite.testClient = &model.Client{
		Nombre:   "Cliente Repositorio",
		Cedula:   "3003003003",
		Telefono: "3015554433",
	}
	require.NoError(suite.T(), suite.db.Create(suite.testClient).Error)
}

func (suite *CreditRepositoryTestSuite) seedCredit(numero string, estado model.CreditStatus, due time.Time) *model.Credit {
	credit := &model.Credit{
		NumeroCredito:       numero,
		ClienteID:           suite.testClient.ID,
		MontoPrincipal:      1000000,
		Cuotas:              12,
		TasaInteresAplicada: 0.20,
		FechaVencimiento:    due,
		Estado:              estado,
	}
	require.NoError(suite.T(), suite.db.Create(credit).Error)

	return credit
}

func (suite *CreditRepositoryTestSuite) TestFindByID_Success() {
	seeded := suite.seedCredit("CRE-2026-000001", model.CreditActivo, time.Now().AddDate(0, 0, 360))

	result, err := suite.creditRepository.FindByID(suite.ctx, seeded.ID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.Equal(suite.T(), "CRE-2026-000001", result.NumeroCredito)
	assert.Equal(suite.T(), domain.CreditActivo, result.Estado)
	assert.Equal(suite.T(), float64(1000000), result.MontoPrincipal)
}

func (suite *CreditRepositoryTestSuite) TestFindByID_NotFound() {
	result, err := suite.creditRepository.FindByID(suite.ctx, 9999)

	assert.NoError(suite.T(), err, "not found should not be treated as a database error")
	assert.Nil(suite.T(), result)
}

func (suite *CreditRepositoryTestSuite) TestFindByNumero() {
	suite.seedCredit("CRE-2026-000002", model.CreditPendiente, time.Now().AddDate(0, 0, 90))

	result, err := suite.creditRepository.FindByNumero(suite.ctx, "CRE-2026-000002")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.Equal(suite.T(), domain.CreditPendiente, result.Estado)

	missing, err := suite.creditRepository.FindByNumero(suite.ctx, "CRE-2026-999999")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), missing)
}

func (suite *CreditRepositoryTestSuite) TestHasActiveCredit() {
	tests := []struct {
		estado model.CreditStatus
		want   bool
	}{
		{model.CreditPendiente, false},
		{model.CreditActivo, true},
		{model.CreditIncumplido, true},
		{model.CreditPagado, false},
		{model.CreditRechazado, false},
	}

	for i, tt := range tests {
		suite.db.Exec("DELETE FROM credits")
		suite.seedCredit(fmt.Sprintf("CRE-2026-10%04d", i), tt.estado, time.Now().AddDate(0, 0, 90))

		got, err := suite.creditRepository.HasActiveCredit(suite.ctx, suite.testClient.ID)

		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), tt.want, got, "estado %s", tt.estado)
	}
}

func (suite *CreditRepositoryTestSuite) TestNextNumeroCredito_EmptyYear() {
	numero, err := suite.creditRepository.NextNumeroCredito(suite.ctx, 2026)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "CRE-2026-000001", numero)
}

func (suite *CreditRepositoryTestSuite) TestNextNumeroCredito_ContinuesSequence() {
	suite.seedCredit("CRE-2026-000041", model.CreditPagado, time.Now().AddDate(0, 0, 90))

	numero, err := suite.creditRepository.NextNumeroCredito(suite.ctx, 2026)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "CRE-2026-000042", numero)
}

func (suite *CreditRepositoryTestSuite) TestNextNumeroCredito_SequencePerYear() {
	suite.seedCredit("CRE-2025-000120", model.CreditPagado, time.Now().AddDate(0, 0, 90))

	numero, err := suite.creditRepository.NextNumeroCredito(suite.ctx, 2026)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "CRE-2026-000001", numero, "each year starts its own sequence")
}

func (suite *CreditRepositoryTestSuite) TestUpdateEstado() {
	seeded := suite.seedCredit("CRE-2026-000003", model.CreditPendiente, time.Now().AddDate(0, 0, 90))

	err := suite.creditRepository.UpdateEstado(suite.ctx, seeded.ID, domain.CreditActivo, 7)

	assert.NoError(suite.T(), err)

	var saved model.Credit
	require.NoError(suite.T(), suite.db.First(&saved, seeded.ID).Error)
	assert.Equal(suite.T(), model.CreditActivo, saved.Estado)
	assert.Equal(suite.T(), uint64(7), saved.UpdatedBy)
}

func (suite *CreditRepositoryTestSuite) TestCreate_DuplicateNumero() {
	suite.seedCredit("CRE-2026-000020", model.CreditPendiente, time.Now().AddDate(0, 0, 90))

	err := suite.creditRepository.Create(suite.ctx, &domain.Credit{
		NumeroCredito:       "CRE-2026-000020",
		ClienteID:           suite.testClient.ID,
		MontoPrincipal:      500000,
		Cuotas:              6,
		TasaInteresAplicada: 0.20,
		FechaVencimiento:    time.Now().AddDate(0, 0, 180),
		Estado:              domain.CreditPendiente,
	})

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateCreditNumber)
}

func (suite *CreditRepositoryTestSuite) TestUpdateEstadoFrom_MatchingEstado() {
	seeded := suite.seedCredit("CRE-2026-000030", model.CreditActivo, time.Now().AddDate(0, 0, -5))

	changed, err := suite.creditRepository.UpdateEstadoFrom(suite.ctx, seeded.ID, domain.CreditActivo, domain.CreditIncumplido, 0)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), changed)

	var saved model.Credit
	require.NoError(suite.T(), suite.db.First(&saved, seeded.ID).Error)
	assert.Equal(suite.T(), model.CreditIncumplido, saved.Estado)
}

func (suite *CreditRepositoryTestSuite) TestUpdateEstadoFrom_EstadoMoved() {
	// The row already settled: the conditional write must not touch it.
	seeded := suite.seedCredit("CRE-2026-000031", model.CreditPagado, time.Now().AddDate(0, 0, -5))

	changed, err := suite.creditRepository.UpdateEstadoFrom(suite.ctx, seeded.ID, domain.CreditActivo, domain.CreditIncumplido, 0)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), changed)

	var saved model.Credit
	require.NoError(suite.T(), suite.db.First(&saved, seeded.ID).Error)
	assert.Equal(suite.T(), model.CreditPagado, saved.Estado)
}

func (suite *CreditRepositoryTestSuite) TestFindUpcomingDue() {
	suite.seedCredit("CRE-2026-000004", model.CreditActivo, time.Now().AddDate(0, 0, 2))
	suite.seedCredit("CRE-2026-000005", model.CreditActivo, time.Now().AddDate(0, 0, 10))
	suite.seedCredit("CRE-2026-000006", model.CreditPendiente, time.Now().AddDate(0, 0, 2))
	suite.seedCredit("CRE-2026-000007", model.CreditActivo, time.Now().AddDate(0, 0, -1))

	result, err := suite.creditRepository.FindUpcomingDue(suite.ctx, time.Now(), 3)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), "CRE-2026-000004", result[0].NumeroCredito)
}

func (suite *CreditRepositoryTestSuite) TestFindOverdue() {
	suite.seedCredit("CRE-2026-000008", model.CreditActivo, time.Now().AddDate(0, 0, -1))
	suite.seedCredit("CRE-2026-000009", model.CreditIncumplido, time.Now().AddDate(0, 0, -30))
	suite.seedCredit("CRE-2026-000010", model.CreditPagado, time.Now().AddDate(0, 0, -30))
	suite.seedCredit("CRE-2026-000011", model.CreditActivo, time.Now().AddDate(0, 0, 10))

	result, err := suite.creditRepository.FindOverdue(suite.ctx, time.Now())

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
}

func (suite *CreditRepositoryTestSuite) TestFindByClient_OrdersNewestFirst() {
	older := suite.seedCredit("CRE-2026-000012", model.CreditPagado, time.Now().AddDate(0, 0, 90))
	suite.db.Model(older).Update("created_at", time.Now().Add(-48*time.Hour))
	suite.seedCredit("CRE-2026-000013", model.CreditActivo, time.Now().AddDate(0, 0, 90))

	result, err := suite.creditRepository.FindByClient(suite.ctx, suite.testClient.ID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), "CRE-2026-000013", result[0].NumeroCredito)
}

func TestCreditRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CreditRepositoryTestSuite))
}
