package handler_test

import (
	"context"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
)

// MockCreditService returns canned results for handler tests.
type MockCreditService struct {
	MockCredit       *domain.Credit
	MockStatusChange *dto.StatusChangeResponse
	MockDetail       *dto.CreditDetailResponse
	MockList         []dto.CreditResponse
	MockNotifs       []dto.NotificationResponse
	MockError        error

	LastCreatedBy uint64
	LastMotivo    string
}

func (m *MockCreditService) CreateCredit(_ context.Context, _ dto.CreateCreditRequest, createdBy uint64) (*domain.Credit, error) {
	m.LastCreatedBy = createdBy
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCredit, nil
}

func (m *MockCreditService) ApproveCredit(_ context.Context, _ uint64, _ uint64) (*dto.StatusChangeResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockStatusChange, nil
}

func (m *MockCreditService) RejectCredit(_ context.Context, _ uint64, _ uint64, motivo string) (*dto.StatusChangeResponse, error) {
	m.LastMotivo = motivo
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockStatusChange, nil
}

func (m *MockCreditService) GetCreditByID(_ context.Context, _ uint64) (*dto.CreditDetailResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockDetail, nil
}

func (m *MockCreditService) ListCreditsByClient(_ context.Context, _ uint64) ([]dto.CreditResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockList, nil
}

func (m *MockCreditService) ListClientNotifications(_ context.Context, _ uint64) ([]dto.NotificationResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockNotifs, nil
}

// MockPaymentService returns canned results for handler tests.
type MockPaymentService struct {
	MockResult *dto.CreatePaymentResponse
	MockError  error
}

func (m *MockPaymentService) CreatePayment(_ context.Context, _ dto.CreatePaymentRequest, _ uint64) (*dto.CreatePaymentResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockResult, nil
}
