package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-engine/internal/domain"
)

type MockCalculatorService struct {
	mock.Mock
}

func (m *MockCalculatorService) Calculate(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.Calculation, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockCalculatorService) GetCalculation(ctx context.Context, calculationID string) (*domain.Calculation, error) {
	args := m.Called(ctx, calculationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockCalculatorService) GetSchedule(ctx context.Context, calculationID string) ([]domain.ScheduleEntry, error) {
	args := m.Called(ctx, calculationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleEntry), args.Error(1)
}

func (m *MockCalculatorService) Overpayment(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.OverpaymentResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverpaymentResult), args.Error(1)
}

func (m *MockCalculatorService) Compare(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.ComparisonResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonResult), args.Error(1)
}

// NewMockCalculatorService creates a new mock calculator service instance
func NewMockCalculatorService() *MockCalculatorService {
	return &MockCalculatorService{}
}
