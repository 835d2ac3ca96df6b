package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-engine/internal/config"
	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/mocks"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			DefaultPaymentType:   "annuity",
			MaxTermMonths:        360,
			MaxInterestRate:      "100",
			CalculationRetention: "720h",
			CacheTTL:             "24h",
		},
	}
}

func newTestService(t *testing.T) (*CalculatorService, *mocks.MockCalculationRepository, *mocks.MockCacheRepository, *logtest.Hook) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	repo := &mocks.MockCalculationRepository{}
	cache := &mocks.MockCacheRepository{}

	svc := NewCalculatorService(repo, cache, testConfig(), logger)
	svc.now = func() time.Time { return fixedNow }

	return svc, repo, cache, hook
}

func annuityRequest() *domain.CalculateLoanRequest {
	return &domain.CalculateLoanRequest{
		LoanAmount:   decimal.NewFromInt(1000000),
		TermYears:    1,
		InterestRate: decimal.NewFromInt(12),
		PaymentType:  "annuity",
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name           string
		request        *domain.CalculateLoanRequest
		setupMocks     func(*mocks.MockCalculationRepository, *mocks.MockCacheRepository)
		expectedError  bool
		errorCode      string
		validateResult func(*testing.T, *domain.Calculation)
	}{
		{
			name:    "Success - cache miss computes and stores",
			request: annuityRequest(),
			setupMocks: func(repo *mocks.MockCalculationRepository, cache *mocks.MockCacheRepository) {
				cache.On("Get", mock.Anything, mock.Anything).Return(nil, repository.ErrCacheMiss)
				repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Calculation) bool {
					return len(c.Schedule) == 12 && c.MonthlyPayment.String() == "88848.79"
				})).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything, mock.Anything, 24*time.Hour).Return(nil)
			},
			validateResult: func(t *testing.T, c *domain.Calculation) {
				assert.Equal(t, domain.PaymentTypeAnnuity, c.PaymentType)
				assert.Equal(t, 12, c.TermMonths)
				assert.Equal(t, 12, c.EffectiveTerm)
				assert.Equal(t, fixedNow, c.CreatedAt)
				assert.True(t, c.Schedule[11].Balance.IsZero())
				assert.Contains(t, c.InputHash, cacheKeyPrefix)
				// Presentation rounding applied to every entry
				for _, entry := range c.Schedule {
					assert.LessOrEqual(t, -entry.Payment.Exponent(), int32(2))
				}
			},
		},
		{
			name:    "Success - cache failure does not fail request",
			request: annuityRequest(),
			setupMocks: func(repo *mocks.MockCalculationRepository, cache *mocks.MockCacheRepository) {
				cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
			},
			validateResult: func(t *testing.T, c *domain.Calculation) {
				assert.Equal(t, 12, c.EffectiveTerm)
			},
		},
		{
			name: "Success - default payment type applied",
			request: &domain.CalculateLoanRequest{
				LoanAmount:   decimal.NewFromInt(12000),
				TermMonths:   12,
				InterestRate: decimal.Zero,
			},
			setupMocks: func(repo *mocks.MockCalculationRepository, cache *mocks.MockCacheRepository) {
				cache.On("Get", mock.Anything, mock.Anything).Return(nil, repository.ErrCacheMiss)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			validateResult: func(t *testing.T, c *domain.Calculation) {
				assert.Equal(t, domain.PaymentTypeAnnuity, c.PaymentType)
				assert.Equal(t, "1000", c.MonthlyPayment.String())
				assert.True(t, c.TotalInterest.IsZero())
			},
		},
		{
			name: "Failure - invalid input",
			request: &domain.CalculateLoanRequest{
				LoanAmount:   decimal.NewFromInt(1000),
				DownPayment:  decimal.NewFromInt(1000),
				TermMonths:   0,
				InterestRate: decimal.NewFromInt(150),
				PaymentType:  "balloon",
			},
			setupMocks:    func(*mocks.MockCalculationRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorCode:     customError.ErrCodeInvalidLoanInput,
			validateResult: func(t *testing.T, c *domain.Calculation) {
				assert.Nil(t, c)
			},
		},
		{
			name:    "Failure - database error on Create",
			request: annuityRequest(),
			setupMocks: func(repo *mocks.MockCalculationRepository, cache *mocks.MockCacheRepository) {
				cache.On("Get", mock.Anything, mock.Anything).Return(nil, repository.ErrCacheMiss)
				repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("failed to create calculation"))
			},
			expectedError: true,
			errorCode:     customError.ErrCodeDatabaseError,
			validateResult: func(t *testing.T, c *domain.Calculation) {
				assert.Nil(t, c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache, _ := newTestService(t)
			tt.setupMocks(repo, cache)

			calculation, err := svc.Calculate(context.Background(), tt.request)

			if tt.expectedError {
				require.Error(t, err)
				var be *customError.BusinessError
				require.True(t, errors.As(err, &be))
				assert.Equal(t, tt.errorCode, be.Code)
			} else {
				assert.NoError(t, err)
			}

			tt.validateResult(t, calculation)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCalculate_CacheHit(t *testing.T) {
	svc, repo, cache, _ := newTestService(t)

	cached := &domain.Calculation{
		ID:             uuid.New(),
		LoanAmount:     decimal.NewFromInt(1000000),
		TermMonths:     12,
		InterestRate:   decimal.NewFromInt(12),
		PaymentType:    domain.PaymentTypeAnnuity,
		MonthlyPayment: decimal.RequireFromString("88848.79"),
		EffectiveTerm:  12,
		CreatedAt:      fixedNow.Add(-time.Hour),
		Schedule:       []domain.ScheduleEntry{{Month: 1}},
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cache.On("Get", mock.Anything, mock.Anything).Return(data, nil)

	calculation, err := svc.Calculate(context.Background(), annuityRequest())
	require.NoError(t, err)

	assert.Equal(t, cached.ID, calculation.ID)
	assert.True(t, calculation.MonthlyPayment.Equal(cached.MonthlyPayment))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculate_CacheFailureIsLogged(t *testing.T) {
	svc, repo, cache, hook := newTestService(t)

	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Calculate(context.Background(), annuityRequest())
	require.NoError(t, err)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "calculation cache lookup failed" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestBuildInput(t *testing.T) {
	tests := []struct {
		name        string
		request     domain.CalculateLoanRequest
		violations  []string
		expectInput func(*testing.T, domain.LoanInput)
	}{
		{
			name: "years and months combine",
			request: domain.CalculateLoanRequest{
				LoanAmount:        decimal.NewFromInt(100000),
				DownPayment:       decimal.NewFromInt(20000),
				TermYears:         2,
				TermMonths:        6,
				InterestRate:      decimal.RequireFromString("7.5"),
				AdditionalPayment: decimal.NewFromInt(100),
				PaymentType:       "Differentiated",
			},
			expectInput: func(t *testing.T, in domain.LoanInput) {
				assert.Equal(t, 30, in.TermMonths)
				assert.Equal(t, domain.PaymentTypeDifferentiated, in.PaymentType)
				assert.True(t, in.Principal().Equal(decimal.NewFromInt(80000)))
				assert.True(t, in.AdditionalPayment.Equal(decimal.NewFromInt(100)))
			},
		},
		{
			name: "zero loan amount",
			request: domain.CalculateLoanRequest{
				TermMonths:  12,
				PaymentType: "annuity",
			},
			violations: []string{"Loan amount must be greater than 0"},
		},
		{
			name: "term beyond thirty years",
			request: domain.CalculateLoanRequest{
				LoanAmount: decimal.NewFromInt(1000),
				TermYears:  31,
			},
			violations: []string{"Loan term must be between 1 and 360 months"},
		},
		{
			name: "negative rate and down payment",
			request: domain.CalculateLoanRequest{
				LoanAmount:   decimal.NewFromInt(1000),
				DownPayment:  decimal.NewFromInt(-1),
				TermMonths:   12,
				InterestRate: decimal.NewFromInt(-1),
			},
			violations: []string{
				"Interest rate must be between 0% and 100%",
				"Down payment cannot be negative",
			},
		},
		{
			name: "down payment covers loan",
			request: domain.CalculateLoanRequest{
				LoanAmount:  decimal.NewFromInt(1000),
				DownPayment: decimal.NewFromInt(1000),
				TermMonths:  12,
			},
			violations: []string{"Down payment cannot be greater than or equal to loan amount"},
		},
		{
			name: "negative additional payment and bad type",
			request: domain.CalculateLoanRequest{
				LoanAmount:        decimal.NewFromInt(1000),
				TermMonths:        12,
				AdditionalPayment: decimal.NewFromInt(-5),
				PaymentType:       "balloon",
			},
			violations: []string{
				"Additional payment cannot be negative",
				"Payment type must be annuity or differentiated",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestService(t)

			input, err := svc.BuildInput(&tt.request)
			if len(tt.violations) > 0 {
				var be *customError.BusinessError
				require.True(t, errors.As(err, &be))
				assert.Equal(t, tt.violations, be.Details)
				return
			}

			require.NoError(t, err)
			tt.expectInput(t, input)
		})
	}
}

func TestGetCalculation(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		id         string
		setupMocks func(*mocks.MockCalculationRepository)
		errorCode  string
		validate   func(*testing.T, *domain.Calculation)
	}{
		{
			name:       "Failure - malformed id",
			id:         "not-a-uuid",
			setupMocks: func(*mocks.MockCalculationRepository) {},
			errorCode:  customError.ErrCodeCalculationNotFound,
		},
		{
			name: "Failure - not found",
			id:   id.String(),
			setupMocks: func(repo *mocks.MockCalculationRepository) {
				repo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)
			},
			errorCode: customError.ErrCodeCalculationNotFound,
		},
		{
			name: "Failure - database error",
			id:   id.String(),
			setupMocks: func(repo *mocks.MockCalculationRepository) {
				repo.On("GetByID", mock.Anything, id).Return(nil, errors.New("connection reset"))
			},
			errorCode: customError.ErrCodeDatabaseError,
		},
		{
			name: "Failure - expired",
			id:   id.String(),
			setupMocks: func(repo *mocks.MockCalculationRepository) {
				repo.On("GetByID", mock.Anything, id).Return(&domain.Calculation{
					ID:        id,
					CreatedAt: fixedNow.Add(-31 * 24 * time.Hour),
				}, nil)
			},
			errorCode: customError.ErrCodeCalculationNotFound,
		},
		{
			name: "Success - with schedule",
			id:   id.String(),
			setupMocks: func(repo *mocks.MockCalculationRepository) {
				repo.On("GetByID", mock.Anything, id).Return(&domain.Calculation{
					ID:            id,
					EffectiveTerm: 2,
					CreatedAt:     fixedNow.Add(-time.Hour),
				}, nil)
				repo.On("GetScheduleByCalculationID", mock.Anything, id).Return([]*domain.ScheduleRow{
					{CalculationID: id, Month: 1, Balance: decimal.NewFromInt(500)},
					{CalculationID: id, Month: 2, Balance: decimal.Zero},
				}, nil)
			},
			validate: func(t *testing.T, c *domain.Calculation) {
				require.Len(t, c.Schedule, 2)
				assert.Equal(t, 2, c.Schedule[1].Month)
				assert.True(t, c.Schedule[1].Balance.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService(t)
			tt.setupMocks(repo)

			calculation, err := svc.GetCalculation(context.Background(), tt.id)
			if tt.errorCode != "" {
				var be *customError.BusinessError
				require.True(t, errors.As(err, &be))
				assert.Equal(t, tt.errorCode, be.Code)
				assert.Nil(t, calculation)
			} else {
				require.NoError(t, err)
				tt.validate(t, calculation)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestGetSchedule(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&domain.Calculation{ID: id, CreatedAt: fixedNow}, nil)
	repo.On("GetScheduleByCalculationID", mock.Anything, id).Return([]*domain.ScheduleRow{
		{CalculationID: id, Month: 1},
	}, nil)

	schedule, err := svc.GetSchedule(context.Background(), id.String())
	require.NoError(t, err)
	assert.Len(t, schedule, 1)
}

func TestPreview(t *testing.T) {
	svc, repo, cache, _ := newTestService(t)

	result, err := svc.Preview(context.Background(), &domain.CalculateLoanRequest{
		LoanAmount:        decimal.NewFromInt(1000000),
		TermMonths:        12,
		InterestRate:      decimal.NewFromInt(12),
		AdditionalPayment: decimal.NewFromInt(50000),
		PaymentType:       "annuity",
	})
	require.NoError(t, err)

	assert.Less(t, result.EffectiveTerm, 12)
	assert.Len(t, result.PaymentSchedule, result.EffectiveTerm)
	assert.True(t, result.PaymentSchedule[len(result.PaymentSchedule)-1].Balance.IsZero())
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOverpayment(t *testing.T) {
	svc, repo, cache, _ := newTestService(t)

	result, err := svc.Overpayment(context.Background(), &domain.CalculateLoanRequest{
		LoanAmount:   decimal.NewFromInt(120000),
		DownPayment:  decimal.NewFromInt(20000),
		TermMonths:   12,
		InterestRate: decimal.NewFromInt(12),
		PaymentType:  "differentiated",
	})
	require.NoError(t, err)

	assert.Equal(t, "6500", result.OverpaymentAmount.String())
	assert.Equal(t, "6.5", result.OverpaymentPercentage.String())
	assert.Equal(t, "126500", result.TotalCost.String())
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCompare(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	result, err := svc.Compare(context.Background(), annuityRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentTypeDifferentiated, result.CheaperType)
	assert.Len(t, result.Annuity.PaymentSchedule, 12)
	assert.Len(t, result.Differentiated.PaymentSchedule, 12)
	assert.True(t, result.InterestDifference.IsPositive())
}

func TestCompare_InvalidInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Compare(context.Background(), &domain.CalculateLoanRequest{})
	assert.True(t, errors.Is(err, customError.ErrInvalidLoanInput))
}

func TestPurgeExpired(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	expectedCutoff := fixedNow.Add(-720 * time.Hour)
	repo.On("DeleteCreatedBefore", mock.Anything, expectedCutoff).Return(int64(4), nil).Once()

	deleted, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	repo.On("DeleteCreatedBefore", mock.Anything, expectedCutoff).Return(int64(0), errors.New("locked")).Once()
	_, err = svc.PurgeExpired(context.Background())
	var be *customError.BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, customError.ErrCodeDatabaseError, be.Code)

	repo.AssertExpectations(t)
}
