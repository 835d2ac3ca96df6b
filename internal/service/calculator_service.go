package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-engine/internal/amortization"
	"github.com/segyhp/loan-engine/internal/config"
	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/utils"
)

const cacheKeyPrefix = "loan:calc:"

type CalculatorService struct {
	CalculationRepo repository.CalculationRepository
	cache           repository.CacheRepository
	config          *config.Config
	logger          *logrus.Logger
	now             func() time.Time
}

func NewCalculatorService(
	calculationRepo repository.CalculationRepository,
	cache repository.CacheRepository,
	config *config.Config,
	logger *logrus.Logger,
) *CalculatorService {
	return &CalculatorService{
		CalculationRepo: calculationRepo,
		cache:           cache,
		config:          config,
		logger:          logger,
		now:             time.Now,
	}
}

// Calculate validates the request, builds the schedule and stores the result.
// Identical inputs are served from cache while the cached entry is fresh.
func (s *CalculatorService) Calculate(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.Calculation, error) {
	input, err := s.BuildInput(request)
	if err != nil {
		return nil, err
	}

	key := inputKey(input)
	if cached := s.getCached(ctx, key); cached != nil {
		return cached, nil
	}

	result, err := amortization.Compute(input)
	if err != nil {
		return nil, customError.WrapUnknownPaymentType(err)
	}

	// Round for storage and display only, the schedule itself is exact
	calculation := domain.NewCalculation(input, result.Round(utils.MoneyPlaces), key, s.now().UTC())

	if err = s.CalculationRepo.Create(ctx, calculation); err != nil {
		s.logger.WithError(err).WithField("calculation_id", calculation.ID).Error("failed to store calculation")
		return nil, customError.WrapDatabaseError(err)
	}

	s.setCached(ctx, key, calculation)

	s.logger.WithFields(logrus.Fields{
		"calculation_id": calculation.ID,
		"payment_type":   calculation.PaymentType,
		"term_months":    calculation.TermMonths,
		"effective_term": calculation.EffectiveTerm,
	}).Info("loan schedule calculated")

	return calculation, nil
}

// Preview computes the schedule without storing or caching it
func (s *CalculatorService) Preview(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.LoanResult, error) {
	input, err := s.BuildInput(request)
	if err != nil {
		return nil, err
	}

	result, err := amortization.Compute(input)
	if err != nil {
		return nil, customError.WrapUnknownPaymentType(err)
	}

	rounded := result.Round(utils.MoneyPlaces)
	return &rounded, nil
}

// GetCalculation returns a stored calculation with its schedule
func (s *CalculatorService) GetCalculation(ctx context.Context, calculationID string) (*domain.Calculation, error) {
	id, err := uuid.Parse(calculationID)
	if err != nil {
		return nil, customError.WrapCalculationNotFound(calculationID)
	}

	calculation, err := s.CalculationRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapCalculationNotFound(calculationID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if utils.IsExpired(calculation.CreatedAt, s.now(), s.config.GetCalculationRetention()) {
		return nil, customError.WrapCalculationNotFound(calculationID)
	}

	rows, err := s.CalculationRepo.GetScheduleByCalculationID(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	calculation.Schedule = make([]domain.ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		calculation.Schedule = append(calculation.Schedule, row.Entry())
	}

	return calculation, nil
}

// GetSchedule returns the full payment schedule of a stored calculation
func (s *CalculatorService) GetSchedule(ctx context.Context, calculationID string) ([]domain.ScheduleEntry, error) {
	calculation, err := s.GetCalculation(ctx, calculationID)
	if err != nil {
		return nil, err
	}
	return calculation.Schedule, nil
}

// Overpayment reports how much interest the loan costs on top of the principal
func (s *CalculatorService) Overpayment(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.OverpaymentResult, error) {
	input, err := s.BuildInput(request)
	if err != nil {
		return nil, err
	}

	result, err := amortization.Overpayment(input)
	if err != nil {
		return nil, customError.WrapUnknownPaymentType(err)
	}

	rounded := result.Round(utils.MoneyPlaces)
	return &rounded, nil
}

// Compare computes both payment types for the same loan terms
func (s *CalculatorService) Compare(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.ComparisonResult, error) {
	input, err := s.BuildInput(request)
	if err != nil {
		return nil, err
	}

	result, err := amortization.Compare(input)
	if err != nil {
		return nil, customError.WrapUnknownPaymentType(err)
	}

	rounded := result.Round(utils.MoneyPlaces)
	return &rounded, nil
}

// PurgeExpired deletes calculations older than the configured retention
func (s *CalculatorService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.config.GetCalculationRetention())

	deleted, err := s.CalculationRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff,
		"deleted": deleted,
	}).Info("expired calculations purged")

	return deleted, nil
}

func inputKey(input domain.LoanInput) string {
	return utils.HashKey(cacheKeyPrefix,
		input.LoanAmount,
		input.DownPayment,
		input.TermMonths,
		input.InterestRate,
		input.AdditionalPayment,
		input.PaymentType,
	)
}

// getCached returns nil on miss; cache failures never fail the request
func (s *CalculatorService) getCached(ctx context.Context, key string) *domain.Calculation {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.WithError(customError.WrapCacheError(err)).Warn("calculation cache lookup failed")
		}
		return nil
	}

	var calculation domain.Calculation
	if err := json.Unmarshal(data, &calculation); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("discarding unreadable cache entry")
		_ = s.cache.Delete(ctx, key)
		return nil
	}

	if utils.IsExpired(calculation.CreatedAt, s.now(), s.config.GetCalculationRetention()) {
		return nil
	}

	calculation.InputHash = key
	return &calculation
}

func (s *CalculatorService) setCached(ctx context.Context, key string, calculation *domain.Calculation) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(calculation)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode calculation for cache")
		return
	}

	if err := s.cache.Set(ctx, key, data, s.config.GetCacheTTL()); err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("calculation cache store failed")
	}
}
