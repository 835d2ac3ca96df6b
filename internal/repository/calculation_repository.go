package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
)

type calculationRepository struct {
	db *sqlx.DB
}

func NewCalculationRepository(db *sqlx.DB) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calculation *domain.Calculation) error {
	calculationQuery := `
		INSERT INTO calculations (id, input_hash, loan_amount, down_payment, term_months, interest_rate,
			additional_payment, payment_type, monthly_payment, total_payments, total_interest, effective_term, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	scheduleQuery := `
		INSERT INTO calculation_schedule (id, calculation_id, month, payment, interest, principal, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, calculationQuery,
		calculation.ID,
		calculation.InputHash,
		calculation.LoanAmount,
		calculation.DownPayment,
		calculation.TermMonths,
		calculation.InterestRate,
		calculation.AdditionalPayment,
		string(calculation.PaymentType),
		calculation.MonthlyPayment,
		calculation.TotalPayments,
		calculation.TotalInterest,
		calculation.EffectiveTerm,
		calculation.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, row := range domain.NewScheduleRows(calculation.ID, calculation.Schedule, calculation.CreatedAt) {
		_, err = tx.ExecContext(ctx, scheduleQuery,
			row.ID,
			row.CalculationID,
			row.Month,
			row.Payment,
			row.Interest,
			row.Principal,
			row.Balance,
			row.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *calculationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error) {
	query := `
		SELECT id, input_hash, loan_amount, down_payment, term_months, interest_rate, additional_payment,
			payment_type, monthly_payment, total_payments, total_interest, effective_term, created_at
		FROM calculations
		WHERE id = $1
	`

	var calculation domain.Calculation
	err := r.db.GetContext(ctx, &calculation, query, id)
	if err != nil {
		return nil, err
	}

	return &calculation, nil
}

func (r *calculationRepository) GetScheduleByCalculationID(ctx context.Context, id uuid.UUID) ([]*domain.ScheduleRow, error) {
	query := `
		SELECT id, calculation_id, month, payment, interest, principal, balance, created_at
		FROM calculation_schedule
		WHERE calculation_id = $1
		ORDER BY month
	`

	var rows []*domain.ScheduleRow
	err := r.db.SelectContext(ctx, &rows, query, id)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *calculationRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	// calculation_schedule rows go with ON DELETE CASCADE
	query := `DELETE FROM calculations WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
