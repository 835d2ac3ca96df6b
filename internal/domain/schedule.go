package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduleEntry is one monthly period of an amortization schedule
type ScheduleEntry struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"` // includes any additional payment
	Balance   decimal.Decimal `json:"balance"`
}

// Round returns a copy with monetary values rounded to places
func (e ScheduleEntry) Round(places int32) ScheduleEntry {
	return ScheduleEntry{
		Month:     e.Month,
		Payment:   e.Payment.Round(places),
		Interest:  e.Interest.Round(places),
		Principal: e.Principal.Round(places),
		Balance:   e.Balance.Round(places),
	}
}

// ScheduleRow represents a persisted schedule entry
type ScheduleRow struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CalculationID uuid.UUID       `json:"calculation_id" db:"calculation_id"`
	Month         int             `json:"month" db:"month"`
	Payment       decimal.Decimal `json:"payment" db:"payment"`
	Interest      decimal.Decimal `json:"interest" db:"interest"`
	Principal     decimal.Decimal `json:"principal" db:"principal"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// NewScheduleRows maps schedule entries onto rows owned by a calculation
func NewScheduleRows(calculationID uuid.UUID, entries []ScheduleEntry, createdAt time.Time) []*ScheduleRow {
	rows := make([]*ScheduleRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, &ScheduleRow{
			ID:            uuid.New(),
			CalculationID: calculationID,
			Month:         entry.Month,
			Payment:       entry.Payment,
			Interest:      entry.Interest,
			Principal:     entry.Principal,
			Balance:       entry.Balance,
			CreatedAt:     createdAt,
		})
	}
	return rows
}

// Entry converts a persisted row back into a schedule entry
func (r *ScheduleRow) Entry() ScheduleEntry {
	return ScheduleEntry{
		Month:     r.Month,
		Payment:   r.Payment,
		Interest:  r.Interest,
		Principal: r.Principal,
		Balance:   r.Balance,
	}
}
