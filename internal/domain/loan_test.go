package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParsePaymentType(t *testing.T) {
	tests := []struct {
		input   string
		want    PaymentType
		wantErr bool
	}{
		{"annuity", PaymentTypeAnnuity, false},
		{" Differentiated ", PaymentTypeDifferentiated, false},
		{"ANNUITY", PaymentTypeAnnuity, false},
		{"balloon", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePaymentType(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownPaymentType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestPaymentType_UnmarshalJSON(t *testing.T) {
	var result ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(`{"cheaper_type":""}`), &result))
	assert.Equal(t, PaymentType(""), result.CheaperType)

	var input LoanInput
	require.NoError(t, json.Unmarshal([]byte(`{"payment_type":"differentiated"}`), &input))
	assert.Equal(t, PaymentTypeDifferentiated, input.PaymentType)

	err := json.Unmarshal([]byte(`{"payment_type":"interest_only"}`), &input)
	assert.True(t, errors.Is(err, ErrUnknownPaymentType))
}

func TestLoanInput_Derived(t *testing.T) {
	input := LoanInput{
		LoanAmount:   d("250000"),
		DownPayment:  d("50000"),
		InterestRate: d("6"),
	}

	assert.True(t, input.Principal().Equal(d("200000")))
	assert.True(t, input.MonthlyRate().Equal(d("0.005")))
}

func TestLoanResult_Round(t *testing.T) {
	result := LoanResult{
		MonthlyPayment: d("88848.78867918"),
		TotalPayments:  d("1066185.464"),
		TotalInterest:  d("66185.464"),
		EffectiveTerm:  2,
		PaymentSchedule: []ScheduleEntry{
			{Month: 1, Payment: d("100.005"), Interest: d("0.004"), Principal: d("100.001"), Balance: d("99.999")},
			{Month: 2, Payment: d("100.004"), Interest: d("0.005"), Principal: d("99.999"), Balance: decimal.Zero},
		},
	}

	want := LoanResult{
		MonthlyPayment: d("88848.79"),
		TotalPayments:  d("1066185.46"),
		TotalInterest:  d("66185.46"),
		EffectiveTerm:  2,
		PaymentSchedule: []ScheduleEntry{
			{Month: 1, Payment: d("100.01"), Interest: d("0"), Principal: d("100"), Balance: d("100")},
			{Month: 2, Payment: d("100"), Interest: d("0.01"), Principal: d("100"), Balance: decimal.Zero},
		},
	}

	got := result.Round(2)
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("Round mismatch (-want +got):\n%s", diff)
	}

	// The source stays exact
	assert.Equal(t, "100.005", result.PaymentSchedule[0].Payment.String())
}

func TestNewScheduleRows(t *testing.T) {
	calculationID := uuid.New()
	createdAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []ScheduleEntry{
		{Month: 1, Payment: d("510"), Interest: d("10"), Principal: d("500"), Balance: d("500")},
		{Month: 2, Payment: d("505"), Interest: d("5"), Principal: d("500"), Balance: decimal.Zero},
	}

	rows := NewScheduleRows(calculationID, entries, createdAt)
	require.Len(t, rows, 2)

	want := []*ScheduleRow{
		{CalculationID: calculationID, Month: 1, Payment: d("510"), Interest: d("10"), Principal: d("500"), Balance: d("500"), CreatedAt: createdAt},
		{CalculationID: calculationID, Month: 2, Payment: d("505"), Interest: d("5"), Principal: d("500"), Balance: decimal.Zero, CreatedAt: createdAt},
	}
	if diff := cmp.Diff(want, rows, decimalEqual, cmpopts.IgnoreFields(ScheduleRow{}, "ID")); diff != "" {
		t.Errorf("NewScheduleRows mismatch (-want +got):\n%s", diff)
	}
	assert.NotEqual(t, rows[0].ID, rows[1].ID)

	back := make([]ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		back = append(back, row.Entry())
	}
	if diff := cmp.Diff(entries, back, decimalEqual); diff != "" {
		t.Errorf("Entry mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCalculation(t *testing.T) {
	input := LoanInput{
		LoanAmount:  d("1000"),
		TermMonths:  2,
		PaymentType: PaymentTypeAnnuity,
	}
	result := LoanResult{MonthlyPayment: d("500"), EffectiveTerm: 2, PaymentSchedule: []ScheduleEntry{{Month: 1}, {Month: 2}}}
	createdAt := time.Now().UTC()

	calculation := NewCalculation(input, result, "loan:calc:1", createdAt)

	assert.NotEqual(t, uuid.Nil, calculation.ID)
	assert.Equal(t, "loan:calc:1", calculation.InputHash)
	assert.Equal(t, createdAt, calculation.CreatedAt)
	assert.Len(t, calculation.Schedule, 2)

	data, err := json.Marshal(calculation)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "loan:calc:1")
	assert.Contains(t, string(data), `"payment_schedule"`)
}
