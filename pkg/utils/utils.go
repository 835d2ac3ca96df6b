package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places used when presenting amounts
const MoneyPlaces int32 = 2

// RoundMoney rounds an amount for presentation
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// TotalTermMonths combines a term given in years and months
// Formula: years * 12 + months
func TotalTermMonths(years, months int) int {
	return years*12 + months
}

// HashKey derives a stable cache key from the given parts.
// Decimal parts are normalised so 10 and 10.00 hash identically.
func HashKey(prefix string, parts ...interface{}) string {
	h := xxhash.New()
	for _, part := range parts {
		switch v := part.(type) {
		case decimal.Decimal:
			_, _ = h.WriteString(v.String())
		case string:
			_, _ = h.WriteString(v)
		case int:
			_, _ = h.WriteString(strconv.Itoa(v))
		case fmt.Stringer:
			_, _ = h.WriteString(v.String())
		}
		_, _ = h.Write([]byte{0})
	}
	return prefix + strconv.FormatUint(h.Sum64(), 16)
}

// IsExpired reports whether createdAt is older than retention relative to now
func IsExpired(createdAt, now time.Time, retention time.Duration) bool {
	return now.Sub(createdAt) > retention
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
