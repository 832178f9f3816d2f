package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

func TestDiscount_IsApplicable(t *testing.T) {
	today := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		discount domain.Discount
		target   time.Time
		want     bool
	}{
		{
			name:     "active discount with no window",
			discount: domain.Discount{IsActive: true},
			target:   today,
			want:     true,
		},
		{
			name:     "inactive discount",
			discount: domain.Discount{IsActive: false},
			target:   today,
			want:     false,
		},
		{
			name: "window has not started",
			discount: domain.Discount{
				IsActive:  true,
				StartDate: timePtr(today.Add(48 * time.Hour)),
			},
			target: today,
			want:   false,
		},
		{
			name: "window has ended",
			discount: domain.Discount{
				IsActive: true,
				EndDate:  timePtr(today.Add(-48 * time.Hour)),
			},
			target: today,
			want:   false,
		},
		{
			name: "target inside window",
			discount: domain.Discount{
				IsActive:  true,
				StartDate: timePtr(today.Add(-24 * time.Hour)),
				EndDate:   timePtr(today.Add(24 * time.Hour)),
			},
			target: today,
			want:   true,
		},
		{
			name: "end date compared at day granularity",
			discount: domain.Discount{
				IsActive: true,
				// Ends at midnight today; a target later the same day still qualifies.
				EndDate: timePtr(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)),
			},
			target: time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.discount.IsApplicable(tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscount_AppliedAmount(t *testing.T) {
	tests := []struct {
		name     string
		discount domain.Discount
		base     decimal.Decimal
		want     decimal.Decimal
	}{
		{
			name:     "percentage of base",
			discount: domain.Discount{DiscountType: domain.DiscountPercentage, Value: decimal.NewFromInt(10)},
			base:     decimal.NewFromInt(270),
			want:     decimal.NewFromInt(27),
		},
		{
			name:     "percentage rounded to minor unit",
			discount: domain.Discount{DiscountType: domain.DiscountPercentage, Value: decimal.NewFromFloat(12.5)},
			base:     decimal.NewFromFloat(99.99),
			want:     decimal.NewFromFloat(12.50), // 12.49875 rounds up
		},
		{
			name:     "fixed amount ignores base",
			discount: domain.Discount{DiscountType: domain.DiscountFixed, Value: decimal.NewFromInt(50)},
			base:     decimal.NewFromInt(1000),
			want:     decimal.NewFromInt(50),
		},
		{
			name:     "fixed amount may exceed base",
			discount: domain.Discount{DiscountType: domain.DiscountFixed, Value: decimal.NewFromInt(50)},
			base:     decimal.NewFromInt(30),
			want:     decimal.NewFromInt(50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.discount.AppliedAmount(tt.base)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

// Helper functions
func timePtr(t time.Time) *time.Time {
	return &t
}
