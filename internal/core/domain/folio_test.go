package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

func TestFolioItem_LineTotal(t *testing.T) {
	item := domain.FolioItem{
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.NewFromFloat(99.95),
	}
	assert.True(t, decimal.NewFromFloat(299.85).Equal(item.LineTotal()))
}

func TestFolioItem_TaxAmount(t *testing.T) {
	tests := []struct {
		name string
		item domain.FolioItem
		want decimal.Decimal
	}{
		{
			name: "active rule taxes the line total",
			item: domain.FolioItem{
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
				TaxRule:   &domain.TaxRule{Rate: decimal.NewFromInt(10), IsActive: true},
			},
			want: decimal.NewFromInt(20),
		},
		{
			name: "no rule means no tax",
			item: domain.FolioItem{
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
			},
			want: decimal.Zero,
		},
		{
			name: "inactive rule contributes zero even when referenced",
			item: domain.FolioItem{
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
				TaxRule:   &domain.TaxRule{Rate: decimal.NewFromInt(10), IsActive: false},
			},
			want: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.TaxAmount()
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestFolio_DerivedTotals(t *testing.T) {
	rule := &domain.TaxRule{Rate: decimal.NewFromInt(10), IsActive: true}
	folio := domain.Folio{
		Items: []domain.FolioItem{
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TaxRule: rule},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
			// An adjustment posted as a negative charge reduces the subtotal.
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-30)},
		},
	}

	assert.True(t, decimal.NewFromInt(220).Equal(folio.Subtotal()), "subtotal was %s", folio.Subtotal())
	assert.True(t, decimal.NewFromInt(20).Equal(folio.TaxTotal()), "tax total was %s", folio.TaxTotal())
	assert.True(t, decimal.NewFromInt(240).Equal(folio.Total()), "total was %s", folio.Total())
}

func TestFolio_EmptyFolioTotalsAreZero(t *testing.T) {
	var folio domain.Folio
	assert.True(t, folio.Subtotal().IsZero())
	assert.True(t, folio.TaxTotal().IsZero())
	assert.True(t, folio.Total().IsZero())
}
