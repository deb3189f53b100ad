package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name              string
		total             string
		rate              string
		wantCommission    string
		wantOrganizer     string
	}{
		{
			name:           "even split",
			total:          "200.00",
			rate:           "0.05",
			wantCommission: "10.00",
			wantOrganizer:  "190.00",
		},
		{
			name:           "commission absorbs rounding remainder",
			total:          "33.33",
			rate:           "0.1",
			wantCommission: "3.33",
			wantOrganizer:  "30.00",
		},
		{
			name:           "rounds half up",
			total:          "10.01",
			rate:           "0.075",
			wantCommission: "0.75",
			wantOrganizer:  "9.26",
		},
		{
			name:           "zero rate",
			total:          "50.00",
			rate:           "0",
			wantCommission: "0.00",
			wantOrganizer:  "50.00",
		},
		{
			name:           "zero total",
			total:          "0",
			rate:           "0.05",
			wantCommission: "0.00",
			wantOrganizer:  "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			rate := decimal.RequireFromString(tt.rate)

			commission, organizer := SplitAmount(total, rate)

			assert.Equal(t, tt.wantCommission, commission.StringFixed(2))
			assert.Equal(t, tt.wantOrganizer, organizer.StringFixed(2))
			assert.True(t, commission.Add(organizer).Equal(total), "split must reassemble exactly")
		})
	}
}

func TestOrderIsTerminal(t *testing.T) {
	assert.False(t, (&Order{PaymentStatus: PaymentPending}).IsTerminal())
	assert.True(t, (&Order{PaymentStatus: PaymentCompleted}).IsTerminal())
	assert.True(t, (&Order{PaymentStatus: PaymentFailed}).IsTerminal())
}
