package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/awmprojects/webdesign-bunny-submitted/pkg/validation"
)

func TestCheckCurrencyAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"50", true},
		{"50.00", true},
		{"0.01", true},
		{"156.78", true},
		{"99999999.99", true},
		{"0", false},
		{"0.00", false},
		{"-1", false},
		{"-50.00", false},
		{"0.001", false},
		{"49.999", false},
		{"100.255", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, validation.CheckCurrencyAmount(amount))
		})
	}
}
