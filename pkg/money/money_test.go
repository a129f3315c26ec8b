package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		name    string
		dollars float64
		want    int64
	}{
		{"whole dollars", 25.00, 2500},
		{"with cents", 10.99, 1099},
		{"half rounds away from zero", 0.125, 13},
		{"negative half rounds away from zero", -0.125, -13},
		{"float representation of 19.99", 19.99, 1999},
		{"zero", 0, 0},
		{"negative", -3.50, -350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DollarsToCents(tt.dollars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDollarsToCents_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := DollarsToCents(v)
		assert.Error(t, err)
	}
}

func TestPositiveDollarsToCents(t *testing.T) {
	got, err := PositiveDollarsToCents(25.00)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got)

	_, err = PositiveDollarsToCents(0)
	assert.Error(t, err)

	_, err = PositiveDollarsToCents(-1.00)
	assert.Error(t, err)

	// Rounds to zero cents -> rejected.
	_, err = PositiveDollarsToCents(0.004)
	assert.Error(t, err)
}

func TestCentsToDollars(t *testing.T) {
	assert.Equal(t, "25.50", CentsToDollars(2550))
	assert.Equal(t, "0.05", CentsToDollars(5))
	assert.Equal(t, "-3.07", CentsToDollars(-307))
	assert.Equal(t, "100.00", CentsToDollars(10000))
}
