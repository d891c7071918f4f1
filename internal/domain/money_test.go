// internal/domain/money_test.go
package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centledger/internal/util"
)

func TestFromCents(t *testing.T) {
	t.Run("ValidAmount", func(t *testing.T) {
		m, err := FromCents(1050)
		require.NoError(t, err)
		assert.Equal(t, int64(1050), m.Cents())
	})

	t.Run("Zero", func(t *testing.T) {
		m, err := FromCents(0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), m.Cents())
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		_, err := FromCents(-1)
		assert.ErrorIs(t, err, util.ErrInvalidAmount)
	})
}

func TestFromMajorUnits(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
	}{
		{"WholeUnits", "10", 1000},
		{"ExactCents", "10.50", 1050},
		{"RoundsHalfUp", "10.505", 1051},
		{"RoundsDown", "10.504", 1050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromMajorUnits(decimal.RequireFromString(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, m.Cents())
		})
	}

	t.Run("NegativeAmount", func(t *testing.T) {
		_, err := FromMajorUnits(decimal.RequireFromString("-0.01"))
		assert.ErrorIs(t, err, util.ErrInvalidAmount)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		a, _ := FromCents(1000)
		b, _ := FromCents(500)
		assert.Equal(t, int64(1500), a.Add(b).Cents())
		// Operands are unchanged.
		assert.Equal(t, int64(1000), a.Cents())
		assert.Equal(t, int64(500), b.Cents())
	})

	t.Run("SubtractToZero", func(t *testing.T) {
		a, _ := FromCents(1000)
		zero, _ := FromCents(0)
		result, err := a.Subtract(a)
		require.NoError(t, err)
		assert.True(t, result.Equals(zero))
	})

	t.Run("SubtractUnderflow", func(t *testing.T) {
		a, _ := FromCents(1000)
		b, _ := FromCents(1001)
		_, err := a.Subtract(b)
		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
	})
}

func TestMoneyComparisons(t *testing.T) {
	small, _ := FromCents(100)
	big, _ := FromCents(200)

	assert.True(t, big.GreaterThan(small))
	assert.False(t, small.GreaterThan(big))
	assert.True(t, small.LessThan(big))
	assert.True(t, small.Equals(small))
	assert.False(t, small.Equals(big))
}

func TestMoneyString(t *testing.T) {
	m, _ := FromCents(1050)
	assert.Equal(t, "10.50", m.String())
	assert.Equal(t, "10.5", m.MajorUnits().String())
}
