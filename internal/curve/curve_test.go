package curve_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlaunch/curve-registry/internal/curve"
	"github.com/fairlaunch/curve-registry/internal/domain"
)

// units converts a whole-unit count into the smallest 18-decimal denomination
func units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), domain.UnitScale)
}

func TestCurve_Price(t *testing.T) {
	c := curve.FromParams(domain.DefaultParams())

	tests := []struct {
		name      string
		unitsSold *uint256.Int
		expected  *uint256.Int
	}{
		{
			name:      "floor price at zero sold",
			unitsSold: uint256.NewInt(0),
			expected:  uint256.NewInt(1e14),
		},
		{
			name:      "floor price just below first step",
			unitsSold: units(9_999),
			expected:  uint256.NewInt(1e14),
		},
		{
			name:      "steps up exactly at the increment boundary",
			unitsSold: units(10_000),
			expected:  uint256.NewInt(2e14),
		},
		{
			name:      "mid-range between second and third step",
			unitsSold: units(25_000),
			expected:  uint256.NewInt(3e14),
		},
		{
			name:      "fractional units below boundary do not step",
			unitsSold: new(uint256.Int).Sub(units(10_000), uint256.NewInt(1)),
			expected:  uint256.NewInt(1e14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := c.Price(tt.unitsSold)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.String(), price.String())
		})
	}
}

func TestCurve_Price_Monotonic(t *testing.T) {
	c := curve.FromParams(domain.DefaultParams())

	prev, err := c.Price(uint256.NewInt(0))
	require.NoError(t, err)
	for n := uint64(0); n <= 100_000; n += 2_500 {
		price, err := c.Price(units(n))
		require.NoError(t, err)
		assert.True(t, price.Cmp(prev) >= 0, "price must never decrease (at %d units)", n)
		prev = price
	}
}

func TestCurve_Price_Overflow(t *testing.T) {
	maxAmount := new(uint256.Int).SetAllOne()

	t.Run("step product overflows", func(t *testing.T) {
		c := curve.New(uint256.NewInt(0), maxAmount, uint256.NewInt(1))
		_, err := c.Price(uint256.NewInt(2))
		assert.ErrorIs(t, err, domain.ErrAmountOverflow)
	})

	t.Run("floor addition overflows", func(t *testing.T) {
		c := curve.New(maxAmount, uint256.NewInt(1), uint256.NewInt(1))
		_, err := c.Price(uint256.NewInt(1))
		assert.ErrorIs(t, err, domain.ErrAmountOverflow)
	})
}

func TestCurve_Cost(t *testing.T) {
	c := curve.FromParams(domain.DefaultParams())

	tests := []struct {
		name      string
		unitsSold *uint256.Int
		quantity  *uint256.Int
		expected  *uint256.Int
	}{
		{
			name:      "10,000 units at floor price costs 1.0",
			unitsSold: uint256.NewInt(0),
			quantity:  units(10_000),
			expected:  uint256.NewInt(1e18),
		},
		{
			name:      "batch priced at the pre-purchase sold count",
			unitsSold: units(10_000),
			quantity:  units(10_000),
			expected:  uint256.NewInt(2e18),
		},
		{
			name:      "fractional quantity truncates to whole units",
			unitsSold: uint256.NewInt(0),
			quantity:  new(uint256.Int).Add(units(1), uint256.NewInt(999)),
			expected:  uint256.NewInt(1e14),
		},
		{
			name:      "sub-unit quantity costs nothing",
			unitsSold: uint256.NewInt(0),
			quantity:  uint256.NewInt(1e17),
			expected:  uint256.NewInt(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := c.Cost(tt.unitsSold, tt.quantity)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.String(), cost.String())
		})
	}
}

func TestCurve_Cost_Overflow(t *testing.T) {
	maxAmount := new(uint256.Int).SetAllOne()
	c := curve.New(maxAmount, uint256.NewInt(0), uint256.NewInt(1))

	_, err := c.Cost(uint256.NewInt(0), units(2))
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)
}
