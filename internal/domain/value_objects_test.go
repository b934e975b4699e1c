package domain_test

import (
	"math"
	"testing"

	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money successfully", func(t *testing.T) {
		money, err := domain.NewMoney(13500, domain.CurrencyUSD)

		require.NoError(t, err)
		assert.Equal(t, int64(13500), money.Amount)
		assert.Equal(t, "usd", money.Currency)
		assert.Equal(t, "135.00", money.String())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := domain.NewMoney(-100, domain.CurrencyUSD)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "amount cannot be negative")
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := domain.NewMoney(100, "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency is required")
	})
}

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{7500, "75.00"},
		{13550, "135.50"},
		{-250, "-2.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.FormatMinorUnits(tt.minor))
	}
}

func TestFormatMinorUnitsString(t *testing.T) {
	got, ok := domain.FormatMinorUnitsString("13500")
	assert.True(t, ok)
	assert.Equal(t, "135.00", got)

	_, ok = domain.FormatMinorUnitsString("135.5")
	assert.False(t, ok)

	_, ok = domain.FormatMinorUnitsString("")
	assert.False(t, ok)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(13500), domain.ToMinorUnits(135))
	assert.Equal(t, int64(13550), domain.ToMinorUnits(135.5))
	assert.Equal(t, int64(29), domain.ToMinorUnits(0.29))
	assert.Equal(t, int64(1), domain.ToMinorUnits(0.005))
}

func TestToMinorUnits_Saturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), domain.ToMinorUnits(1e17))
	assert.Equal(t, int64(math.MaxInt64), domain.ToMinorUnits(math.Inf(1)))
	assert.Equal(t, int64(math.MinInt64), domain.ToMinorUnits(-1e300))
	assert.Equal(t, int64(0), domain.ToMinorUnits(math.NaN()))
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := domain.NewServiceNotFoundError("window-washing")

	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeServiceNotFound))
	assert.Contains(t, err.Error(), "window-washing")
}
