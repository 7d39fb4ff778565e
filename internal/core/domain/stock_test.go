package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

func TestNextQuantity(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		delta   int64
		want    int64
		wantErr bool
		invalid bool
	}{
		{name: "add_to_empty", current: 0, delta: 100, want: 100},
		{name: "remove_some", current: 100, delta: -30, want: 70},
		{name: "remove_exact_to_zero", current: 5, delta: -5, want: 0},
		{name: "remove_one_too_many", current: 5, delta: -6, want: 5, wantErr: true},
		{name: "zero_delta", current: 7, delta: 0, want: 7},
		{name: "fill_to_max", current: 10, delta: math.MaxInt64 - 10, want: math.MaxInt64},
		{name: "overflow_on_add", current: 10, delta: math.MaxInt64, want: 10, invalid: true},
		{name: "min_int_delta", current: 10, delta: math.MinInt64, want: 10, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NextQuantity(1, tt.current, tt.delta)
			assert.Equal(t, tt.want, got)
			if tt.invalid {
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
				return
			}
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

				var stockErr *domain.InsufficientStockError
				require.True(t, errors.As(err, &stockErr))
				assert.Equal(t, tt.current, stockErr.Available)
				assert.Equal(t, -tt.delta, stockErr.Requested)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNextQuantity_ReplayNeverNegative(t *testing.T) {
	deltas := []int64{10, -3, 5, -12, -1, 4, -20, 8}
	var (
		qty       int64
		purchased int64
		sold      int64
	)
	for _, d := range deltas {
		next, err := domain.NextQuantity(1, qty, d)
		if err != nil {
			assert.Equal(t, qty, next)
			continue
		}
		if d > 0 {
			purchased += d
		} else {
			sold += -d
		}
		qty = next
		assert.GreaterOrEqual(t, qty, int64(0))
	}
	assert.Equal(t, purchased-sold, qty)
}
