package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-backtest-lab/internal/domain"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestFromConfig_MACrossover(t *testing.T) {
	cfg := domain.StrategyConfig{
		StrategyType: domain.StrategyTypeMACrossover,
		ShortWindow:  intPtr(20),
		LongWindow:   intPtr(50),
		Quantity:     int64Ptr(100),
	}

	s, err := FromConfig(cfg)
	require.NoError(t, err)

	cross, ok := s.(*MACrossover)
	require.True(t, ok)
	assert.Equal(t, 20, cross.ShortWindow)
	assert.Equal(t, 50, cross.LongWindow)
	assert.Equal(t, int64(100), cross.Quantity)
}

func TestFromConfig_UnknownType(t *testing.T) {
	_, err := FromConfig(domain.StrategyConfig{StrategyType: "MOMENTUM"})
	assert.ErrorIs(t, err, ErrUnknownStrategyType)
}

func TestFromConfig_MissingParams(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.StrategyConfig
		want error
	}{
		{
			name: "missing short window",
			cfg: domain.StrategyConfig{
				StrategyType: domain.StrategyTypeMACrossover,
				LongWindow:   intPtr(50),
				Quantity:     int64Ptr(100),
			},
			want: ErrMissingShortWindow,
		},
		{
			name: "missing long window",
			cfg: domain.StrategyConfig{
				StrategyType: domain.StrategyTypeMACrossover,
				ShortWindow:  intPtr(20),
				Quantity:     int64Ptr(100),
			},
			want: ErrMissingLongWindow,
		},
		{
			name: "missing quantity",
			cfg: domain.StrategyConfig{
				StrategyType: domain.StrategyTypeMACrossover,
				ShortWindow:  intPtr(20),
				LongWindow:   intPtr(50),
			},
			want: ErrMissingQuantity,
		},
		{
			name: "non-positive window",
			cfg: domain.StrategyConfig{
				StrategyType: domain.StrategyTypeMACrossover,
				ShortWindow:  intPtr(0),
				LongWindow:   intPtr(50),
				Quantity:     int64Ptr(100),
			},
			want: ErrInvalidWindow,
		},
		{
			name: "non-positive quantity",
			cfg: domain.StrategyConfig{
				StrategyType: domain.StrategyTypeMACrossover,
				ShortWindow:  intPtr(20),
				LongWindow:   intPtr(50),
				Quantity:     int64Ptr(0),
			},
			want: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
