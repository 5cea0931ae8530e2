package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2Float(t *testing.T) {
	assert.Equal(t, 80.0, Round2Float(decimal.NewFromFloat(80)))
	assert.Equal(t, 33.33, Round2Float(decimal.NewFromInt(100).Div(decimal.NewFromInt(3))))
	// Half-up, not banker's rounding.
	assert.Equal(t, 2.35, Round2Float(decimal.NewFromFloat(2.345)))
}

func TestSafeDiv(t *testing.T) {
	assert.True(t, SafeDiv(decimal.NewFromInt(10), decimal.Zero).IsZero())
	assert.True(t, SafeDiv(decimal.NewFromInt(10), decimal.NewFromInt(4)).Equal(decimal.NewFromFloat(2.5)))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(decimal.NewFromInt(80), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(80)))
	assert.True(t, Percent(decimal.NewFromInt(80), decimal.Zero).IsZero())
	// Above 100 passes through uncapped.
	assert.True(t, Percent(decimal.NewFromInt(120), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(120)))
}
