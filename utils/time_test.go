package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	assert.True(t, IsExpired(UTCNow().Add(-time.Minute)))
	assert.False(t, IsExpired(UTCNow().Add(time.Minute)))
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, time.March, 10, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestFirstOfMonth(t *testing.T) {
	in := time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), FirstOfMonth(in))
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), FirstOfNextMonth(in))
}

func TestFirstOfNextMonthCrossesYear(t *testing.T) {
	in := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), FirstOfNextMonth(in))
}
