package domain_test

import (
	"testing"

	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewHydrationLog(t *testing.T) {
	t.Run("Success: Starts empty with the given goal", func(t *testing.T) {
		l, err := domain.NewHydrationLog("u1", "2026-03-15", 80)

		assert.Nil(t, err)
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, 0.0, l.TotalOz)
		assert.Equal(t, 80.0, l.GoalOz)
	})

	t.Run("Default: Non-positive goal falls back to 64oz", func(t *testing.T) {
		l, err := domain.NewHydrationLog("u1", "2026-03-15", 0)

		assert.Nil(t, err)
		assert.Equal(t, domain.DefaultWaterGoalOz, l.GoalOz)
	})

	t.Run("Error: Bad date", func(t *testing.T) {
		_, err := domain.NewHydrationLog("u1", "15/03/2026", 64)
		assert.Equal(t, domain.ErrInvalidDate, err)
	})
}

func TestHydrationLog_AddWater(t *testing.T) {
	t.Run("Success: Pours accumulate", func(t *testing.T) {
		l, _ := domain.NewHydrationLog("u1", "2026-03-15", 64)

		assert.Nil(t, l.AddWater(8))
		assert.Nil(t, l.AddWater(16))

		assert.Equal(t, 24.0, l.TotalOz)
	})

	t.Run("Error: Negative pour rejected without mutation", func(t *testing.T) {
		l, _ := domain.NewHydrationLog("u1", "2026-03-15", 64)
		_ = l.AddWater(8)

		err := l.AddWater(-4)

		assert.Equal(t, domain.ErrNegativeAmount, err)
		assert.Equal(t, 8.0, l.TotalOz)
	})
}
