package Zones

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-05 is a Friday, inside the default Monday-Friday schedule.
func friday(hour, min int) time.Time {
	return time.Date(2024, 1, 5, hour, min, 0, 0, time.UTC)
}

func TestValidateAttendance(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("inside threshold is on time", func(t *testing.T) {
		result, err := cfg.ValidateAttendance("Z100", friday(6, 14), nil)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.False(t, result.IsLate)
		assert.Zero(t, result.LateMinutes)
	})

	t.Run("past threshold is late by minutes since start", func(t *testing.T) {
		result, err := cfg.ValidateAttendance("Z100", friday(6, 16), nil)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.True(t, result.IsLate)
		assert.Equal(t, 16, result.LateMinutes)
	})

	t.Run("exactly at threshold is not late", func(t *testing.T) {
		result, err := cfg.ValidateAttendance("Z100", friday(6, 15), nil)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.False(t, result.IsLate)
	})

	t.Run("before the early window is invalid", func(t *testing.T) {
		result, err := cfg.ValidateAttendance("Z100", friday(5, 0), nil)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "outside allowed window")
	})

	t.Run("early start window respects the toggle", func(t *testing.T) {
		strict := DefaultConfig()
		strict.Zones["Z100"].Rules.AllowEarlyStart = false

		result, err := strict.ValidateAttendance("Z100", friday(5, 55), nil)
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("non-working day is invalid", func(t *testing.T) {
		saturday := time.Date(2024, 1, 6, 6, 10, 0, 0, time.UTC)
		result, err := cfg.ValidateAttendance("Z100", saturday, nil)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "not a working day")
	})

	t.Run("unknown zone is an error", func(t *testing.T) {
		_, err := cfg.ValidateAttendance("Z999", friday(6, 0), nil)
		assert.Error(t, err)
	})

	t.Run("gps fix is accepted without affecting the verdict", func(t *testing.T) {
		withGPS, err := cfg.ValidateAttendance("Z100", friday(6, 10), &Coordinates{Latitude: 30.0, Longitude: 31.2})
		require.NoError(t, err)
		without, err := cfg.ValidateAttendance("Z100", friday(6, 10), nil)
		require.NoError(t, err)
		assert.Equal(t, without, withGPS)
	})
}

func TestScheduleEnd(t *testing.T) {
	cfg := DefaultConfig()

	end, ok := cfg.ScheduleEnd("Z100", friday(12, 0))
	require.True(t, ok)
	assert.Equal(t, friday(14, 30), end)

	_, ok = cfg.ScheduleEnd("Z999", friday(12, 0))
	assert.False(t, ok)
}

func TestConfigValidate(t *testing.T) {
	t.Run("default ruleset is valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("overnight schedule is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Zones["Z100"].Schedule.StartTime = "22:00"
		cfg.Zones["Z100"].Schedule.EndTime = "06:00"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must precede")
	})

	t.Run("bad weekday name is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Zones["Z100"].Schedule.WorkingDays = []string{"Funday"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("malformed clock time is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Zones["Z100"].Schedule.StartTime = "6 o'clock"
		assert.Error(t, cfg.Validate())
	})
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]string{
		"06:00":    "06:00",
		"14:30:00": "14:30",
		"3:04 PM":  "15:04",
		"7:00 AM":  "07:00",
	} {
		c, err := ParseClock(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, c.Format("15:04"), "input %q", in)
	}

	_, err := ParseClock("noonish")
	assert.Error(t, err)
}
