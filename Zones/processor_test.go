package Zones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Traxovo/Parser"
)

func pmSheet(rows ...[]string) *Parser.Table {
	return Parser.NewTable(
		[]string{"Zone ID", "Zone Name", "Sr PM", "Start", "End", "Days", "Late Threshold"},
		rows,
	)
}

func TestProcessPMSheet(t *testing.T) {
	t.Run("full row overrides the base schedule", func(t *testing.T) {
		sheet := pmSheet([]string{"Z900", "East Gate", "R. Alvarez", "7:00 AM", "15:30", "Mon-Fri", "10"})

		cfg, err := ProcessPMSheet(sheet, "schedule_q1.xlsx")
		require.NoError(t, err)
		require.Contains(t, cfg.Zones, "Z900")

		zone := cfg.Zones["Z900"]
		assert.Equal(t, "East Gate", zone.ZoneName)
		assert.Equal(t, "R. Alvarez", zone.SrPM)
		assert.Equal(t, "07:00", zone.Schedule.StartTime)
		assert.Equal(t, "15:30", zone.Schedule.EndTime)
		assert.Equal(t, 10, zone.Schedule.LateThresholdMinutes)
		assert.Equal(t,
			[]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			zone.Schedule.WorkingDays)
		assert.Equal(t, "schedule_q1.xlsx", cfg.Source)
	})

	t.Run("sparse row falls back to base values", func(t *testing.T) {
		sheet := pmSheet([]string{"Z901", "", "", "", "", "", ""})

		cfg, err := ProcessPMSheet(sheet, "sparse.csv")
		require.NoError(t, err)

		zone := cfg.Zones["Z901"]
		assert.Equal(t, "Z901", zone.ZoneName)
		assert.Equal(t, "Unassigned", zone.SrPM)
		assert.Equal(t, "06:00", zone.Schedule.StartTime)
		assert.Equal(t, 15, zone.Schedule.LateThresholdMinutes)
	})

	t.Run("rows without a zone id are skipped", func(t *testing.T) {
		sheet := pmSheet(
			[]string{"Z900", "East Gate", "", "", "", "", ""},
			[]string{"", "Orphan Row", "", "", "", "", ""},
		)

		cfg, err := ProcessPMSheet(sheet, "mixed.csv")
		require.NoError(t, err)
		assert.Len(t, cfg.Zones, 1)
	})

	t.Run("no zone column is an error", func(t *testing.T) {
		sheet := Parser.NewTable([]string{"Foo", "Bar"}, [][]string{{"1", "2"}})
		_, err := ProcessPMSheet(sheet, "bad.csv")
		assert.Error(t, err)
	})

	t.Run("empty sheet is an error", func(t *testing.T) {
		_, err := ProcessPMSheet(&Parser.Table{}, "empty.csv")
		assert.Error(t, err)
	})
}

func TestParseWorkingDays(t *testing.T) {
	assert.Equal(t,
		[]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		parseWorkingDays("Mon-Fri"))
	assert.Equal(t,
		[]string{"Monday", "Wednesday", "Friday"},
		parseWorkingDays("Mon, Wed, Fri"))
	assert.Equal(t,
		[]string{"Saturday", "Sunday"},
		parseWorkingDays("saturday sunday"))
	assert.Empty(t, parseWorkingDays(""))
	assert.Empty(t, parseWorkingDays("xyz"))
}
