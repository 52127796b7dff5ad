package Normalizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Traxovo/Parser"
)

func TestNormalizeColumns(t *testing.T) {
	t.Run("driving history synonyms resolve", func(t *testing.T) {
		table := Parser.NewTable(
			[]string{"Contact", "EventDateTime", "Location"},
			[][]string{{"John Doe (1001)", "2024-01-05 06:10", "North Ramp"}},
		)

		NormalizeColumns(table, DrivingHistory)
		require.True(t, table.HasColumn(ColDriver))
		assert.Equal(t, "John Doe (1001)", table.Rows[0][ColDriver])
		assert.Equal(t, "2024-01-05 06:10", table.Rows[0][ColTimestamp])
		// originals stay untouched
		assert.Equal(t, "John Doe (1001)", table.Rows[0]["Contact"])
	})

	t.Run("substring rules catch unmapped headers", func(t *testing.T) {
		table := Parser.NewTable(
			[]string{"Employee Name", "Attendance Date", "Clock In", "Clock Out"},
			[][]string{{"John Doe", "2024-01-05", "06:05", "14:05"}},
		)

		NormalizeColumns(table, Timecard)
		assert.Equal(t, "John Doe", table.Rows[0][ColDriver])
		assert.Equal(t, "2024-01-05", table.Rows[0][ColDate])
		assert.Equal(t, "06:05", table.Rows[0][ColStartTime])
		assert.Equal(t, "14:05", table.Rows[0][ColEndTime])
	})

	t.Run("missing columns stay empty, never synthesized", func(t *testing.T) {
		table := Parser.NewTable(
			[]string{"Contact", "EventDateTime"},
			[][]string{{"John Doe", "2024-01-05 06:10"}},
		)

		NormalizeColumns(table, DrivingHistory)
		assert.Equal(t, "", table.Rows[0][ColLocation])
		assert.Equal(t, "", table.Rows[0][ColJobNumber])
	})
}

func TestExtractDriverIdentity(t *testing.T) {
	table := Parser.NewTable(
		[]string{"Contact", "EventDateTime"},
		[][]string{
			{"John Doe (1001)", "2024-01-05 06:10"},
			{"1002 - Jane Smith", "2024-01-05 06:20"},
			{"Sam Plain", "2024-01-05 06:30"},
		},
	)
	NormalizeColumns(table, DrivingHistory)

	assert.Equal(t, "John Doe", table.Rows[0][ColDriverName])
	assert.Equal(t, "1001", table.Rows[0][ColEmployeeID])

	assert.Equal(t, "Jane Smith", table.Rows[1][ColDriverName])
	assert.Equal(t, "1002", table.Rows[1][ColEmployeeID])

	assert.Equal(t, "Sam Plain", table.Rows[2][ColDriverName])
	assert.Equal(t, "", table.Rows[2][ColEmployeeID])
}

func TestCheckLayout(t *testing.T) {
	t.Run("conforming headers pass", func(t *testing.T) {
		headers := []string{"Employee", "Employee ID", "Date", "Clock In", "Clock Out"}
		assert.NoError(t, CheckLayout(Timecard, headers))
	})

	t.Run("missing required columns fail with a typed error", func(t *testing.T) {
		err := CheckLayout(Timecard, []string{"Foo", "Bar"})
		require.Error(t, err)

		var fdErr *FormatDetectionError
		require.True(t, errors.As(err, &fdErr))
		assert.Equal(t, Timecard, fdErr.RecordType)
		assert.Contains(t, fdErr.Missing, ColDriver)
	})

	t.Run("unknown record type fails", func(t *testing.T) {
		assert.Error(t, CheckLayout("telemetry", []string{"Driver"}))
	})
}
