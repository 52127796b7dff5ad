package Parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLayout(t *testing.T) {
	t.Run("skips report banner above header", func(t *testing.T) {
		data := []byte("Fleet Report\nGenerated: 2024-01-05\n\n" +
			"Driver,Date,Time,Location,Speed\n" +
			"John Doe,01/05/2024,06:10,Site A,42\n" +
			"Jane Smith,01/05/2024,06:20,Site B,38\n")

		layout := DetectLayout(data)
		assert.Equal(t, 3, layout.HeaderRow)
		assert.Equal(t, 4, layout.DataStartRow)
		assert.Equal(t, []string{"Driver", "Date", "Time", "Location", "Speed"}, layout.Columns)
	})

	t.Run("keyword row beats wider banner row", func(t *testing.T) {
		data := []byte("Report: Acme Fleet,Export,Daily,Summary,v2\n" +
			"Driver,Date,Location,Asset\n" +
			"John Doe,01/05/2024,Yard,T-100\n")

		layout := DetectLayout(data)
		assert.Equal(t, 1, layout.HeaderRow)
		assert.Equal(t, []string{"Driver", "Date", "Location", "Asset"}, layout.Columns)
	})

	t.Run("clean file with header on first line", func(t *testing.T) {
		data := []byte("Employee,Employee ID,Date,Clock In,Clock Out\n" +
			"John Doe,1001,2024-01-05,06:05,14:05\n")

		layout := DetectLayout(data)
		assert.Equal(t, 0, layout.HeaderRow)
		assert.Equal(t, 1, layout.DataStartRow)
	})

	t.Run("empty input yields no columns", func(t *testing.T) {
		layout := DetectLayout(nil)
		assert.Empty(t, layout.Columns)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		data := []byte("junk line\nmore junk\nDriver,Date,Time,Location\n" +
			"John Doe,01/05/2024,06:10,Site A\n")

		first := DetectLayout(data)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, DetectLayout(data))
		}
	})

	t.Run("data start skips sub-header rows", func(t *testing.T) {
		data := []byte("Driver,Date,Time,Odometer\n" +
			"--,--,--,--\n" +
			"John Doe,01/05/2024,06:10,48210\n" +
			"Jane Smith,01/05/2024,06:20,51002\n")

		layout := DetectLayout(data)
		assert.Equal(t, 0, layout.HeaderRow)
		assert.Equal(t, 2, layout.DataStartRow)
	})
}

func TestTrimFieldsStripsByteOrderMark(t *testing.T) {
	fields := trimFields([]string{"\uFEFFDriver", " Date ", "Location"})
	assert.Equal(t, []string{"Driver", "Date", "Location"}, fields)
}

func TestLooksLikeDataRow(t *testing.T) {
	assert.True(t, looksLikeDataRow([]string{"John Doe", "01/05/2024", "42"}))
	assert.False(t, looksLikeDataRow([]string{"TOTALS", "", ""}))
	assert.False(t, looksLikeDataRow([]string{"Section B"}))
}
