package Parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMalformedCSV(t *testing.T) {
	t.Run("widest line becomes the header", func(t *testing.T) {
		data := []byte("junk\nName,Date,Hours\nJohn,2024-01-05,8\nJane,2024-01-06\n")

		table := ParseMalformedCSV(data)
		require.NotNil(t, table)
		assert.Equal(t, []string{"Name", "Date", "Hours"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "8", table.Rows[0]["Hours"])
	})

	t.Run("short rows are padded to header width", func(t *testing.T) {
		data := []byte("A,B,C\n1,2\n")

		table := ParseMalformedCSV(data)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "1", table.Rows[0]["A"])
		assert.Equal(t, "2", table.Rows[0]["B"])
		assert.Equal(t, "", table.Rows[0]["C"])
	})

	t.Run("never fails on garbage", func(t *testing.T) {
		for _, data := range [][]byte{
			nil,
			[]byte(""),
			[]byte("\n\n\n"),
			[]byte("no delimiters at all"),
			[]byte(",,,,\n,,,,"),
		} {
			table := ParseMalformedCSV(data)
			require.NotNil(t, table)
		}
	})

	t.Run("empty input yields an empty table", func(t *testing.T) {
		assert.True(t, ParseMalformedCSV(nil).Empty())
	})
}
