package Parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTable(t *testing.T) {
	t.Run("csv with banner rows", func(t *testing.T) {
		path := writeTemp(t, "driving.csv",
			"Driving History Export\nGenerated 01/06/2024\n\n"+
				"Contact,EventDateTime,Location,Speed\n"+
				"John Doe (1001),2024-01-05 06:10,North Ramp,12\n"+
				"Jane Smith (1002),2024-01-05 06:20,South Ramp,9\n")

		table, layout, err := ReadTable(path)
		require.NoError(t, err)
		assert.Equal(t, 3, layout.HeaderRow)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "John Doe (1001)", table.Rows[0]["Contact"])
		assert.Equal(t, "South Ramp", table.Rows[1]["Location"])
	})

	t.Run("structureless file degrades to fallback parser", func(t *testing.T) {
		path := writeTemp(t, "broken.txt", "a,b\n1,2\n")

		table, _, err := ReadTable(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, table.Headers)
		require.Len(t, table.Rows, 1)
	})

	t.Run("missing file is a hard error", func(t *testing.T) {
		_, _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}
