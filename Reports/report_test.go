package Reports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Traxovo/Reconciler"
)

func sampleRun() *RunOutput {
	return &RunOutput{
		RunID:       "run-test-001",
		GeneratedAt: time.Date(2024, 1, 6, 5, 30, 0, 0, time.UTC),
		ZoneSource:  "defaults",
		SourceFiles: map[string]string{"timecard": "timecard.csv"},
		Stats: Reconciler.Stats{
			RecordsPerSource: map[string]int{"timecard": 2},
			DroppedNoDriver:  map[string]int{},
			MergedDays:       2,
		},
		Days: []Reconciler.ClassifiedDay{
			{
				MergedDriverDay: Reconciler.MergedDriverDay{
					DriverName: "John Doe", Date: "2024-01-05",
					StartTime: "2024-01-05 06:05:00", EndTime: "2024-01-05 14:05:00",
					Sources: []string{"timecard"},
				},
				ZoneID: "Z100", Status: Reconciler.StatusOnTime,
			},
			{
				MergedDriverDay: Reconciler.MergedDriverDay{
					DriverName: "Jane Smith", Date: "2024-01-05",
					StartTime: "2024-01-05 06:40:00",
					Sources:   []string{"timecard"},
				},
				ZoneID: "Z100", Status: Reconciler.StatusLate,
			},
		},
		Discrepancies: []Reconciler.Discrepancy{
			{DriverName: "Jane Smith", Date: "2024-01-05",
				Type: Reconciler.TimecardWithoutGPS, Detail: "timecard hours recorded but no GPS activity found"},
		},
	}
}

func TestStatusCounts(t *testing.T) {
	counts := sampleRun().StatusCounts()
	assert.Equal(t, 1, counts[Reconciler.StatusOnTime])
	assert.Equal(t, 1, counts[Reconciler.StatusLate])
	assert.Zero(t, counts[Reconciler.StatusNotOnJob])
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook(sampleRun())
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range append(statusSheets, "Discrepancies") {
		idx, err := f.GetSheetIndex(sheet)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0, "sheet %q missing", sheet)
	}

	onTime, err := f.GetCellValue(Reconciler.StatusOnTime, "A2")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", onTime)

	late, err := f.GetCellValue(Reconciler.StatusLate, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", late)

	flagged, err := f.GetCellValue("Discrepancies", "C2")
	require.NoError(t, err)
	assert.Equal(t, Reconciler.TimecardWithoutGPS, flagged)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.json")
	require.NoError(t, WriteJSON(path, sampleRun()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back RunOutput
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "run-test-001", back.RunID)
	assert.Len(t, back.Days, 2)
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trace.txt")
	require.NoError(t, WriteManifest(path, sampleRun()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "run-test-001")
	assert.Contains(t, text, "timecard.csv")
	assert.Contains(t, text, "merged driver-days: 2")
	assert.Contains(t, text, Reconciler.TimecardWithoutGPS)
}
