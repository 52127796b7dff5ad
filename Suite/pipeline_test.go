package Suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Traxovo/Normalizer"
	"Traxovo/Reconciler"
)

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	t.Run("end to end with defaults opted in", func(t *testing.T) {
		dir := t.TempDir()
		driving := writeExport(t, dir, "driving.csv",
			"Driving History Export\nGenerated 01/06/2024\n\n"+
				"Contact,EventDateTime,Location,Speed\n"+
				"John Doe (1001),2024-01-05 06:10,Z100 North Ramp,12\n")
		timecard := writeExport(t, dir, "timecard.csv",
			"Employee,Employee ID,Date,Clock In,Clock Out\n"+
				"John Doe,1001,2024-01-05,06:05,14:05\n")

		outDir := filepath.Join(dir, "out")
		out, err := Run(RunRequest{
			Files: map[string]string{
				Normalizer.DrivingHistory: driving,
				Normalizer.Timecard:       timecard,
			},
			UseDefaultZones: true,
			OutputDir:       outDir,
		})
		require.NoError(t, err)
		require.NotNil(t, out)

		assert.NotEmpty(t, out.RunID)
		assert.Equal(t, "defaults", out.ZoneSource)
		assert.Equal(t, 1, out.Stats.MergedDays)
		assert.Empty(t, out.Discrepancies)

		require.Len(t, out.Days, 1)
		day := out.Days[0]
		assert.Equal(t, "Z100", day.ZoneID)
		// clocked out at 14:05 against a 14:30 schedule end
		assert.Equal(t, Reconciler.StatusEarlyEnd, day.Status)

		for _, pattern := range []string{"attendance_*.json", "attendance_*.xlsx", "attendance_*_trace.txt"} {
			matches, err := filepath.Glob(filepath.Join(outDir, pattern))
			require.NoError(t, err)
			assert.Len(t, matches, 1, "expected one %s artifact", pattern)
		}
	})

	t.Run("nonconforming source is skipped, run continues", func(t *testing.T) {
		dir := t.TempDir()
		driving := writeExport(t, dir, "driving.csv",
			"Contact,EventDateTime,Location,Speed\n"+
				"John Doe (1001),2024-01-05 06:10,Z100 North Ramp,12\n")
		bogus := writeExport(t, dir, "timecard.csv", "Foo,Bar\n1,2\n")

		out, err := Run(RunRequest{
			Files: map[string]string{
				Normalizer.DrivingHistory: driving,
				Normalizer.Timecard:       bogus,
			},
			UseDefaultZones: true,
		})
		require.NoError(t, err)
		assert.Contains(t, out.SkippedFiles, Normalizer.Timecard)
		assert.Contains(t, out.SourceFiles, Normalizer.DrivingHistory)
		assert.Equal(t, 1, out.Stats.MergedDays)
		// timecard never made it into the run, so no cross-source flags
		assert.Empty(t, out.Discrepancies)
	})

	t.Run("all sources unusable fails the run", func(t *testing.T) {
		dir := t.TempDir()
		bogus := writeExport(t, dir, "x.csv", "Foo,Bar\n1,2\n")

		_, err := Run(RunRequest{
			Files:           map[string]string{Normalizer.Timecard: bogus},
			UseDefaultZones: true,
		})
		assert.Error(t, err)
	})

	t.Run("missing zone rules without opt-in fails", func(t *testing.T) {
		dir := t.TempDir()
		timecard := writeExport(t, dir, "timecard.csv",
			"Employee,Employee ID,Date,Clock In,Clock Out\n"+
				"John Doe,1001,2024-01-05,06:05,14:05\n")

		_, err := Run(RunRequest{
			Files:          map[string]string{Normalizer.Timecard: timecard},
			ZoneConfigPath: filepath.Join(dir, "absent.json"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zone rules unavailable")
	})

	t.Run("fallback zone catches unmatched locations", func(t *testing.T) {
		dir := t.TempDir()
		driving := writeExport(t, dir, "driving.csv",
			"Contact,EventDateTime,Location,Speed\n"+
				"John Doe (1001),2024-01-05 06:10,Unnamed Pit,12\n")

		out, err := Run(RunRequest{
			Files:           map[string]string{Normalizer.DrivingHistory: driving},
			UseDefaultZones: true,
			FallbackZone:    "Z300",
		})
		require.NoError(t, err)
		require.Len(t, out.Days, 1)
		assert.Equal(t, "Z300", out.Days[0].ZoneID)
	})
}
