package Zones

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("round trip through save", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config", "rules.json")
		require.NoError(t, SaveConfig(DefaultConfig(), path))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Len(t, cfg.Zones, 3)
		assert.NotEmpty(t, cfg.LastUpdated)
	})

	t.Run("hand-annotated json5 loads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.json")
		doc := `{
			// PM notes allowed here
			version: "1.0",
			zones: {
				"Z100": {
					zone_id: "Z100",
					zone_name: "North Ramp",
					schedule: {
						start_time: "06:00",
						end_time: "14:30",
						late_threshold_minutes: 15,
						working_days: ["Monday", "Tuesday"], // trailing comma next
					},
				},
			},
		}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "North Ramp", cfg.Zones["Z100"].ZoneName)
	})

	t.Run("missing file is an error, never a silent default", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("invalid document is rejected on load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.json")
		doc := `{"version": "1.0", "zones": {"Z1": {"zone_id": "Z1",
			"schedule": {"start_time": "23:00", "end_time": "05:00",
			"working_days": ["Monday"]}}}}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
