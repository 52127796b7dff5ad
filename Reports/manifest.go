package Reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"Traxovo/Logger"
)

// WriteManifest writes the free-text audit trail for a run: which files
// went in, what came out, and every counter that explains the difference
// between the two.
func WriteManifest(path string, out *RunOutput) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TRAXOVO attendance reconciliation trace\n")
	fmt.Fprintf(&b, "run:        %s\n", out.RunID)
	fmt.Fprintf(&b, "generated:  %s\n", out.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "zone rules: %s\n\n", out.ZoneSource)

	fmt.Fprintf(&b, "-- input files --\n")
	for _, src := range sortedStringKeys(out.SourceFiles) {
		fmt.Fprintf(&b, "%-16s %s (%d records", src, out.SourceFiles[src], out.Stats.RecordsPerSource[src])
		if dropped := out.Stats.DroppedNoDriver[src]; dropped > 0 {
			fmt.Fprintf(&b, ", %d rows dropped: no driver name", dropped)
		}
		fmt.Fprintf(&b, ")\n")
	}

	if len(out.SkippedFiles) > 0 {
		fmt.Fprintf(&b, "\n-- skipped sources --\n")
		for _, src := range sortedStringKeys(out.SkippedFiles) {
			fmt.Fprintf(&b, "%-16s %s\n", src, out.SkippedFiles[src])
		}
	}

	fmt.Fprintf(&b, "\n-- merge --\n")
	fmt.Fprintf(&b, "merged driver-days: %d\n", out.Stats.MergedDays)
	fmt.Fprintf(&b, "roster matches:     %d\n", out.Stats.RosterMatched)

	fmt.Fprintf(&b, "\n-- statuses --\n")
	counts := out.StatusCounts()
	for _, status := range statusSheets {
		fmt.Fprintf(&b, "%-12s %d\n", status+":", counts[status])
	}

	fmt.Fprintf(&b, "\n-- discrepancies (%d) --\n", len(out.Discrepancies))
	for _, d := range out.Discrepancies {
		fmt.Fprintf(&b, "%s %s [%s] %s\n", d.Date, d.DriverName, d.Type, d.Detail)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	Logger.Log.Infow("trace manifest written", "path", path)
	return nil
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
