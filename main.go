package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"Traxovo/CronJobs"
	"Traxovo/FiberConfig"
	"Traxovo/Logger"
	"Traxovo/Models"
	"Traxovo/Normalizer"
	"Traxovo/Parser"
	"Traxovo/Suite"
	"Traxovo/Zones"
)

var (
	debugLogging bool
	outputDir    string
)

var rootCmd = &cobra.Command{
	Use:   "traxovo",
	Short: "Cross-source attendance reconciliation for fleet exports",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Logger.Setup(debugLogging)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		Logger.Sync()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the attendance suite API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Models.Connect(); err != nil {
			return err
		}

		watchDir, _ := cmd.Flags().GetString("watch-dir")
		if watchDir != "" {
			recipients := splitList(os.Getenv("REPORT_RECIPIENTS"))
			scheduler := CronJobs.NewReportScheduler(watchDir, outputDir, recipients, false)
			if err := scheduler.Start(); err != nil {
				return err
			}
			defer scheduler.Stop()
		}

		return FiberConfig.Serve(Models.DB, outputDir)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation over local export files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files := map[string]string{}
		for _, recordType := range []string{
			Normalizer.DrivingHistory,
			Normalizer.TimeOnSite,
			Normalizer.ActivityDetail,
			Normalizer.Timecard,
			Normalizer.Usage,
		} {
			path, _ := cmd.Flags().GetString(flagName(recordType))
			if path != "" {
				files[recordType] = path
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no export files given, pass at least one of --driving-history, --time-on-site, --activity-detail, --timecard, --usage")
		}

		zoneConfig, _ := cmd.Flags().GetString("zones")
		useDefaults, _ := cmd.Flags().GetBool("default-zones")
		fallbackZone, _ := cmd.Flags().GetString("fallback-zone")
		roster, _ := cmd.Flags().GetStringSlice("roster")

		out, err := Suite.Run(Suite.RunRequest{
			Files:           files,
			ZoneConfigPath:  zoneConfig,
			UseDefaultZones: useDefaults,
			FallbackZone:    fallbackZone,
			Roster:          roster,
			OutputDir:       outputDir,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Run %s complete\n", out.RunID)
		fmt.Printf("  Merged driver-days: %d\n", out.Stats.MergedDays)
		for status, count := range out.StatusCounts() {
			fmt.Printf("  %s: %d\n", status, count)
		}
		fmt.Printf("  Discrepancies: %d\n", len(out.Discrepancies))
		for recordType, reason := range out.SkippedFiles {
			fmt.Printf("  Skipped %s: %s\n", recordType, reason)
		}
		return nil
	},
}

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Manage zone schedule rules",
}

var zonesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the stock zone ruleset to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, pass --force to overwrite", path)
		}
		cfg := Zones.DefaultConfig()
		if err := Zones.SaveConfig(cfg, path); err != nil {
			return err
		}
		fmt.Printf("Wrote %d zones to %s\n", len(cfg.Zones), path)
		return nil
	},
}

var zonesImportCmd = &cobra.Command{
	Use:   "import <pm-sheet>",
	Short: "Build zone rules from a PM schedule sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		table, _, err := Parser.ReadTable(args[0])
		if err != nil {
			return err
		}
		cfg, err := Zones.ProcessPMSheet(table, args[0])
		if err != nil {
			return err
		}
		if err := Zones.SaveConfig(cfg, path); err != nil {
			return err
		}
		fmt.Printf("Imported %d zones from %s into %s\n", len(cfg.Zones), args[0], path)
		return nil
	},
}

func flagName(recordType string) string {
	return strings.ReplaceAll(recordType, "_", "-")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "output", "directory for run artifacts")

	serveCmd.Flags().String("watch-dir", "", "directory scanned by the nightly reconciliation job")

	reconcileCmd.Flags().String("driving-history", "", "driving history export")
	reconcileCmd.Flags().String("time-on-site", "", "time on site export")
	reconcileCmd.Flags().String("activity-detail", "", "activity detail export")
	reconcileCmd.Flags().String("timecard", "", "timecard export")
	reconcileCmd.Flags().String("usage", "", "asset usage export")
	reconcileCmd.Flags().String("zones", Zones.DefaultConfigPath, "zone rules document")
	reconcileCmd.Flags().Bool("default-zones", false, "use the stock ruleset instead of a rules document")
	reconcileCmd.Flags().String("fallback-zone", "", "zone assigned when no location matches")
	reconcileCmd.Flags().StringSlice("roster", nil, "known driver names for fuzzy matching")

	zonesInitCmd.Flags().String("config", Zones.DefaultConfigPath, "rules document path")
	zonesInitCmd.Flags().Bool("force", false, "overwrite an existing document")
	zonesImportCmd.Flags().String("config", Zones.DefaultConfigPath, "rules document path")

	zonesCmd.AddCommand(zonesInitCmd, zonesImportCmd)
	rootCmd.AddCommand(serveCmd, reconcileCmd, zonesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
