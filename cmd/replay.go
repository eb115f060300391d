package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kitlaan/edmc-cargo-manifest/core/config"
	"github.com/kitlaan/edmc-cargo-manifest/core/database"
	"github.com/kitlaan/edmc-cargo-manifest/core/journal"
	"github.com/kitlaan/edmc-cargo-manifest/core/logger"

	"github.com/kitlaan/edmc-cargo-manifest/feature/capacity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/commodity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/manifest"
	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Flags for the replay command
	replayJSON  bool
	replayCache bool
)

// replayCmd rebuilds the manifest from recorded journal files.
var replayCmd = &cobra.Command{
	Use:   "replay [journal files...]",
	Short: "Replay journal files and print the resulting manifest",
	Long: `Replay feeds recorded journal files through the reconciliation
engine in order and prints the final manifest.

Useful for inspecting what a past session left in the hold, and for
checking how a journal sequence is interpreted without running live.

Examples:
  # Replay one session
  replay Journal.2024-03-05T120000.01.log

  # Replay a whole evening, machine-readable output
  replay --json Journal.2024-03-05T*.log

  # Replay against the persisted mission cache
  replay --cache Journal.2024-03-05T120000.01.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print the manifest as JSON")
	replayCmd.Flags().BoolVar(&replayCache, "cache", false, "Use the persisted mission cache instead of starting empty")

	RootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	var db *gorm.DB
	if replayCache {
		conn, err := database.Open(cfg.Cache)
		if err != nil {
			return fmt.Errorf("failed to open mission cache: %w", err)
		}
		db = conn
	}

	norm := commodity.NewNormalizer()
	if err := norm.LoadIndex(cfg.Data); err != nil {
		l.Warn("Commodity index unavailable", zap.Error(err))
	}

	table, err := capacity.LoadTable(cfg.Vehicles)
	if err != nil {
		return fmt.Errorf("failed to load vehicle table: %w", err)
	}

	engine := manifest.NewEngine(norm, table, missions.NewCache(db, l), l)

	for _, path := range args {
		l.Info("Replaying journal", zap.String("file", path))
		if err := journal.ReplayFile(path, engine, l); err != nil {
			return fmt.Errorf("failed to replay %s: %w", path, err)
		}
	}

	report := engine.Report()

	if replayJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printManifestReport(l, engine, report)
	return nil
}

// printManifestReport prints a formatted manifest report using logger.
func printManifestReport(l *zap.Logger, engine *manifest.Engine, report manifest.Report) {
	est := engine.Capacity()

	l.Info("Manifest report",
		zap.String("vehicle", engine.Vehicle().Vehicle),
		zap.Int("total", report.Total),
		zap.Int("unclassified", report.Unclassified),
		zap.Int("capacity", est.Value),
		zap.String("capacity_confidence", est.Confidence.String()),
	)

	for _, line := range report.Lines {
		fields := []zap.Field{
			zap.String("commodity", line.Display),
			zap.Int("count", line.Count),
		}
		if line.Stolen > 0 {
			fields = append(fields, zap.Int("stolen", line.Stolen))
		}
		if line.Rare {
			fields = append(fields, zap.Bool("rare", true))
		}
		for _, m := range line.Missions {
			fields = append(fields, zap.Int64("mission_id", m.MissionID))
		}
		l.Info("Cargo", fields...)
	}

	active := engine.Missions()
	for _, m := range active {
		l.Info("Active mission",
			zap.Int64("mission_id", m.ID),
			zap.String("commodity", m.Localised),
			zap.Int("remaining", m.Remaining),
			zap.Bool("stolen", m.Stolen),
		)
	}
	if len(active) == 0 {
		l.Info("No active cargo missions")
	}
}
