package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kitlaan/edmc-cargo-manifest/core/config"
	"github.com/kitlaan/edmc-cargo-manifest/core/database"
	"github.com/kitlaan/edmc-cargo-manifest/core/logger"
	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var missionsJSON bool

// missionsCmd inspects the persisted mission cargo cache.
var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Dump the persisted mission cargo cache",
	Long: `Prints the mission commitments persisted across sessions, terminal
missions included. The cache is what lets a restart keep attributing
stolen and allocated cargo correctly.`,
	RunE: runMissions,
}

func init() {
	missionsCmd.Flags().BoolVar(&missionsJSON, "json", false, "Print missions as JSON")

	RootCmd.AddCommand(missionsCmd)
}

func runMissions(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Open(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open mission cache: %w", err)
	}

	cache := missions.NewCache(db, l)
	all := cache.All()

	if missionsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	if len(all) == 0 {
		l.Info("Mission cache is empty")
		return nil
	}

	for _, m := range all {
		l.Info("Mission",
			zap.Int64("mission_id", m.ID),
			zap.String("status", string(m.Status)),
			zap.String("commodity", m.Commodity),
			zap.Int("total", m.Total),
			zap.Int("remaining", m.Remaining),
			zap.Bool("stolen", m.Stolen),
			zap.Bool("allocated", m.Allocated),
		)
	}

	return nil
}
