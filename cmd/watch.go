package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitlaan/edmc-cargo-manifest/core/config"
	"github.com/kitlaan/edmc-cargo-manifest/core/database"
	"github.com/kitlaan/edmc-cargo-manifest/core/journal"
	"github.com/kitlaan/edmc-cargo-manifest/core/loader"
	"github.com/kitlaan/edmc-cargo-manifest/core/logger"
	"github.com/kitlaan/edmc-cargo-manifest/core/middleware/auth"
	"github.com/kitlaan/edmc-cargo-manifest/core/middleware/requestid"

	"github.com/kitlaan/edmc-cargo-manifest/feature/capacity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/commodity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/manifest"
	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live journal and serve the manifest",
	Long: `Follows the journal directory, reconciles cargo/mission/capacity
events into the manifest, and serves the query API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open Mission Cache Database (Optional)
		// Mission details never replay, so losing the cache only degrades
		// stolen/allocated attribution. Never fatal.
		var db *gorm.DB
		if conn, err := database.Open(cfg.Cache); err != nil {
			logg.Warn("Mission cache database unavailable", zap.Error(err))
		} else {
			db = conn
			logg.Info("Mission cache database ready", zap.String("path", cfg.Cache.Path))
		}

		// 4. Build the Reconciliation Engine
		norm := commodity.NewNormalizer()
		if err := norm.LoadIndex(cfg.Data); err != nil {
			// Degraded: unknown commodities still track under raw keys
			logg.Warn("Commodity index unavailable", zap.Error(err))
		}

		table, err := capacity.LoadTable(cfg.Vehicles)
		if err != nil {
			logg.Warn("Vehicle table overlay unreadable, using defaults", zap.Error(err))
			table = capacity.DefaultTable()
		}

		cache := missions.NewCache(db, logg)
		engine := manifest.NewEngine(norm, table, cache, logg)

		// 5. Seed from the cargo status file, then follow the journal
		journal.SeedFromCargoFile(cfg.Journal.Dir, engine, logg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tailer := journal.NewTailer(cfg.Journal, engine, logg)
		go func() {
			if err := tailer.Run(ctx); err != nil && ctx.Err() == nil {
				logg.Fatal("Journal tailer stopped", zap.Error(err))
			}
		}()

		if !cfg.Server.Enabled {
			logg.Info("HTTP surface disabled, reconciling only")
			waitForSignal()
			logg.Info("Shutting down...")
			return
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. Request ID (Must be first to trace everything)
		app.Use(requestid.New())

		// 2. Logging Middleware (Custom to use Zap + Request ID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		mgr := loader.NewManager()
		mgr.Register(manifest.NewFeature(engine, logg))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		waitForSignal()
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
