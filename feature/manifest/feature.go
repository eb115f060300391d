package manifest

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the manifest query surface into the feature loader.
type Feature struct {
	engine *Engine
	logger *zap.Logger
}

// NewFeature creates the manifest feature.
func NewFeature(engine *Engine, logger *zap.Logger) *Feature {
	return &Feature{engine: engine, logger: logger}
}

// Name implements loader.Feature.
func (f *Feature) Name() string {
	return "manifest"
}

// IsEnabled implements loader.Feature. The manifest surface is the point of
// the application; it is always on when the server runs.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.engine, f.logger).RegisterRoutes(app)
	f.logger.Info("Manifest feature loaded")
	return nil
}
