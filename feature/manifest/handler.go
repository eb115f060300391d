package manifest

import (
	"strconv"
	"time"

	"github.com/kitlaan/edmc-cargo-manifest/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// longPollTimeout bounds how long /events holds a connection open.
const longPollTimeout = 25 * time.Second

// Handler exposes the read-only query surface over HTTP.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler around the engine facade.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// RegisterRoutes registers the manifest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/manifest")
	group.Get("/", h.HandleManifest)
	group.Get("/ship", h.HandleShipSnapshot)
	group.Get("/srv", h.HandleSRVSnapshot)

	app.Get("/capacity", h.HandleCapacity)
	app.Get("/missions", h.HandleMissions)
	app.Get("/missions/:id", h.HandleMission)
	app.Get("/events", h.HandleEvents)
}

type manifestResponse struct {
	Vehicle       VehicleContext `json:"vehicle"`
	Capacity      capacityView   `json:"capacity"`
	Occupied      int            `json:"occupied"`
	Remaining     int            `json:"remaining"`
	Sequence      uint64         `json:"sequence"`
	LastConfirmed *time.Time     `json:"last_confirmed,omitempty"`
	Report        Report         `json:"report"`
}

type capacityView struct {
	Value      int    `json:"value"`
	Confidence string `json:"confidence"`
}

// HandleManifest returns the reconciled manifest for the current vehicle
// context, with capacity and staleness alongside.
func (h *Handler) HandleManifest(c *fiber.Ctx) error {
	report := h.engine.Report()
	est := h.engine.Capacity()

	resp := manifestResponse{
		Vehicle:   h.engine.Vehicle(),
		Capacity:  capacityView{Value: est.Value, Confidence: est.Confidence.String()},
		Occupied:  report.Total,
		Remaining: est.Value - report.Total,
		Sequence:  h.engine.Sequence(),
		Report:    report,
	}
	if confirmed := h.engine.LastConfirmed(); !confirmed.IsZero() {
		resp.LastConfirmed = &confirmed
	}

	return c.JSON(resp)
}

// HandleShipSnapshot returns the raw main-ship inventory snapshot.
func (h *Handler) HandleShipSnapshot(c *fiber.Ctx) error {
	return c.JSON(h.engine.ShipSnapshot())
}

// HandleSRVSnapshot returns the raw auxiliary-vehicle inventory snapshot.
func (h *Handler) HandleSRVSnapshot(c *fiber.Ctx) error {
	return c.JSON(h.engine.SRVSnapshot())
}

// HandleCapacity returns the capacity estimate for the current context.
func (h *Handler) HandleCapacity(c *fiber.Ctx) error {
	est := h.engine.Capacity()
	return c.JSON(capacityView{Value: est.Value, Confidence: est.Confidence.String()})
}

// HandleMissions returns the mission summary. Pass ?all=true to include
// terminal missions.
func (h *Handler) HandleMissions(c *fiber.Ctx) error {
	if c.QueryBool("all") {
		return c.JSON(h.engine.AllMissions())
	}
	return c.JSON(h.engine.Missions())
}

// HandleMission returns one mission by id for display enrichment.
func (h *Handler) HandleMission(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid mission id",
		})
	}

	m, ok := h.engine.Mission(id)
	if !ok {
		// Expected for missions accepted while the engine was not running
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "mission not tracked",
		})
	}

	return c.JSON(m)
}

// HandleEvents is the change-notification endpoint: it long-polls until
// the engine sequence moves past ?since=N (or the timeout fires), so the
// display collaborator can refresh without busy-polling.
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	since := uint64(c.QueryInt("since", -1))
	if c.QueryInt("since", -1) < 0 {
		// No watermark: report the current sequence immediately.
		return c.JSON(fiber.Map{"sequence": h.engine.Sequence()})
	}

	if seq := h.engine.Sequence(); seq > since {
		return c.JSON(fiber.Map{"sequence": seq})
	}

	id, ch := h.engine.Subscribe()
	defer h.engine.Unsubscribe(id)

	l := logger.WithRequestID(h.logger, c)
	timeout := time.NewTimer(longPollTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-ch:
			if seq := h.engine.Sequence(); seq > since {
				return c.JSON(fiber.Map{"sequence": seq})
			}
		case <-timeout.C:
			l.Debug("Event poll timed out", zap.Uint64("since", since))
			return c.JSON(fiber.Map{"sequence": h.engine.Sequence()})
		}
	}
}
