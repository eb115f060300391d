package missions

import (
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Cache is the durable, cross-session mapping from mission identifiers to
// the cargo commitments they imply. The event source does not replay this
// information on restart, so the cache persists every mutation.
//
// The cache is not goroutine-safe; the reconciliation engine serializes all
// access behind its own lock.
type Cache struct {
	missions map[int64]Mission
	db       *gorm.DB
	logger   *zap.Logger

	writeWarned bool
}

// NewCache loads the persisted mission set and returns a ready cache.
// A nil db, or a database that cannot be read, yields a cache running in
// memory only for the session: logged once, never fatal.
func NewCache(db *gorm.DB, logger *zap.Logger) *Cache {
	c := &Cache{
		missions: make(map[int64]Mission),
		db:       db,
		logger:   logger,
	}

	if db == nil {
		logger.Warn("Mission cache has no database, running in-memory only")
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("Mission cache unreadable, running in-memory only", zap.Error(err))
		c.db = nil
	}

	return c
}

// Degraded reports whether persistence is unavailable for this session.
func (c *Cache) Degraded() bool {
	return c.db == nil
}

func (c *Cache) load() error {
	// AutoMigrate keeps the schema forward-readable: new columns are added,
	// columns this version doesn't know about are left alone.
	if err := c.db.AutoMigrate(&Mission{}); err != nil {
		return err
	}

	var records []Mission
	if err := c.db.Find(&records).Error; err != nil {
		return err
	}

	for _, m := range records {
		if m.Status == "" {
			m.Status = StatusActive
		}
		c.missions[m.ID] = m
	}

	c.logger.Info("Mission cache loaded", zap.Int("missions", len(records)))
	return nil
}

// RecordAccepted upserts a mission commitment. Re-observing a known mission
// is last-write-wins: the newer event's values replace the old ones.
func (c *Cache) RecordAccepted(m Mission) {
	m.Status = StatusActive
	c.missions[m.ID] = m
	c.persist(m)
}

// RecordTerminal marks a tracked mission completed, abandoned, or expired.
// Terminal missions are retained so a subsequent cargo-reduction event can
// still be attributed to them instead of being misread as generic loss.
// Unknown missions are ignored: there is nothing to attribute against.
func (c *Cache) RecordTerminal(id int64, status Status) bool {
	m, ok := c.missions[id]
	if !ok {
		return false
	}

	m.Status = status
	c.missions[id] = m
	c.persist(m)
	return true
}

// UpdateProgress applies a cargo depot report for a mission. Depot events
// are the one place the journal volunteers mission cargo details after
// acceptance, so an unknown mission gets a placeholder record here; its
// stolen flag defaults to false because depot events carry no such signal.
func (c *Cache) UpdateProgress(id int64, commodity, localised string, toDeliver, delivered, collected int) {
	m, ok := c.missions[id]
	if !ok {
		c.logger.Debug("Depot report for untracked mission", zap.Int64("mission_id", id))
		m = Mission{
			ID:        id,
			Commodity: commodity,
			Localised: localised,
			Total:     toDeliver,
			Status:    StatusActive,
		}
	}

	m.Remaining = toDeliver - delivered
	if collected > 0 {
		m.Allocated = true
	}

	c.missions[id] = m
	c.persist(m)
}

// Lookup returns the tracked mission, if any. Not-found is the expected
// outcome for missions accepted while the engine was not running.
func (c *Cache) Lookup(id int64) (Mission, bool) {
	m, ok := c.missions[id]
	return m, ok
}

// Active returns the non-terminal missions, sorted by identifier.
func (c *Cache) Active() []Mission {
	out := make([]Mission, 0, len(c.missions))
	for _, m := range c.missions {
		if !m.Status.Terminal() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every tracked mission, terminal included, sorted by identifier.
func (c *Cache) All() []Mission {
	out := make([]Mission, 0, len(c.missions))
	for _, m := range c.missions {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveByCommodity returns the active missions bound to a canonical
// commodity symbol. Used for stolen-flag tie-breaks.
func (c *Cache) ActiveByCommodity(symbol string) []Mission {
	var out []Mission
	for _, m := range c.missions {
		if !m.Status.Terminal() && m.Commodity == symbol {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PruneInactive reconciles the cache against an authoritative list of
// active mission IDs. Active missions absent from the list were resolved
// while we could not observe how, so they are dropped; terminal missions
// are kept regardless for late cargo attribution.
func (c *Cache) PruneInactive(activeIDs []int64) int {
	active := make(map[int64]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}

	pruned := 0
	for id, m := range c.missions {
		if m.Status.Terminal() {
			continue
		}
		if _, ok := active[id]; !ok {
			delete(c.missions, id)
			c.remove(id)
			pruned++
		}
	}

	if pruned > 0 {
		c.logger.Info("Pruned stale missions", zap.Int("count", pruned))
	}
	return pruned
}

// persist writes one mission record. A failed write is logged (loudly once,
// then at debug) and never aborts the triggering event.
func (c *Cache) persist(m Mission) {
	if c.db == nil {
		return
	}

	if err := c.db.Save(&m).Error; err != nil {
		if !c.writeWarned {
			c.logger.Warn("Mission cache write failed, continuing in-memory", zap.Error(err))
			c.writeWarned = true
		} else {
			c.logger.Debug("Mission cache write failed", zap.Int64("mission_id", m.ID), zap.Error(err))
		}
	}
}

func (c *Cache) remove(id int64) {
	if c.db == nil {
		return
	}

	if err := c.db.Delete(&Mission{}, "mission_id = ?", id).Error; err != nil {
		if !c.writeWarned {
			c.logger.Warn("Mission cache delete failed, continuing in-memory", zap.Error(err))
			c.writeWarned = true
		} else {
			c.logger.Debug("Mission cache delete failed", zap.Int64("mission_id", id), zap.Error(err))
		}
	}
}
