package missions

import (
	"path/filepath"
	"testing"

	"github.com/kitlaan/edmc-cargo-manifest/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: path})
	require.NoError(t, err)
	return db
}

// setupMockDB returns a GORM handle over sqlmock, used to exercise the
// degraded path deterministically.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCache_PersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missions.db")

	first := NewCache(openTestDB(t, path), zap.NewNop())
	require.False(t, first.Degraded())

	recorded := Mission{
		ID:        42,
		Commodity: "painite",
		Localised: "Painite",
		Total:     10,
		Remaining: 10,
		Stolen:    true,
	}
	first.RecordAccepted(recorded)

	// Reload from disk in a fresh cache, as after a process restart
	second := NewCache(openTestDB(t, path), zap.NewNop())
	got, ok := second.Lookup(42)
	require.True(t, ok)

	assert.Equal(t, recorded.ID, got.ID)
	assert.Equal(t, recorded.Commodity, got.Commodity)
	assert.Equal(t, recorded.Localised, got.Localised)
	assert.Equal(t, recorded.Total, got.Total)
	assert.Equal(t, recorded.Remaining, got.Remaining)
	assert.Equal(t, recorded.Stolen, got.Stolen)
	assert.Equal(t, StatusActive, got.Status)
}

func TestCache_RecordAcceptedLastWriteWins(t *testing.T) {
	c := NewCache(nil, zap.NewNop())

	c.RecordAccepted(Mission{ID: 7, Commodity: "gold", Total: 5, Remaining: 5})
	c.RecordAccepted(Mission{ID: 7, Commodity: "silver", Total: 3, Remaining: 3})

	m, ok := c.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "silver", m.Commodity)
	assert.Equal(t, 3, m.Total)
}

func TestCache_TerminalRetained(t *testing.T) {
	c := NewCache(nil, zap.NewNop())
	c.RecordAccepted(Mission{ID: 1, Commodity: "gold"})

	assert.True(t, c.RecordTerminal(1, StatusCompleted))

	// Terminal missions stay available for cargo attribution
	m, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, m.Status)
	assert.True(t, m.Status.Terminal())

	// But drop out of the active view
	assert.Empty(t, c.Active())
	assert.Len(t, c.All(), 1)

	// Terminal for an untracked mission is the caveated no-op
	assert.False(t, c.RecordTerminal(999, StatusAbandoned))
}

func TestCache_UpdateProgress(t *testing.T) {
	c := NewCache(nil, zap.NewNop())

	t.Run("Known mission", func(t *testing.T) {
		c.RecordAccepted(Mission{ID: 5, Commodity: "gold", Total: 10, Remaining: 10, Allocated: true})
		c.UpdateProgress(5, "gold", "Gold", 10, 4, 0)

		m, _ := c.Lookup(5)
		assert.Equal(t, 6, m.Remaining)
		assert.True(t, m.Allocated)
	})

	t.Run("Untracked mission gets placeholder", func(t *testing.T) {
		c.UpdateProgress(8, "silver", "Silver", 12, 2, 3)

		m, ok := c.Lookup(8)
		require.True(t, ok)
		assert.Equal(t, "silver", m.Commodity)
		assert.Equal(t, 12, m.Total)
		assert.Equal(t, 10, m.Remaining)
		assert.True(t, m.Allocated)
		// No stolen signal in depot events
		assert.False(t, m.Stolen)
	})
}

func TestCache_PruneInactive(t *testing.T) {
	c := NewCache(nil, zap.NewNop())
	c.RecordAccepted(Mission{ID: 1, Commodity: "gold"})
	c.RecordAccepted(Mission{ID: 2, Commodity: "silver"})
	c.RecordAccepted(Mission{ID: 3, Commodity: "painite"})
	c.RecordTerminal(3, StatusCompleted)

	pruned := c.PruneInactive([]int64{2})
	assert.Equal(t, 1, pruned)

	_, ok := c.Lookup(1)
	assert.False(t, ok)
	_, ok = c.Lookup(2)
	assert.True(t, ok)

	// Terminal missions survive pruning even when unlisted
	m, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, m.Status)
}

func TestCache_ActiveByCommodity(t *testing.T) {
	c := NewCache(nil, zap.NewNop())
	c.RecordAccepted(Mission{ID: 2, Commodity: "painite", Stolen: true})
	c.RecordAccepted(Mission{ID: 1, Commodity: "painite"})
	c.RecordAccepted(Mission{ID: 3, Commodity: "gold"})
	c.RecordTerminal(3, StatusAbandoned)

	got := c.ActiveByCommodity("painite")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)

	assert.Empty(t, c.ActiveByCommodity("gold"))
}

func TestCache_DegradedOnUnreadableDatabase(t *testing.T) {
	// sqlmock with no expectations rejects the migration queries, which is
	// exactly the "cache unreadable at startup" condition.
	db, _ := setupMockDB(t)

	c := NewCache(db, zap.NewNop())
	assert.True(t, c.Degraded())

	// Cache still works in memory
	c.RecordAccepted(Mission{ID: 11, Commodity: "gold"})
	_, ok := c.Lookup(11)
	assert.True(t, ok)
}

func TestCache_WriteFailureDoesNotAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missions.db")
	db := openTestDB(t, path)

	c := NewCache(db, zap.NewNop())
	require.False(t, c.Degraded())

	// Kill the underlying connection so every subsequent write fails
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	c.RecordAccepted(Mission{ID: 21, Commodity: "gold"})
	c.RecordTerminal(21, StatusCompleted)
	c.PruneInactive(nil)

	// In-memory state is intact despite the persistence failure
	m, ok := c.Lookup(21)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, m.Status)
}
