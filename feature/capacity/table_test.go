package capacity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		vehicle  string
		capacity int
	}{
		{"testbuggy", 4},
		{"combat_multicrew_srv_01", 2},
		{"scout_mk2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.vehicle, func(t *testing.T) {
			assert.True(t, table.IsAuxiliary(tt.vehicle))
			capacity, ok := table.Lookup(tt.vehicle)
			assert.True(t, ok)
			assert.Equal(t, tt.capacity, capacity)
		})
	}

	// Main ships are not auxiliary vehicles
	assert.False(t, table.IsAuxiliary("python"))
	_, ok := table.Lookup("python")
	assert.False(t, ok)
}

func TestLoadTable_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vehicles:\n  testbuggy: 8\n  hauler_srv: 6\n"), 0o644))

	table, err := LoadTable(Config{Table: path})
	require.NoError(t, err)

	// Override replaces an embedded entry
	capacity, ok := table.Lookup("testbuggy")
	assert.True(t, ok)
	assert.Equal(t, 8, capacity)

	// Override adds a new vehicle
	capacity, ok = table.Lookup("hauler_srv")
	assert.True(t, ok)
	assert.Equal(t, 6, capacity)

	// Embedded entries without an override survive
	capacity, ok = table.Lookup("combat_multicrew_srv_01")
	assert.True(t, ok)
	assert.Equal(t, 2, capacity)
}

func TestLoadTable_Errors(t *testing.T) {
	t.Run("Unset path uses defaults", func(t *testing.T) {
		table, err := LoadTable(Config{})
		assert.NoError(t, err)
		assert.True(t, table.IsAuxiliary("testbuggy"))
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadTable(Config{Table: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.Error(t, err)
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vehicles: [not, a, map]\n"), 0o644))
		_, err := LoadTable(Config{Table: path})
		assert.Error(t, err)
	})
}
