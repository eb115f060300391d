package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// collector records every dispatched event for inspection.
type collector struct {
	events []Event
}

func (c *collector) HandleFullSnapshot(ev CargoSnapshot) { c.events = append(c.events, ev) }
func (c *collector) HandleCargoTotal(ev CargoTotal) { c.events = append(c.events, ev) }
func (c *collector) HandleMissionAccepted(ev MissionAccepted) { c.events = append(c.events, ev) }
func (c *collector) HandleMissionTerminal(ev MissionTerminal) { c.events = append(c.events, ev) }
func (c *collector) HandleMissionsList(ev MissionsList) { c.events = append(c.events, ev) }
func (c *collector) HandleCargoDepot(ev CargoDepot) { c.events = append(c.events, ev) }
func (c *collector) HandleCapacity(ev CapacityReport) { c.events = append(c.events, ev) }
func (c *collector) HandleVehicleChange(ev VehicleChange) { c.events = append(c.events, ev) }
func (c *collector) HandleSessionReset(ev SessionReset) { c.events = append(c.events, ev) }

func appendFile(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestTailer_PartiallyFlushedLineWaitsForCompletion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Journal.2024-03-05T120000.01.log")

	record := `{"timestamp":"2024-03-05T12:00:01Z","event":"Cargo","Vessel":"Ship","Count":5,"Inventory":[{"Name":"gold","Count":5,"Stolen":0}]}`

	// The game flushed only part of the record before this poll.
	appendFile(t, path, record[:40])

	c := &collector{}
	tailer := NewTailer(Config{Dir: dir}, c, zap.NewNop())

	require.NoError(t, tailer.poll())
	assert.Empty(t, c.events, "unterminated line must not be delivered")
	assert.Zero(t, tailer.offset, "offset must not advance past an unterminated line")

	// The rest of the line arrives before the next poll.
	appendFile(t, path, record[40:]+"\n")

	require.NoError(t, tailer.poll())
	require.Len(t, c.events, 1)

	snap, ok := c.events[0].(CargoSnapshot)
	require.True(t, ok)
	require.Len(t, snap.Inventory, 1)
	assert.Equal(t, "gold", snap.Inventory[0].Name)
	assert.Equal(t, 5, snap.Inventory[0].Count)
}

func TestTailer_CompleteLinesDeliveredIncrementally(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Journal.2024-03-05T120000.01.log")

	appendFile(t, path, `{"timestamp":"2024-03-05T12:00:01Z","event":"Cargo","Vessel":"Ship","Count":3}`+"\n")

	c := &collector{}
	tailer := NewTailer(Config{Dir: dir}, c, zap.NewNop())

	require.NoError(t, tailer.poll())
	require.Len(t, c.events, 1)
	assert.IsType(t, CargoTotal{}, c.events[0])

	// A complete line plus the start of the next one: only the complete
	// line is consumed.
	appendFile(t, path, `{"timestamp":"2024-03-05T12:00:02Z","event":"Resurrect"}`+"\n"+`{"timestamp":"2024`)

	require.NoError(t, tailer.poll())
	require.Len(t, c.events, 2)
	assert.IsType(t, SessionReset{}, c.events[1])

	// Re-polling with no new data delivers nothing again.
	require.NoError(t, tailer.poll())
	assert.Len(t, c.events, 2)
}
