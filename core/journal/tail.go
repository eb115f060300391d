package journal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Tailer follows a live journal directory and feeds typed events to a
// Handler, one at a time, in arrival order.
type Tailer struct {
	cfg     Config
	handler Handler
	logger  *zap.Logger

	current string
	offset  int64
}

// NewTailer creates a tailer over the configured journal directory.
func NewTailer(cfg Config, h Handler, logger *zap.Logger) *Tailer {
	return &Tailer{cfg: cfg, handler: h, logger: logger}
}

// Run follows the newest journal file until the context is cancelled.
// A newer journal file (a new game session) switches the tailer over,
// reading the new file from the beginning so session context is not lost.
func (t *Tailer) Run(ctx context.Context) error {
	if t.cfg.Dir == "" {
		return fmt.Errorf("journal directory not configured")
	}

	poll := time.Duration(t.cfg.PollMillis) * time.Millisecond
	if poll <= 0 {
		poll = time.Second
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if err := t.poll(); err != nil {
			t.logger.Warn("Journal poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *Tailer) poll() error {
	latest, err := latestJournal(t.cfg.Dir)
	if err != nil {
		return err
	}
	if latest == "" {
		return nil
	}

	if latest != t.current {
		if t.current != "" {
			t.logger.Info("Journal rotated", zap.String("file", filepath.Base(latest)))
		} else {
			t.logger.Info("Following journal", zap.String("file", filepath.Base(latest)))
		}
		t.current = latest
		t.offset = 0
	}

	return t.consume()
}

// consume reads newly appended complete lines from the current file.
// The game flushes records incrementally, so the file can end mid-line;
// only newline-terminated lines are delivered, and an unterminated tail is
// left at the current offset for a later poll to finish.
func (t *Tailer) consume() error {
	f, err := os.Open(t.current)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, 0); err != nil {
		return err
	}

	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		t.offset += int64(len(line))
		t.deliver(line)
	}
}

func (t *Tailer) deliver(line []byte) {
	ev, err := Parse(line)
	if err != nil {
		// Malformed records are dropped; existing state is untouched.
		t.logger.Warn("Dropping malformed journal record", zap.Error(err))
		return
	}
	if ev == nil {
		return
	}
	Dispatch(t.handler, ev)
}

// ReplayFile feeds every record of one journal file through the handler.
// Malformed lines are logged and skipped, matching live behavior.
func ReplayFile(path string, h Handler, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev, err := Parse(scanner.Bytes())
		if err != nil {
			logger.Warn("Dropping malformed journal record", zap.Error(err))
			continue
		}
		if ev != nil {
			Dispatch(h, ev)
		}
	}
	return scanner.Err()
}

// SeedFromCargoFile applies the Cargo.json status file, if present, as an
// initial full snapshot. At startup no journal backfill happens, so this
// file is the only clue about what the hold currently contains.
func SeedFromCargoFile(dir string, h Handler, logger *zap.Logger) {
	data, err := os.ReadFile(filepath.Join(dir, "Cargo.json"))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Cargo status file unreadable", zap.Error(err))
		}
		return
	}

	snap, err := ParseCargoFile(data)
	if err != nil {
		logger.Warn("Cargo status file invalid", zap.Error(err))
		return
	}

	h.HandleFullSnapshot(snap)
	logger.Info("Seeded inventory from cargo status file", zap.Int("total", snap.Count))
}

// latestJournal returns the lexically newest Journal*.log in dir. Journal
// filenames embed a sortable timestamp, so name order is session order.
func latestJournal(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "Journal*.log"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
