package commodity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// canonicalRe strips the journal localization wrapper, e.g. "$gold_name;" -> "gold".
var canonicalRe = regexp.MustCompile(`^\$(.+)_name;$`)

// Normalizer maps raw commodity identifiers to canonical keys. Normalize is
// pure and deterministic; the index only changes when a CSV is (re)loaded,
// which happens at session start before events flow.
type Normalizer struct {
	known map[string]struct{}
	rare  map[string]struct{}
}

// NewNormalizer creates a Normalizer with an empty index. Without an index
// every key is a fallback key, which is a valid degraded mode.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		known: make(map[string]struct{}),
		rare:  make(map[string]struct{}),
	}
}

// Normalize converts a raw commodity identifier into a canonical Key.
// It never fails; unrecognized raw strings produce a fallback key that
// preserves the raw input and reports Known() == false.
func (n *Normalizer) Normalize(raw string) Key {
	symbol := Canonicalise(raw)

	_, known := n.known[symbol]
	_, rare := n.rare[symbol]

	return Key{
		Symbol: symbol,
		Raw:    raw,
		known:  known || rare,
		rare:   rare,
	}
}

// Canonicalise lowercases an identifier and strips the localization wrapper.
// It is the single spelling rule shared by commodities and vehicle names.
func Canonicalise(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if m := canonicalRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// LoadIndex loads commodity.csv and rare_commodity.csv from the given
// directory. Missing files are skipped: the normalizer then treats every
// symbol as a fallback key, which is degraded but correct.
func (n *Normalizer) LoadIndex(cfg Config) error {
	dir := cfg.Dir
	if dir == "" {
		dir = "FDevIDs"
	}

	if err := n.loadCSV(filepath.Join(dir, "commodity.csv"), n.known); err != nil {
		return err
	}
	return n.loadCSV(filepath.Join(dir, "rare_commodity.csv"), n.rare)
}

// loadCSV reads the "symbol" column of one CSV file into the given set.
func (n *Normalizer) loadCSV(path string, into map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open commodity index: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read commodity index header: %w", err)
	}

	symbolCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return fmt.Errorf("commodity index %s has no symbol column", path)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read commodity index row: %w", err)
		}
		if symbolCol >= len(row) {
			continue
		}
		if symbol := Canonicalise(row[symbolCol]); symbol != "" {
			into[symbol] = struct{}{}
		}
	}

	return nil
}
