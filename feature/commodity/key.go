package commodity

import "strings"

// Key is the canonical identifier for a cargo commodity. Two surface
// spellings of the same good (localized wrapper, different casing) always
// produce equal Symbol values, which is the basis for aggregation.
type Key struct {
	// Symbol is the canonical lowercase identifier.
	Symbol string
	// Raw is the surface string the key was derived from, preserved for display.
	Raw string

	known bool
	rare  bool
}

// Known reports whether the symbol matched the loaded commodity index.
// Fallback keys (unrecognized raw strings) report false so they can never
// silently merge with an unrelated known commodity.
func (k Key) Known() bool {
	return k.known
}

// Rare reports whether the commodity is a rare good.
func (k Key) Rare() bool {
	return k.rare
}

// Display returns a human-readable name for the key. Keys derived from an
// unlocalized raw string fall back to title-casing the symbol.
func (k Key) Display() string {
	if k.Raw != "" && k.Raw != k.Symbol && !strings.HasPrefix(k.Raw, "$") {
		return k.Raw
	}
	return titleCase(k.Symbol)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
