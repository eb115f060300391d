// Package manifest is the reconciliation core: it consumes typed journal
// events and maintains the inventory, mission, and capacity model.
//
// The event source is incomplete, non-atomic, and occasionally silent, so
// the engine is built around a few hard rules:
//
//   - A full cargo snapshot replaces state wholesale and always beats
//     prior inference, unless it is strictly older than what we hold.
//   - A generic total change is folded into an unclassified bucket; it is
//     never guessed onto a specific commodity or stolen flag.
//   - A cached mission's stolen flag beats a default-to-legitimate
//     assumption when an event is silent about stolen status.
//   - Main ship and auxiliary vehicle inventories never merge.
//   - "No event" never means "no change": the facade reports the last
//     full-confirmation time so consumers can show staleness.
//
// The Engine implements journal.Handler; the facade methods and the Fiber
// handler expose the model read-only, always as copies.
package manifest
