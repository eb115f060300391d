// Package journal turns raw game journal records into the typed events the
// reconciliation engine consumes.
//
// The journal is a line-oriented JSON file the game appends to, with no
// delivery guarantees worth relying on: records can be missing, duplicated,
// or stale. This package is the host-collaborator side of the engine
// boundary; it owns parsing, validation, and ordered delivery, while the
// engine owns what the events mean.
//
// Every record passes an embedded JSON Schema envelope check before typed
// decoding. Records that fail either step are malformed: they are logged
// and dropped without reaching the engine, so broken input can never
// corrupt tracked state.
//
// The Tailer follows the newest Journal*.log by polling, surviving journal
// rotation between game sessions. ReplayFile drives the same path from a
// historical file, and SeedFromCargoFile bootstraps inventory from the
// Cargo.json status file at startup.
package journal
