// Package missions tracks cargo-bearing missions across game sessions.
//
// The journal only describes a mission at the moment it is accepted; nothing
// replays that information after a restart. The Cache therefore persists
// every mutation to a local SQLite file and reloads it at engine start.
//
// # Degraded Mode
//
// A cache that cannot read or write its database logs the failure and keeps
// working in memory for the session. Persistence problems never abort event
// processing.
//
// # Known Limitation
//
// Missions accepted while the engine was not running are permanently unknown:
// Lookup returning not-found for them is expected, caveated behavior rather
// than an error.
package missions
