// Package database manages the SQLite handle backing the mission cargo cache.
//
// The cache is the only durable state the engine owns. It lives in a single
// local file with exclusive single-process access, so the connection pool is
// pinned to one connection and there is no cross-process locking.
//
// Open failures are expected to be survivable: callers treat a failed Open as
// "run this session in memory only" rather than a fatal error, per the
// degraded-mode contract of the mission cache.
package database
