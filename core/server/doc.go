// Package server holds configuration for the read-only HTTP query surface.
//
// The server itself is a Fiber application assembled in the watch command;
// this package only owns the partial configuration so the config loader can
// bind defaults without importing Fiber.
package server
