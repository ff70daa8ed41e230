// Package log provides crlpart's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by Go's
// standard library slog via a handler that routes records into a Formatter
// (text or JSON) and one or more Outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("optimizer"), log.Str("name", "crlite"))
//	l.Info("partition computed", log.Int("segments", 12))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level,
// format, and an output of console, file, or null).
//
// # Interop
//
// Pebble writes through the standard library logger; RedirectStdLog routes
// those lines into a Logger at info level.
package log
