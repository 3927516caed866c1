// Package alert forwards log records to a Telegram chat.
//
// A Sink filters records by severity, renders them into a bounded HTML-lite
// message (see Formatter) and delivers the text with a single, time-bounded
// sendMessage call.
//
// # Failure isolation
//
// Sink.Handle never returns an error, never panics and never logs. Delivery
// failures are dropped on the floor: a notification sink that reports its own
// failures through the logging pipeline it is attached to can recurse forever.
//
// # Bridges
//
// SlogHandler adapts a Sink to log/slog. The logx package provides the
// zerolog equivalent.
package alert
