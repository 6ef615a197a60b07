// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured with functional options when they are created and
// are immutable afterward; [Logger.Wrap] and [Logger.With] derive new
// loggers without affecting the original.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parse complete", slog.Int("nodes", 12))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// The zero value [Logger] discards everything, which lets packages hold an
// optional logger without nil checks.
//
// # Default Logger
//
// Package-level functions such as [Info] and [Error] use a default logger
// writing to standard error, so that standard output stays reserved for
// command output. Reconfigure it with [Config].
package log
