// Package log is a small wrapper around the standard library logger
// that gives each service or source a named logger with level helpers.
//
//   - Per-service loggers via ForService(name)
//   - Every line carries a `[name]` prefix for grep-friendly output
//   - Infof, Warnf, Errorf, Debugf helpers
//   - Debug can be enabled globally (SetGlobalDebug) or per service
//     (EnableDebugFor / DisableDebugFor)
//   - One central output writer (SetOutput) adopted by all loggers,
//     which lets tests capture output in a bytes.Buffer
//
// Usage:
//
//	l := log.ForService("search")
//	l.Infof("merged %d matches from %d sources", n, k)
//	l.Warnf("source %s excluded: %v", name, err)
//	l.Debugf("raw fan-out result: %v", res) // only with debug enabled
//
// All exported functions are safe for concurrent use.
//
// NOTE: The package name collides with stdlib "log" on purpose; alias
// one of them when both are imported in the same file.
package log
