// Package logx configures galeranotify's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//
// Console output goes to stderr; stdout is reserved for the --debug report.
package logx
