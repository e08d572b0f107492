// Package logging builds the process-wide slog logger from environment
// settings: level (SONGSCENE_LOG_LEVEL, then LOG_LEVEL) and output format
// (text, json or compact).
package logging
