// Package utils provides small shared helpers: a synchronous JSON-over-HTTP
// round trip used by the LLM providers ([DoPostSync], [StatusError]) and
// [TruncateString] for keeping payloads in log records bounded.
package utils
