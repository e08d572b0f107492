// Package inmemory provides a concurrency-safe, map-backed implementation of
// [cache.Provider] for single-process use where results need not survive a
// restart. The main entry point is [New].
package inmemory
