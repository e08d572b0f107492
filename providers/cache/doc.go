// Package cache defines the storage contract for recovered soundtrack
// results. A [Provider] maps a normalized [Key] to a [recovery.Result] so a
// repeated query can be answered without another model call.
//
// Implementations live in sub-packages: inmemory for single-process use and
// pgcache for a shared PostgreSQL table.
package cache
