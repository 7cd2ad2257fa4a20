// Package storage provides the persistent key-value storage that backs the
// Shopkit session.
//
// The Storage interface is a synchronous string store, the Go analogue of a
// browser origin's localStorage: values survive process restarts (for durable
// backends) but are scoped to one client installation.
//
// # Backends
//
// Three backends are provided:
//
//	store := storage.NewMemoryStorage()              // default, volatile
//	store, err := storage.NewFileStorage(path)       // durable, single machine
//	store := storage.NewRedisStorage(redisClient)    // shared, kiosk fleets
//
// All backends are safe for concurrent use. Writes report their persistence
// outcome; the session layer treats persistence as best-effort and keeps its
// in-memory state authoritative when a write fails.
package storage
