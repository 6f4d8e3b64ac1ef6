// Package store implements the persistence gateway for simulation state.
//
// Every backend stores one record per slot holding the placed objects and the
// derived angle. Loading what was saved reproduces every object's id, weight
// and distance exactly, along with the angle.
//
// Backends:
//   - [KVGateway]: any [cache.Cache] (file, memory, redis, none)
//   - [MongoGateway]: one document per slot in a MongoDB collection
//   - [SQLGateway]: one row per slot in SQLite or PostgreSQL
//
// Use [Open] to build the backend selected in the configuration.
package store
