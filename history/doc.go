// Package history keeps a bounded, in-memory log of executed operations.
//
// A Log holds at most its capacity (100 by default) entries. Recording past
// capacity evicts the oldest entry. Queries return the most recent entries
// in chronological order. Nothing is persisted: the log lives as long as
// the process.
//
//	log := history.New(history.DefaultCapacity)
//	log.Record("system_health", history.StatusSuccess, map[string]history.Value{
//	    "health": history.Str("WARNING"),
//	})
//	recent := log.Query(50)
package history
