// Package database provides SQLite connection management for switchhook.
//
// This package manages:
//   - Opening the database with WAL mode and busy timeout pragmas
//   - Schema migrations from embedded SQL files
//   - Health checks and lifecycle management
//
// SQLite is used for last-state persistence only: the authoritative switch
// state lives in the in-memory registry, and the database lets switches
// come back up in their previous state after a restart.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "./data/switchhook.db"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
