// Package sqlite contains the SQLite repository implementations for
// simulation runs and their per-channel results.
//
// All database read/write operations belong here rather than in the model
// packages. This keeps the numerical code free of SQL noise and makes it
// easier to swap storage backends for testing.
package sqlite
