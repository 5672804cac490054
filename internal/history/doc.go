// Package history persists one row per completed scan in a SQLite database.
//
// The schema is created from embedded SQL migrations applied in lexical
// order and tracked in schema_migrations. A database written by a newer
// build (containing migrations this build does not know) is rejected with
// ErrSchemaMismatch rather than modified.
package history
