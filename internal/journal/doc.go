// Package journal persists a SQLite record of every pipeline run so the CLI
// can show what was moved where, and why a move failed. The journal is
// informational; pipeline behavior never depends on it.
package journal
