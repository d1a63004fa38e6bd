// Package pipeline sequences the per-event work: stability gate, date
// resolution, the move itself, and the journal record. Failures are contained
// at the smallest scope that can make a fallback decision; nothing here can
// crash the watcher.
package pipeline
