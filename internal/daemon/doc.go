// Package daemon owns the docsort background process: single-instance
// locking, watcher lifecycle, and the status and history queries exposed over
// IPC.
package daemon
