// Package ipc lets the docsort CLI talk to a running daemon over JSON-RPC on
// a Unix domain socket placed next to the logs.
package ipc
