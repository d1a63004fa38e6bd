// Package mover performs the collision-safe rename and relocation of sorted
// files into <root>/<yyyyMM>/<yyyyMMdd name>, with bounded retries for files
// still held by their writer.
package mover
