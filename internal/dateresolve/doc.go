// Package dateresolve derives the effective date used to organize a file.
//
// The strategy is per extension: PDFs use the filesystem creation timestamp,
// .eml files are scanned for a date header, and .msg containers delegate to
// an injected reader capability. Every failure path degrades to the creation
// timestamp so resolution can never abort the watcher.
package dateresolve
