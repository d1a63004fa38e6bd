// Package services provides the error taxonomy and context carriers shared
// by the docsort pipeline components.
package services
