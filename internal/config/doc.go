// Package config loads, normalizes, and validates the TOML configuration
// shared by the docsort daemon and CLI.
//
// Configuration resolution order: an explicit --config path, then
// ~/.config/docsort/config.toml, then ./docsort.toml, then built-in defaults.
// All path fields are tilde-expanded and made absolute before use.
package config
