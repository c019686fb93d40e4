// Package pkgconfig provides a small abstraction for reading configuration values.
//
// The application expects config values to come from a concrete implementation
// (for example Viper). Code should depend on the Config interface so it stays
// easy to test and does not care where values come from.
//
// The Viper implementation reads an optional file and lets IDGEN_* environment
// variables override any key, with dots replaced by underscores
// (node.id -> IDGEN_NODE_ID). Node identity is usually assigned per host, so
// the environment is the expected place to set it.
package pkgconfig
