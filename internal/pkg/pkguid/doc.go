// Package pkguid provides helpers around unique identifiers.
//
// It covers the pieces that sit next to the Snowflake generator in
// internal/idgen:
//   - String IDs (UUIDv7) used as run correlation IDs.
//   - Random node ids for hosts without an assigned identity.
//   - Text encodings of numeric IDs, via github.com/bwmarrin/snowflake.
package pkguid
