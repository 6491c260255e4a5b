// Package pkguid generates identifiers: UUIDv7 strings for stored entities
// and Snowflake numbers for events, behind small interfaces so tests can
// substitute deterministic generators.
package pkguid
