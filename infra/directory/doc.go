// Package directory provides asset directories for the candidate tracker: an
// in-memory snapshot, a GeoJSON file snapshot and a Redis GEO index.
package directory
