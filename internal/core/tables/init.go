// Package tables registers the race schedule import tables with the core
// registry. Import it for its side effect.
//
// Columns are positional and follow the schema column order; the first CSV
// line is a header and is ignored. Identifiers are stored as given.
package tables
