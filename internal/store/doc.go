// Package store defines the persistence contracts for stored divination
// results and company rosters, the errors implementations report, and the
// transaction helper used by the SQL-backed result store.
package store
