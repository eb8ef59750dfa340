// Package postgres provides the PostgreSQL implementation of store.ResultStore.
// It handles the details of database connections, embedded schema
// migrations, query execution, and mapping between stored rows and
// domain results.
package postgres
