// Package postgres implements the store interfaces on PostgreSQL via the
// pgx stdlib driver. Schema lives in the migrations directory embedded in
// the server binary and is applied with goose at startup.
package postgres
