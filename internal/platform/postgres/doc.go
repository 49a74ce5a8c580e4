// Package postgres provides the PostgreSQL implementation of the account
// repository defined in internal/store, together with the bounded
// connection pool it runs on, the mapping from driver errors to store
// errors, and the embedded schema migrations.
package postgres
