// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic: the account repository contract, the
// connection abstraction it runs on, and the pool that lends connections.
package store
