// Package service implements the account use cases on top of the store,
// the credential hasher, and the input validator. Every operation validates
// and hashes before it borrows a connection, and borrows exactly one
// connection per repository call.
package service
