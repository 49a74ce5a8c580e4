// Package domain contains the core entities and errors of the accounts
// service: the Account record, its read projection and partial-update shape,
// and the validation and hashing error values shared by every layer.
// It is independent of any storage or transport concern.
package domain
