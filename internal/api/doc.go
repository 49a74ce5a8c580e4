// Package api handles incoming HTTP requests, routing, request decoding,
// and response formatting. It acts as an adapter between external clients
// and the account service, translating HTTP concerns to service calls and
// service errors to status codes with fixed, safe messages.
package api
