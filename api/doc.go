// Package api is the HTTP facade over the samplers, the health aggregator,
// the execution history and the data and file collaborators.
//
// Every tracked operation runs through an observe.Middleware and records
// exactly one history entry: success with operation details, or failed
// with an "error" detail. Requests rejected before the operation starts
// (malformed bodies, validation failures, rate limiting, missing inputs)
// record nothing.
//
// Errors are returned as {"error": "<message>"}; validation failures add an
// "errors" object keyed by JSON field name.
package api
