// Package cache memoizes expensive, repeatable results such as tabular
// data summaries.
//
// Results are stored as bytes under keys derived from the operation name
// and a canonical JSON encoding of its input. Loader ties a Cache, a Keyer
// and a Policy together and collapses concurrent loads of the same key
// into one call. Errors are never cached.
package cache
