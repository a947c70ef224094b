// Package ipmeta answers a single question: what do we know about this
// IP address? It asks several independent geolocation providers
// concurrently, tolerates partial failure and returns one normalized,
// best-effort answer within a fixed time budget.
//
// Providers are launched in two staggered waves: free primary sources
// first, keyed or rate-limited sources a moment later. Whatever
// completes before the overall deadline is scored by information
// completeness, the most complete record wins and gets annotated with
// the provenance of every provider that answered. A TTL cache sits in
// front of the whole pipeline.
//
// Lookuper is the main entity. It accepts a textual IP address and
// returns a Record, or nothing at all if no provider had data in time.
// Provider, Cache and Logger are the extension points: implement a
// Provider per upstream source, plug any Cache backend and route
// swallowed errors through a Logger of your choice.
package ipmeta
