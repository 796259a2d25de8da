// Package server is the thin HTTP layer over the analytics engine: it parses
// and validates query parameters into a flow.FilterSpec, fetches row
// snapshots from the store, invokes the pure engine functions and encodes
// the results as JSON. No analytics logic lives here.
package server
