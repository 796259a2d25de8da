// Package flow defines the typed row records the analytics engine consumes
// (passenger flow rows, segment traversals, route edges, daily totals) and
// the common filter specification applied to them.
//
// Rows arrive from the external store with dates and departure slots as
// strings; parsing happens here, and rows that fail to parse are dropped and
// counted rather than turned into errors. Filtering never mutates its input.
package flow
