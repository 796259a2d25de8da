// Package report defines the JSON-serializable payloads returned by the
// analytics engine. Every identifier surfaced here is a string and every
// structure flattens to JSON primitives, so handlers can encode results
// directly without leaking internal state.
package report
