// Package engine is the pure computation layer of the analytics system. It
// reconstructs station sequences from segment graphs, aggregates filtered
// flow data into KPIs and spatial/temporal views, estimates hub centrality,
// emits heuristic capacity suggestions and produces short-horizon demand
// forecasts.
//
// Every entry point takes a dataset snapshot plus a flow.FilterSpec and
// returns a fully materialized report structure. Nothing here performs I/O,
// blocks, or keeps state between calls; identical input always yields
// identical output, including the order and identity of suggestions. Empty
// input produces empty results, never errors.
package engine
