// Package store is the Postgres-backed row source consumed by the analytics
// handlers. It issues plain SELECTs filtered by line and date range and maps
// the results onto the typed flow records; all further filtering and
// aggregation happens in the engine. It also caches station display names
// and telecodes for presentation labels.
package store
