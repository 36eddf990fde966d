// Package metrics exposes Prometheus counters for reviewimg runs.
//
// Collectors live on a dedicated registry. All methods are safe on a nil
// *Metrics so callers can leave metrics disabled. WriteTextfile dumps the
// registry for the node_exporter textfile collector.
package metrics
