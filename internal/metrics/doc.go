// Package metrics exposes scrape statistics in the Prometheus format.
//
// nflstats is a batch job, so metrics are written to a textfile that the
// node exporter's textfile collector picks up, instead of being served
// over HTTP.
package metrics
