// Package model defines the data structures shared by the nflstats pipeline.
//
// This package contains the following main types:
//   - Level: player or team statistics
//   - URLTemplate: a category URL with its season path segment located
//   - LinkMap and PageSequence: unit -> category -> ordered page URLs
//   - RecordSet: a rectangular table parsed from one page
//   - RunConfig and Job: the immutable run description and the mutable
//     state one pipeline execution works on
//   - Export and Failure: what a run wrote and what it skipped
//
// Design decision: We keep these types in their own package so the crawler,
// extractor, exporter and pipeline can share them without import cycles.
package model
