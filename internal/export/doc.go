// Package export writes merged category tables to disk.
//
// Each (unit, category) of a run becomes one file named after the category
// under the run's level directory:
//
//	<output>/<season>/<level>/[week<N>/][<unit>/]<category>.csv
//
// The week directory is present only for the current season and the unit
// directory only for team statistics. CSV is the default format; XLSX is
// available for spreadsheet users.
package export
