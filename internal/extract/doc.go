// Package extract turns statistics table markup into record sets.
//
// The statistics site renders each category as a table whose header and
// data cells sit under elements carrying a level-specific "detailed" class.
// Cells are read in document order and folded into rows whose width is the
// number of header cells.
package extract
