// Package streambuf ingests an input stream of unknown length into a single
// in-memory block.
//
// Music containers are small but arrive from files and pipes alike, and the
// decoder needs the whole image at once. ReadAll grows its allocation
// geometrically from a 1 KiB start so both cases cost one pass and amortized
// constant work per byte.
package streambuf
