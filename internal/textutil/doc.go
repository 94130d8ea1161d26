// Package textutil provides text cleanup for metadata read from music
// containers before it is logged, listed, or embedded in output files.
package textutil
