// Package main hosts the blip CLI entrypoint.
//
// The single Cobra command reads a game music container from a file or
// standard input, merges command-line flags over the optional TOML config,
// and renders the selected tracks to WAV files (or standard output) through
// the render package. With --list it prints the container's track table
// instead.
//
// Keep this package declarative: flag handling and presentation live here,
// everything that touches audio lives under internal/.
package main
