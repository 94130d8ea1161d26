// Package preflight provides readiness checks for the filesystem paths a
// render touches.
//
// The CLI runs them before ingesting input and logs failures as warnings. The
// checks never abort a run on their own: input errors still surface when the
// input is opened, and output errors are reported per track by the sink.
package preflight
