// Package config loads, normalizes, and validates blip configuration data.
//
// A TOML file (default ~/.config/blip/config.toml) supplies defaults for the
// render flags and the logging setup; command-line flags override it. A
// missing file is not an error. Validation enforces the render invariants
// (positive sample rate and duration, a fade-out window that fits inside the
// duration) so the renderer can assume them.
package config
