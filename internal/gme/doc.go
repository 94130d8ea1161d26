// Package gme binds the Game Music Emu library (libgme) through cgo.
//
// An Emulator is opened over an in-memory container (NSF, SPC, GBS, VGM and
// the other formats libgme recognizes) and renders 16-bit interleaved stereo
// at the sample rate chosen at open time. Track metadata strings are passed
// through textutil.NormalizeTag before they leave the package.
//
// Building this package requires libgme and its pkg-config file.
package gme
