// Package testsupport holds test doubles shared by package and command tests:
// a scripted decoder, a recording sink, and small filesystem helpers.
package testsupport
