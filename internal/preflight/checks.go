package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"blip/internal/output"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the input source and the directory the output pattern writes
// into. Standard streams are not checked.
func RunAll(input, outputPattern string) []Result {
	return []Result{
		CheckInputReadable(input),
		CheckOutputDirectory(outputPattern),
	}
}

// CheckInputReadable verifies that the input path exists, is a regular file,
// and is readable by the current user.
func CheckInputReadable(path string) Result {
	const name = "Input"
	if output.IsStdin(path) {
		return Result{Name: name, Passed: true, Detail: "standard input"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckOutputDirectory verifies that the directory an output pattern resolves
// into exists and is writable. Any track's path shares this directory unless
// the placeholder appears in a directory component, in which case the first
// track's directory is checked.
func CheckOutputDirectory(pattern string) Result {
	const name = "Output directory"
	if output.IsStdout(pattern) {
		return Result{Name: name, Passed: true, Detail: "standard output"}
	}
	dir := filepath.Dir(output.Resolve(pattern, 0).Path)
	return CheckDirectoryAccess(name, dir)
}

// CheckDirectoryAccess verifies that the directory exists and is writable and searchable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (write ok)", path)}
}
