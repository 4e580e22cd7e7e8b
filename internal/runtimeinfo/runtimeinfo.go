// Package runtimeinfo resolves process-wide facts once at startup. The
// resulting Info is an immutable value passed explicitly to components
// that need it; nothing in this package holds mutable global state.
package runtimeinfo

import (
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/term"
)

// Info describes the running process. It is computed once by Detect and
// never modified afterward.
type Info struct {
	// Executable is the resolved path to the running binary, with
	// symlinks followed. Valid even when the process has no console.
	Executable string

	// Interactive is true when stdin and stdout are attached to a
	// terminal. A false value means the process runs console-less
	// (launched from a desktop environment or a pipe) and must not
	// prompt on stdio.
	Interactive bool

	// OS is the target operating system (runtime.GOOS).
	OS string

	// Version is the build version injected via ldflags, "dev" otherwise.
	Version string
}

// Detect resolves runtime information for this process. The version string
// is supplied by the caller from its build metadata.
func Detect(version string) Info {
	if version == "" {
		version = "dev"
	}
	return Info{
		Executable:  resolveExecutable(),
		Interactive: isInteractive(),
		OS:          runtime.GOOS,
		Version:     version,
	}
}

// resolveExecutable returns the path of the running binary with symlinks
// resolved, falling back to os.Args[0] if the OS cannot tell us.
func resolveExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		if len(os.Args) > 0 {
			return os.Args[0]
		}
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

// isInteractive reports whether stdio is attached to a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
