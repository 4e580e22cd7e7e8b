package runtimeinfo

import (
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	info := Detect("1.2.3")

	if info.Executable == "" {
		t.Error("Executable is empty")
	}
	if info.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
}

func TestDetect_DefaultVersion(t *testing.T) {
	if info := Detect(""); info.Version != "dev" {
		t.Errorf("Version = %q, want %q", info.Version, "dev")
	}
}

func TestDetect_ValueSemantics(t *testing.T) {
	a := Detect("x")
	b := a
	b.Version = "mutated"

	if a.Version != "x" {
		t.Error("Info is not a value type; mutation leaked")
	}
}
