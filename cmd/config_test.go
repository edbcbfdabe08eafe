package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadProfileDefaults(t *testing.T) {
	dir := t.TempDir()

	profile, err := LoadProfile(filepath.Join(dir, "prog.tsp"))
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}

	want := &BuildProfile{OutputMode: OutModeExecutable, LLC: "llc", CC: defaultCC()}
	if diff := cmp.Diff(want, profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProfileFromFile(t *testing.T) {
	dir := t.TempDir()

	config := `
output = "calc"
emit = "asm"
verbose = true

[tools]
llc = "llc-14"
cc = "gcc"
`
	if err := os.WriteFile(filepath.Join(dir, "tisp.toml"), []byte(config), 0666); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadProfile(filepath.Join(dir, "prog.tsp"))
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}

	want := &BuildProfile{
		OutputPath: "calc",
		OutputMode: OutModeASM,
		Verbose:    true,
		LLC:        "llc-14",
		CC:         "gcc",
	}
	if diff := cmp.Diff(want, profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProfileUnknownEmitMode(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "tisp.toml"), []byte(`emit = "wasm"`), 0666); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProfile(filepath.Join(dir, "prog.tsp")); err == nil {
		t.Error("LoadProfile() succeeded on an unknown emit mode, want error")
	}
}
