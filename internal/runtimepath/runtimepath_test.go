package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_PrefersXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

// skipIfRunUser skips tests of the temp-dir fallback on hosts with a
// logind runtime directory, which always wins.
func skipIfRunUser(t *testing.T) {
	t.Helper()
	if isDir(fmt.Sprintf("/run/user/%d", os.Getuid())) {
		t.Skip("/run/user/<uid> exists on this host")
	}
}

func TestDir_TempFallbackIsPrivate(t *testing.T) {
	skipIfRunUser(t)
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("TMPDIR", tmp)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join(tmp, fmt.Sprintf("deskgrid-runtime-%d", os.Getuid())); got != want {
		t.Fatalf("Dir() = %q, want %q", got, want)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Fatalf("runtime dir mode = %v, want 0700", perm)
	}
}

func TestDir_RejectsSharedFallback(t *testing.T) {
	skipIfRunUser(t)
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("TMPDIR", tmp)

	shared := filepath.Join(tmp, fmt.Sprintf("deskgrid-runtime-%d", os.Getuid()))
	if err := os.Mkdir(shared, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chmod(shared, 0o777); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	_, err := Dir()
	if err == nil || !strings.Contains(err.Error(), "accessible by other users") {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(SocketEnv, "")

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if want := filepath.Join(td, "deskgrid.sock"); socket != want {
		t.Fatalf("SocketPath() = %q, want %q", socket, want)
	}
}

func TestSocketPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.sock")
	t.Setenv(SocketEnv, want)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if socket != want {
		t.Fatalf("SocketPath() = %q, want %q", socket, want)
	}
}
