// Package runtimepath locates the daemon's per-user IPC socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SocketEnv overrides the IPC socket location when set.
const SocketEnv = "DESKGRID_SOCKET"

const socketName = "deskgrid.sock"

// Dir returns $XDG_RUNTIME_DIR, then /run/user/<uid> when it exists, then a
// private deskgrid-runtime-<uid> directory under the system temp dir.
func Dir() (string, error) {
	if d := os.Getenv("XDG_RUNTIME_DIR"); d != "" {
		return d, nil
	}

	uid := os.Getuid()
	if d := filepath.Join("/run/user", strconv.Itoa(uid)); isDir(d) {
		return d, nil
	}

	fallback := filepath.Join(os.TempDir(), fmt.Sprintf("deskgrid-runtime-%d", uid))
	if err := os.MkdirAll(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	// MkdirAll keeps whatever mode a pre-existing directory has.
	info, err := os.Stat(fallback)
	if err != nil {
		return "", fmt.Errorf("failed to stat runtime dir: %w", err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return "", fmt.Errorf("runtime dir %s is accessible by other users (mode %v)", fallback, info.Mode().Perm())
	}
	return fallback, nil
}

// SocketPath returns $DESKGRID_SOCKET or deskgrid.sock inside Dir.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
