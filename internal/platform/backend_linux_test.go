//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/x11"
)

func TestBelongsOn(t *testing.T) {
	left := Display{ID: 0, Bounds: geom.XYWH(0, 0, 1920, 1080)}
	normal := x11.Client{Normal: true, Desktop: 1, Bounds: geom.XYWH(100, 100, 800, 600)}

	tests := []struct {
		name    string
		mutate  func(*x11.Client)
		desktop int
		want    bool
	}{
		{"normal on current desktop", func(*x11.Client) {}, 1, true},
		{"other desktop", func(c *x11.Client) { c.Desktop = 2 }, 1, false},
		{"sticky", func(c *x11.Client) { c.Desktop = -1 }, 1, true},
		{"desktop unknown", func(c *x11.Client) { c.Desktop = 2 }, -1, true},
		{"dock or splash", func(c *x11.Client) { c.Normal = false }, 1, false},
		{"fullscreen", func(c *x11.Client) { c.Fullscreen = true }, 1, false},
		{"minimized is kept", func(c *x11.Client) { c.Hidden = true }, 1, true},
		{"center on next monitor", func(c *x11.Client) { c.Bounds = geom.XYWH(1500, 0, 900, 500) }, 1, false},
		{"overhanging but centered here", func(c *x11.Client) { c.Bounds = geom.XYWH(1400, 0, 900, 500) }, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := normal
			tt.mutate(&cl)
			if got := belongsOn(cl, left, tt.desktop); got != tt.want {
				t.Fatalf("belongsOn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayFromMonitor(t *testing.T) {
	m := x11.Monitor{
		ID:     2,
		Name:   "DP-2",
		Bounds: geom.XYWH(1920, 0, 2560, 1440),
		Usable: geom.XYWH(1920, 32, 2560, 1408),
	}
	d := displayFromMonitor(m)
	if d.ID != 2 || d.Name != "DP-2" || d.Bounds != m.Bounds || d.Usable != m.Usable {
		t.Fatalf("unexpected display: %+v", d)
	}
}

func TestNilBackend(t *testing.T) {
	var b *LinuxBackend
	if b.XUtil() != nil || b.RootWindow() != 0 {
		t.Fatalf("nil backend should expose no X11 handles")
	}
	if _, err := b.Displays(); err == nil {
		t.Fatalf("expected error from nil backend")
	}
	if err := b.Activate(1); err == nil {
		t.Fatalf("expected error from nil backend")
	}
}
