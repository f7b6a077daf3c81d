// Package hotkeys grabs the overview shortcuts on the X root window.
package hotkeys

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/deskgrid/internal/platform"
)

// ErrNoX11 is returned when the backend does not expose an X connection.
var ErrNoX11 = errors.New("hotkeys need an X11 backend")

// Overview is the set of overview operations bound to hotkeys.
type Overview interface {
	Toggle() error
	Restore() error
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Bindings maps overview actions to xgbutil key sequences such as
// "Mod4-grave". An empty Restore leaves that action unbound.
type Bindings struct {
	Toggle  string
	Restore string
}

// Handler owns the root-window key grabs.
type Handler struct {
	mu       sync.Mutex
	xu       *xgbutil.XUtil
	root     xproto.Window
	overview Overview
	active   Bindings
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler. Binding fails with ErrNoX11 when backend is
// not X11.
func NewHandler(backend platform.Backend, overview Overview) *Handler {
	h := &Handler{overview: overview}
	if accessor, ok := backend.(x11Accessor); ok {
		h.xu = accessor.XUtil()
		h.root = accessor.RootWindow()
	}
	if h.xu != nil {
		ignoreModsOnce.Do(func() {
			xevent.IgnoreMods = ignoreMasks(
				uint16(xproto.ModMaskLock),
				modMaskForKeysym(h.xu, "Num_Lock"),
				modMaskForKeysym(h.xu, "Scroll_Lock"),
			)
		})
	}
	return h
}

// Bind drops every grab on the root window and grabs b instead. It is called
// at startup and again after each config reload.
func (h *Handler) Bind(b Bindings) error {
	if h.xu == nil {
		return ErrNoX11
	}
	if b.Toggle == "" {
		return fmt.Errorf("toggle hotkey is empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	keybind.Detach(h.xu, h.root)
	h.active = Bindings{}

	if err := h.connect(b.Toggle, h.toggle); err != nil {
		return fmt.Errorf("failed to bind toggle hotkey %q: %w", b.Toggle, err)
	}
	h.active.Toggle = b.Toggle

	if b.Restore != "" {
		if err := h.connect(b.Restore, h.restore); err != nil {
			return fmt.Errorf("failed to bind restore hotkey %q: %w", b.Restore, err)
		}
		h.active.Restore = b.Restore
	}
	return nil
}

// Active returns the sequences currently grabbed.
func (h *Handler) Active() Bindings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Handler) connect(seq string, fn func()) error {
	return keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
		fn()
	}).Connect(h.xu, h.root, seq, true)
}

func (h *Handler) toggle() {
	log.Println("Overview hotkey triggered")
	if err := h.overview.Toggle(); err != nil {
		log.Printf("Overview toggle failed: %v", err)
	}
}

func (h *Handler) restore() {
	if err := h.overview.Restore(); err != nil {
		log.Printf("Restore failed: %v", err)
	}
}

// ignoreMasks returns every combination of the lock modifiers, so a grab
// fires regardless of CapsLock or NumLock. Zero and repeated masks are
// dropped; the result is sorted and always starts with 0.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	for _, m := range locks {
		if m != 0 && !slices.Contains(base, m) {
			base = append(base, m)
		}
	}

	seen := map[uint16]struct{}{0: {}}
	for subset := 1; subset < 1<<len(base); subset++ {
		var mask uint16
		for bit, m := range base {
			if subset&(1<<bit) != 0 {
				mask |= m
			}
		}
		seen[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
