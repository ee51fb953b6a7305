package daub

import (
	"fmt"
	"sync"
)

// Frame is one finished screen image offered to a presenter. Pixels are
// RGBA, 4 bytes per pixel, bottom row first, laid out with the given
// Stride. The slice is only valid for the duration of the Present call.
type Frame struct {
	Pixels        []uint8
	Width, Height int
	Stride        int // bytes per row
}

// Presenter displays finished frames on some output surface (typically a
// GPU swapchain). Presentation is fire-and-forget from the engine's
// perspective: the engine offers each frame after its passes complete and
// never waits on the presenter; a failed Present is logged and dropped,
// and the CPU textures remain the source of truth.
//
// Implementations are provided by backend packages (e.g. backend/wgpu).
type Presenter interface {
	// Name returns the presenter name (e.g. "wgpu").
	Name() string

	// Init initializes presenter resources. Called once during
	// registration.
	Init() error

	// Close releases presenter resources.
	Close()

	// Present displays one frame. The frame's pixel slice must not be
	// retained after Present returns.
	Present(frame Frame) error
}

var (
	presenterMu     sync.RWMutex
	activePresenter Presenter
)

// RegisterPresenter registers a presenter for frame display.
//
// Only one presenter can be registered; subsequent calls replace the
// previous one (closing it). The presenter's Init method is called during
// registration; if it fails, the presenter is not registered and the
// error is returned.
func RegisterPresenter(p Presenter) error {
	if p == nil {
		return fmt.Errorf("daub: nil presenter")
	}
	if err := p.Init(); err != nil {
		return fmt.Errorf("daub: presenter %q init: %w", p.Name(), err)
	}
	propagateLogger(p, Logger())

	presenterMu.Lock()
	old := activePresenter
	activePresenter = p
	presenterMu.Unlock()

	if old != nil {
		old.Close()
	}
	Logger().Info("presenter registered", "name", p.Name())
	return nil
}

// UnregisterPresenter removes and closes the active presenter, if any.
func UnregisterPresenter() {
	presenterMu.Lock()
	old := activePresenter
	activePresenter = nil
	presenterMu.Unlock()

	if old != nil {
		old.Close()
	}
}

// presenter returns the active presenter, or nil.
func presenter() Presenter {
	presenterMu.RLock()
	defer presenterMu.RUnlock()
	return activePresenter
}
