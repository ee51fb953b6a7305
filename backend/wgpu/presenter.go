package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/daub"
	"github.com/gogpu/gpucontext"
)

// Presenter errors.
var (
	// ErrNilDrawer is returned when constructing a presenter without a
	// texture drawer.
	ErrNilDrawer = errors.New("wgpu: nil texture drawer")

	// ErrNoCreator is returned when the draw context cannot create
	// textures.
	ErrNoCreator = errors.New("wgpu: draw context has no texture creator")

	// ErrInvalidTexture is returned when the created texture does not
	// implement gpucontext.Texture.
	ErrInvalidTexture = errors.New("wgpu: created texture is not drawable")
)

// textureDestroyer matches the Destroy signature of gogpu textures.
type textureDestroyer interface {
	Destroy()
}

// TexturePresenter implements daub.Presenter over a
// gpucontext.TextureDrawer. The GPU texture is created lazily on the
// first frame and updated in place afterwards. When the frame size
// changes, the old texture's destruction is deferred until the
// replacement upload has completed: in-flight GPU command buffers may
// still reference it, and freeing its descriptor heap entries early makes
// the GPU sample zeros.
type TexturePresenter struct {
	drawer gpucontext.TextureDrawer

	texture    any
	oldTexture any

	width  int
	height int

	logger *slog.Logger
}

// NewTexturePresenter creates a presenter that draws through dc.
func NewTexturePresenter(dc gpucontext.TextureDrawer) (*TexturePresenter, error) {
	if dc == nil {
		return nil, ErrNilDrawer
	}
	return &TexturePresenter{drawer: dc, logger: daub.Logger()}, nil
}

// Register creates a presenter over dc and registers it as daub's active
// presenter.
func Register(dc gpucontext.TextureDrawer) error {
	p, err := NewTexturePresenter(dc)
	if err != nil {
		return err
	}
	return daub.RegisterPresenter(p)
}

// Name returns the presenter name.
func (p *TexturePresenter) Name() string {
	return "wgpu"
}

// Init implements daub.Presenter. Resources are created lazily per
// frame, so there is nothing to do beyond validation.
func (p *TexturePresenter) Init() error {
	if p.drawer == nil {
		return ErrNilDrawer
	}
	return nil
}

// SetLogger accepts the logger daub propagates on registration.
func (p *TexturePresenter) SetLogger(l *slog.Logger) {
	if l != nil {
		p.logger = l
	}
}

// Present uploads one frame and draws it at the origin.
func (p *TexturePresenter) Present(frame daub.Frame) error {
	if frame.Width != p.width || frame.Height != p.height {
		if p.texture != nil {
			// Destroy any previously deferred texture first.
			p.destroyOld()
			p.oldTexture = p.texture
			p.texture = nil
		}
		p.width = frame.Width
		p.height = frame.Height
	}

	if p.texture == nil {
		creator := p.drawer.TextureCreator()
		if creator == nil {
			return ErrNoCreator
		}
		// NewTextureFromRGBA waits for the GPU internally, so once it
		// returns the deferred texture is safe to destroy.
		tex, err := creator.NewTextureFromRGBA(frame.Width, frame.Height, frame.Pixels)
		if err != nil {
			return fmt.Errorf("wgpu: create frame texture: %w", err)
		}
		p.texture = tex
		p.destroyOld()
	} else if updater, ok := p.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(frame.Pixels); err != nil {
			return fmt.Errorf("wgpu: update frame texture: %w", err)
		}
	}

	gpuTex, ok := p.texture.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return p.drawer.DrawTexture(gpuTex, 0, 0)
}

// Close releases the presenter's textures. Idempotent.
func (p *TexturePresenter) Close() {
	p.destroyOld()
	if p.texture != nil {
		if d, ok := p.texture.(textureDestroyer); ok {
			d.Destroy()
		}
		p.texture = nil
	}
	p.width = 0
	p.height = 0
}

func (p *TexturePresenter) destroyOld() {
	if p.oldTexture == nil {
		return
	}
	if d, ok := p.oldTexture.(textureDestroyer); ok {
		d.Destroy()
	}
	p.oldTexture = nil
}
