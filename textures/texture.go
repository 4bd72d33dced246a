package textures

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
)

// Texture is a handle to an image the render backend samples. Pixel data is
// RGBA8, row-major; GLID is zero until an Uploader has put it on the GPU.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte
	GLID   uint32
}

// TexNum returns the GL texture object name, zero if not uploaded.
func (t *Texture) TexNum() uint32 {
	if t == nil {
		return 0
	}
	return t.GLID
}

// ErrNoPixels is returned by Validate for textures without enough pixel
// data for their size.
var ErrNoPixels = errors.New("texture has no pixel data")

// Validate reports whether t can be uploaded as RGBA8.
func (t *Texture) Validate() error {
	if t == nil {
		return fmt.Errorf("nil texture: %w", ErrNoPixels)
	}
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height*4 {
		return fmt.Errorf("texture %q (%dx%d, %d bytes): %w", t.Name, t.Width, t.Height, len(t.Pixels), ErrNoPixels)
	}
	return nil
}

// Uploader moves pixel data to the GPU and fills in GLID.
type Uploader interface {
	UploadTexture(tex *Texture) error
	DeleteTexture(tex *Texture)
}

// Manager caches textures by name. Textures come from LoadFile, LoadDir,
// Register or the procedural constructors.
type Manager struct {
	textures map[string]*Texture
	mu       sync.RWMutex
	uploader Uploader
}

// NewManager creates a texture manager. uploader may be nil, in which case
// textures stay CPU-side with a zero GLID (headless use and tests).
func NewManager(uploader Uploader) *Manager {
	return &Manager{
		textures: make(map[string]*Texture),
		uploader: uploader,
	}
}

// Get returns the texture registered under name.
func (tm *Manager) Get(name string) (*Texture, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	tex, ok := tm.textures[name]
	return tex, ok
}

// GetOrDefault returns the named texture or the white default.
func (tm *Manager) GetOrDefault(name string) *Texture {
	if tex, ok := tm.Get(name); ok {
		return tex
	}
	return tm.White()
}

// Register stores tex under its name and uploads it if an uploader is set.
func (tm *Manager) Register(tex *Texture) (*Texture, error) {
	if tex == nil {
		return nil, fmt.Errorf("nil texture")
	}
	if tm.uploader != nil {
		if err := tm.uploader.UploadTexture(tex); err != nil {
			return nil, fmt.Errorf("upload texture %q: %w", tex.Name, err)
		}
	}

	tm.mu.Lock()
	tm.textures[tex.Name] = tex
	tm.mu.Unlock()
	return tex, nil
}

func (tm *Manager) solid(name string, r, g, b, a uint8) *Texture {
	if tex, ok := tm.Get(name); ok {
		return tex
	}
	tex, err := tm.Register(NewSolidTexture(name, r, g, b, a))
	if err != nil {
		slog.Error("creating built-in texture", "name", name, "err", err)
		return NewSolidTexture(name, r, g, b, a)
	}
	return tex
}

// White returns the 1x1 white texture.
func (tm *Manager) White() *Texture { return tm.solid("_white", 255, 255, 255, 255) }

// Black returns the 1x1 black texture.
func (tm *Manager) Black() *Texture { return tm.solid("_black", 0, 0, 0, 255) }

// FlatNormal returns the 1x1 tangent-space normal pointing straight out.
func (tm *Manager) FlatNormal() *Texture { return tm.solid("_flat", 128, 128, 255, 255) }

// DestroyAll releases every texture's GPU object and empties the cache.
func (tm *Manager) DestroyAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.uploader != nil {
		for _, tex := range tm.textures {
			tm.uploader.DeleteTexture(tex)
		}
	}
	tm.textures = make(map[string]*Texture)
}

// NewSolidTexture creates a 1x1 texture with the given RGBA colour.
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}

// NewCheckerTexture creates a checkerboard, used as the editor image of
// materials whose real image is unavailable.
func NewCheckerTexture(name string, size int, c1, c2 color.RGBA) *Texture {
	pixels := make([]byte, size*size*4)
	blockSize := size / 8
	if blockSize < 1 {
		blockSize = 1
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			idx := (y*size + x) * 4
			c := c2
			if ((x/blockSize)+(y/blockSize))%2 == 0 {
				c = c1
			}
			pixels[idx] = c.R
			pixels[idx+1] = c.G
			pixels[idx+2] = c.B
			pixels[idx+3] = c.A
		}
	}

	return &Texture{Name: name, Width: size, Height: size, Pixels: pixels}
}
