package textures

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxSize is the largest edge a decoded texture keeps. Bigger images are
// scaled down preserving aspect ratio.
const MaxSize = 2048

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Decode reads a PNG, JPEG, BMP, TIFF or WebP image into an RGBA8 texture
// named name.
func Decode(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}
	bounds := img.Bounds()
	w, h := fitSize(bounds.Dx(), bounds.Dy(), MaxSize)
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		slog.Debug("scaling texture", "name", name, "from", bounds.Size(), "to", rgba.Bounds().Size())
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}
	return &Texture{
		Name:   name,
		Width:  w,
		Height: h,
		Pixels: rgba.Pix,
	}, nil
}

func fitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// DecodeBytes is Decode over an in-memory image.
func DecodeBytes(name string, data []byte) (*Texture, error) {
	return Decode(name, bytes.NewReader(data))
}

// LoadFile decodes the image at path and registers it under name.
func (tm *Manager) LoadFile(name, path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := Decode(name, f)
	if err != nil {
		return nil, err
	}
	return tm.Register(tex)
}

// LoadDir registers every decodable image under dir. Textures are named by
// their slash-separated path relative to dir without the extension, so
// "dir/walls/brick.png" becomes "walls/brick". Files whose header is not an
// image are skipped, undecodable images are logged and skipped. A missing dir
// is not an error.
func (tm *Manager) LoadDir(dir string) (int, error) {
	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !imageExts[ext] {
			return nil
		}
		kind, err := filetype.MatchFile(path)
		if err != nil || kind.MIME.Type != "image" {
			slog.Debug("not an image", "path", path, "type", kind.MIME.Value)
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		if _, err := tm.LoadFile(name, path); err != nil {
			slog.Warn("skipping texture", "path", path, "error", err)
			return nil
		}
		loaded++
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return loaded, fmt.Errorf("load textures from %q: %w", dir, err)
	}
	return loaded, nil
}
