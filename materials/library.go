package materials

import (
	"fmt"
	"image/color"
	"log/slog"
	"sort"

	"render-backend/textures"
)

// Library is a Provider over a fixed set of definitions.
type Library struct {
	defs     map[string]*Definition
	missing  map[string]*Definition
	external map[string]*Definition
	textures *textures.Manager
}

func NewLibrary(tm *textures.Manager) *Library {
	return &Library{
		defs:     make(map[string]*Definition),
		missing:  make(map[string]*Definition),
		external: make(map[string]*Definition),
		textures: tm,
	}
}

// Add registers def, replacing any definition of the same name.
func (l *Library) Add(def *Definition) {
	l.defs[def.Name()] = def
	delete(l.missing, def.Name())
}

// AddExternal registers a definition that did not come from a definition
// file, such as one imported with a model. External definitions survive
// Replace unless the new set defines the same name.
func (l *Library) AddExternal(def *Definition) {
	l.external[def.Name()] = def
	l.Add(def)
}

// Replace swaps the whole definition set, as after a reload. In-use flags of
// surviving names carry over to the new definitions.
func (l *Library) Replace(defs []*Definition) {
	old := l.defs
	l.defs = make(map[string]*Definition, len(defs)+len(l.external))
	l.missing = make(map[string]*Definition)
	for _, def := range defs {
		if prev, ok := old[def.Name()]; ok {
			def.SetInUse(prev.IsInUse())
		}
		l.defs[def.Name()] = def
	}
	for name, def := range l.external {
		if _, ok := l.defs[name]; !ok {
			l.defs[name] = def
		}
	}
}

func (l *Library) Has(name string) bool {
	_, ok := l.defs[name]
	return ok
}

// Lookup returns the named definition or ErrNoSuchMaterial.
func (l *Library) Lookup(name string) (*Definition, error) {
	def, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("material %q: %w", name, ErrNoSuchMaterial)
	}
	return def, nil
}

// Names returns all defined material names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) MaterialForName(name string) Material {
	if def, ok := l.defs[name]; ok {
		return def
	}
	if def, ok := l.missing[name]; ok {
		return def
	}

	slog.Warn("material not found, using fallback", "name", name)
	def := l.notFound(name)
	l.missing[name] = def
	return def
}

// notFound builds the stand-in for an unknown name: a single diffuse layer
// showing the "shader not found" checkerboard.
func (l *Library) notFound(name string) *Definition {
	tex, ok := l.textures.Get("_notfound")
	if !ok {
		var err error
		tex, err = l.textures.Register(textures.NewCheckerTexture("_notfound", 64,
			color.RGBA{R: 255, A: 255}, color.RGBA{A: 255}))
		if err != nil {
			slog.Error("registering fallback texture", "err", err)
		}
	}
	return NewDefinition(name,
		WithFlags(FlagNotFound),
		WithEditorImage(tex),
		WithLayers(NewShaderLayer(LayerDiffuse, tex)),
	)
}

func (l *Library) DefaultInteractionTexture(t LayerType) *textures.Texture {
	switch t {
	case LayerBump:
		return l.textures.FlatNormal()
	case LayerDiffuse, LayerSpecular:
		return l.textures.Black()
	}
	return l.textures.White()
}
