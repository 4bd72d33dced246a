package materials

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"render-backend/core"
	"render-backend/textures"
)

// File is the on-disk layout of a material definition file.
type File struct {
	Materials []MaterialSpec `yaml:"materials"`
}

type MaterialSpec struct {
	Name          string      `yaml:"name"`
	EditorImage   string      `yaml:"editorimage"`
	Translucent   bool        `yaml:"translucent"`
	Cull          string      `yaml:"cull"`
	Sort          string      `yaml:"sort"`
	PolygonOffset float32     `yaml:"polygonoffset"`
	Layers        []LayerSpec `yaml:"layers"`
}

type LayerSpec struct {
	Type         string    `yaml:"type"`
	Map          string    `yaml:"map"`
	Blend        []string  `yaml:"blend"`
	Colour       []float32 `yaml:"colour"`
	EntityColour bool      `yaml:"entitycolour"`
	Pulse        float32   `yaml:"pulse"`
	VertexColour string    `yaml:"vertexcolour"`
	AlphaTest    float32   `yaml:"alphatest"`
	CubeMap      string    `yaml:"cubemap"`
	Rotate       float32   `yaml:"rotate"`
	Program      []string  `yaml:"program"`
}

// LoadFile reads and decodes a YAML definition file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read materials %q: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode materials %q: %w", path, err)
	}
	return &f, nil
}

// Build turns the decoded specs into definitions, resolving map names
// through tm. Unknown map names resolve to the white texture.
func (f *File) Build(tm *textures.Manager) ([]*Definition, error) {
	defs := make([]*Definition, 0, len(f.Materials))
	for _, ms := range f.Materials {
		def, err := ms.build(tm)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", ms.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadLibrary reads path and replaces the library's definitions with it.
func (l *Library) LoadLibrary(path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	defs, err := f.Build(l.textures)
	if err != nil {
		return err
	}
	l.Replace(defs)
	return nil
}

func (ms MaterialSpec) build(tm *textures.Manager) (*Definition, error) {
	if ms.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	opts := []DefinitionOption{WithPolygonOffset(ms.PolygonOffset)}

	if ms.EditorImage != "" {
		opts = append(opts, WithEditorImage(tm.GetOrDefault(ms.EditorImage)))
	}
	if ms.Translucent {
		opts = append(opts, WithFlags(FlagTranslucent))
	}

	switch strings.ToLower(ms.Cull) {
	case "", "back":
	case "front":
		opts = append(opts, WithCull(CullFront))
	case "none", "twosided":
		opts = append(opts, WithCull(CullNone))
	default:
		return nil, fmt.Errorf("unknown cull type %q", ms.Cull)
	}

	sort, err := parseSort(ms.Sort)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithSortRequest(sort))

	for i, ls := range ms.Layers {
		layer, err := ls.build(tm)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		opts = append(opts, WithLayers(layer))
	}
	return NewDefinition(ms.Name, opts...), nil
}

var sortNames = map[string]float32{
	"subview":       SortSubview,
	"gui":           SortGUI,
	"bad":           SortBad,
	"opaque":        SortOpaque,
	"portalsky":     SortPortalSky,
	"decal":         SortDecal,
	"far":           SortFar,
	"medium":        SortMedium,
	"close":         SortClose,
	"almostnearest": SortAlmostNearest,
	"nearest":       SortNearest,
	"postprocess":   SortPostProcess,
}

func parseSort(s string) (float32, error) {
	if s == "" {
		return SortOpaque, nil
	}
	if v, ok := sortNames[strings.ToLower(s)]; ok {
		return v, nil
	}
	var v float32
	if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
		return 0, fmt.Errorf("bad sort value %q", s)
	}
	return v, nil
}

func (ls LayerSpec) build(tm *textures.Manager) (*ShaderLayer, error) {
	var t LayerType
	switch strings.ToLower(ls.Type) {
	case "diffuse", "diffusemap":
		t = LayerDiffuse
	case "bump", "bumpmap":
		t = LayerBump
	case "specular", "specularmap":
		t = LayerSpecular
	case "blend", "":
		t = LayerBlend
	default:
		return nil, fmt.Errorf("unknown layer type %q", ls.Type)
	}

	var opts []LayerOption

	switch len(ls.Blend) {
	case 0:
	case 1, 2:
		src, dst := ls.Blend[0], ""
		if len(ls.Blend) == 2 {
			dst = ls.Blend[1]
		}
		bf, ok := core.BlendFuncFromNames(strings.ToLower(src), strings.ToLower(dst))
		if !ok {
			return nil, fmt.Errorf("unknown blend %v", ls.Blend)
		}
		opts = append(opts, WithBlend(bf))
	default:
		return nil, fmt.Errorf("blend takes one or two names, got %d", len(ls.Blend))
	}

	colour := [4]Expression{Constant(1), Constant(1), Constant(1), Constant(1)}
	for i, v := range ls.Colour {
		if i < 4 {
			colour[i] = Constant(v)
		}
	}
	if ls.EntityColour {
		for i := range colour {
			colour[i] = Product{A: colour[i], B: EntityParm(i)}
		}
	}
	if ls.Pulse > 0 {
		for i := 0; i < 3; i++ {
			colour[i] = Product{A: colour[i], B: Pulse(ls.Pulse)}
		}
	}
	opts = append(opts, WithColour(colour[0], colour[1], colour[2], colour[3]))

	switch strings.ToLower(ls.VertexColour) {
	case "", "none":
	case "multiply", "vertexcolor":
		opts = append(opts, WithVertexColour(VertexColourMultiply))
	case "inverse", "inversevertexcolor":
		opts = append(opts, WithVertexColour(VertexColourInverseMultiply))
	default:
		return nil, fmt.Errorf("unknown vertex colour mode %q", ls.VertexColour)
	}

	if ls.AlphaTest > 0 {
		opts = append(opts, WithAlphaTest(Constant(ls.AlphaTest)))
	}

	switch strings.ToLower(ls.CubeMap) {
	case "", "none":
	case "camera":
		opts = append(opts, WithCubeMap(CubeMapCamera))
	case "object":
		opts = append(opts, WithCubeMap(CubeMapObject))
	default:
		return nil, fmt.Errorf("unknown cube map mode %q", ls.CubeMap)
	}

	if ls.Rotate != 0 {
		opts = append(opts, WithRotate(Time(ls.Rotate)))
	}

	switch len(ls.Program) {
	case 0:
	case 2:
		opts = append(opts, WithPrograms(ls.Program[0], ls.Program[1]))
	default:
		return nil, fmt.Errorf("program takes a vertex and a fragment name")
	}

	var tex *textures.Texture
	if ls.Map != "" {
		tex = tm.GetOrDefault(ls.Map)
	} else {
		tex = tm.White()
	}
	return NewShaderLayer(t, tex, opts...), nil
}
