package materials

import "render-backend/textures"

// Definition is the in-memory Material implementation.
type Definition struct {
	name          string
	layers        []Layer
	editorImage   *textures.Texture
	flags         Flags
	cull          CullType
	sortRequest   float32
	polygonOffset float32

	inUse   bool
	visible bool
}

type DefinitionOption func(*Definition)

func WithLayers(layers ...Layer) DefinitionOption {
	return func(d *Definition) { d.layers = append(d.layers, layers...) }
}

func WithEditorImage(tex *textures.Texture) DefinitionOption {
	return func(d *Definition) { d.editorImage = tex }
}

func WithFlags(flags Flags) DefinitionOption {
	return func(d *Definition) { d.flags |= flags }
}

func WithCull(cull CullType) DefinitionOption {
	return func(d *Definition) { d.cull = cull }
}

func WithSortRequest(sort float32) DefinitionOption {
	return func(d *Definition) { d.sortRequest = sort }
}

func WithPolygonOffset(offset float32) DefinitionOption {
	return func(d *Definition) { d.polygonOffset = offset }
}

func NewDefinition(name string, opts ...DefinitionOption) *Definition {
	d := &Definition{
		name:        name,
		sortRequest: SortOpaque,
		visible:     true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Definition) Name() string                   { return d.name }
func (d *Definition) AllLayers() []Layer             { return d.layers }
func (d *Definition) EditorImage() *textures.Texture { return d.editorImage }
func (d *Definition) Flags() Flags                   { return d.flags }
func (d *Definition) CullType() CullType             { return d.cull }
func (d *Definition) SortRequest() float32           { return d.sortRequest }
func (d *Definition) PolygonOffset() float32         { return d.polygonOffset }
func (d *Definition) SetInUse(inUse bool)            { d.inUse = inUse }
func (d *Definition) IsInUse() bool                  { return d.inUse }
func (d *Definition) SetVisible(visible bool)        { d.visible = visible }
func (d *Definition) IsVisible() bool                { return d.visible }
