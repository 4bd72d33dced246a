package render

import (
	"log/slog"

	"render-backend/core"
	"render-backend/materials"
)

// constructMaterial builds the passes of an ordinary material name.
func (s *Shader) constructMaterial() {
	mat := s.registry.materials.MaterialForName(s.name)
	if mat == nil {
		slog.Error("material provider returned no material", "name", s.name)
		state := s.appendDefaultPass()
		state.Colour = core.ColorMagenta
		state.Flags = RenderDepthWrite
		return
	}
	s.material = mat

	if s.registry.lightingEnabled() {
		s.constructLightingPasses()
	} else {
		s.constructEditorPreviewPass()
	}
}

func (s *Shader) constructLightingPasses() {
	layers := s.material.AllLayers()
	for _, layer := range layers {
		layer.EvaluateExpressions(0, nil)
	}

	for _, lp := range decomposeLayers(layers) {
		if lp.triplet != nil {
			s.appendInteractionLayer(lp.triplet, lp.needDepthFill)
		} else {
			s.appendBlendLayer(lp.blend)
		}
	}
}

func (s *Shader) builtInProgram(name string) GLProgram {
	prog, err := s.registry.programs.BuiltInProgram(name)
	if err != nil {
		slog.Error("built-in program unavailable", "program", name, "shader", s.name, "err", err)
		return nil
	}
	return prog
}

func (s *Shader) appendInteractionLayer(t *dbsTriplet, needDepthFill bool) {
	vcolMode := materials.VertexColourNone
	alphaTest := float32(-1)
	if t.diffuse != nil {
		vcolMode = t.diffuse.VertexColourMode()
		alphaTest = t.diffuse.AlphaTest()
	}

	// Alpha-tested surfaces cannot be depth-filled with a colourless pass.
	if needDepthFill && alphaTest <= 0 {
		zPass := s.appendDefaultPass()
		zPass.Flags = RenderMaskColour | RenderFill | RenderCullFace | RenderDepthTest | RenderDepthWrite | RenderProgram
		zPass.setSortPosition(SortZFill)
		zPass.Program = s.builtInProgram("depthFill")
	}

	dbs := s.appendDefaultPass()
	s.setTexturesFromTriplet(dbs, t)
	dbs.Flags = RenderBlend | RenderFill | RenderTexture2D | RenderCullFace |
		RenderDepthTest | RenderSmooth | RenderBump | RenderProgram
	dbs.Program = s.builtInProgram("bumpMap")

	if vcolMode != materials.VertexColourNone {
		dbs.SetFlag(RenderVertexColour)
		if vcolMode == materials.VertexColourInverseMultiply {
			dbs.ColourInverted = true
		}
	}
	applyAlphaTest(dbs, alphaTest)
	if t.diffuse != nil {
		dbs.Colour = t.diffuse.Colour()
	}

	dbs.DepthFunc = core.GLLEqual
	dbs.PolyOffset = 0.5
	dbs.setSortPosition(SortInteraction)
	dbs.Blend = core.BlendAdd
}

func (s *Shader) setTexturesFromTriplet(state *OpenGLState, t *dbsTriplet) {
	provider := s.registry.materials
	slot := func(unit int, layer materials.Layer, typ materials.LayerType) materials.Layer {
		if layer != nil && layer.Texture() != nil {
			state.SetTexture(unit, layer.Texture().TexNum())
			return layer
		}
		if tex := provider.DefaultInteractionTexture(typ); tex != nil {
			state.SetTexture(unit, tex.TexNum())
		}
		return layer
	}
	state.Stage0 = slot(0, t.diffuse, materials.LayerDiffuse)
	state.Stage1 = slot(1, t.bump, materials.LayerBump)
	state.Stage2 = slot(2, t.specular, materials.LayerSpecular)
}

func applyAlphaTest(state *OpenGLState, alphaTest float32) {
	if alphaTest > 0 {
		state.SetFlag(RenderAlphaTest)
		state.AlphaFunc = core.GLGEqual
		state.AlphaRef = alphaTest
	}
}

func (s *Shader) appendBlendLayer(layer materials.Layer) {
	state := s.appendDefaultPass()
	state.Flags = RenderFill | RenderBlend | RenderDepthTest
	state.Stage0 = layer
	if tex := layer.Texture(); tex != nil {
		state.SetTexture(0, tex.TexNum())
	}

	state.Blend = layer.BlendFunc()
	if state.Blend.UsesSrcAlpha() || state.Blend.IsReplace() {
		state.SetFlag(RenderDepthWrite)
	}

	state.CubeMapMode = layer.CubeMapMode()
	if state.CubeMapMode == materials.CubeMapCamera {
		state.SetFlag(RenderTextureCubeMap)
	} else {
		state.SetFlag(RenderTexture2D)
	}

	state.Colour = layer.Colour()
	if s.material.SortRequest() >= materials.SortDecal {
		state.setSortPosition(SortOverlayFirst)
	} else {
		state.setSortPosition(SortFullbright)
	}
	state.PolyOffset = s.material.PolygonOffset()

	if vp, fp := layer.VertexProgram(), layer.FragmentProgram(); vp != "" || fp != "" {
		prog, err := s.registry.programs.Program(vp, fp)
		if err != nil {
			slog.Error("failed to create GL program", "material", s.material.Name(), "err", err)
			return
		}
		state.Program = prog
		state.SetFlag(RenderProgram)
	}
}

func (s *Shader) constructEditorPreviewPass() {
	mat := s.material
	state := s.appendDefaultPass()

	if img := mat.EditorImage(); img != nil {
		state.SetTexture(0, img.TexNum())
	}
	state.Flags = RenderFill | RenderTexture2D | RenderDepthTest | RenderLighting | RenderSmooth
	if mat.Flags()&materials.FlagTranslucent == 0 {
		state.SetFlag(RenderDepthWrite)
	}
	if mat.CullType() != materials.CullNone {
		state.SetFlag(RenderCullFace)
	}

	sort := SortFullbright
	layers := mat.AllLayers()
	hasDiffuse := false
	for _, layer := range layers {
		if layer.Type() != materials.LayerDiffuse {
			continue
		}
		hasDiffuse = true
		if layer.AlphaTest() > 0 {
			applyAlphaTest(state, layer.AlphaTest())
			break
		}
	}
	// Blend-only materials preview through their first layer's blend mode.
	// Not-found stand-ins stay opaque whatever layers they carry.
	if !hasDiffuse && len(layers) > 0 && !isStandIn(mat) {
		state.SetFlag(RenderBlend)
		state.Blend = layers[0].BlendFunc()
		sort = SortTranslucent
	}

	state.Colour = core.ColorWhite
	if mat.SortRequest() >= materials.SortDecal {
		sort = SortOverlayFirst
	}
	state.setSortPosition(sort)
	state.PolyOffset = mat.PolygonOffset()
}

// defaultMaterialName is the name providers give the material that stands in
// for missing definitions.
const defaultMaterialName = "_default"

func isStandIn(mat materials.Material) bool {
	return mat.Name() == defaultMaterialName || mat.Flags()&materials.FlagNotFound != 0
}
