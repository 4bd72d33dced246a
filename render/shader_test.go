package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-backend/core"
	"render-backend/materials"
)

func TestFillLiteral(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	s := r.Capture("(1 0 0)")
	require.Len(t, s.Passes(), 1)
	st := s.Passes()[0].State()
	assert.Equal(t, RenderFill|RenderLighting|RenderDepthTest|RenderCullFace|RenderDepthWrite, st.Flags)
	assert.Equal(t, core.NewColor(1, 0, 0, 1), st.Colour)
	assert.Equal(t, SortFullbright, st.SortPosition())
	assert.Nil(t, s.Material())
	assert.True(t, s.IsRealised())
}

func TestTranslucentLiteral(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	st := r.Capture("[0 1 0]").Passes()[0].State()
	assert.Equal(t, core.NewColor(0, 1, 0, 0.5), st.Colour)
	assert.True(t, st.Flags.Has(RenderBlend|RenderFill|RenderDepthWrite))
	assert.Equal(t, SortTranslucent, st.SortPosition())
}

func TestWireframeLiteral(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	st := r.Capture("<0 0 1>").Passes()[0].State()
	assert.Equal(t, RenderDepthTest|RenderDepthWrite, st.Flags)
	assert.Equal(t, core.GLLess, st.DepthFunc)
	assert.Equal(t, float32(1), st.LineWidth)
	assert.Equal(t, float32(1), st.PointSize)
	assert.Equal(t, core.NewColor(0, 0, 1, 1), st.Colour)
}

func TestPivotHasHiddenLinePass(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	s := r.Capture("$PIVOT")
	require.Len(t, s.Passes(), 2)

	visible := s.Passes()[0].State()
	hidden := s.Passes()[1].State()
	assert.Equal(t, core.GLLEqual, visible.DepthFunc)
	assert.Equal(t, core.GLGreater, hidden.DepthFunc)
	assert.True(t, hidden.Flags.Has(RenderLineStipple))
	assert.False(t, visible.Flags.Has(RenderLineStipple))
	assert.Equal(t, float32(2), visible.LineWidth)
	assert.Equal(t, float32(2), hidden.LineWidth)
	assert.Equal(t, "$PIVOT_Hidden", hidden.Name())

	states := r.SortedStates()
	require.Len(t, states, 2)
	assert.Same(t, visible, states[0])
	assert.Same(t, hidden, states[1])
}

func TestCamOverlayHiddenLineDrawnFirst(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	s := r.Capture("$CAM_OVERLAY")
	require.Len(t, s.Passes(), 2)
	hidden := s.Passes()[1].State()
	assert.Equal(t, int32(2), hidden.LineStippleFac)
	assert.Equal(t, core.NewColor(0.75, 0.75, 0.75, 1), hidden.Colour)
	assert.Same(t, hidden, r.SortedStates()[0])
}

func TestBuiltinColoursComeFromScheme(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib, WithColourScheme(schemeMap{
		"selected_brush_camera": core.NewColor(0, 0.5, 1, 1),
		"clipper":               core.NewColor(0, 0, 1, 1),
	}))

	hl := r.Capture("$CAM_HIGHLIGHT").Passes()[0].State()
	assert.Equal(t, core.NewColor(0, 0.5, 1, 0.3), hl.Colour)
	assert.Equal(t, SortHighlight, hl.SortPosition())
	assert.Equal(t, float32(0.5), hl.PolyOffset)

	clip := r.Capture("$CLIPPER_OVERLAY").Passes()[0].State()
	assert.Equal(t, core.NewColor(0, 0, 1, 1), clip.Colour)
	assert.True(t, clip.Flags.Has(RenderPolygonStipple))
}

func TestBuiltinTableIsComplete(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	for _, name := range BuiltinNames() {
		s := r.Capture(name)
		assert.NotEmpty(t, s.Passes(), name)
		assert.NotEqual(t, core.ColorMagenta, s.Passes()[0].State().Colour, name)
	}
	assertSorted(t, r)
}

func TestUnknownBuiltinFallsBack(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)

	s := r.Capture("$NO_SUCH_THING")
	require.Len(t, s.Passes(), 1)
	st := s.Passes()[0].State()
	assert.Equal(t, core.ColorMagenta, st.Colour)
	assert.Equal(t, SortFirst, st.SortPosition())
	assert.Equal(t, RenderDepthWrite, st.Flags)
}

func TestEditorPreviewPass(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(materials.NewDefinition("wall",
		materials.WithEditorImage(tex(9)),
		materials.WithLayers(materials.NewShaderLayer(materials.LayerDiffuse, tex(1))),
	))
	r := NewRegistry(lib)

	s := r.Capture("wall")
	require.Len(t, s.Passes(), 1)
	st := s.Passes()[0].State()
	assert.Equal(t, RenderFill|RenderTexture2D|RenderDepthTest|RenderLighting|RenderSmooth|RenderDepthWrite|RenderCullFace, st.Flags)
	assert.Equal(t, uint32(9), st.Textures[0])
	assert.Equal(t, core.ColorWhite, st.Colour)
	assert.Equal(t, SortFullbright, st.SortPosition())
	assert.NotNil(t, s.Material())
}

func TestEditorPreviewVariants(t *testing.T) {
	tests := []struct {
		name    string
		def     *materials.Definition
		sort    SortPosition
		with    RenderStateFlags
		without RenderStateFlags
		check   func(t *testing.T, st *OpenGLState)
	}{
		{
			name: "translucent two sided",
			def: materials.NewDefinition("glass",
				materials.WithFlags(materials.FlagTranslucent),
				materials.WithCull(materials.CullNone),
				materials.WithLayers(materials.NewShaderLayer(materials.LayerDiffuse, tex(1)))),
			sort:    SortFullbright,
			without: RenderDepthWrite | RenderCullFace,
		},
		{
			name: "alpha tested",
			def: materials.NewDefinition("grate",
				materials.WithLayers(materials.NewShaderLayer(materials.LayerDiffuse, tex(1),
					materials.WithAlphaTest(materials.Constant(0.3))))),
			sort: SortFullbright,
			with: RenderAlphaTest,
			check: func(t *testing.T, st *OpenGLState) {
				assert.Equal(t, core.GLGEqual, st.AlphaFunc)
				assert.Equal(t, float32(0.3), st.AlphaRef)
			},
		},
		{
			name: "blend only",
			def: materials.NewDefinition("glow",
				materials.WithLayers(materials.NewShaderLayer(materials.LayerBlend, tex(1),
					materials.WithBlend(core.BlendAdd)))),
			sort: SortTranslucent,
			with: RenderBlend,
			check: func(t *testing.T, st *OpenGLState) {
				assert.Equal(t, core.BlendAdd, st.Blend)
			},
		},
		{
			name: "default stand-in",
			def: materials.NewDefinition("_default",
				materials.WithLayers(materials.NewShaderLayer(materials.LayerBlend, tex(1),
					materials.WithBlend(core.BlendAdd)))),
			sort:    SortFullbright,
			without: RenderBlend,
		},
		{
			name: "not found stand-in",
			def: materials.NewDefinition("textures/lost",
				materials.WithFlags(materials.FlagNotFound),
				materials.WithLayers(materials.NewShaderLayer(materials.LayerBlend, tex(1)))),
			sort:    SortFullbright,
			without: RenderBlend,
		},
		{
			name: "decal",
			def: materials.NewDefinition("decal",
				materials.WithSortRequest(materials.SortDecal),
				materials.WithPolygonOffset(1),
				materials.WithLayers(materials.NewShaderLayer(materials.LayerDiffuse, tex(1)))),
			sort: SortOverlayFirst,
			check: func(t *testing.T, st *OpenGLState) {
				assert.Equal(t, float32(1), st.PolyOffset)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, _ := newTestLibrary()
			lib.Add(tt.def)
			r := NewRegistry(lib)

			st := r.Capture(tt.def.Name()).Passes()[0].State()
			assert.Equal(t, tt.sort, st.SortPosition())
			assert.Equal(t, tt.with, st.Flags&tt.with)
			assert.Zero(t, st.Flags&tt.without)
			if tt.check != nil {
				tt.check(t, st)
			}
		})
	}
}

func newLightingRegistry(t *testing.T, lib *materials.Library, opts ...RegistryOption) (*Registry, *fakeFactory) {
	t.Helper()
	ff := newFakeFactory()
	r := NewRegistry(lib, append([]RegistryOption{WithPrograms(ff)}, opts...)...)
	require.NoError(t, r.SetShaderProgram(ShaderProgramInteraction))
	return r, ff
}

func dbsMaterial(name string) *materials.Definition {
	return materials.NewDefinition(name, materials.WithLayers(
		materials.NewShaderLayer(materials.LayerDiffuse, tex(1)),
		materials.NewShaderLayer(materials.LayerBump, tex(2)),
		materials.NewShaderLayer(materials.LayerSpecular, tex(3)),
	))
}

func TestInteractionPasses(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(dbsMaterial("metal"))
	r, ff := newLightingRegistry(t, lib)

	s := r.Capture("metal")
	require.Len(t, s.Passes(), 2)

	z := s.Passes()[0].State()
	assert.Equal(t, RenderMaskColour|RenderFill|RenderCullFace|RenderDepthTest|RenderDepthWrite|RenderProgram, z.Flags)
	assert.Equal(t, SortZFill, z.SortPosition())
	assert.Same(t, ff.programs["depthFill"], z.Program)

	dbs := s.Passes()[1].State()
	assert.Equal(t, RenderBlend|RenderFill|RenderTexture2D|RenderCullFace|RenderDepthTest|RenderSmooth|RenderBump|RenderProgram, dbs.Flags)
	assert.Equal(t, SortInteraction, dbs.SortPosition())
	assert.Equal(t, core.GLLEqual, dbs.DepthFunc)
	assert.Equal(t, float32(0.5), dbs.PolyOffset)
	assert.Equal(t, core.BlendAdd, dbs.Blend)
	assert.Equal(t, [MaxTextureUnits]uint32{1, 2, 3}, dbs.Textures)
	assert.Same(t, ff.programs["bumpMap"], dbs.Program)
	layers := s.Material().AllLayers()
	assert.Equal(t, layers[0], dbs.Stage0)
	assert.Equal(t, layers[1], dbs.Stage1)
	assert.Equal(t, layers[2], dbs.Stage2)
}

func TestInteractionDefaultsMissingTextures(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(materials.NewDefinition("bumpy", materials.WithLayers(
		materials.NewShaderLayer(materials.LayerBump, tex(2)),
	)))
	r, _ := newLightingRegistry(t, lib)

	s := r.Capture("bumpy")
	require.Len(t, s.Passes(), 2)
	dbs := s.Passes()[1].State()
	assert.Equal(t, lib.DefaultInteractionTexture(materials.LayerDiffuse).TexNum(), dbs.Textures[0])
	assert.Equal(t, uint32(2), dbs.Textures[1])
	assert.Equal(t, lib.DefaultInteractionTexture(materials.LayerSpecular).TexNum(), dbs.Textures[2])
	assert.NotZero(t, dbs.Textures[0])
	assert.Nil(t, dbs.Stage0)
	assert.Equal(t, core.ColorWhite, dbs.Colour)
}

func TestInteractionVertexColourAndAlphaTest(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(materials.NewDefinition("foliage", materials.WithLayers(
		materials.NewShaderLayer(materials.LayerDiffuse, tex(1),
			materials.WithVertexColour(materials.VertexColourInverseMultiply),
			materials.WithAlphaTest(materials.Constant(0.5))),
	)))
	r, _ := newLightingRegistry(t, lib)

	s := r.Capture("foliage")
	// alpha tested diffuse: no depth fill
	require.Len(t, s.Passes(), 1)
	dbs := s.Passes()[0].State()
	assert.True(t, dbs.Flags.Has(RenderVertexColour|RenderAlphaTest))
	assert.True(t, dbs.ColourInverted)
	assert.Equal(t, core.GLGEqual, dbs.AlphaFunc)
	assert.Equal(t, float32(0.5), dbs.AlphaRef)
}

func TestBlendLayerPass(t *testing.T) {
	tests := []struct {
		name       string
		opts       []materials.LayerOption
		defOpts    []materials.DefinitionOption
		depthWrite bool
		cube       bool
		sort       SortPosition
	}{
		{name: "alpha blend", depthWrite: true, sort: SortFullbright},
		{name: "additive", opts: []materials.LayerOption{materials.WithBlend(core.BlendAdd)}, sort: SortFullbright},
		{name: "replace", opts: []materials.LayerOption{materials.WithBlend(core.BlendReplace)}, depthWrite: true, sort: SortFullbright},
		{
			name:    "camera cube map decal",
			opts:    []materials.LayerOption{materials.WithBlend(core.BlendFilter), materials.WithCubeMap(materials.CubeMapCamera)},
			defOpts: []materials.DefinitionOption{materials.WithSortRequest(materials.SortDecal)},
			cube:    true,
			sort:    SortOverlayFirst,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, _ := newTestLibrary()
			layer := materials.NewShaderLayer(materials.LayerBlend, tex(5), tt.opts...)
			lib.Add(materials.NewDefinition("fx",
				append(tt.defOpts, materials.WithLayers(layer), materials.WithPolygonOffset(2))...))
			r, _ := newLightingRegistry(t, lib)

			s := r.Capture("fx")
			require.Len(t, s.Passes(), 1)
			st := s.Passes()[0].State()
			assert.True(t, st.Flags.Has(RenderFill|RenderBlend|RenderDepthTest))
			assert.Equal(t, tt.depthWrite, st.Flags.Has(RenderDepthWrite))
			assert.Equal(t, tt.cube, st.Flags.Has(RenderTextureCubeMap))
			assert.Equal(t, !tt.cube, st.Flags.Has(RenderTexture2D))
			assert.Equal(t, tt.sort, st.SortPosition())
			assert.Equal(t, uint32(5), st.Textures[0])
			assert.Equal(t, layer.BlendFunc(), st.Blend)
			assert.Equal(t, float32(2), st.PolyOffset)
			assert.Equal(t, materials.Layer(layer), st.Stage0)
		})
	}
}

func TestBlendLayerPrograms(t *testing.T) {
	layer := materials.NewShaderLayer(materials.LayerBlend, tex(5), materials.WithPrograms("heat.vp", "heat.fp"))

	t.Run("linked", func(t *testing.T) {
		lib, _ := newTestLibrary()
		lib.Add(materials.NewDefinition("heat", materials.WithLayers(layer)))
		r, ff := newLightingRegistry(t, lib)

		st := r.Capture("heat").Passes()[0].State()
		assert.True(t, st.Flags.Has(RenderProgram))
		assert.Same(t, ff.programs["heat.vp+heat.fp"], st.Program)
	})
	t.Run("link failure", func(t *testing.T) {
		lib, _ := newTestLibrary()
		lib.Add(materials.NewDefinition("heat", materials.WithLayers(layer)))
		ff := newFakeFactory()
		ff.failCustom = true
		r := NewRegistry(lib, WithPrograms(ff))
		require.NoError(t, r.SetShaderProgram(ShaderProgramInteraction))

		s := r.Capture("heat")
		require.Len(t, s.Passes(), 1)
		st := s.Passes()[0].State()
		assert.Nil(t, st.Program)
		assert.False(t, st.Flags.Has(RenderProgram))
	})
}

func TestLightFanOut(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(dbsMaterial("metal"))
	r, _ := newLightingRegistry(t, lib)
	s := r.Capture("metal")

	lights := LightList{&testLight{}, &testLight{}, &testLight{}}
	s.AddRenderable(RenderableFunc(func(RenderInfo) {}), mgl32.Ident4(), lights)
	assert.Equal(t, 1, s.Passes()[0].Pending(), "depth fill")
	assert.Equal(t, 3, s.Passes()[1].Pending(), "interaction")

	s.AddRenderable(RenderableFunc(func(RenderInfo) {}), mgl32.Ident4(), nil)
	assert.Equal(t, 2, s.Passes()[0].Pending())
	assert.Equal(t, 3, s.Passes()[1].Pending())
}

func TestInvisibleShaderIgnoresSubmissions(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)
	s := r.Capture("(1 1 1)")

	s.SetVisible(false)
	s.AddRenderable(RenderableFunc(func(RenderInfo) {}), mgl32.Ident4(), nil)
	assert.Zero(t, s.Passes()[0].Pending())
	assert.Empty(t, r.SortedStates())

	s.SetVisible(true)
	s.AddRenderable(RenderableFunc(func(RenderInfo) {}), mgl32.Ident4(), nil)
	assert.Equal(t, 1, s.Passes()[0].Pending())
	assert.Len(t, r.SortedStates(), 1)
}

func TestHiddenShaderStaysOutOfRegistryAcrossRealise(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)
	s := r.Capture("$PIVOT")
	s.SetVisible(false)

	r.Unrealise()
	r.Realise()
	assert.True(t, s.IsRealised())
	assert.Len(t, s.Passes(), 2)
	assert.Empty(t, r.SortedStates())
}

func TestVisibilityRoundTripRestoresOrder(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)
	r.Capture("(1 0 0)")
	pivot := r.Capture("$PIVOT")
	r.Capture("(0 1 0)")
	r.Capture("$WIRE_OVERLAY")

	before := r.SortedStates()
	pivot.SetVisible(false)
	assert.Len(t, r.SortedStates(), len(before)-2)
	assertSorted(t, r)

	pivot.SetVisible(true)
	after := r.SortedStates()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i])
	}
}

func TestUseCount(t *testing.T) {
	lib, _ := newTestLibrary()
	def := dbsMaterial("metal")
	lib.Add(def)
	r := NewRegistry(lib)
	s := r.Capture("metal")

	s.IncrementUsed()
	s.IncrementUsed()
	assert.True(t, def.IsInUse())
	s.DecrementUsed()
	assert.True(t, def.IsInUse())
	s.DecrementUsed()
	assert.False(t, def.IsInUse())

	s.DecrementUsed()
	assert.Zero(t, s.UseCount())
	s.IncrementUsed()
	assert.True(t, def.IsInUse())
}

func TestRealiseRestoresInUse(t *testing.T) {
	lib, _ := newTestLibrary()
	def := dbsMaterial("metal")
	lib.Add(def)
	r := NewRegistry(lib)
	s := r.Capture("metal")

	r.Unrealise()
	s.IncrementUsed()
	assert.False(t, def.IsInUse())
	r.Realise()
	assert.True(t, def.IsInUse())
}

func TestFilteredMaterialIsMarkedInvisible(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(dbsMaterial("caulk"))
	lib.Add(dbsMaterial("metal"))
	r := NewRegistry(lib, WithFilters(hideFilter{"caulk": true}))

	assert.False(t, r.Capture("caulk").Material().IsVisible())
	assert.True(t, r.Capture("metal").Material().IsVisible())
}

func TestObservers(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)
	s := r.Capture("(1 1 1)")

	var o recordingObserver
	sub := s.Attach(&o)
	assert.Equal(t, []string{"realised"}, o.events)

	r.Unrealise()
	r.Realise()
	sub.Close()
	sub.Close()
	r.Unrealise()

	assert.Equal(t, []string{"realised", "unrealised", "realised", "unrealised"}, o.events)
}

func TestObserverAttachedWhileUnrealised(t *testing.T) {
	lib, _ := newTestLibrary()
	r := NewRegistry(lib)
	s := r.Capture("(1 1 1)")
	r.Unrealise()

	var o recordingObserver
	sub := s.Attach(&o)
	assert.Empty(t, o.events)
	sub.Close()
	assert.Empty(t, o.events)
}

func TestSortedAfterManyToggles(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(dbsMaterial("metal"))
	lib.Add(materials.NewDefinition("glow", materials.WithLayers(
		materials.NewShaderLayer(materials.LayerBlend, tex(4), materials.WithBlend(core.BlendAdd)))))
	r, _ := newLightingRegistry(t, lib)

	shaders := []*Shader{
		r.Capture("metal"), r.Capture("glow"), r.Capture("$PIVOT"),
		r.Capture("[1 0 0]"), r.Capture("$POINT"), r.Capture("$CAM_OVERLAY"),
	}
	for i := 0; i < 20; i++ {
		s := shaders[(i*7)%len(shaders)]
		s.SetVisible(!s.IsVisible())
		assertSorted(t, r)
	}
}

func assertSorted(t *testing.T, r *Registry) {
	t.Helper()
	states := r.SortedStates()
	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1], states[i]
		if prev.SortPosition() == cur.SortPosition() {
			assert.Less(t, prev.ID(), cur.ID())
			continue
		}
		assert.Less(t, prev.SortPosition(), cur.SortPosition())
	}
}

func TestBlendBeforeDiffuseKeepsDepthFill(t *testing.T) {
	lib, _ := newTestLibrary()
	lib.Add(materials.NewDefinition("decal_then_diffuse", materials.WithLayers(
		materials.NewShaderLayer(materials.LayerBlend, tex(4)),
		materials.NewShaderLayer(materials.LayerDiffuse, tex(1)),
	)))
	r, _ := newLightingRegistry(t, lib)

	s := r.Capture("decal_then_diffuse")
	assert.Equal(t, []SortPosition{SortFullbright, SortZFill, SortInteraction}, passSorts(s))
}
