package render

import (
	"log/slog"

	"render-backend/core"
)

// builtinPass describes one pass of a "$NAME" shader. Zero fields keep the
// NewOpenGLState default.
type builtinPass struct {
	flags         RenderStateFlags
	sort          SortPosition
	colour        *core.Color
	schemeColour  string
	schemeAlpha   float32
	depthFunc     uint32
	blend         *core.BlendFunc
	lineWidth     float32
	pointSize     float32
	stippleFactor int32
	polyOffset    float32
}

type builtinShader struct {
	pass   builtinPass
	hidden *builtinPass
}

func colourPtr(r, g, b, a float32) *core.Color {
	c := core.NewColor(r, g, b, a)
	return &c
}

func blendPtr(b core.BlendFunc) *core.BlendFunc { return &b }

const pointFlags = RenderPointColour | RenderDepthWrite

// builtinShaders are the editor's fixed-function shaders: points, pivots,
// selection overlays and the like.
var builtinShaders = map[string]builtinShader{
	"$POINT":    {pass: builtinPass{flags: pointFlags, sort: SortPointFirst, pointSize: 4}},
	"$SELPOINT": {pass: builtinPass{flags: pointFlags, sort: SortPointLast, pointSize: 4}},
	"$BIGPOINT": {pass: builtinPass{flags: pointFlags, sort: SortPointFirst, pointSize: 6}},
	"$PIVOT": {
		pass: builtinPass{
			flags:     RenderDepthTest | RenderDepthWrite,
			sort:      SortGUI0,
			lineWidth: 2,
			depthFunc: core.GLLEqual,
		},
		hidden: &builtinPass{
			flags:     RenderDepthTest | RenderLineStipple,
			sort:      SortGUI0,
			lineWidth: 2,
			depthFunc: core.GLGreater,
		},
	},
	"$LATTICE": {pass: builtinPass{
		flags:  RenderDepthWrite,
		sort:   SortPointFirst,
		colour: colourPtr(1, 0.5, 0, 1),
	}},
	"$WIREFRAME": {pass: builtinPass{flags: RenderDepthTest | RenderDepthWrite, sort: SortFullbright}},
	"$CAM_HIGHLIGHT": {pass: builtinPass{
		flags:        RenderFill | RenderDepthTest | RenderCullFace | RenderBlend,
		sort:         SortHighlight,
		schemeColour: "selected_brush_camera",
		schemeAlpha:  0.3,
		polyOffset:   0.5,
		depthFunc:    core.GLLEqual,
	}},
	"$CAM_OVERLAY": {
		pass: builtinPass{flags: RenderOffsetLine | RenderDepthTest, sort: SortOverlayLast},
		hidden: &builtinPass{
			flags:         RenderCullFace | RenderDepthTest | RenderOffsetLine | RenderLineStipple,
			sort:          SortOverlayFirst,
			colour:        colourPtr(0.75, 0.75, 0.75, 1),
			depthFunc:     core.GLGreater,
			stippleFactor: 2,
		},
	},
	"$XY_OVERLAY": {pass: builtinPass{
		flags:         RenderLineStipple,
		sort:          SortOverlayFirst,
		schemeColour:  "selected_brush",
		schemeAlpha:   1,
		lineWidth:     2,
		stippleFactor: 3,
	}},
	"$XY_OVERLAY_GROUP": {pass: builtinPass{
		flags:         RenderLineStipple,
		sort:          SortOverlayFirst,
		schemeColour:  "selected_group_items",
		schemeAlpha:   1,
		lineWidth:     2,
		stippleFactor: 3,
	}},
	"$DEBUG_CLIPPED": {pass: builtinPass{flags: RenderDepthWrite, sort: SortLast}},
	"$POINTFILE": {pass: builtinPass{
		flags:     RenderDepthTest | RenderDepthWrite,
		sort:      SortFullbright,
		colour:    colourPtr(1, 0, 0, 1),
		lineWidth: 4,
	}},
	"$WIRE_OVERLAY": {
		pass: builtinPass{
			flags:     RenderDepthWrite | RenderDepthTest | RenderOverride | RenderVertexColour,
			sort:      SortGUI1,
			depthFunc: core.GLLEqual,
		},
		hidden: &builtinPass{
			flags:     RenderDepthWrite | RenderDepthTest | RenderOverride | RenderLineStipple | RenderVertexColour,
			sort:      SortGUI0,
			depthFunc: core.GLGreater,
		},
	},
	"$FLATSHADE_OVERLAY": {
		pass: builtinPass{
			flags: RenderCullFace | RenderLighting | RenderSmooth | RenderScaled |
				RenderFill | RenderDepthWrite | RenderDepthTest | RenderOverride,
			sort:      SortGUI1,
			depthFunc: core.GLLEqual,
		},
		hidden: &builtinPass{
			flags: RenderCullFace | RenderLighting | RenderSmooth | RenderScaled |
				RenderFill | RenderDepthWrite | RenderDepthTest | RenderOverride | RenderPolygonStipple,
			sort:      SortGUI0,
			depthFunc: core.GLGreater,
		},
	},
	"$CLIPPER_OVERLAY": {pass: builtinPass{
		flags:        RenderCullFace | RenderDepthWrite | RenderFill | RenderPolygonStipple,
		sort:         SortOverlayFirst,
		schemeColour: "clipper",
		schemeAlpha:  1,
	}},
	"$AAS_AREA": {
		pass: builtinPass{
			flags:     RenderDepthWrite | RenderDepthTest | RenderOverride,
			sort:      SortOverlayLast,
			colour:    colourPtr(1, 1, 1, 1),
			depthFunc: core.GLLEqual,
		},
		hidden: &builtinPass{
			flags:     RenderDepthWrite | RenderDepthTest | RenderOverride | RenderLineStipple,
			sort:      SortOverlayLast,
			colour:    colourPtr(1, 1, 1, 1),
			depthFunc: core.GLGreater,
		},
	},
	"$LIGHT_SPHERE": {pass: builtinPass{
		flags:  RenderCullFace | RenderDepthTest | RenderBlend | RenderFill | RenderDepthWrite,
		sort:   SortTranslucent,
		colour: colourPtr(0.1425, 0.1425, 0.1425, 1),
		blend:  blendPtr(core.BlendAdd),
	}},
	"$Q3MAP2_LIGHT_SPHERE": {pass: builtinPass{
		flags:  RenderCullFace | RenderDepthTest | RenderBlend | RenderFill,
		sort:   SortTranslucent,
		colour: colourPtr(0.05, 0.05, 0.05, 1),
		blend:  blendPtr(core.BlendAdd),
	}},
}

// IsBuiltinName reports whether name is compiled without consulting the
// material provider.
func IsBuiltinName(name string) bool {
	if name == "" {
		return false
	}
	switch name[0] {
	case '(', '[', '<', '$':
		return true
	}
	return false
}

// BuiltinNames lists the "$NAME" shaders the compiler knows.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinShaders))
	for name := range builtinShaders {
		names = append(names, name)
	}
	return names
}

func (b *builtinPass) apply(state *OpenGLState, colours ColourScheme) {
	state.Flags = b.flags
	state.setSortPosition(b.sort)
	switch {
	case b.colour != nil:
		state.Colour = *b.colour
	case b.schemeColour != "":
		c := core.ColorWhite
		if colours != nil {
			c = colours.Colour(b.schemeColour)
		}
		state.Colour = c.WithAlpha(b.schemeAlpha)
	}
	if b.depthFunc != 0 {
		state.DepthFunc = b.depthFunc
	}
	if b.blend != nil {
		state.Blend = *b.blend
	}
	if b.lineWidth != 0 {
		state.LineWidth = b.lineWidth
	}
	if b.pointSize != 0 {
		state.PointSize = b.pointSize
	}
	if b.stippleFactor != 0 {
		state.LineStippleFac = b.stippleFactor
	}
	state.PolyOffset = b.polyOffset
}

// constructBuiltin builds the passes of a name that starts with one of
// '(', '[', '<' or '$'.
func (s *Shader) constructBuiltin() {
	name := s.name
	switch name[0] {
	case '(':
		state := s.appendDefaultPass()
		state.Colour = core.ParseColorLiteral(name, '(', ')')
		state.Flags = RenderFill | RenderLighting | RenderDepthTest | RenderCullFace | RenderDepthWrite
		state.setSortPosition(SortFullbright)

	case '[':
		state := s.appendDefaultPass()
		state.Colour = core.ParseColorLiteral(name, '[', ']').WithAlpha(0.5)
		state.Flags = RenderFill | RenderLighting | RenderDepthTest | RenderCullFace | RenderDepthWrite | RenderBlend
		state.setSortPosition(SortTranslucent)

	case '<':
		state := s.appendDefaultPass()
		state.Colour = core.ParseColorLiteral(name, '<', '>')
		state.Flags = RenderDepthTest | RenderDepthWrite
		state.setSortPosition(SortFullbright)
		state.DepthFunc = core.GLLess
		state.LineWidth = 1
		state.PointSize = 1

	case '$':
		def, ok := builtinShaders[name]
		if !ok {
			slog.Warn("unknown built-in shader", "name", name)
			state := s.appendDefaultPass()
			state.Colour = core.ColorMagenta
			state.Flags = RenderDepthWrite
			state.setSortPosition(SortFirst)
			return
		}
		def.pass.apply(s.appendDefaultPass(), s.registry.colours)
		if def.hidden != nil {
			hidden := s.appendPass(name + "_Hidden")
			def.hidden.apply(hidden, s.registry.colours)
		}
	}
}
