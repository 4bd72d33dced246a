package render

import "strings"

// RenderStateFlags is the capability bitmask shared by material passes, the
// global render mask and renderables (through RenderInfo).
type RenderStateFlags uint32

const (
	RenderDefault        RenderStateFlags = 0
	RenderLineStipple    RenderStateFlags = 1 << 0  // GL_LINE_STIPPLE
	RenderPolygonStipple RenderStateFlags = 1 << 2  // GL_POLYGON_STIPPLE
	RenderAlphaTest      RenderStateFlags = 1 << 4  // GL_ALPHA_TEST
	RenderDepthTest      RenderStateFlags = 1 << 5  // GL_DEPTH_TEST
	RenderDepthWrite     RenderStateFlags = 1 << 6  // glDepthMask(GL_TRUE)
	RenderMaskColour     RenderStateFlags = 1 << 7  // glColorMask all false
	RenderCullFace       RenderStateFlags = 1 << 8  // GL_CULL_FACE
	RenderScaled         RenderStateFlags = 1 << 9  // GL_NORMALIZE
	RenderSmooth         RenderStateFlags = 1 << 10 // glShadeModel(GL_SMOOTH)
	RenderLighting       RenderStateFlags = 1 << 11 // GL_LIGHTING
	RenderBlend          RenderStateFlags = 1 << 12 // GL_BLEND
	RenderOffsetLine     RenderStateFlags = 1 << 13 // GL_POLYGON_OFFSET_LINE
	RenderFill           RenderStateFlags = 1 << 14 // polygons filled, not wireframe

	// RenderVertexColour lets meshes submit per-vertex colours. No GL state.
	RenderVertexColour RenderStateFlags = 1 << 15
	// RenderPointColour lets point geometry submit per-point colours. No GL state.
	RenderPointColour RenderStateFlags = 1 << 16

	RenderTexture2D      RenderStateFlags = 1 << 17 // GL_TEXTURE_2D
	RenderTextureCubeMap RenderStateFlags = 1 << 18 // GL_TEXTURE_CUBE_MAP, camera space

	// RenderBump marks an interaction pass: renderables must be submitted
	// once per incident light, and should send tangent space attributes.
	RenderBump RenderStateFlags = 1 << 19
	// RenderProgram binds the state's GL program while drawing.
	RenderProgram  RenderStateFlags = 1 << 20
	RenderOverride RenderStateFlags = 1 << 21
)

// RenderAll is the global mask that lets every pass flag through.
const RenderAll RenderStateFlags = 1<<22 - 1

// glToggles are the flags with a direct on/off GL counterpart, in the order
// a backend is asked to change them.
var glToggles = []RenderStateFlags{
	RenderLineStipple,
	RenderPolygonStipple,
	RenderAlphaTest,
	RenderDepthTest,
	RenderDepthWrite,
	RenderMaskColour,
	RenderCullFace,
	RenderScaled,
	RenderSmooth,
	RenderLighting,
	RenderBlend,
	RenderOffsetLine,
	RenderFill,
	RenderTexture2D,
	RenderTextureCubeMap,
}

var flagNames = map[RenderStateFlags]string{
	RenderLineStipple:    "LINESTIPPLE",
	RenderPolygonStipple: "POLYGONSTIPPLE",
	RenderAlphaTest:      "ALPHATEST",
	RenderDepthTest:      "DEPTHTEST",
	RenderDepthWrite:     "DEPTHWRITE",
	RenderMaskColour:     "MASKCOLOUR",
	RenderCullFace:       "CULLFACE",
	RenderScaled:         "SCALED",
	RenderSmooth:         "SMOOTH",
	RenderLighting:       "LIGHTING",
	RenderBlend:          "BLEND",
	RenderOffsetLine:     "OFFSETLINE",
	RenderFill:           "FILL",
	RenderVertexColour:   "VERTEX_COLOUR",
	RenderPointColour:    "POINT_COLOUR",
	RenderTexture2D:      "TEXTURE_2D",
	RenderTextureCubeMap: "TEXTURE_CUBEMAP",
	RenderBump:           "BUMP",
	RenderProgram:        "PROGRAM",
	RenderOverride:       "OVERRIDE",
}

// Has reports whether every bit of flag is set.
func (f RenderStateFlags) Has(flag RenderStateFlags) bool {
	return f&flag == flag
}

func (f RenderStateFlags) String() string {
	if f == RenderDefault {
		return "DEFAULT"
	}
	var parts []string
	for bit := RenderStateFlags(1); bit <= RenderOverride; bit <<= 1 {
		if f&bit != 0 {
			if name, ok := flagNames[bit]; ok {
				parts = append(parts, name)
			}
		}
	}
	return strings.Join(parts, "|")
}
