package core

// GL enum values used by render state. They carry the same numeric values as
// the OpenGL headers so a backend can hand them to the driver untouched,
// without this package linking against a GL implementation.
const (
	GLNever    uint32 = 0x0200
	GLLess     uint32 = 0x0201
	GLEqual    uint32 = 0x0202
	GLLEqual   uint32 = 0x0203
	GLGreater  uint32 = 0x0204
	GLNotEqual uint32 = 0x0205
	GLGEqual   uint32 = 0x0206
	GLAlways   uint32 = 0x0207

	GLZero             uint32 = 0
	GLOne              uint32 = 1
	GLSrcColor         uint32 = 0x0300
	GLOneMinusSrcColor uint32 = 0x0301
	GLSrcAlpha         uint32 = 0x0302
	GLOneMinusSrcAlpha uint32 = 0x0303
	GLDstAlpha         uint32 = 0x0304
	GLOneMinusDstAlpha uint32 = 0x0305
	GLDstColor         uint32 = 0x0306
	GLOneMinusDstColor uint32 = 0x0307

	GLTexture2D      uint32 = 0x0DE1
	GLTextureCubeMap uint32 = 0x8513
)

// BlendFunc is a GL blend function: the factors applied to the source and
// destination colours before they are summed.
type BlendFunc struct {
	Src uint32
	Dst uint32
}

var (
	BlendReplace  = BlendFunc{Src: GLOne, Dst: GLZero}
	BlendAdd      = BlendFunc{Src: GLOne, Dst: GLOne}
	BlendFilter   = BlendFunc{Src: GLDstColor, Dst: GLZero}
	BlendAlpha    = BlendFunc{Src: GLSrcAlpha, Dst: GLOneMinusSrcAlpha}
	BlendModulate = BlendFunc{Src: GLDstColor, Dst: GLSrcColor}
)

// UsesSrcAlpha reports whether either side of the blend reads the source alpha.
func (b BlendFunc) UsesSrcAlpha() bool {
	return b.Src == GLSrcAlpha || b.Dst == GLSrcAlpha
}

// IsReplace reports whether this is the trivial one/zero blend.
func (b BlendFunc) IsReplace() bool {
	return b.Src == GLOne && b.Dst == GLZero
}

var blendFactorNames = map[string]uint32{
	"gl_zero":                GLZero,
	"gl_one":                 GLOne,
	"gl_src_color":           GLSrcColor,
	"gl_one_minus_src_color": GLOneMinusSrcColor,
	"gl_src_alpha":           GLSrcAlpha,
	"gl_one_minus_src_alpha": GLOneMinusSrcAlpha,
	"gl_dst_alpha":           GLDstAlpha,
	"gl_one_minus_dst_alpha": GLOneMinusDstAlpha,
	"gl_dst_color":           GLDstColor,
	"gl_one_minus_dst_color": GLOneMinusDstColor,
}

var blendShortcuts = map[string]BlendFunc{
	"add":      BlendAdd,
	"filter":   BlendFilter,
	"modulate": BlendFilter,
	"blend":    BlendAlpha,
	"none":     {Src: GLZero, Dst: GLOne},
}

// BlendFuncFromNames resolves a blend shortcut ("add", "blend"...) or a pair
// of gl_* factor names. The second return is false if a name is unknown.
func BlendFuncFromNames(src, dst string) (BlendFunc, bool) {
	if dst == "" {
		bf, ok := blendShortcuts[src]
		return bf, ok
	}
	s, ok1 := blendFactorNames[src]
	d, ok2 := blendFactorNames[dst]
	if !ok1 || !ok2 {
		return BlendFunc{}, false
	}
	return BlendFunc{Src: s, Dst: d}, true
}
