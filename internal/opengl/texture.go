package opengl

import (
	"github.com/go-gl/gl/v2.1/gl"

	"render-backend/textures"
)

var _ textures.Uploader = (*Backend)(nil)

// UploadTexture is the textures.Uploader the Manager calls on Register. The
// GL object name it stores in GLID is what passes bind through
// OpenGLState.Textures. A texture that already has a GLID is re-specified in
// place, so passes realised against it stay valid across a reload.
//
// Unit 0's 2D binding is restored afterwards; the registry tracks bindings
// between passes and does not expect uploads to move them.
func (b *Backend) UploadTexture(tex *textures.Texture) error {
	if err := tex.Validate(); err != nil {
		return err
	}

	var previous int32
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &previous)

	id := tex.GLID
	if id == 0 {
		gl.GenTextures(1, &id)
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.GENERATE_MIPMAP, gl.TRUE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(tex.Pixels))

	gl.BindTexture(gl.TEXTURE_2D, uint32(previous))
	tex.GLID = id
	return nil
}

// DeleteTexture frees the GL object behind tex and zeroes its GLID. Passes
// still holding the old name sample nothing until they are realised again.
func (b *Backend) DeleteTexture(tex *textures.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}
