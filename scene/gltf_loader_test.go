package scene

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-backend/core"
	"render-backend/materials"
	"render-backend/textures"
)

func writeTriangleGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "paint",
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "triangle", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTF(t *testing.T) {
	tm := textures.NewManager(nil)
	lib := materials.NewLibrary(tm)

	res, err := LoadGLTF(writeTriangleGLB(t), tm, lib)
	require.NoError(t, err)
	assert.Equal(t, []string{"models/tri/paint"}, res.Materials)
	require.Len(t, res.Roots, 1)

	n := res.Roots[0]
	assert.Equal(t, "triangle", n.Name)
	assert.Equal(t, "models/tri/paint", n.Shader)
	require.NotNil(t, n.Mesh)
	assert.Len(t, n.Mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, n.Mesh.Indices)
	assert.InDelta(t, 1, n.Mesh.Vertices[0].Tangent.Len(), 1e-4)

	def, err := lib.Lookup("models/tri/paint")
	require.NoError(t, err)
	assert.Equal(t, materials.CullNone, def.CullType())
	require.Len(t, def.AllLayers(), 1)
	layer := def.AllLayers()[0]
	assert.Equal(t, materials.LayerDiffuse, layer.Type())
	assert.Equal(t, core.ColorRed, layer.Colour())

	// model materials outlive a definition file reload
	lib.Replace(nil)
	assert.True(t, lib.Has("models/tri/paint"))
}

func TestLoadGLTFMissingFile(t *testing.T) {
	tm := textures.NewManager(nil)
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "none.glb"), tm, materials.NewLibrary(tm))
	assert.Error(t, err)
}
