package scene

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"render-backend/core"
	"render-backend/materials"
	"render-backend/textures"
)

// GLTFResult holds what LoadGLTF added.
type GLTFResult struct {
	Roots     []*Node  // top-level nodes; add each with Scene.AddNode
	Materials []string // material names registered with the library
}

// LoadGLTF reads a .glb or .gltf file. Images are registered with tm and
// each glTF material becomes a material definition in lib named
// "models/<file>/<material>", so primitives reference it through
// Node.Shader. Base colour maps become diffuse layers, normal maps bump
// layers.
func LoadGLTF(filename string, tm *textures.Manager, lib *materials.Library) (*GLTFResult, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", filename, err)
	}
	dir := filepath.Dir(filename)
	prefix := path.Join("models", strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	result := &GLTFResult{}

	texCache := make([]*textures.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		tex, err := loadGLTFImage(doc, *gt.Source, dir, prefix, tm)
		if err != nil {
			slog.Warn("skipping glTF image", "file", filename, "image", *gt.Source, "error", err)
			continue
		}
		texCache[i] = tex
	}
	texture := func(idx int) *textures.Texture {
		if idx >= 0 && idx < len(texCache) {
			return texCache[idx]
		}
		return nil
	}

	matNames := make([]string, len(doc.Materials))
	for i, gm := range doc.Materials {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		def := gltfMaterial(path.Join(prefix, name), gm, texture, tm)
		lib.AddExternal(def)
		matNames[i] = def.Name()
		result.Materials = append(result.Materials, def.Name())
	}

	meshPrims := make([][]*Node, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				slog.Warn("skipping glTF primitive", "file", filename, "mesh", mi, "primitive", pi, "error", err)
				continue
			}
			n := NewNode(m.Name)
			n.Mesh = m
			if prim.Material != nil && *prim.Material < len(matNames) {
				n.Shader = matNames[*prim.Material]
			}
			meshPrims[mi] = append(meshPrims[mi], n)
		}
	}

	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(name)

		t := gn.TranslationOrDefault()
		n.SetPosition(mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])})
		sc := gn.ScaleOrDefault()
		n.SetScale(mgl32.Vec3{float32(sc[0]), float32(sc[1]), float32(sc[2])})
		r := gn.RotationOrDefault() // x, y, z, w
		n.SetRotation(mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}})

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			if len(prims) == 1 {
				n.Mesh, n.Shader = prims[0].Mesh, prims[0].Shader
			} else {
				for _, p := range prims {
					// one child per primitive
					child := NewNode(p.Name)
					child.Mesh, child.Shader = p.Mesh, p.Shader
					n.AddChild(child)
				}
			}
		}
		nodes[i] = n
	}

	for i, gn := range doc.Nodes {
		for _, childIdx := range gn.Children {
			if childIdx < len(nodes) {
				nodes[i].AddChild(nodes[childIdx])
			}
		}
	}

	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if rootIdx < len(nodes) {
				result.Roots = append(result.Roots, nodes[rootIdx])
			}
		}
	} else {
		for _, n := range nodes {
			if n.Parent == nil {
				result.Roots = append(result.Roots, n)
			}
		}
	}

	slog.Info("loaded glTF model", "file", filename, "nodes", len(nodes), "materials", len(result.Materials))
	return result, nil
}

func loadGLTFImage(doc *gltf.Document, idx int, dir, prefix string, tm *textures.Manager) (*textures.Texture, error) {
	img := doc.Images[idx]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("image_%d", idx)
	}
	name = path.Join(prefix, name)
	if tex, ok := tm.Get(name); ok {
		return tex, nil
	}

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("buffer view: %w", err)
		}
		tex, err := textures.DecodeBytes(name, raw)
		if err != nil {
			return nil, err
		}
		return tm.Register(tex)
	case img.URI != "" && !img.IsEmbeddedResource():
		return tm.LoadFile(name, filepath.Join(dir, img.URI))
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("embedded image: %w", err)
		}
		tex, err := textures.DecodeBytes(name, raw)
		if err != nil {
			return nil, err
		}
		return tm.Register(tex)
	}
	return nil, fmt.Errorf("image has no data")
}

// gltfMaterial approximates a metallic-roughness material with interaction
// layers. Blended materials become a single alpha-blended layer.
func gltfMaterial(name string, gm *gltf.Material, texture func(int) *textures.Texture, tm *textures.Manager) *materials.Definition {
	base := tm.White()
	colour := core.ColorWhite
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		colour = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
		if pbr.BaseColorTexture != nil {
			if tex := texture(pbr.BaseColorTexture.Index); tex != nil {
				base = tex
			}
		}
	}

	var (
		layers []materials.Layer
		opts   []materials.DefinitionOption
	)
	if gm.AlphaMode == gltf.AlphaBlend {
		layers = append(layers, materials.NewShaderLayer(materials.LayerBlend, base,
			materials.WithBlend(core.BlendAlpha),
			materials.WithConstantColour(colour)))
		opts = append(opts, materials.WithFlags(materials.FlagTranslucent))
	} else {
		diffuse := []materials.LayerOption{materials.WithConstantColour(colour)}
		if gm.AlphaMode == gltf.AlphaMask {
			diffuse = append(diffuse, materials.WithAlphaTest(materials.Constant(float32(gm.AlphaCutoffOrDefault()))))
		}
		layers = append(layers, materials.NewShaderLayer(materials.LayerDiffuse, base, diffuse...))

		if nt := gm.NormalTexture; nt != nil && nt.Index != nil {
			if tex := texture(*nt.Index); tex != nil {
				layers = append(layers, materials.NewShaderLayer(materials.LayerBump, tex))
			}
		}
	}

	if gm.DoubleSided {
		opts = append(opts, materials.WithCull(materials.CullNone))
	}
	opts = append(opts, materials.WithLayers(layers...), materials.WithEditorImage(base))
	return materials.NewDefinition(name, opts...)
}

// loadGLTFPrimitive converts one triangle primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var (
		normals [][3]float32
		uvs     [][2]float32
		colours [][4]uint8
	)
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		colours, _ = modeler.ReadColor(doc, doc.Accessors[idx], nil)
	}

	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
			Colour:   core.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
		if i < len(colours) {
			c := colours[i]
			v.Colour = core.Color{R: float32(c[0]) / 255, G: float32(c[1]) / 255, B: float32(c[2]) / 255, A: float32(c[3]) / 255}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	m := NewMesh(name, verts, indices)
	ComputeTangents(m)
	return m, nil
}
