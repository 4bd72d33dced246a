package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-backend/materials"
)

func layers(types ...materials.LayerType) []materials.Layer {
	out := make([]materials.Layer, len(types))
	for i, typ := range types {
		out[i] = materials.NewShaderLayer(typ, tex(uint32(i+1)))
	}
	return out
}

type decomposed struct {
	interaction bool
	depthFill   bool
}

func summarise(passes []layerPass) []decomposed {
	var out []decomposed
	for _, p := range passes {
		out = append(out, decomposed{interaction: p.triplet != nil, depthFill: p.needDepthFill})
	}
	return out
}

func TestDecomposeLayers(t *testing.T) {
	const (
		D = materials.LayerDiffuse
		B = materials.LayerBump
		S = materials.LayerSpecular
		X = materials.LayerBlend
	)
	interaction := decomposed{interaction: true}
	first := decomposed{interaction: true, depthFill: true}
	blend := decomposed{}

	tests := []struct {
		name   string
		layers []materials.Layer
		want   []decomposed
	}{
		{"empty", nil, nil},
		{"full triplet", layers(D, B, S), []decomposed{first}},
		{"any order", layers(S, D, B), []decomposed{first}},
		{"repeated diffuse", layers(D, D), []decomposed{first, interaction}},
		{"repeat after full", layers(D, B, S, B), []decomposed{first, interaction}},
		{"triplet then blend", layers(D, X), []decomposed{first, blend}},
		{"blend first", layers(X, D), []decomposed{blend, first}},
		{"blends before triplet", layers(X, X, D, B), []decomposed{blend, blend, first}},
		{"blends only", layers(X, X), []decomposed{blend, blend}},
		{"split by blend", layers(D, B, X, S), []decomposed{first, blend, interaction}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarise(decomposeLayers(tt.layers)))
		})
	}
}

func TestDecomposeKeepsLayerIdentity(t *testing.T) {
	ls := layers(materials.LayerBump, materials.LayerDiffuse, materials.LayerBlend, materials.LayerSpecular)
	got := decomposeLayers(ls)
	require.Len(t, got, 3)

	assert.Equal(t, ls[1], got[0].triplet.diffuse)
	assert.Equal(t, ls[0], got[0].triplet.bump)
	assert.Nil(t, got[0].triplet.specular)
	assert.Equal(t, ls[2], got[1].blend)
	assert.Equal(t, ls[3], got[2].triplet.specular)
}
