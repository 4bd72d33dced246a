package render

import "render-backend/materials"

// dbsTriplet groups the diffuse, bump and specular layers that make up one
// interaction pass. Any of them may be missing.
type dbsTriplet struct {
	diffuse  materials.Layer
	bump     materials.Layer
	specular materials.Layer
}

func (t dbsTriplet) empty() bool {
	return t.diffuse == nil && t.bump == nil && t.specular == nil
}

// layerPass is one output of decomposeLayers: either an interaction triplet
// or a single blend layer.
type layerPass struct {
	triplet       *dbsTriplet
	needDepthFill bool
	blend         materials.Layer
}

// decomposeLayers walks a material's layers in order and splits them into
// interaction triplets and blend layers. A triplet is closed when one of its
// slots would be filled twice, when a blend layer arrives, or at the end of
// the list. Only the first triplet asks for a depth fill. Blend layers
// before it leave that request in place.
func decomposeLayers(layers []materials.Layer) []layerPass {
	var (
		out       []layerPass
		cur       dbsTriplet
		depthFill = true
	)
	flush := func() {
		if cur.empty() {
			return
		}
		t := cur
		out = append(out, layerPass{triplet: &t, needDepthFill: depthFill})
		cur = dbsTriplet{}
		depthFill = false
	}

	for _, layer := range layers {
		switch layer.Type() {
		case materials.LayerDiffuse:
			if cur.diffuse != nil {
				flush()
			}
			cur.diffuse = layer
		case materials.LayerBump:
			if cur.bump != nil {
				flush()
			}
			cur.bump = layer
		case materials.LayerSpecular:
			if cur.specular != nil {
				flush()
			}
			cur.specular = layer
		case materials.LayerBlend:
			flush()
			out = append(out, layerPass{blend: layer})
		}
	}
	if !cur.empty() {
		flush()
	}
	return out
}
