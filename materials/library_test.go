package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-backend/textures"
)

func TestLibraryLookup(t *testing.T) {
	lib := NewLibrary(textures.NewManager(nil))
	lib.Add(NewDefinition("textures/b"))
	lib.Add(NewDefinition("textures/a"))

	assert.True(t, lib.Has("textures/a"))
	assert.Equal(t, []string{"textures/a", "textures/b"}, lib.Names())

	def, err := lib.Lookup("textures/a")
	require.NoError(t, err)
	assert.Equal(t, "textures/a", def.Name())

	_, err = lib.Lookup("textures/c")
	assert.ErrorIs(t, err, ErrNoSuchMaterial)
}

func TestLibraryFallbackIsCached(t *testing.T) {
	lib := NewLibrary(textures.NewManager(nil))
	m := lib.MaterialForName("textures/nope")
	require.NotNil(t, m)
	assert.Equal(t, "textures/nope", m.Name())
	assert.NotZero(t, m.Flags()&FlagNotFound)
	require.Len(t, m.AllLayers(), 1)
	assert.Equal(t, LayerDiffuse, m.AllLayers()[0].Type())
	assert.Equal(t, "_notfound", m.EditorImage().Name)

	assert.Same(t, m, lib.MaterialForName("textures/nope"))
	assert.False(t, lib.Has("textures/nope"))

	// defining the name later replaces the stand-in
	lib.Add(NewDefinition("textures/nope"))
	assert.Zero(t, lib.MaterialForName("textures/nope").Flags()&FlagNotFound)
}

func TestLibraryReplaceKeepsInUse(t *testing.T) {
	lib := NewLibrary(textures.NewManager(nil))
	old := NewDefinition("textures/a")
	old.SetInUse(true)
	lib.Add(old)
	lib.Add(NewDefinition("textures/gone"))

	fresh := NewDefinition("textures/a")
	lib.Replace([]*Definition{fresh, NewDefinition("textures/new")})

	assert.True(t, fresh.IsInUse())
	assert.False(t, lib.Has("textures/gone"))
	assert.True(t, lib.Has("textures/new"))
}

func TestLibraryExternalSurvivesReplace(t *testing.T) {
	lib := NewLibrary(textures.NewManager(nil))
	model := NewDefinition("models/crate/wood")
	lib.AddExternal(model)
	lib.AddExternal(NewDefinition("models/crate/metal"))

	override := NewDefinition("models/crate/metal")
	lib.Replace([]*Definition{override})

	def, err := lib.Lookup("models/crate/wood")
	require.NoError(t, err)
	assert.Same(t, model, def)

	def, err = lib.Lookup("models/crate/metal")
	require.NoError(t, err)
	assert.Same(t, override, def)
}

func TestLibraryDefaultInteractionTexture(t *testing.T) {
	tm := textures.NewManager(nil)
	lib := NewLibrary(tm)
	assert.Same(t, tm.FlatNormal(), lib.DefaultInteractionTexture(LayerBump))
	assert.Same(t, tm.Black(), lib.DefaultInteractionTexture(LayerDiffuse))
	assert.Same(t, tm.Black(), lib.DefaultInteractionTexture(LayerSpecular))
	assert.Same(t, tm.White(), lib.DefaultInteractionTexture(LayerBlend))
}
