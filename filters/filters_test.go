package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemDefaultsVisible(t *testing.T) {
	s := NewSystem()
	assert.True(t, s.IsVisible(CategoryTexture, "textures/anything"))
}

func TestSystemLastMatchWins(t *testing.T) {
	s := NewSystem()
	require.NoError(t, s.AddRule(CategoryTexture, "textures/**", false))
	require.NoError(t, s.AddRule(CategoryTexture, "textures/common/*", true))

	assert.False(t, s.IsVisible(CategoryTexture, "textures/walls/brick"))
	assert.True(t, s.IsVisible(CategoryTexture, "textures/common/caulk"))
	assert.True(t, s.IsVisible(CategoryTexture, "models/crate"))
	assert.True(t, s.IsVisible("entity", "textures/walls/brick"))
}

func TestSystemSeparator(t *testing.T) {
	s := NewSystem()
	require.NoError(t, s.AddRule(CategoryTexture, "textures/*", false))
	assert.False(t, s.IsVisible(CategoryTexture, "textures/brick"))
	assert.True(t, s.IsVisible(CategoryTexture, "textures/walls/brick"))
}

func TestSystemBadPattern(t *testing.T) {
	s := NewSystem()
	assert.Error(t, s.AddRule(CategoryTexture, "textures/[", false))
	assert.Empty(t, s.Rules())
}

func TestSystemClear(t *testing.T) {
	s := NewSystem()
	require.NoError(t, s.AddRule(CategoryTexture, "*", false))
	require.Len(t, s.Rules(), 1)
	s.Clear()
	assert.Empty(t, s.Rules())
	assert.True(t, s.IsVisible(CategoryTexture, "x"))
}
