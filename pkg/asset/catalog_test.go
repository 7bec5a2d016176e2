package asset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightmetrica/lightmetrica-go/pkg/rerrors"
)

type fakeMaterial struct{ Albedo float64 }

func echoFactory(typeID string, props map[string]any) (Component, error) {
	if typeID == "material.diffuse" {
		return &fakeMaterial{Albedo: props["albedo"].(float64)}, nil
	}
	return nil, errors.New("unknown type " + typeID)
}

func TestLoadAssetThenGet(t *testing.T) {
	c := NewCatalog()
	err := c.LoadAsset("$.materials.red", "material.diffuse", map[string]any{"albedo": 0.8}, echoFactory)
	require.NoError(t, err)

	comp, ok := c.Get("materials.red")
	require.True(t, ok, "asset registered under $.materials.red should resolve via the dot-path without the root prefix")
	assert.Equal(t, 0.8, comp.(*fakeMaterial).Albedo)
}

func TestLoadAssetFactoryErrorWrapsIOError(t *testing.T) {
	c := NewCatalog()
	err := c.LoadAsset("bad", "nonsense", nil, echoFactory)
	require.Error(t, err)
	assert.True(t, rerrors.Is(err, rerrors.IOError))
}

func TestGetMissingReturnsFalse(t *testing.T) {
	c := NewCatalog()
	_, ok := c.Get("$.nope")
	assert.False(t, ok)
}

func TestRefReResolvesAfterReplace(t *testing.T) {
	c := NewCatalog()
	c.Replace("$.camera", &fakeMaterial{Albedo: 1})
	ref := NewRef(c, "$.camera")

	first, ok := ref.Resolve()
	require.True(t, ok)
	assert.Equal(t, 1.0, first.(*fakeMaterial).Albedo)

	// Replacing the catalog entry must be visible on the ref's next
	// Resolve without the ref being touched at all.
	c.Replace("$.camera", &fakeMaterial{Albedo: 2})

	second, ok := ref.Resolve()
	require.True(t, ok)
	assert.Equal(t, 2.0, second.(*fakeMaterial).Albedo)
	assert.NotSame(t, first, second)
}

func TestRefToUnregisteredNameFailsUntilLoaded(t *testing.T) {
	c := NewCatalog()
	ref := NewRef(c, "$.lazy")

	_, ok := ref.Resolve()
	assert.False(t, ok)

	c.Replace("$.lazy", &fakeMaterial{Albedo: 0.5})
	v, ok := ref.Resolve()
	require.True(t, ok)
	assert.Equal(t, 0.5, v.(*fakeMaterial).Albedo)
}
