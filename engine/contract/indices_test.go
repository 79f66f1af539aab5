package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferIndexValues(t *testing.T) {
	assert.Equal(t, BufferIndex(0), BufferIndexMeshPositions)
	assert.Equal(t, BufferIndex(1), BufferIndexMeshGenerics)
	assert.Equal(t, BufferIndex(2), BufferIndexUniforms)
	assert.Equal(t, 4, NumBufferIndices)

	seen := map[string]bool{}
	for i, b := range BufferIndexValues() {
		assert.Equal(t, BufferIndex(i), b, "values must be contiguous from zero")
		assert.False(t, seen[b.String()], "duplicate name %s", b)
		seen[b.String()] = true

		parsed, ok := ParseBufferIndex(b.String())
		require.True(t, ok)
		assert.Equal(t, b, parsed)
	}

	assert.True(t, BufferIndexMeshPositions.IsVertexStream())
	assert.True(t, BufferIndexMeshGenerics.IsVertexStream())
	assert.False(t, BufferIndexUniforms.IsVertexStream())
	assert.False(t, BufferIndex(NumBufferIndices).IsValid())
	assert.Equal(t, "BufferIndex(9)", BufferIndex(9).String())

	_, ok := ParseBufferIndex("nope")
	assert.False(t, ok)
}

func TestVertexAttributeValues(t *testing.T) {
	assert.Equal(t, VertexAttribute(0), VertexAttributePosition)
	assert.Equal(t, VertexAttribute(1), VertexAttributeTexcoord)
	assert.Equal(t, NumVertexAttributes, len(VertexAttributeValues()))
	for i, a := range VertexAttributeValues() {
		assert.Equal(t, VertexAttribute(i), a)
		assert.True(t, a.IsValid())
	}
	assert.False(t, VertexAttribute(-1).IsValid())
}

func TestTextureIndexValues(t *testing.T) {
	assert.Equal(t, TextureIndex(0), TextureIndexBaseColor)
	assert.Equal(t, TextureIndex(1), TextureIndexMetallic)
	assert.Equal(t, TextureIndex(2), TextureIndexRoughness)
	assert.Equal(t, TextureIndex(3), TextureIndexNormal)
	assert.Equal(t, TextureIndex(4), TextureIndexAmbientOcclusion)
	assert.Equal(t, TextureIndex(5), TextureIndexIrradianceMap)
	assert.Equal(t, 5, NumMeshTextureIndices)
	assert.Equal(t, 6, NumTextureIndices)

	mesh := MeshTextureIndexValues()
	require.Len(t, mesh, NumMeshTextureIndices)
	for _, ti := range mesh {
		assert.True(t, ti.IsMeshMap(), "%s should be weighted", ti)
	}
	assert.False(t, TextureIndexIrradianceMap.IsMeshMap())

	for _, ti := range TextureIndexValues() {
		parsed, ok := ParseTextureIndex(ti.String())
		require.True(t, ok)
		assert.Equal(t, ti, parsed)
	}
}
