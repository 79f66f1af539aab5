// Package contract holds the binding-slot namespaces, quality tiers and specialization
// switches shared by host rendering code and the WGSL mesh shaders. Every value here is a
// compile-time constant: the host binds resources with these integers and the shader
// declares its resources at the same integers, so a slot may only ever be appended.
package contract

import "strconv"

// BufferIndex identifies the draw-call slot that holds a logical buffer. Vertex buffers are
// bound at the vertex-buffer slot with this number, uniform/storage buffers at the binding
// with this number in BindGroupBuffers.
type BufferIndex int32

const (
	// BufferIndexMeshPositions is the vertex stream carrying positions only.
	BufferIndexMeshPositions BufferIndex = iota

	// BufferIndexMeshGenerics is the vertex stream carrying texcoords and the tangent basis.
	BufferIndexMeshGenerics

	// BufferIndexUniforms is the per-draw transform uniform buffer (GPUUniforms).
	BufferIndexUniforms

	// BufferIndexMaterialUniforms is the per-material shading parameter buffer (GPUMaterialUniforms).
	BufferIndexMaterialUniforms

	// NumBufferIndices is the number of buffer slots.
	NumBufferIndices int = iota
)

var bufferIndexNames = [...]string{
	"mesh_positions",
	"mesh_generics",
	"uniforms",
	"material_uniforms",
}

// String returns the stable snake_case name of the slot.
func (b BufferIndex) String() string {
	if !b.IsValid() {
		return "BufferIndex(" + strconv.Itoa(int(b)) + ")"
	}
	return bufferIndexNames[b]
}

// IsValid reports whether b is one of the declared slots.
func (b BufferIndex) IsValid() bool {
	return b >= 0 && int(b) < NumBufferIndices
}

// IsVertexStream reports whether b is bound as a vertex buffer rather than in a bind group.
func (b BufferIndex) IsVertexStream() bool {
	return b == BufferIndexMeshPositions || b == BufferIndexMeshGenerics
}

// ParseBufferIndex resolves a slot from its String form.
func ParseBufferIndex(name string) (BufferIndex, bool) {
	for i, n := range bufferIndexNames {
		if n == name {
			return BufferIndex(i), true
		}
	}
	return 0, false
}

// BufferIndexValues returns every BufferIndex in ascending order.
func BufferIndexValues() []BufferIndex {
	out := make([]BufferIndex, NumBufferIndices)
	for i := range out {
		out[i] = BufferIndex(i)
	}
	return out
}

// VertexAttribute identifies the semantic of a vertex input. The value is the WGSL
// @location the vertex shader reads it from.
type VertexAttribute int32

const (
	VertexAttributePosition VertexAttribute = iota
	VertexAttributeTexcoord
	VertexAttributeNormal
	VertexAttributeTangent
	VertexAttributeBitangent

	// NumVertexAttributes is the number of vertex attribute locations.
	NumVertexAttributes int = iota
)

var vertexAttributeNames = [...]string{
	"position",
	"texcoord",
	"normal",
	"tangent",
	"bitangent",
}

// String returns the stable snake_case name of the attribute.
func (v VertexAttribute) String() string {
	if !v.IsValid() {
		return "VertexAttribute(" + strconv.Itoa(int(v)) + ")"
	}
	return vertexAttributeNames[v]
}

// IsValid reports whether v is one of the declared attributes.
func (v VertexAttribute) IsValid() bool {
	return v >= 0 && int(v) < NumVertexAttributes
}

// VertexAttributeValues returns every VertexAttribute in ascending order.
func VertexAttributeValues() []VertexAttribute {
	out := make([]VertexAttribute, NumVertexAttributes)
	for i := range out {
		out[i] = VertexAttribute(i)
	}
	return out
}

// TextureIndex identifies a texture binding slot. Slots below NumMeshTextureIndices are
// per-mesh maps with a matching entry in the material map weights; the irradiance map is
// an environment probe bound after them and carries no weight.
type TextureIndex int32

const (
	TextureIndexBaseColor TextureIndex = iota
	TextureIndexMetallic
	TextureIndexRoughness
	TextureIndexNormal
	TextureIndexAmbientOcclusion
	TextureIndexIrradianceMap

	// NumTextureIndices is the number of texture slots, environment maps included.
	NumTextureIndices int = iota
)

// NumMeshTextureIndices is the number of weighted per-mesh maps. It sizes
// GPUMaterialUniforms.MapWeights.
const NumMeshTextureIndices = int(TextureIndexAmbientOcclusion) + 1

var textureIndexNames = [...]string{
	"base_color",
	"metallic",
	"roughness",
	"normal",
	"ambient_occlusion",
	"irradiance",
}

// String returns the stable snake_case name of the slot.
func (t TextureIndex) String() string {
	if !t.IsValid() {
		return "TextureIndex(" + strconv.Itoa(int(t)) + ")"
	}
	return textureIndexNames[t]
}

// IsValid reports whether t is one of the declared slots.
func (t TextureIndex) IsValid() bool {
	return t >= 0 && int(t) < NumTextureIndices
}

// IsMeshMap reports whether t is a weighted per-mesh map.
func (t TextureIndex) IsMeshMap() bool {
	return t >= 0 && int(t) < NumMeshTextureIndices
}

// FunctionConstant returns the specialization switch that gates sampling of t, or an
// invalid FunctionConstant(-1) when t is not a declared slot.
func (t TextureIndex) FunctionConstant() FunctionConstant {
	if !t.IsValid() {
		return -1
	}
	return textureToConstant[t]
}

// ParseTextureIndex resolves a slot from its String form.
func ParseTextureIndex(name string) (TextureIndex, bool) {
	for i, n := range textureIndexNames {
		if n == name {
			return TextureIndex(i), true
		}
	}
	return 0, false
}

// TextureIndexValues returns every TextureIndex in ascending order.
func TextureIndexValues() []TextureIndex {
	out := make([]TextureIndex, NumTextureIndices)
	for i := range out {
		out[i] = TextureIndex(i)
	}
	return out
}

// MeshTextureIndexValues returns the weighted per-mesh map slots in ascending order.
func MeshTextureIndexValues() []TextureIndex {
	return TextureIndexValues()[:NumMeshTextureIndices]
}

// Bind groups used by the mesh shaders. Buffers bind at their BufferIndex, textures at
// their TextureIndex, samplers after them in their own group so texture slots can grow.
const (
	BindGroupBuffers  = 0
	BindGroupTextures = 1
	BindGroupSamplers = 2
)

// Sampler bindings within BindGroupSamplers.
const (
	SamplerBindingMaterial    = 0
	SamplerBindingEnvironment = 1
)
