package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
)

// GPUMaterialUniforms is the per-material shading block bound at
// contract.BufferIndexMaterialUniforms. Each vec3 occupies a 16-byte slot; AmbientOcclusion
// packs into the tail of Metalness. MapWeights is indexed by contract.TextureIndex and is
// sized by contract.NumMeshTextureIndices, so a new map slot resizes it on both sides.
// Matches the WGSL MaterialUniforms struct (see GPUMaterialUniformsSource). The Go struct
// ends at the last weight; the GPU struct rounds up to 16 bytes, and Marshal and Size
// use the GPU size, so any weight count lays out the same way.
// Size: 96 bytes on the GPU with five maps, 16-byte aligned.
type GPUMaterialUniforms struct {
	BaseColor        [3]float32                              `wgsl:"baseColor,vec3<f32>"`       // offset  0
	_                float32                                 `wgsl:"-"`                         // offset 12
	IrradiatedColor  [3]float32                              `wgsl:"irradiatedColor,vec3<f32>"` // offset 16
	_                float32                                 `wgsl:"-"`                         // offset 28
	Roughness        [3]float32                              `wgsl:"roughness,vec3<f32>"`       // offset 32
	_                float32                                 `wgsl:"-"`                         // offset 44
	Metalness        [3]float32                              `wgsl:"metalness,vec3<f32>"`       // offset 48
	AmbientOcclusion float32                                 `wgsl:"ambientOcclusion,f32"`      // offset 60
	MapWeights       [contract.NumMeshTextureIndices]float32 `wgsl:"mapWeights,array<f32>"`     // offset 64
}

const (
	// GPUMaterialUniformsSize is the GPU byte size of MaterialUniforms, the Go struct rounded up to 16.
	GPUMaterialUniformsSize = 64 + 16*((contract.NumMeshTextureIndices+3)/4)

	// GPUMaterialUniformsAlign is the GPU alignment of the MaterialUniforms struct.
	GPUMaterialUniformsAlign = 16

	offsetAmbientOcclusion = 60
	offsetMapWeights       = 64
)

var (
	_ = [1]struct{}{}[(int(unsafe.Sizeof(GPUMaterialUniforms{}))+GPUMaterialUniformsAlign-1)&^(GPUMaterialUniformsAlign-1)-GPUMaterialUniformsSize]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialUniforms{}.IrradiatedColor)-16]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialUniforms{}.Roughness)-32]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialUniforms{}.Metalness)-48]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialUniforms{}.AmbientOcclusion)-offsetAmbientOcclusion]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUMaterialUniforms{}.MapWeights)-offsetMapWeights]
	_ = [1]struct{}{}[len(GPUMaterialUniforms{}.MapWeights)-contract.NumMeshTextureIndices]
	_ = [1]struct{}{}[GPUMaterialUniformsSize%GPUMaterialUniformsAlign]
)

// GPUMaterialUniformsSource is the canonical WGSL definition of the MaterialUniforms struct,
// generated from GPUMaterialUniforms. The 4-byte mapWeights stride is not legal in the
// uniform address space, so shaders bind it as var<storage, read>.
var GPUMaterialUniformsSource = layout.MustGenerateStruct("MaterialUniforms", GPUMaterialUniforms{})

// Size returns the GPU size of the MaterialUniforms struct in bytes, trailing padding included.
//
// Returns:
//   - int: the size of the struct in bytes
func (g *GPUMaterialUniforms) Size() int {
	return GPUMaterialUniformsSize
}

// Marshal serializes the GPUMaterialUniforms struct into a little-endian byte buffer
// suitable for GPU upload. Padding bytes are zero.
//
// Returns:
//   - []byte: GPUMaterialUniformsSize-byte buffer ready for GPU upload
func (g *GPUMaterialUniforms) Marshal() []byte {
	buf := make([]byte, GPUMaterialUniformsSize)
	putVec3(buf[0:], g.BaseColor)
	putVec3(buf[16:], g.IrradiatedColor)
	putVec3(buf[32:], g.Roughness)
	putVec3(buf[48:], g.Metalness)
	binary.LittleEndian.PutUint32(buf[offsetAmbientOcclusion:], math.Float32bits(g.AmbientOcclusion))
	for i, w := range g.MapWeights {
		binary.LittleEndian.PutUint32(buf[offsetMapWeights+i*4:], math.Float32bits(w))
	}
	return buf
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
