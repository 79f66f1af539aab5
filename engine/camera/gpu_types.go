package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
)

// GPUUniforms is the per-draw transform block bound at contract.BufferIndexUniforms.
// Both matrices are column-major. Matches the WGSL Uniforms struct (see GPUUniformsSource).
// Size: 128 bytes, 16-byte aligned, no padding.
type GPUUniforms struct {
	ProjectionMatrix [16]float32 `wgsl:"projectionMatrix,mat4x4<f32>"` // offset  0
	ModelViewMatrix  [16]float32 `wgsl:"modelViewMatrix,mat4x4<f32>"`  // offset 64
}

const (
	// GPUUniformsSize is the byte size of GPUUniforms on host and GPU.
	GPUUniformsSize = 128

	// GPUUniformsAlign is the GPU alignment of the Uniforms struct.
	GPUUniformsAlign = 16

	// UniformOffsetAlignment is the minimum dynamic offset alignment for uniform buffers.
	UniformOffsetAlignment = 256

	// MaxBuffersInFlight is the number of frames that may be in flight at once, each
	// owning one slot of the uniform ring.
	MaxBuffersInFlight = 3

	// AlignedUniformsSize is GPUUniformsSize rounded up to the next UniformOffsetAlignment
	// boundary, the stride between uniform ring slots.
	AlignedUniformsSize = (GPUUniformsSize &^ (UniformOffsetAlignment - 1)) + UniformOffsetAlignment

	// UniformRingSize is the byte size of a uniform buffer holding MaxBuffersInFlight slots.
	UniformRingSize = AlignedUniformsSize * MaxBuffersInFlight
)

var (
	_ = [1]struct{}{}[unsafe.Sizeof(GPUUniforms{})-GPUUniformsSize]
	_ = [1]struct{}{}[unsafe.Offsetof(GPUUniforms{}.ModelViewMatrix)-64]
	_ = [1]struct{}{}[GPUUniformsSize%GPUUniformsAlign]
)

// GPUUniformsSource is the canonical WGSL definition of the Uniforms struct, generated
// from GPUUniforms.
var GPUUniformsSource = layout.MustGenerateStruct("Uniforms", GPUUniforms{})

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniforms struct into a little-endian byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the 128-byte serialized buffer
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, GPUUniformsSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ProjectionMatrix[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.ModelViewMatrix[i]))
	}
	return buf
}

// UniformRingOffset returns the byte offset of the ring slot used by the given frame.
//
// Parameters:
//   - frame: a monotonically increasing frame counter
//
// Returns:
//   - uint64: the dynamic offset to bind for that frame
func UniformRingOffset(frame uint64) uint64 {
	return (frame % MaxBuffersInFlight) * AlignedUniformsSize
}
