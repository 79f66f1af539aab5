package camera

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUUniformsLayout(t *testing.T) {
	var u GPUUniforms
	assert.Equal(t, 128, u.Size())
	assert.Equal(t, 256, AlignedUniformsSize)
	assert.Equal(t, 768, UniformRingSize)
	assert.Equal(t, "struct Uniforms {\n    projectionMatrix: mat4x4<f32>,\n    modelViewMatrix: mat4x4<f32>,\n};\n", GPUUniformsSource)

	require.NoError(t, layout.Verify("Uniforms", GPUUniforms{}))

	all, err := layout.ShaderLayouts(GPUUniformsSource)
	require.NoError(t, err)
	s := all["Uniforms"]
	assert.Equal(t, uint64(GPUUniformsSize), s.Size)
	assert.Equal(t, uint64(GPUUniformsAlign), s.Align)
	assert.NoError(t, layout.CheckUniform(s, all), "Uniforms must be bindable as var<uniform>")
}

func TestGPUUniformsMarshal(t *testing.T) {
	var u GPUUniforms
	for i := range 16 {
		u.ProjectionMatrix[i] = float32(i)
		u.ModelViewMatrix[i] = float32(100 + i)
	}
	buf := u.Marshal()
	require.Len(t, buf, GPUUniformsSize)
	assert.Equal(t, unsafe.Slice((*byte)(unsafe.Pointer(&u)), unsafe.Sizeof(u)), buf)
}

func TestUniformRingOffset(t *testing.T) {
	assert.Equal(t, uint64(0), UniformRingOffset(0))
	assert.Equal(t, uint64(256), UniformRingOffset(1))
	assert.Equal(t, uint64(512), UniformRingOffset(2))
	assert.Equal(t, uint64(0), UniformRingOffset(3))
	for f := uint64(0); f < 10; f++ {
		off := UniformRingOffset(f)
		assert.Zero(t, off%UniformOffsetAlignment)
		assert.LessOrEqual(t, off+GPUUniformsSize, uint64(UniformRingSize))
	}
}
