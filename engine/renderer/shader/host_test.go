package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostVertexLayouts(t *testing.T) {
	layouts := HostVertexLayouts()
	require.Len(t, layouts, 2)

	positions := layouts[contract.BufferIndexMeshPositions]
	assert.Equal(t, uint64(12), positions.ArrayStride)
	require.Len(t, positions.Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, positions.Attributes[0].Format)
	assert.Equal(t, uint32(contract.VertexAttributePosition), positions.Attributes[0].ShaderLocation)

	generics := layouts[contract.BufferIndexMeshGenerics]
	assert.Equal(t, uint64(32), generics.ArrayStride)
	require.Len(t, generics.Attributes, 4)
	assert.Equal(t, uint32(contract.VertexAttributeTexcoord), generics.Attributes[0].ShaderLocation)
	assert.Equal(t, uint64(0), generics.Attributes[0].Offset)

	formatSize := map[wgpu.VertexFormat]uint64{
		wgpu.VertexFormatFloat32x3: 12,
		wgpu.VertexFormatFloat32x2: 8,
		wgpu.VertexFormatFloat16x4: 8,
	}
	seen := map[uint32]bool{}
	for _, l := range layouts {
		var end uint64
		for _, a := range l.Attributes {
			assert.False(t, seen[a.ShaderLocation], "location %d bound twice", a.ShaderLocation)
			seen[a.ShaderLocation] = true
			assert.GreaterOrEqual(t, a.Offset, end, "attributes overlap")
			size, ok := formatSize[a.Format]
			require.True(t, ok, "unexpected format %v", a.Format)
			end = a.Offset + size
		}
		assert.LessOrEqual(t, end, l.ArrayStride)
	}
	assert.Len(t, seen, contract.NumVertexAttributes)
}

func TestHostBindGroupLayouts(t *testing.T) {
	groups := HostBindGroupLayouts()
	require.Len(t, groups, 3)

	buffers := groups[contract.BindGroupBuffers].Entries
	require.Len(t, buffers, 2)
	assert.Equal(t, uint32(contract.BufferIndexUniforms), buffers[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, buffers[0].Buffer.Type)
	assert.Equal(t, uint64(128), buffers[0].Buffer.MinBindingSize)
	assert.Equal(t, uint32(contract.BufferIndexMaterialUniforms), buffers[1].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, buffers[1].Buffer.Type)
	assert.Equal(t, uint64(96), buffers[1].Buffer.MinBindingSize)

	textures := groups[contract.BindGroupTextures].Entries
	require.Len(t, textures, contract.NumTextureIndices)
	for i, e := range textures {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Equal(t, wgpu.TextureViewDimensionCube, textures[contract.TextureIndexIrradianceMap].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureViewDimension2D, textures[contract.TextureIndexNormal].Texture.ViewDimension)

	assert.Len(t, groups[contract.BindGroupSamplers].Entries, 2)
}

func TestGPUVertexSource(t *testing.T) {
	s, err := layout.ShaderLayouts(GPUVertexSource)
	require.NoError(t, err)
	require.Contains(t, s, "VertexInput")
	assert.Contains(t, GPUVertexSource, "@location(0) position: vec3<f32>,")
	assert.Contains(t, GPUVertexSource, "@location(4) bitangent: vec4<f32>,")
}

func TestMeshShaderMatchesHost(t *testing.T) {
	for _, flags := range []contract.FunctionConstantSet{0, contract.AllFunctionConstants} {
		for _, typ := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment} {
			s, err := NewShader("mesh", typ, MeshSource, WithFlags(flags))
			require.NoError(t, err)
			assert.NoError(t, CheckInterface(s), "%s %s", typ, flags)
		}
	}
}

func TestParsedBindingsEqualHost(t *testing.T) {
	s, err := NewShader("mesh", ShaderTypeFragment, MeshSource)
	require.NoError(t, err)

	host := HostBindGroupLayouts()
	parsed := s.BindGroupLayoutDescriptors()
	require.Len(t, parsed, len(host))
	for group, desc := range host {
		got := parsed[group].Entries
		require.Len(t, got, len(desc.Entries), "group %d", group)
		for i, want := range desc.Entries {
			assert.Equal(t, want.Binding, got[i].Binding)
			assert.Equal(t, want.Buffer.Type, got[i].Buffer.Type)
			assert.Equal(t, want.Buffer.MinBindingSize, got[i].Buffer.MinBindingSize)
			assert.Equal(t, want.Texture.ViewDimension, got[i].Texture.ViewDimension)
			assert.Equal(t, want.Sampler.Type, got[i].Sampler.Type)
		}
	}

	binding, ok := s.BindGroupFromVarName(contract.BindGroupTextures, "normalMap")
	require.True(t, ok)
	assert.Equal(t, int(contract.TextureIndexNormal), binding)
	assert.Equal(t, "materialUniforms", s.BindGroupVarName(contract.BindGroupBuffers, int(contract.BufferIndexMaterialUniforms)))
}

const handWrittenHeader = `
struct Uniforms {
    projectionMatrix: mat4x4<f32>,
    modelViewMatrix: mat4x4<f32>,
};
`

func TestCheckInterfaceRejects(t *testing.T) {
	cases := map[string]string{
		"wrong binding": handWrittenHeader + `
@group(0) @binding(1) var<uniform> u: Uniforms;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return u.projectionMatrix * vec4<f32>(p, 1.0); }
`,
		"wrong address space": handWrittenHeader + `
@group(0) @binding(2) var<storage, read> u: Uniforms;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return u.projectionMatrix * vec4<f32>(p, 1.0); }
`,
		"wrong texture dimension": `
@group(1) @binding(5) var env: texture_2d<f32>;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return vec4<f32>(p, 1.0); }
`,
		"wrong vertex type": `
@vertex fn vs(@location(1) uv: vec3<f32>) -> @builtin(position) vec4<f32> { return vec4<f32>(uv, 1.0); }
`,
		"unknown location": `
@vertex fn vs(@location(9) x: vec4<f32>) -> @builtin(position) vec4<f32> { return x; }
`,
		"unknown group": `
@group(7) @binding(0) var s: sampler;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return vec4<f32>(p, 1.0); }
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := NewShader(name, ShaderTypeVertex, src)
			require.NoError(t, err)
			assert.ErrorIs(t, CheckInterface(s), ErrInterfaceMismatch)
		})
	}
}

func TestCheckInterfaceStructDrift(t *testing.T) {
	src := strings.Replace(handWrittenHeader, "modelViewMatrix: mat4x4<f32>", "modelViewMatrix: mat3x3<f32>", 1) + `
@group(0) @binding(2) var<uniform> u: Uniforms;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return u.projectionMatrix * vec4<f32>(p, 1.0); }
`
	s, err := NewShader("drift", ShaderTypeVertex, src)
	require.NoError(t, err)
	assert.ErrorIs(t, CheckInterface(s), ErrInterfaceMismatch, "112-byte struct cannot match a 128-byte slot")
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("frag-only", ShaderTypeVertex, "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	_, err = NewShader("bad", ShaderTypeVertex, "//@mesh:nope")
	assert.ErrorIs(t, err, ErrUnknownAnnotation)

	_, err = NewShaderFromPath("missing", ShaderTypeVertex, "testdata/does-not-exist.wgsl")
	assert.Error(t, err)
}

func TestCheckInterfaceBufferStructType(t *testing.T) {
	cases := map[string]string{
		"foreign struct at uniforms slot": `
struct Xforms {
    modelView: mat4x4<f32>,
    proj: mat4x4<f32>,
};
@group(0) @binding(2) var<uniform> u: Xforms;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return u.proj * vec4<f32>(p, 1.0); }
`,
		"foreign struct at material slot": `
struct Mat {
    weights: array<vec4<f32>, 6>,
};
@group(0) @binding(3) var<storage, read> m: Mat;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return m.weights[0] * vec4<f32>(p, 1.0); }
`,
		"swapped members": `
struct Uniforms {
    modelViewMatrix: mat4x4<f32>,
    projectionMatrix: mat4x4<f32>,
};
@group(0) @binding(2) var<uniform> u: Uniforms;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return u.projectionMatrix * vec4<f32>(p, 1.0); }
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := NewShader(name, ShaderTypeVertex, src)
			require.NoError(t, err)
			assert.ErrorIs(t, CheckInterface(s), ErrInterfaceMismatch)
		})
	}
}

func TestCheckCompiledLayouts(t *testing.T) {
	for _, flags := range []contract.FunctionConstantSet{0, contract.AllFunctionConstants} {
		s, err := NewShader("mesh", ShaderTypeFragment, MeshSource, WithFlags(flags))
		require.NoError(t, err)
		if err := CheckCompiledLayouts(s); err != nil {
			if !errors.Is(err, ErrInterfaceMismatch) {
				t.Skipf("Skipping: naga could not lower the mesh template: %v", err)
			}
			t.Fatalf("compiled layout disagrees with host: %v", err)
		}
	}

	swapped, err := NewShader("swapped", ShaderTypeVertex, `
struct Uniforms {
    modelViewMatrix: mat4x4<f32>,
    projectionMatrix: mat4x4<f32>,
};
@group(0) @binding(2) var<uniform> u: Uniforms;
@vertex fn vs(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return u.projectionMatrix * vec4<f32>(p, 1.0); }
`)
	require.NoError(t, err)
	assert.ErrorIs(t, CheckCompiledLayouts(swapped), ErrInterfaceMismatch)
}
