package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/engine/camera"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("  //@mesh:texture normal normalMap", 7)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeTexture, a.Type)
	assert.Equal(t, []string{"normal", "normalMap"}, a.Args)
	assert.Equal(t, 7, a.Line)

	a, err = parseAnnotation("// @mesh:indices", 1)
	require.NoError(t, err)
	assert.Equal(t, AnnotationTypeIndices, a.Type)

	a, err = parseAnnotation("// plain comment", 1)
	assert.NoError(t, err)
	assert.Nil(t, a)

	a, err = parseAnnotation("let x = 1; //@mesh:indices", 1)
	assert.NoError(t, err)
	assert.Nil(t, a, "annotations must start the line")

	_, err = parseAnnotation("//@mesh:bogus x", 3)
	assert.ErrorIs(t, err, ErrUnknownAnnotation)
	assert.Contains(t, err.Error(), "line 3")

	_, err = parseAnnotation("//@mesh:buffer uniforms", 4)
	assert.ErrorIs(t, err, ErrMalformedAnnotation)

	_, err = parseAnnotation("//@mesh:", 5)
	assert.ErrorIs(t, err, ErrMalformedAnnotation)
}

func TestProcessInclude(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@mesh:include uniforms\nfn f() {}")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, strings.TrimSuffix(camera.GPUUniformsSource, "\n")))
	assert.True(t, strings.HasSuffix(out, "fn f() {}"))

	_, err = pp.Process("//@mesh:include lights")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestProcessBindings(t *testing.T) {
	src := strings.Join([]string{
		"//@mesh:buffer uniforms u",
		"//@mesh:buffer material_uniforms mat",
		"//@mesh:texture roughness roughMap",
		"//@mesh:texture irradiance env",
		"//@mesh:sampler environment envSampler",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"@group(0) @binding(2) var<uniform> u: Uniforms;",
		"@group(0) @binding(3) var<storage, read> mat: MaterialUniforms;",
		"@group(1) @binding(2) var roughMap: texture_2d<f32>;",
		"@group(1) @binding(5) var env: texture_cube<f32>;",
		"@group(2) @binding(1) var envSampler: sampler;",
	}, "\n"), out)

	decls := pp.Declarations()
	require.Len(t, decls, 5)
	assert.Equal(t, contract.BindGroupBuffers, *decls[0].Group)
	assert.Equal(t, int(contract.BufferIndexUniforms), *decls[0].Binding)
	assert.Equal(t, contract.BindGroupTextures, *decls[2].Group)
	assert.Equal(t, int(contract.TextureIndexRoughness), *decls[2].Binding)
	assert.Equal(t, contract.SamplerBindingEnvironment, *decls[4].Binding)

	_, err = pp.Process("//@mesh:buffer lights l")
	assert.ErrorIs(t, err, ErrUnknownName)
	_, err = pp.Process("//@mesh:buffer mesh_positions p")
	assert.ErrorIs(t, err, ErrMalformedAnnotation, "vertex streams are not bind-group buffers")
	_, err = pp.Process("//@mesh:texture specular s")
	assert.ErrorIs(t, err, ErrUnknownName)
	_, err = pp.Process("//@mesh:sampler shadow s")
	assert.ErrorIs(t, err, ErrUnknownName)
	assert.Empty(t, pp.Declarations(), "declarations reset on every call")
}

func TestProcessVariantConstants(t *testing.T) {
	pp := NewPreProcessor()
	flags := contract.NewFunctionConstantSet(contract.FunctionConstantNormalMapIndex)

	out, err := pp.ProcessVariant("//@mesh:constants", flags)
	require.NoError(t, err)
	assert.Contains(t, out, "const HAS_NORMAL_MAP: bool = true;")
	assert.Contains(t, out, "const HAS_BASE_COLOR_MAP: bool = false;")
	assert.Equal(t, contract.NumFunctionConstants, strings.Count(out, "const HAS_"))

	out, err = pp.Process("//@mesh:constants")
	require.NoError(t, err)
	assert.NotContains(t, out, "true")
}

func TestIndicesSource(t *testing.T) {
	src := IndicesSource()
	assert.Contains(t, src, "const BUFFER_INDEX_UNIFORMS: u32 = 2u;")
	assert.Contains(t, src, "const VERTEX_ATTRIBUTE_TEXCOORD: u32 = 1u;")
	assert.Contains(t, src, "const TEXTURE_INDEX_NORMAL: u32 = 3u;")
	assert.Contains(t, src, "const TEXTURE_INDEX_IRRADIANCE: u32 = 5u;")
	assert.Contains(t, src, "const QUALITY_LEVEL_LOW: u32 = 2u;")
	assert.Contains(t, src, "const NUM_MESH_TEXTURE_INDICES: u32 = 5u;")
}
