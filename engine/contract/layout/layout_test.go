package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagged struct {
	Color [3]float32 `wgsl:"color,vec3<f32>"`
	_     float32    `wgsl:"-"`
	Scale [2]float32 `wgsl:"scale,vec2<f32>"`
	Bias  float32    `wgsl:"bias,f32"`
	_     float32    `wgsl:"-"`
}

// misplaced puts a vec3 where the GPU would not.
type misplaced struct {
	A float32    `wgsl:"a,f32"`
	B [3]float32 `wgsl:"b,vec3<f32>"`
}

type untagged struct {
	A float32
}

type weights struct {
	W [5]float32 `wgsl:"w,array<f32>"`
}

func TestGenerateStruct(t *testing.T) {
	src, err := GenerateStruct("Tagged", tagged{})
	require.NoError(t, err)
	assert.Equal(t, "struct Tagged {\n    color: vec3<f32>,\n    scale: vec2<f32>,\n    bias: f32,\n};\n", src)

	src, err = GenerateStruct("Weights", &weights{})
	require.NoError(t, err)
	assert.Contains(t, src, "w: array<f32, 5>,")

	_, err = GenerateStruct("Untagged", untagged{})
	assert.ErrorIs(t, err, ErrBadTag)

	_, err = GenerateStruct("NotStruct", 3)
	assert.ErrorIs(t, err, ErrBadTag)
}

func TestShaderLayout(t *testing.T) {
	src := `
struct Inner {
    v: vec3<f32>,
};
// comment: struct Fake { x: f32 }
struct Outer {
    a: f32,
    inner: Inner,
    m: mat4x4<f32>,
    arr: array<vec2<f32>, 3>,
};
`
	outer, err := ShaderLayout(src, "Outer")
	require.NoError(t, err)

	offsets := map[string]uint64{}
	for _, f := range outer.Fields {
		offsets[f.Name] = f.Offset
	}
	assert.Equal(t, map[string]uint64{"a": 0, "inner": 16, "m": 32, "arr": 96}, offsets)
	assert.Equal(t, uint64(128), outer.Size)
	assert.Equal(t, uint64(16), outer.Align)

	_, err = ShaderLayout(src, "Fake")
	assert.ErrorIs(t, err, ErrUnresolvedType)

	_, err = ShaderLayout("struct Bad { x: Missing, };", "Bad")
	assert.ErrorIs(t, err, ErrUnresolvedType)
}

func TestTypeSize(t *testing.T) {
	for typ, want := range map[string][2]uint64{
		"f32":              {4, 4},
		"vec3<f32>":        {12, 16},
		"mat4x4<f32>":      {64, 16},
		"array<f32, 5>":    {20, 4},
		"array<vec3f, 2>":  {32, 16},
		"array<vec4<f32>>": {16, 16},
	} {
		size, align, ok := TypeSize(typ, nil)
		require.True(t, ok, typ)
		assert.Equal(t, want, [2]uint64{size, align}, typ)
	}
	_, _, ok := TypeSize("Nope", nil)
	assert.False(t, ok)
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Verify("Tagged", tagged{}))
	assert.NoError(t, Verify("Weights", weights{}))

	err := Verify("Misplaced", misplaced{})
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestVerifySource(t *testing.T) {
	ok := "struct Tagged { color: vec3<f32>, scale: vec2<f32>, bias: f32, };"
	assert.NoError(t, VerifySource(ok, "Tagged", tagged{}))

	renamed := "struct Tagged { colour: vec3<f32>, scale: vec2<f32>, bias: f32, };"
	assert.ErrorIs(t, VerifySource(renamed, "Tagged", tagged{}), ErrLayoutMismatch)

	reordered := "struct Tagged { scale: vec2<f32>, color: vec3<f32>, bias: f32, };"
	assert.ErrorIs(t, VerifySource(reordered, "Tagged", tagged{}), ErrLayoutMismatch)

	short := "struct Tagged { color: vec3<f32>, scale: vec2<f32>, };"
	assert.ErrorIs(t, VerifySource(short, "Tagged", tagged{}), ErrLayoutMismatch)
}

func TestCheckUniform(t *testing.T) {
	src := `
struct Good { m: mat4x4<f32>, v: vec4<f32>, };
struct Packed { w: array<f32, 4>, };
`
	all, err := ShaderLayouts(src)
	require.NoError(t, err)
	assert.NoError(t, CheckUniform(all["Good"], all))
	assert.ErrorIs(t, CheckUniform(all["Packed"], all), ErrUniformLayout)
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // e\nf"
	assert.Equal(t, "a  d \nf\n", StripComments(src))
}

// unpadded stops at its last member; the GPU rounds it up to 32 bytes.
type unpadded struct {
	Color [3]float32 `wgsl:"color,vec3<f32>"`
	Scale float32    `wgsl:"scale,f32"`
	W     [1]float32 `wgsl:"w,array<f32>"`
}

type overpadded struct {
	Color [3]float32 `wgsl:"color,vec3<f32>"`
	Scale float32    `wgsl:"scale,f32"`
	W     [1]float32 `wgsl:"w,array<f32>"`
	_     [4]float32 `wgsl:"-"`
}

func TestVerifyTrailingPadding(t *testing.T) {
	s, err := ShaderLayout(MustGenerateStruct("Unpadded", unpadded{}), "Unpadded")
	require.NoError(t, err)
	assert.Equal(t, uint64(32), s.Size)

	assert.NoError(t, Verify("Unpadded", unpadded{}), "host may omit the shader's tail padding")
	assert.ErrorIs(t, Verify("Overpadded", overpadded{}), ErrLayoutMismatch)
}

const compiledSource = `
struct Tagged {
    color: vec3<f32>,
    scale: vec2<f32>,
    bias: f32,
};

@group(0) @binding(2) var<uniform> tagged: Tagged;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(tagged.color * tagged.bias, tagged.scale.x);
}
`

func TestCompile(t *testing.T) {
	compiled, err := Compile(compiledSource)
	if err != nil {
		t.Skipf("Skipping: naga could not lower the module: %v", err)
	}

	s, ok := compiled.Structs["Tagged"]
	require.True(t, ok)
	assert.Equal(t, uint64(32), s.Size)
	assert.Equal(t, uint64(16), s.Align)
	want, err := ShaderLayout(compiledSource, "Tagged")
	require.NoError(t, err)
	for i, f := range want.Fields {
		assert.Equal(t, f.Offset, s.Fields[i].Offset, f.Name)
		assert.Equal(t, f.Size, s.Fields[i].Size, f.Name)
	}

	require.Len(t, compiled.Bindings, 1)
	assert.Equal(t, Binding{Group: 0, Binding: 2, Name: "tagged", Type: "Tagged"}, compiled.Bindings[0])

	assert.NoError(t, compiled.Verify("Tagged", tagged{}))
	assert.ErrorIs(t, compiled.Verify("Tagged", misplaced{}), ErrLayoutMismatch)
	assert.ErrorIs(t, compiled.Verify("Missing", tagged{}), ErrUnresolvedType)
}
