package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/engine/camera"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertexAttributeSpec places one vertex attribute in a vertex buffer.
type vertexAttributeSpec struct {
	buffer contract.BufferIndex
	format wgpu.VertexFormat
	offset uint64
}

// vertexAttributeTable is indexed by contract.VertexAttribute. Positions get their own
// tightly packed stream; everything else shares the generics stream, with the tangent
// basis stored as half floats.
var vertexAttributeTable = [...]vertexAttributeSpec{
	contract.VertexAttributePosition:  {contract.BufferIndexMeshPositions, wgpu.VertexFormatFloat32x3, 0},
	contract.VertexAttributeTexcoord:  {contract.BufferIndexMeshGenerics, wgpu.VertexFormatFloat32x2, 0},
	contract.VertexAttributeNormal:    {contract.BufferIndexMeshGenerics, wgpu.VertexFormatFloat16x4, 8},
	contract.VertexAttributeTangent:   {contract.BufferIndexMeshGenerics, wgpu.VertexFormatFloat16x4, 16},
	contract.VertexAttributeBitangent: {contract.BufferIndexMeshGenerics, wgpu.VertexFormatFloat16x4, 24},
}

// vertexStreamStrides is indexed by the vertex-stream contract.BufferIndex values.
var vertexStreamStrides = [...]uint64{
	contract.BufferIndexMeshPositions: 12,
	contract.BufferIndexMeshGenerics:  32,
}

var (
	_ = [1]struct{}{}[len(vertexAttributeTable)-contract.NumVertexAttributes]
	_ = [1]struct{}{}[len(vertexStreamStrides)-int(contract.BufferIndexMeshGenerics)-1]
)

// vertexFormatShaderType maps each vertex format to the WGSL type the shader reads it as.
// Normalized and half formats are widened to f32 by the input assembler.
var vertexFormatShaderType = map[wgpu.VertexFormat]string{
	wgpu.VertexFormatFloat32:   "f32",
	wgpu.VertexFormatFloat32x2: "vec2<f32>",
	wgpu.VertexFormatFloat32x3: "vec3<f32>",
	wgpu.VertexFormatFloat32x4: "vec4<f32>",
	wgpu.VertexFormatFloat16x2: "vec2<f32>",
	wgpu.VertexFormatFloat16x4: "vec4<f32>",
}

// wgslTypeAliases maps predeclared WGSL aliases to their spelled-out form.
var wgslTypeAliases = map[string]string{
	"vec2f": "vec2<f32>",
	"vec3f": "vec3<f32>",
	"vec4f": "vec4<f32>",
}

func canonicalType(t string) string {
	if full, ok := wgslTypeAliases[t]; ok {
		return full
	}
	return t
}

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct: one member
// per contract.VertexAttribute at @location(<attribute>).
var GPUVertexSource = generateVertexSource()

func generateVertexSource() string {
	var sb strings.Builder
	sb.WriteString("struct VertexInput {\n")
	for _, a := range contract.VertexAttributeValues() {
		fmt.Fprintf(&sb, "    @location(%d) %s: %s,\n", a, a, vertexFormatShaderType[vertexAttributeTable[a].format])
	}
	sb.WriteString("};\n")
	return sb.String()
}

// HostVertexLayouts builds the vertex buffer layouts the host sets on the render pipeline,
// indexed by vertex-stream contract.BufferIndex.
//
// Returns:
//   - []wgpu.VertexBufferLayout: one layout per vertex stream, in BufferIndex order
func HostVertexLayouts() []wgpu.VertexBufferLayout {
	layouts := make([]wgpu.VertexBufferLayout, len(vertexStreamStrides))
	for i, stride := range vertexStreamStrides {
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: stride,
			StepMode:    wgpu.VertexStepModeVertex,
		}
	}
	for _, a := range contract.VertexAttributeValues() {
		attr := vertexAttributeTable[a]
		layouts[attr.buffer].Attributes = append(layouts[attr.buffer].Attributes, wgpu.VertexAttribute{
			Format:         attr.format,
			Offset:         attr.offset,
			ShaderLocation: uint32(a),
		})
	}
	return layouts
}

// bufferBinding describes how a bind-group buffer slot is declared.
type bufferBinding struct {
	addressSpace string
	wgslType     string
	bindingType  wgpu.BufferBindingType
	size         uint64
	host         any
}

// bufferBindings is keyed by the non-vertex contract.BufferIndex values.
var bufferBindings = map[contract.BufferIndex]bufferBinding{
	contract.BufferIndexUniforms: {
		addressSpace: "uniform",
		wgslType:     "Uniforms",
		bindingType:  wgpu.BufferBindingTypeUniform,
		size:         camera.GPUUniformsSize,
		host:         camera.GPUUniforms{},
	},
	contract.BufferIndexMaterialUniforms: {
		addressSpace: "storage, read",
		wgslType:     "MaterialUniforms",
		bindingType:  wgpu.BufferBindingTypeReadOnlyStorage,
		size:         uint64(material.GPUMaterialUniformsSize),
		host:         material.GPUMaterialUniforms{},
	},
}

// textureViewDimension returns the view dimension of a texture slot: the irradiance probe
// is a cube map, every mesh map is 2D.
func textureViewDimension(t contract.TextureIndex) (wgpu.TextureViewDimension, string) {
	if t == contract.TextureIndexIrradianceMap {
		return wgpu.TextureViewDimensionCube, "texture_cube<f32>"
	}
	return wgpu.TextureViewDimension2D, "texture_2d<f32>"
}

// samplerBindings maps sampler annotation names to their binding in BindGroupSamplers.
var samplerBindings = map[string]int{
	"material":    contract.SamplerBindingMaterial,
	"environment": contract.SamplerBindingEnvironment,
}

// HostBindGroupLayouts builds the bind group layouts the host creates for mesh draws,
// keyed by group index. Buffers are visible to both stages, textures and samplers to the
// fragment stage.
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layouts keyed by group
func HostBindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var buffers []wgpu.BindGroupLayoutEntry
	for _, b := range contract.BufferIndexValues() {
		bb, ok := bufferBindings[b]
		if !ok {
			continue
		}
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(b),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		}
		entry.Buffer.Type = bb.bindingType
		entry.Buffer.MinBindingSize = bb.size
		buffers = append(buffers, entry)
	}

	textures := make([]wgpu.BindGroupLayoutEntry, 0, contract.NumTextureIndices)
	for _, t := range contract.TextureIndexValues() {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(t),
			Visibility: wgpu.ShaderStageFragment,
		}
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension, _ = textureViewDimension(t)
		textures = append(textures, entry)
	}

	samplers := make([]wgpu.BindGroupLayoutEntry, 2)
	for i := range samplers {
		samplers[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: wgpu.ShaderStageFragment,
		}
		samplers[i].Sampler.Type = wgpu.SamplerBindingTypeFiltering
	}

	return map[int]wgpu.BindGroupLayoutDescriptor{
		contract.BindGroupBuffers:  {Label: "mesh buffers", Entries: buffers},
		contract.BindGroupTextures: {Label: "mesh textures", Entries: textures},
		contract.BindGroupSamplers: {Label: "mesh samplers", Entries: samplers},
	}
}

// IndicesSource returns WGSL const declarations for every contract index and derived count,
// e.g. `const TEXTURE_INDEX_NORMAL: u32 = 3u;`.
//
// Returns:
//   - string: the WGSL declarations
func IndicesSource() string {
	var sb strings.Builder
	for _, b := range contract.BufferIndexValues() {
		writeIndexConst(&sb, "BUFFER_INDEX", b.String(), int(b))
	}
	for _, a := range contract.VertexAttributeValues() {
		writeIndexConst(&sb, "VERTEX_ATTRIBUTE", a.String(), int(a))
	}
	for _, t := range contract.TextureIndexValues() {
		writeIndexConst(&sb, "TEXTURE_INDEX", t.String(), int(t))
	}
	for _, q := range contract.QualityLevelValues() {
		writeIndexConst(&sb, "QUALITY_LEVEL", q.String(), int(q))
	}
	writeIndexConst(&sb, "NUM", "mesh_texture_indices", contract.NumMeshTextureIndices)
	writeIndexConst(&sb, "NUM", "texture_indices", contract.NumTextureIndices)
	writeIndexConst(&sb, "NUM", "quality_levels", contract.NumQualityLevels)
	return sb.String()
}

func writeIndexConst(sb *strings.Builder, prefix, name string, value int) {
	fmt.Fprintf(sb, "const %s_%s: u32 = %du;\n", prefix, strings.ToUpper(name), value)
}

// ConstantsSource returns one WGSL bool const per function constant, true when enabled in
// flags, e.g. `const HAS_NORMAL_MAP: bool = false;`.
//
// Parameters:
//   - flags: the switches enabled for the variant
//
// Returns:
//   - string: the WGSL declarations
func ConstantsSource(flags contract.FunctionConstantSet) string {
	var sb strings.Builder
	for _, c := range contract.FunctionConstantValues() {
		fmt.Fprintf(&sb, "const %s: bool = %t;\n", c.WGSLName(), flags.Has(c))
	}
	return sb.String()
}

// PreludeSource returns the full generated contract for shaders that cannot use the
// pre-processor: index constants followed by every contract struct.
//
// Returns:
//   - string: WGSL source
func PreludeSource() string {
	return strings.Join([]string{
		IndicesSource(),
		camera.GPUUniformsSource,
		material.GPUMaterialUniformsSource,
		GPUVertexSource,
	}, "\n")
}

// CheckInterface checks every resource and vertex input a shader declares against the host
// layouts: bindings must exist on the host with the same resource kind, buffer sizes and
// texture dimensions must agree, vertex inputs must sit at a contract location with the
// type the host's vertex format delivers, and every contract buffer slot must be bound as
// the host's struct type with the same layout as its Go counterpart. A shader may use a
// subset of the host slots.
//
// Parameters:
//   - s: the processed shader
//
// Returns:
//   - error: ErrInterfaceMismatch or a layout error describing the first disagreement, or nil
func CheckInterface(s Shader) error {
	host := HostBindGroupLayouts()
	for group, desc := range s.BindGroupLayoutDescriptors() {
		hostDesc, ok := host[group]
		if !ok {
			return fmt.Errorf("%w: %s uses bind group %d", ErrInterfaceMismatch, s.Key(), group)
		}
		for _, entry := range desc.Entries {
			if err := checkBindingEntry(s, group, entry, hostDesc.Entries); err != nil {
				return err
			}
		}
	}

	for location, wgslType := range s.VertexInputs() {
		a := contract.VertexAttribute(location)
		if !a.IsValid() {
			return fmt.Errorf("%w: %s reads vertex input at @location(%d), not a vertex attribute",
				ErrInterfaceMismatch, s.Key(), location)
		}
		want := vertexFormatShaderType[vertexAttributeTable[a].format]
		if canonicalType(wgslType) != want {
			return fmt.Errorf("%w: %s reads %s as %s, host delivers %s",
				ErrInterfaceMismatch, s.Key(), a, wgslType, want)
		}
	}

	declared := make(map[string]bool)
	for _, ps := range layout.ParseStructs(s.Source()) {
		declared[ps.Name] = true
	}
	for _, bb := range bufferBindings {
		if !declared[bb.wgslType] {
			continue
		}
		if err := layout.VerifySource(s.Source(), bb.wgslType, bb.host); err != nil {
			return fmt.Errorf("%s: %w", s.Key(), err)
		}
	}
	return nil
}

func checkBindingEntry(s Shader, group int, entry wgpu.BindGroupLayoutEntry, hostEntries []wgpu.BindGroupLayoutEntry) error {
	var hostEntry *wgpu.BindGroupLayoutEntry
	for i := range hostEntries {
		if hostEntries[i].Binding == entry.Binding {
			hostEntry = &hostEntries[i]
			break
		}
	}
	name := s.BindGroupVarName(group, int(entry.Binding))
	if hostEntry == nil {
		return fmt.Errorf("%w: %s binds %s at @group(%d) @binding(%d), host has no such slot",
			ErrInterfaceMismatch, s.Key(), name, group, entry.Binding)
	}

	switch {
	case entry.Buffer.Type != hostEntry.Buffer.Type:
		return fmt.Errorf("%w: %s binds %s as buffer type %v, host uses %v",
			ErrInterfaceMismatch, s.Key(), name, entry.Buffer.Type, hostEntry.Buffer.Type)
	case entry.Buffer.MinBindingSize != 0 && entry.Buffer.MinBindingSize != hostEntry.Buffer.MinBindingSize:
		return fmt.Errorf("%w: %s binds %s with %d bytes, host uploads %d",
			ErrInterfaceMismatch, s.Key(), name, entry.Buffer.MinBindingSize, hostEntry.Buffer.MinBindingSize)
	case entry.Texture.SampleType != hostEntry.Texture.SampleType,
		entry.Texture.ViewDimension != hostEntry.Texture.ViewDimension:
		return fmt.Errorf("%w: %s binds %s as texture %v/%v, host uses %v/%v",
			ErrInterfaceMismatch, s.Key(), name, entry.Texture.ViewDimension, entry.Texture.SampleType,
			hostEntry.Texture.ViewDimension, hostEntry.Texture.SampleType)
	case entry.Sampler.Type != hostEntry.Sampler.Type:
		return fmt.Errorf("%w: %s binds %s as sampler type %v, host uses %v",
			ErrInterfaceMismatch, s.Key(), name, entry.Sampler.Type, hostEntry.Sampler.Type)
	}

	if group != contract.BindGroupBuffers {
		return nil
	}
	bb, ok := bufferBindings[contract.BufferIndex(entry.Binding)]
	if !ok {
		return nil
	}
	typeName := s.BindGroupTypeName(group, int(entry.Binding))
	if typeName != bb.wgslType {
		return fmt.Errorf("%w: %s binds %s as %s, host uploads %s",
			ErrInterfaceMismatch, s.Key(), name, typeName, bb.wgslType)
	}
	if err := layout.VerifySource(s.Source(), bb.wgslType, bb.host); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInterfaceMismatch, s.Key(), err)
	}
	return nil
}

// CheckCompiledLayouts compiles the shader source with naga and checks every contract
// buffer it binds against the Go struct the host uploads, using the compiler's own offsets
// and sizes rather than this package's layout calculator.
//
// Parameters:
//   - s: the processed shader
//
// Returns:
//   - error: a compiler error, or ErrInterfaceMismatch describing the first disagreement
func CheckCompiledLayouts(s Shader) error {
	compiled, err := layout.Compile(s.Source())
	if err != nil {
		return fmt.Errorf("%s: %w", s.Key(), err)
	}
	for _, b := range compiled.Bindings {
		if int(b.Group) != contract.BindGroupBuffers {
			continue
		}
		bb, ok := bufferBindings[contract.BufferIndex(b.Binding)]
		if !ok {
			continue
		}
		if b.Type != bb.wgslType {
			return fmt.Errorf("%w: %s binds %s as %s, host uploads %s",
				ErrInterfaceMismatch, s.Key(), b.Name, b.Type, bb.wgslType)
		}
		if err := compiled.Verify(bb.wgslType, bb.host); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInterfaceMismatch, s.Key(), err)
		}
	}
	return nil
}
