package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslSampledTextureMap maps WGSL sampled texture base names to their view dimension and multisampled flag
var wgslSampledTextureMap = map[string]sampledTextureInfo{
	"texture_1d":                    {wgpu.TextureViewDimension1D, false},
	"texture_2d":                    {wgpu.TextureViewDimension2D, false},
	"texture_2d_array":              {wgpu.TextureViewDimension2DArray, false},
	"texture_3d":                    {wgpu.TextureViewDimension3D, false},
	"texture_cube":                  {wgpu.TextureViewDimensionCube, false},
	"texture_cube_array":            {wgpu.TextureViewDimensionCubeArray, false},
	"texture_multisampled_2d":       {wgpu.TextureViewDimension2D, true},
	"texture_depth_2d":              {wgpu.TextureViewDimension2D, false},
	"texture_depth_2d_array":        {wgpu.TextureViewDimension2DArray, false},
	"texture_depth_cube":            {wgpu.TextureViewDimensionCube, false},
	"texture_depth_cube_array":      {wgpu.TextureViewDimensionCubeArray, false},
	"texture_depth_multisampled_2d": {wgpu.TextureViewDimension2D, true},
}

// wgslSampleTypeMap maps WGSL scalar type parameters to their wgpu texture sample type
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(2) var<uniform> uniforms: Uniforms;
	// or handle types: @group(1) @binding(0) var baseColorMap: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexInputs extracts the @location inputs of a vertex entry point. Parameters typed
// as a pure vertex input struct (@location members and no @builtin) contribute their
// members; parameters carrying their own @location contribute themselves.
//
// Parameters:
//   - source: the WGSL source code
//   - entryPoint: the name of the @vertex function
//
// Returns:
//   - map[int]string: the WGSL type of each input, keyed by location
func parseVertexInputs(source, entryPoint string) map[int]string {
	inputs := make(map[int]string)
	if entryPoint == "" {
		return inputs
	}
	cleaned := layout.StripComments(source)
	paramsRegex := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(entryPoint) + `\s*\(((?:[^()]|\([^()]*\))*)\)`)
	match := paramsRegex.FindStringSubmatch(cleaned)
	if match == nil {
		return inputs
	}

	structs := make(map[string]layout.ParsedStruct)
	for _, ps := range layout.ParseStructs(cleaned) {
		structs[ps.Name] = ps
	}

	for _, param := range layout.ParseStructs("struct entry {" + match[1] + "}")[0].Fields {
		if param.Location >= 0 {
			inputs[param.Location] = param.Type
			continue
		}
		ps, ok := structs[param.Type]
		if !ok || !isVertexInputStruct(ps) {
			continue
		}
		for _, f := range ps.Fields {
			inputs[f.Location] = f.Type
		}
	}
	return inputs
}

// parseBindGroupLayouts extracts all @group(N) @binding(M) resource declarations from WGSL
// source and returns them as wgpu.BindGroupLayoutDescriptor values grouped by group index.
// Each descriptor's entries are sorted by binding index. The provided visibility flag is
// applied to all entries, corresponding to the shader stage that declared them.
//
// Parameters:
//   - source: the WGSL source code
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
//   - map[int]map[int]string: declared WGSL types keyed by group and binding index
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	typeNames := make(map[int]map[int]string)
	cleaned := layout.StripComments(source)

	// Unresolvable structs are left out; their bindings keep a zero MinBindingSize.
	structs, _ := layout.ShaderLayouts(cleaned)

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		entry := classifyResource(uint32(binding), visibility, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if size, _, ok := layout.TypeSize(typeName, structs); ok && size > 0 {
				entry.Buffer.MinBindingSize = size
			}
		}

		groups[group] = append(groups[group], entry)
		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
			typeNames[group] = make(map[int]string)
		}
		varNames[group][binding] = varName
		typeNames[group][binding] = typeName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames, typeNames
}

// parseEntryPoint extracts the entry point function name for the given shader type from
// WGSL source. Returns an empty string if no matching entry point is found.
//
// Parameters:
//   - source: the WGSL source code
//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := layout.StripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}
