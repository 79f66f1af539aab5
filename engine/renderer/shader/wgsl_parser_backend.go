package shader

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// classifyResource creates a wgpu.BindGroupLayoutEntry from a parsed WGSL resource declaration.
// It determines the resource category (buffer, texture, sampler) from the address space
// qualifier and type name, and populates the corresponding layout fields.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - visibility: the shader stage visibility flag
//   - addressSpace: the address space qualifier (e.g. "uniform", "storage, read"), empty for handle types
//   - typeName: the WGSL type string (e.g. "Uniforms", "texture_2d<f32>", "sampler")
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: a populated layout entry for the resource
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	if addressSpace != "" {
		switch {
		case addressSpace == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.HasPrefix(addressSpace, "storage"):
			if strings.Contains(addressSpace, "read_write") {
				entry.Buffer.Type = wgpu.BufferBindingTypeStorage
			} else {
				entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
			}
		}
		return entry
	}

	switch {
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_depth_"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		if info, ok := wgslSampledTextureMap[typeName]; ok {
			entry.Texture.ViewDimension = info.viewDimension
			entry.Texture.Multisampled = info.multisampled
		}
	case strings.HasPrefix(typeName, "texture_"):
		base, param := splitTypeParams(typeName)
		if info, ok := wgslSampledTextureMap[base]; ok {
			entry.Texture.ViewDimension = info.viewDimension
			entry.Texture.Multisampled = info.multisampled
		}
		if st, ok := wgslSampleTypeMap[param]; ok {
			entry.Texture.SampleType = st
		}
	}

	return entry
}

// splitTypeParams splits a WGSL parameterized type into its base name and parameter string.
// For "texture_2d<f32>" returns ("texture_2d", "f32").
// For "texture_depth_2d" (no params) returns ("texture_depth_2d", "").
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// isVertexInputStruct returns true if the struct is a pure vertex input, meaning it has at
// least one @location field and zero @builtin fields. This distinguishes vertex input
// structs from stage output structs, which mix @location with @builtin(position).
func isVertexInputStruct(ps layout.ParsedStruct) bool {
	hasLocation := false
	for _, f := range ps.Fields {
		if f.Builtin {
			return false
		}
		if f.Location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}
