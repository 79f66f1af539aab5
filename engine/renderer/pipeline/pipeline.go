// Package pipeline describes the render pipeline of a mesh shader variant: the compiled
// stages, the host vertex and bind group layouts, and the fixed-function render state.
// GPU objects are created by the caller's device from the descriptors built here.
package pipeline

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/variant"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoVariant is returned by NewPipeline when no variant is provided.
var ErrNoVariant = errors.New("pipeline: no shader variant")

// pipeline is the implementation of the Pipeline interface.
// It holds the variant it draws with and the render state used when creating the GPU pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// variant supplies the vertex and fragment stages
	variant *variant.Variant

	// renderPipeline is set once the caller has created the GPU pipeline
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
	sampleCount         uint32
	depthFormat         wgpu.TextureFormat
}

// Pipeline defines a mesh render pipeline: one shader variant plus the depth, blend, cull
// and topology settings it is drawn with.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Variant returns the shader variant the pipeline draws with.
	//
	// Returns:
	//   - *variant.Variant: the compiled variant
	Variant() *variant.Variant

	// Shader retrieves the stage of the variant for the given type.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the stage, or nil for an unknown type
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayouts returns the host bind group layouts in group order, ready for
	// wgpu.Device.CreateBindGroupLayout and the pipeline layout.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per contract bind group
	BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor

	// Descriptor builds the render pipeline descriptor for the variant.
	//
	// Parameters:
	//   - layout: the pipeline layout created from BindGroupLayouts
	//   - vs: the module created from the vertex stage's Module descriptor
	//   - fs: the module created from the fragment stage's Module descriptor
	//   - format: the color target format
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor to pass to wgpu.Device.CreateRenderPipeline
	Descriptor(layout *wgpu.PipelineLayout, vs, fs *wgpu.ShaderModule, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// RenderPipeline returns the GPU pipeline, or nil before SetRenderPipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for a compiled variant with default render state: depth
// test and write on, blending off, no culling, CCW triangle lists, single-sampled.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - v: the variant to draw with
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance
//   - error: ErrNoVariant when v is nil
func NewPipeline(pipelineKey string, v *variant.Variant, opts ...PipelineBuilderOption) (Pipeline, error) {
	if v == nil || v.Vertex == nil || v.Fragment == nil {
		return nil, ErrNoVariant
	}
	p := &pipeline{
		pipelineKey:       pipelineKey,
		variant:           v,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		sampleCount:       1,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Variant() *variant.Variant {
	return p.variant
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.variant.Vertex
	case shader.ShaderTypeFragment:
		return p.variant.Fragment
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	host := shader.HostBindGroupLayouts()
	groups := []int{contract.BindGroupBuffers, contract.BindGroupTextures, contract.BindGroupSamplers}
	out := make([]wgpu.BindGroupLayoutDescriptor, len(groups))
	for _, g := range groups {
		desc := host[g]
		desc.Label = p.pipelineKey + " " + desc.Label
		out[g] = desc
	}
	return out
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, vs, fs *wgpu.ShaderModule, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		target.Blend = p.blendState
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.variant.Vertex.EntryPoint(),
			Buffers:    shader.HostVertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.variant.Fragment.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}
