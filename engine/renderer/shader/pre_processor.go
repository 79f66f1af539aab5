// pre_processor.go implements the mesh WGSL shader pre-processor. It scans shader source
// for @mesh: annotations, replaces them with declarations generated from the contract
// package and the GPU struct definitions, and collects the binding declarations so the
// host can check them against its own layouts.
//
// The pre-processor keeps one registry, structRegistry, mapping include names to the
// generated WGSL struct source. Binding annotations resolve their group and binding from
// contract indices, never from numbers written in the shader.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/engine/camera"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/material"
)

// registryEntry pairs a generated WGSL struct source with its type name.
type registryEntry struct {
	// Source is the WGSL struct definition text injected by @mesh:include.
	Source string

	// Type is the WGSL type name of the struct.
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps @mesh:include arguments to generated WGSL struct sources.
	structRegistry map[string]registryEntry

	// declarations accumulates buffer, texture and sampler annotations during a Process
	// call. Reset at the start of each call.
	declarations []Annotation
}

// PreProcessor expands @mesh: annotations in raw WGSL into contract declarations and
// records the resource bindings it emitted.
type PreProcessor interface {
	// Process expands annotations with every function constant disabled.
	//
	// Parameters:
	//   - source: WGSL source containing @mesh: annotations
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: ErrUnknownAnnotation, ErrMalformedAnnotation or ErrUnknownName
	Process(source string) (string, error)

	// ProcessVariant expands annotations, emitting HAS_<MAP>_MAP constants set from flags.
	//
	// Parameters:
	//   - source: WGSL source containing @mesh: annotations
	//   - flags: the function constants enabled for this variant
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: ErrUnknownAnnotation, ErrMalformedAnnotation or ErrUnknownName
	ProcessVariant(source string, flags contract.FunctionConstantSet) (string, error)

	// Declarations returns the binding annotations collected by the most recent Process
	// call, in source order, with Group and Binding resolved.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with every contract struct registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[string]registryEntry{
			"uniforms":          {Source: camera.GPUUniformsSource, Type: "Uniforms"},
			"material_uniforms": {Source: material.GPUMaterialUniformsSource, Type: "MaterialUniforms"},
			"vertex":            {Source: GPUVertexSource, Type: "VertexInput"},
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	return p.ProcessVariant(source, 0)
}

func (p *preProcessor) ProcessVariant(source string, flags contract.FunctionConstantSet) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		var expanded string
		switch a.Type {
		case AnnotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("%w: line %d: @mesh:include %q", ErrUnknownName, a.Line, a.Args[0])
			}
			expanded = entry.Source
		case AnnotationTypeIndices:
			expanded = IndicesSource()
		case AnnotationTypeConstants:
			expanded = ConstantsSource(flags)
		case AnnotationTypeBuffer:
			expanded, err = p.expandBuffer(a)
		case AnnotationTypeTexture:
			expanded, err = p.expandTexture(a)
		case AnnotationTypeSampler:
			expanded, err = p.expandSampler(a)
		default:
			return "", fmt.Errorf("%w: line %d: %q", ErrUnknownAnnotation, a.Line, a.Type)
		}
		if err != nil {
			return "", err
		}
		out = append(out, strings.TrimSuffix(expanded, "\n"))
	}
	return strings.Join(out, "\n"), nil
}

// expandBuffer emits the bind-group declaration of a non-vertex buffer slot.
func (p *preProcessor) expandBuffer(a *Annotation) (string, error) {
	b, ok := contract.ParseBufferIndex(a.Args[0])
	if !ok {
		return "", fmt.Errorf("%w: line %d: buffer %q", ErrUnknownName, a.Line, a.Args[0])
	}
	bb, ok := bufferBindings[b]
	if !ok {
		return "", fmt.Errorf("%w: line %d: %s is a vertex stream, not a bind-group buffer",
			ErrMalformedAnnotation, a.Line, b)
	}
	p.declare(a, contract.BindGroupBuffers, int(b))
	return fmt.Sprintf("@group(%d) @binding(%d) var<%s> %s: %s;",
		contract.BindGroupBuffers, b, bb.addressSpace, a.Args[1], bb.wgslType), nil
}

// expandTexture emits the bind-group declaration of a texture slot.
func (p *preProcessor) expandTexture(a *Annotation) (string, error) {
	t, ok := contract.ParseTextureIndex(a.Args[0])
	if !ok {
		return "", fmt.Errorf("%w: line %d: texture %q", ErrUnknownName, a.Line, a.Args[0])
	}
	_, wgslType := textureViewDimension(t)
	p.declare(a, contract.BindGroupTextures, int(t))
	return fmt.Sprintf("@group(%d) @binding(%d) var %s: %s;",
		contract.BindGroupTextures, t, a.Args[1], wgslType), nil
}

// expandSampler emits the bind-group declaration of a sampler.
func (p *preProcessor) expandSampler(a *Annotation) (string, error) {
	binding, ok := samplerBindings[a.Args[0]]
	if !ok {
		return "", fmt.Errorf("%w: line %d: sampler %q", ErrUnknownName, a.Line, a.Args[0])
	}
	p.declare(a, contract.BindGroupSamplers, binding)
	return fmt.Sprintf("@group(%d) @binding(%d) var %s: sampler;",
		contract.BindGroupSamplers, binding, a.Args[1]), nil
}

func (p *preProcessor) declare(a *Annotation, group, binding int) {
	a.Group = &group
	a.Binding = &binding
	p.declarations = append(p.declarations, *a)
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
