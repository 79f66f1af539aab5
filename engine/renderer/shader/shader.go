package shader

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which render stage a shader is built for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the WGSL stage attribute name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and binding checks.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	flags                      contract.FunctionConstantSet
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	bindingTypeNames           map[int]map[int]string
	vertexInputs               map[int]string
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader defines a pre-processed mesh WGSL shader for one stage and one variant. It exposes
// the expanded source, the entry point, and the resource interface parsed back out of the
// expanded source so it can be checked against the host layouts.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the expanded WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// Flags retrieves the function constants this variant was expanded with.
	//
	// Returns:
	//   - contract.FunctionConstantSet: the enabled switches
	Flags() contract.FunctionConstantSet

	// BindGroupLayoutDescriptor retrieves the parsed layout descriptor for one bind group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index for a given group and variable name, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index associated with the variable name, or -1 if not found
	//   - bool: true if the variable name was found, false otherwise
	BindGroupFromVarName(group int, varName string) (int, bool)

	// BindGroupTypeName retrieves the declared WGSL type of a binding, e.g. "Uniforms" or
	// "texture_2d<f32>".
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the type as written in the declaration, or an empty string if not found
	BindGroupTypeName(group, binding int) string

	// VertexInputs retrieves the WGSL type of each vertex input, keyed by @location.
	// Empty for fragment shaders.
	//
	// Returns:
	//   - map[int]string: input types keyed by location
	VertexInputs() map[int]string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns the binding annotations expanded into the source.
	//
	// Returns:
	//   - []Annotation: buffer, texture and sampler declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithFlags sets the function constants the shader is expanded with.
//
// Parameters:
//   - flags: the switches enabled for the variant
//
// Returns:
//   - ShaderBuilderOption: a function that sets the variant flags
func WithFlags(flags contract.FunctionConstantSet) ShaderBuilderOption {
	return func(s *shader) {
		s.flags = flags
	}
}

// NewShader pre-processes WGSL source and parses the resulting interface.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the shader is used for
//   - source: WGSL source with @mesh: annotations
//   - options: functional options applied before processing
//
// Returns:
//   - Shader: the processed shader
//   - error: a pre-processor error, or ErrNoEntryPoint when the stage has no entry point
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
	}
	for _, option := range options {
		option(s)
	}
	if err := s.parseSource(source); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// NewShaderFromPath reads WGSL source from a file and calls NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader is used for
//   - sourcePath: the file path to read WGSL source from
//   - options: functional options applied before processing
//
// Returns:
//   - Shader: the processed shader
//   - error: a read error or any error from NewShader
func NewShaderFromPath(key string, shaderType ShaderType, sourcePath string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: read %q: %w", key, sourcePath, err)
	}
	return NewShader(key, shaderType, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Flags() contract.FunctionConstantSet {
	return s.flags
}

func (s *shader) VertexInputs() map[int]string {
	return s.vertexInputs
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	if s.bindingVarNames[group] == nil {
		return -1, false
	}
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) BindGroupTypeName(group, binding int) string {
	if s.bindingTypeNames[group] == nil {
		return ""
	}
	return s.bindingTypeNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

// parseSource expands annotations, builds the module descriptor and parses the entry
// point, vertex inputs and bind group layouts out of the expanded source.
func (s *shader) parseSource(source string) error {
	pp := NewPreProcessor()
	expanded, err := pp.ProcessVariant(source, s.flags)
	if err != nil {
		return err
	}
	s.source = expanded
	s.declarations = append([]Annotation(nil), pp.Declarations()...)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}

	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.entryPoint == "" {
		return fmt.Errorf("%w: no @%s function", ErrNoEntryPoint, s.shaderType)
	}

	var visibility wgpu.ShaderStage
	switch s.shaderType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
		s.vertexInputs = parseVertexInputs(s.source, s.entryPoint)
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
		s.vertexInputs = map[int]string{}
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames, s.bindingTypeNames = parseBindGroupLayouts(s.source, visibility)
	return nil
}
