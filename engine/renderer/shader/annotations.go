// annotations.go defines the annotation types and parser for the mesh WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with @mesh: that inject contract
// declarations (structs, index constants, specialization flags and resource bindings) so a
// shader never spells a binding number or struct member by hand.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies a mesh annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@mesh:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the WGSL source of a registered contract struct.
	//
	// Syntax: //@mesh:include <struct>
	//
	// Example: //@mesh:include material_uniforms
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeIndices injects WGSL const declarations for every buffer, vertex
	// attribute and texture index, plus the derived counts.
	//
	// Syntax: //@mesh:indices
	AnnotationTypeIndices AnnotationType = "indices"

	// AnnotationTypeConstants injects one `const HAS_<MAP>_MAP: bool` per function constant,
	// set from the variant being built. Branches on these fold away at compile time.
	//
	// Syntax: //@mesh:constants
	AnnotationTypeConstants AnnotationType = "constants"

	// AnnotationTypeBuffer declares a buffer binding at @group(BindGroupBuffers)
	// @binding(<BufferIndex>) and records it as a declaration.
	//
	// Syntax: //@mesh:buffer <buffer_index_name> <var_name>
	//
	// Example: //@mesh:buffer uniforms uniforms
	AnnotationTypeBuffer AnnotationType = "buffer"

	// AnnotationTypeTexture declares a texture binding at @group(BindGroupTextures)
	// @binding(<TextureIndex>) and records it as a declaration.
	//
	// Syntax: //@mesh:texture <texture_index_name> <var_name>
	//
	// Example: //@mesh:texture base_color baseColorMap
	AnnotationTypeTexture AnnotationType = "texture"

	// AnnotationTypeSampler declares a sampler binding at @group(BindGroupSamplers).
	//
	// Syntax: //@mesh:sampler <material|environment> <var_name>
	AnnotationTypeSampler AnnotationType = "sampler"
)

// annotationArity is the number of arguments each annotation type takes.
var annotationArity = map[AnnotationType]int{
	AnnotationTypeInclude:   1,
	AnnotationTypeIndices:   0,
	AnnotationTypeConstants: 0,
	AnnotationTypeBuffer:    2,
	AnnotationTypeTexture:   2,
	AnnotationTypeSampler:   2,
}

// Annotation represents a single parsed @mesh: annotation from a WGSL source line.
// Buffer, texture and sampler annotations are resolved to a group and binding by the
// PreProcessor and appended to its declarations list.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments in source order.
	Args []string

	// Line is the 1-based line number in the original WGSL source. Used for error reporting.
	Line int

	// Group is the @group index for binding annotations. Nil otherwise.
	Group *int

	// Binding is the @binding index for binding annotations. Nil otherwise.
	Binding *int
}

// parseAnnotation parses a single source line. It returns nil, nil when the line is not an
// annotation.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number, for error messages
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if line is not an annotation
//   - error: ErrUnknownAnnotation or ErrMalformedAnnotation
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), annotationPrefix)
	if !ok {
		return nil, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: line %d: empty annotation", ErrMalformedAnnotation, lineNum)
	}
	typ := AnnotationType(fields[0])
	arity, known := annotationArity[typ]
	if !known {
		return nil, fmt.Errorf("%w: line %d: %q", ErrUnknownAnnotation, lineNum, fields[0])
	}
	args := fields[1:]
	if len(args) != arity {
		return nil, fmt.Errorf("%w: line %d: @mesh:%s takes %d arguments, got %d",
			ErrMalformedAnnotation, lineNum, typ, arity, len(args))
	}

	return &Annotation{
		Type: typ,
		Args: args,
		Line: lineNum,
	}, nil
}
