package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// typeLayout holds the byte size and alignment of a WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// wgslPrimitiveLayoutMap maps WGSL scalar, vector and matrix type names to their byte size
// and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]typeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"f16":  {2, 2},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"vec2<i32>": {8, 8},
	"vec2i":     {8, 8},
	"vec3<i32>": {12, 16},
	"vec3i":     {12, 16},
	"vec4<i32>": {16, 16},
	"vec4i":     {16, 16},

	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec3<u32>": {12, 16},
	"vec3u":     {12, 16},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	"vec2<f16>": {4, 4},
	"vec2h":     {4, 4},
	"vec4<f16>": {8, 8},
	"vec4h":     {8, 8},

	// matCxR<f32>: C columns of vecR<f32>, stride = roundUp(align(vecR), size(vecR))
	"mat2x2<f32>": {16, 8},
	"mat2x3<f32>": {32, 16},
	"mat2x4<f32>": {32, 16},
	"mat3x2<f32>": {24, 8},
	"mat3x3<f32>": {48, 16},
	"mat3x4<f32>": {48, 16},
	"mat4x2<f32>": {32, 8},
	"mat4x3<f32>": {64, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},

	"atomic<u32>": {4, 4},
	"atomic<i32>": {4, 4},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// fieldRegex matches a struct member: optional attributes, name, colon, type.
	// The type capture is greedy to keep parameterized types like array<T, N> whole.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+(?:\([^)]*\))?\s*)*)\s*(\w+)\s*:\s*(.+)`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)
)

// ParsedField is one member of a WGSL struct as written in source.
type ParsedField struct {
	Name     string
	Type     string
	Location int // -1 when the member has no @location
	Builtin  bool
}

// ParsedStruct is a WGSL struct block as written in source.
type ParsedStruct struct {
	Name   string
	Fields []ParsedField
}

// ParseStructs finds every struct block in WGSL source. Comments are ignored.
//
// Parameters:
//   - source: WGSL source text
//
// Returns:
//   - []ParsedStruct: the struct blocks in source order
func ParseStructs(source string) []ParsedStruct {
	cleaned := StripComments(source)
	matches := structBlockRegex.FindAllStringSubmatch(cleaned, -1)
	structs := make([]ParsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, ParsedStruct{
			Name:   match[1],
			Fields: parseStructFields(match[2]),
		})
	}
	return structs
}

func parseStructFields(body string) []ParsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]ParsedField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := ParsedField{Location: -1}
		if builtinRegex.MatchString(part) {
			field.Builtin = true
		}
		if m := locationRegex.FindStringSubmatch(part); m != nil {
			if loc, err := strconv.Atoi(m[1]); err == nil {
				field.Location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		field.Name = fm[1]
		field.Type = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}

	return fields
}

// ShaderLayouts computes the memory layout of every struct in WGSL source using the WGSL
// alignment and size rules, independently of any Go type. Structs may reference structs
// declared anywhere in the source.
//
// Parameters:
//   - source: WGSL source text
//
// Returns:
//   - map[string]Struct: layouts keyed by struct name
//   - error: ErrUnresolvedType if a member type cannot be resolved
func ShaderLayouts(source string) (map[string]Struct, error) {
	parsed := ParseStructs(source)
	resolved := make(map[string]Struct, len(parsed))
	remaining := parsed

	for len(remaining) > 0 {
		next := remaining[:0:0]
		for _, ps := range remaining {
			if s, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.Name] = s
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(remaining) {
			return resolved, fmt.Errorf("%w: struct %s", ErrUnresolvedType, next[0].Name)
		}
		remaining = next
	}

	return resolved, nil
}

// ShaderLayout computes the layout of the named struct in WGSL source.
//
// Parameters:
//   - source: WGSL source text
//   - name: the struct to lay out
//
// Returns:
//   - Struct: the computed layout
//   - error: ErrUnresolvedType if the struct is missing or cannot be resolved
func ShaderLayout(source, name string) (Struct, error) {
	all, err := ShaderLayouts(source)
	if s, ok := all[name]; ok {
		return s, nil
	}
	if err != nil {
		return Struct{}, err
	}
	return Struct{}, fmt.Errorf("%w: struct %s not declared", ErrUnresolvedType, name)
}

// TypeSize returns the WGSL size and alignment of a type name, resolving fixed-size arrays
// and the given struct layouts. Runtime-sized arrays resolve to one element stride.
//
// Parameters:
//   - typeName: a WGSL type, e.g. "vec3<f32>" or "array<f32, 5>"
//   - known: struct layouts available for resolution, may be nil
//
// Returns:
//   - size, align: the type's byte size and alignment
//   - bool: false if the type is unknown
func TypeSize(typeName string, known map[string]Struct) (size, align uint64, ok bool) {
	tl, ok := resolveTypeLayout(typeName, known)
	return tl.size, tl.align, ok
}

func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

func resolveTypeLayout(typeName string, known map[string]Struct) (typeLayout, bool) {
	typeName = strings.TrimSpace(typeName)
	if tl, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return tl, true
	}
	if s, ok := known[typeName]; ok {
		return typeLayout{s.Size, s.Align}, true
	}

	inner, ok := arrayInner(typeName)
	if !ok {
		return typeLayout{}, false
	}
	parts := splitAtTopLevelCommas(inner)
	elem, ok := resolveTypeLayout(parts[0], known)
	if !ok {
		return typeLayout{}, false
	}
	stride := roundUpAlign(elem.align, elem.size)
	if len(parts) == 1 {
		return typeLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{count * stride, elem.align}, true
}

// arrayInner returns the text between array< and the closing >.
func arrayInner(typeName string) (string, bool) {
	if !strings.HasPrefix(typeName, "array<") || !strings.HasSuffix(typeName, ">") {
		return "", false
	}
	return typeName[len("array<") : len(typeName)-1], true
}

// computeStructLayout places each member at the next offset aligned for its type and
// rounds the struct size up to the largest member alignment. @builtin members are skipped.
func computeStructLayout(ps ParsedStruct, known map[string]Struct) (Struct, bool) {
	out := Struct{Name: ps.Name, Align: 1}
	var offset uint64

	for _, f := range ps.Fields {
		if f.Builtin {
			continue
		}
		tl, ok := resolveTypeLayout(f.Type, known)
		if !ok {
			return Struct{}, false
		}
		offset = roundUpAlign(tl.align, offset)
		out.Fields = append(out.Fields, Field{
			Name:   f.Name,
			Type:   f.Type,
			Offset: offset,
			Size:   tl.size,
			Align:  tl.align,
		})
		offset += tl.size
		if tl.align > out.Align {
			out.Align = tl.align
		}
	}

	out.Size = roundUpAlign(out.Align, offset)
	return out, true
}

// CheckUniform reports whether a struct laid out by ShaderLayout may be used in the
// uniform address space: array element strides and struct members must be 16-byte aligned.
//
// Parameters:
//   - s: a struct computed by ShaderLayout
//   - known: the other struct layouts from the same source
//
// Returns:
//   - error: ErrUniformLayout naming the first offending member, or nil
func CheckUniform(s Struct, known map[string]Struct) error {
	for _, f := range s.Fields {
		if inner, ok := arrayInner(f.Type); ok {
			parts := splitAtTopLevelCommas(inner)
			elem, ok := resolveTypeLayout(parts[0], known)
			if ok && roundUpAlign(elem.align, elem.size)%16 != 0 {
				return fmt.Errorf("%w: %s.%s array stride %d is not a multiple of 16",
					ErrUniformLayout, s.Name, f.Name, roundUpAlign(elem.align, elem.size))
			}
		}
		if _, isStruct := known[f.Type]; isStruct && f.Offset%16 != 0 {
			return fmt.Errorf("%w: %s.%s struct member at offset %d", ErrUniformLayout, s.Name, f.Name, f.Offset)
		}
	}
	return nil
}

// StripComments removes // line comments and nested /* */ block comments from WGSL source.
func StripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' && depth > 0 {
				depth--
				i += 2
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}

// splitAtTopLevelCommas splits s at commas not nested inside angle brackets, so that
// array<T, N> stays whole.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
