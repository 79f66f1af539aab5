// Package layout keeps the Go and WGSL views of a GPU-shared struct in lock step. Go
// structs are the single source of truth: each member carries a `wgsl:"name,type"` tag
// and padding members carry `wgsl:"-"`. GenerateStruct emits the WGSL declaration from the
// tags, ShaderLayout lays the WGSL out by the shader compiler's rules, HostLayout reads the
// Go compiler's offsets, and Verify fails when the two disagree.
package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrLayoutMismatch is returned when host and shader layouts of a struct differ.
	ErrLayoutMismatch = errors.New("layout: host and shader layouts differ")

	// ErrUnresolvedType is returned when a WGSL type cannot be sized.
	ErrUnresolvedType = errors.New("layout: unresolved WGSL type")

	// ErrUniformLayout is returned when a struct violates uniform address space rules.
	ErrUniformLayout = errors.New("layout: struct not valid in the uniform address space")

	// ErrBadTag is returned when a Go struct is missing or misuses wgsl tags.
	ErrBadTag = errors.New("layout: bad wgsl tag")
)

// tagName is the struct tag key read by this package.
const tagName = "wgsl"

// Field is one member of a laid-out struct.
type Field struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
	Align  uint64
}

// Struct is a laid-out struct. Align is zero for host layouts, where the Go compiler's
// alignment is not the GPU's.
type Struct struct {
	Name   string
	Fields []Field
	Size   uint64
	Align  uint64
}

// Field returns the member with the given name.
func (s Struct) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// taggedField is a Go struct member that is part of the shader-visible layout.
type taggedField struct {
	name   string
	wgsl   string
	offset uint64
	size   uint64
}

// structFields reads the wgsl tags of a Go struct value or pointer.
func structFields(v any) (reflect.Type, []taggedField, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w: %v is not a struct", ErrBadTag, t)
	}

	fields := make([]taggedField, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(tagName)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s.%s has no wgsl tag", ErrBadTag, t.Name(), sf.Name)
		}
		if tag == "-" {
			continue
		}
		name, typ, ok := strings.Cut(tag, ",")
		if !ok || name == "" || typ == "" {
			return nil, nil, fmt.Errorf("%w: %s.%s tag %q is not name,type", ErrBadTag, t.Name(), sf.Name, tag)
		}
		typ = strings.TrimSpace(typ)
		if elem, ok := arrayInner(typ); ok && !strings.Contains(elem, ",") {
			if sf.Type.Kind() != reflect.Array {
				return nil, nil, fmt.Errorf("%w: %s.%s is array<%s> but not a Go array", ErrBadTag, t.Name(), sf.Name, elem)
			}
			typ = fmt.Sprintf("array<%s, %d>", elem, sf.Type.Len())
		}
		fields = append(fields, taggedField{
			name:   name,
			wgsl:   typ,
			offset: uint64(sf.Offset),
			size:   uint64(sf.Type.Size()),
		})
	}
	return t, fields, nil
}

// GenerateStruct emits the WGSL declaration of a tagged Go struct. Array members tagged
// array<T> take their length from the Go array, so derived lengths flow into the shader.
//
// Parameters:
//   - name: the WGSL struct name
//   - v: a value of, or pointer to, the tagged Go struct
//
// Returns:
//   - string: the WGSL struct declaration
//   - error: ErrBadTag if the Go struct is not fully tagged
func GenerateStruct(name string, v any) (string, error) {
	_, fields, err := structFields(v)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s {\n", name)
	for _, f := range fields {
		fmt.Fprintf(&sb, "    %s: %s,\n", f.name, f.wgsl)
	}
	sb.WriteString("};\n")
	return sb.String(), nil
}

// MustGenerateStruct is GenerateStruct for package-level declarations; it panics on a
// badly tagged struct.
func MustGenerateStruct(name string, v any) string {
	src, err := GenerateStruct(name, v)
	if err != nil {
		panic(err)
	}
	return src
}

// HostLayout returns the Go compiler's layout of a tagged struct: member offsets, member
// sizes and total size, with WGSL member names and types taken from the tags.
//
// Parameters:
//   - name: the name to give the returned Struct
//   - v: a value of, or pointer to, the tagged Go struct
//
// Returns:
//   - Struct: the host layout (Align is zero)
//   - error: ErrBadTag if the Go struct is not fully tagged
func HostLayout(name string, v any) (Struct, error) {
	t, fields, err := structFields(v)
	if err != nil {
		return Struct{}, err
	}
	out := Struct{Name: name, Size: uint64(t.Size())}
	for _, f := range fields {
		out.Fields = append(out.Fields, Field{Name: f.name, Type: f.wgsl, Offset: f.offset, Size: f.size})
	}
	return out, nil
}

// Compare checks a host layout against a shader layout member by member. The host struct
// may stop short of the shader struct's trailing padding: its size only has to round up
// to the shader size at the shader alignment. Buffers are sized from the shader side.
//
// Parameters:
//   - host: the layout from HostLayout
//   - shader: the layout from ShaderLayout
//
// Returns:
//   - error: ErrLayoutMismatch describing the first difference, or nil
func Compare(host, shader Struct) error {
	if len(host.Fields) != len(shader.Fields) {
		return fmt.Errorf("%w: %s has %d host members, %d shader members",
			ErrLayoutMismatch, host.Name, len(host.Fields), len(shader.Fields))
	}
	for i, h := range host.Fields {
		s := shader.Fields[i]
		switch {
		case h.Name != s.Name:
			return fmt.Errorf("%w: %s member %d is %q on host, %q in shader", ErrLayoutMismatch, host.Name, i, h.Name, s.Name)
		case h.Offset != s.Offset:
			return fmt.Errorf("%w: %s.%s at offset %d on host, %d in shader", ErrLayoutMismatch, host.Name, h.Name, h.Offset, s.Offset)
		case h.Size != s.Size:
			return fmt.Errorf("%w: %s.%s is %d bytes on host, %d in shader", ErrLayoutMismatch, host.Name, h.Name, h.Size, s.Size)
		}
	}
	if host.Size != shader.Size && roundUpAlign(shader.Align, host.Size) != shader.Size {
		return fmt.Errorf("%w: %s is %d bytes on host, %d in shader", ErrLayoutMismatch, host.Name, host.Size, shader.Size)
	}
	return nil
}

// Verify generates the WGSL declaration of a tagged Go struct, lays it out by WGSL rules
// and compares the result with the Go compiler's layout.
//
// Parameters:
//   - name: the WGSL struct name
//   - v: a value of, or pointer to, the tagged Go struct
//
// Returns:
//   - error: ErrBadTag, ErrUnresolvedType or ErrLayoutMismatch, or nil if both agree
func Verify(name string, v any) error {
	src, err := GenerateStruct(name, v)
	if err != nil {
		return err
	}
	return VerifySource(src, name, v)
}

// VerifySource compares the layout of a struct declared in WGSL source with a tagged Go
// struct. Use it for hand-written WGSL that must match a Go type.
//
// Parameters:
//   - source: WGSL source declaring the struct
//   - name: the WGSL struct name
//   - v: a value of, or pointer to, the tagged Go struct
//
// Returns:
//   - error: ErrBadTag, ErrUnresolvedType or ErrLayoutMismatch, or nil if both agree
func VerifySource(source, name string, v any) error {
	shader, err := ShaderLayout(source, name)
	if err != nil {
		return err
	}
	host, err := HostLayout(name, v)
	if err != nil {
		return err
	}
	return Compare(host, shader)
}
