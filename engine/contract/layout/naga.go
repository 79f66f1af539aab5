package layout

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Binding is a module-scope resource as the shader compiler resolved it.
type Binding struct {
	Group   uint32
	Binding uint32
	Name    string
	Type    string
}

// CompiledModule holds the struct layouts and resource bindings the shader compiler
// produced for a WGSL module.
type CompiledModule struct {
	Structs  map[string]Struct
	Bindings []Binding
}

// Compile runs WGSL source through naga's front end and reads struct layouts and bindings
// out of the lowered IR. Unlike ShaderLayouts this uses the compiler's own layout, so the
// result is computed by a toolchain independent of this package.
//
// Parameters:
//   - source: a complete WGSL module
//
// Returns:
//   - CompiledModule: layouts keyed by struct name and bindings in declaration order
//   - error: the parse or lowering error
func Compile(source string) (CompiledModule, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return CompiledModule{}, fmt.Errorf("layout: naga parse: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return CompiledModule{}, fmt.Errorf("layout: naga lower: %w", err)
	}

	out := CompiledModule{Structs: make(map[string]Struct)}
	for h, t := range module.Types {
		st, ok := t.Inner.(ir.StructType)
		if !ok || t.Name == "" {
			continue
		}
		s := Struct{Name: t.Name, Size: uint64(st.Span), Align: irAlign(module, ir.TypeHandle(h))}
		for _, m := range st.Members {
			if m.Binding != nil {
				continue
			}
			s.Fields = append(s.Fields, Field{
				Name:   m.Name,
				Type:   module.Types[m.Type].Name,
				Offset: uint64(m.Offset),
				Size:   uint64(ir.TypeSize(module, m.Type)),
				Align:  irAlign(module, m.Type),
			})
		}
		out.Structs[t.Name] = s
	}

	for _, g := range module.GlobalVariables {
		if g.Binding == nil {
			continue
		}
		out.Bindings = append(out.Bindings, Binding{
			Group:   g.Binding.Group,
			Binding: g.Binding.Binding,
			Name:    g.Name,
			Type:    module.Types[g.Type].Name,
		})
	}
	return out, nil
}

// irAlign returns the WGSL alignment of an IR type.
func irAlign(module *ir.Module, h ir.TypeHandle) uint64 {
	switch t := module.Types[h].Inner.(type) {
	case ir.ScalarType:
		return uint64(t.Width)
	case ir.VectorType:
		return vectorAlign(t.Size, t.Scalar.Width)
	case ir.MatrixType:
		return vectorAlign(t.Rows, t.Scalar.Width)
	case ir.ArrayType:
		return irAlign(module, t.Base)
	case ir.StructType:
		var align uint64 = 1
		for _, m := range t.Members {
			align = max(align, irAlign(module, m.Type))
		}
		return align
	default:
		return 0
	}
}

func vectorAlign(size ir.VectorSize, width uint8) uint64 {
	if size == ir.Vec2 {
		return 2 * uint64(width)
	}
	return 4 * uint64(width)
}

// VerifyCompiled compares the layout naga assigns to a struct in a complete WGSL module
// with a tagged Go struct.
//
// Parameters:
//   - source: a complete WGSL module declaring the struct
//   - name: the WGSL struct name
//   - v: a value of, or pointer to, the tagged Go struct
//
// Returns:
//   - error: a compiler error, ErrUnresolvedType, ErrBadTag or ErrLayoutMismatch
func VerifyCompiled(source, name string, v any) error {
	compiled, err := Compile(source)
	if err != nil {
		return err
	}
	return compiled.Verify(name, v)
}

// Verify compares one compiled struct with a tagged Go struct.
func (c CompiledModule) Verify(name string, v any) error {
	shader, ok := c.Structs[name]
	if !ok {
		return fmt.Errorf("%w: struct %s not in compiled module", ErrUnresolvedType, name)
	}
	host, err := HostLayout(name, v)
	if err != nil {
		return err
	}
	return Compare(host, shader)
}
