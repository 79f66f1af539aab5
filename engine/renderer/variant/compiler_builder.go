package variant

// CompilerBuilderOption is a functional option used to configure a Compiler during construction.
type CompilerBuilderOption func(*compiler)

// WithSource replaces the built-in mesh template.
//
// Parameters:
//   - label: a name used in shader keys and logs
//   - source: annotated WGSL with @vertex and @fragment entry points
//
// Returns:
//   - CompilerBuilderOption: a function that sets the template
func WithSource(label, source string) CompilerBuilderOption {
	return func(c *compiler) {
		c.label = label
		c.source = source
	}
}

// WithWorkers sets how many variants PrecompileAll builds at once. Values below 1 are ignored.
func WithWorkers(n int) CompilerBuilderOption {
	return func(c *compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithValidation turns SPIR-V compilation of built variants on or off. On by default.
func WithValidation(enabled bool) CompilerBuilderOption {
	return func(c *compiler) {
		c.validate = enabled
	}
}
