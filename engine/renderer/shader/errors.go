package shader

import "errors"

var (
	// ErrUnknownAnnotation is returned when a @mesh: annotation names an unknown directive.
	ErrUnknownAnnotation = errors.New("shader: unknown annotation")

	// ErrMalformedAnnotation is returned when a @mesh: annotation has the wrong arguments.
	ErrMalformedAnnotation = errors.New("shader: malformed annotation")

	// ErrUnknownName is returned when an annotation argument is not a contract name.
	ErrUnknownName = errors.New("shader: unknown contract name")

	// ErrInterfaceMismatch is returned when a shader's declared interface disagrees with
	// the host's buffer, texture or vertex layout.
	ErrInterfaceMismatch = errors.New("shader: interface does not match host")

	// ErrNoEntryPoint is returned when a shader has no entry point for its stage.
	ErrNoEntryPoint = errors.New("shader: no entry point")
)
