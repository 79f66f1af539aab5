package camera

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-mesh/common"
)

// ErrInvalidProjection is returned when perspective parameters cannot form a projection.
var ErrInvalidProjection = errors.New("camera: invalid projection")

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       [16]float32
	projectionMatrix [16]float32
}

// Camera produces the per-draw transform state consumed by the mesh vertex shader: a
// right-handed perspective projection and a view matrix that, combined with a model
// matrix, fill GPUUniforms.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// SetPerspective replaces all projection parameters at once. Invalid parameters leave
	// the camera unchanged.
	//
	// Parameters:
	//   - fov: vertical field of view in radians, in (0, π)
	//   - aspect: width / height, > 0
	//   - near: near plane distance, > 0
	//   - far: far plane distance, > near
	//
	// Returns:
	//   - error: ErrInvalidProjection if any parameter is out of range
	SetPerspective(fov, aspect, near, far float32) error

	// Resize recomputes the aspect ratio for a new drawable size.
	//
	// Parameters:
	//   - width, height: drawable size in pixels
	//
	// Returns:
	//   - error: ErrInvalidProjection if either dimension is not positive
	Resize(width, height float32) error

	// SetView replaces the view matrix.
	//
	// Parameters:
	//   - view: column-major world-to-view matrix
	SetView(view [16]float32)

	// LookAt points the camera from eye towards center.
	//
	// Parameters:
	//   - eye: camera position in world space
	//   - center: point the camera looks at
	//   - up: up direction
	LookAt(eye, center, up [3]float32)

	// Uniforms fills the transform block for one draw.
	//
	// Parameters:
	//   - model: column-major model-to-world matrix of the drawn mesh
	//
	// Returns:
	//   - GPUUniforms: projection and view*model
	Uniforms(model [16]float32) GPUUniforms
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the given options applied. Defaults are a 65° field
// of view, aspect 1, near 0.1, far 100 and an identity view.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Camera: the configured camera
//   - error: ErrInvalidProjection if the resulting projection is invalid
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    common.RadiansFromDegrees(65),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	common.Identity(c.viewMatrix[:])
	for _, option := range options {
		option(c)
	}
	if err := validatePerspective(c.fov, c.aspect, c.near, c.far); err != nil {
		return nil, err
	}
	c.updateProjection()
	return c, nil
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) SetPerspective(fov, aspect, near, far float32) error {
	if err := validatePerspective(fov, aspect, near, far); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.updateProjection()
	return nil
}

func (c *cameraImpl) Resize(width, height float32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: drawable size %gx%g", ErrInvalidProjection, width, height)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = width / height
	c.updateProjection()
	return nil
}

func (c *cameraImpl) SetView(view [16]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewMatrix = view
}

func (c *cameraImpl) LookAt(eye, center, up [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	common.LookAt(c.viewMatrix[:], eye[0], eye[1], eye[2], center[0], center[1], center[2], up[0], up[1], up[2])
}

func (c *cameraImpl) Uniforms(model [16]float32) GPUUniforms {
	c.mu.Lock()
	defer c.mu.Unlock()
	var u GPUUniforms
	u.ProjectionMatrix = c.projectionMatrix
	common.Mul4(u.ModelViewMatrix[:], c.viewMatrix[:], model[:])
	return u
}

// updateProjection recomputes the projection matrix. Callers hold mu or own c exclusively.
func (c *cameraImpl) updateProjection() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
}

func validatePerspective(fov, aspect, near, far float32) error {
	switch {
	case fov <= 0 || fov >= math.Pi:
		return fmt.Errorf("%w: fov %g outside (0, π)", ErrInvalidProjection, fov)
	case aspect <= 0:
		return fmt.Errorf("%w: aspect %g", ErrInvalidProjection, aspect)
	case near <= 0:
		return fmt.Errorf("%w: near %g", ErrInvalidProjection, near)
	case far <= near:
		return fmt.Errorf("%w: far %g not beyond near %g", ErrInvalidProjection, far, near)
	}
	return nil
}
