package camera

import "github.com/Carmen-Shannon/oxy-mesh/common"

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithTranslation sets the view matrix to a pure translation, e.g. (0, -10, -40) to back
// the camera away from a model at the origin.
//
// Parameters:
//   - x, y, z: translation applied to world coordinates
//
// Returns:
//   - CameraBuilderOption: functional option to set the view matrix
func WithTranslation(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		common.Translation(c.viewMatrix[:], x, y, z)
	}
}
