package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

func TestNewCameraDefaults(t *testing.T) {
	c, err := NewCamera()
	require.NoError(t, err)
	assert.InDelta(t, common.RadiansFromDegrees(65), c.Fov(), 1e-6)
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Equal(t, identity(), c.ViewMatrix())

	p := c.ProjectionMatrix()
	assert.Equal(t, float32(-1), p[11], "right-handed projection writes -z into w")
}

func TestNewCameraInvalid(t *testing.T) {
	_, err := NewCamera(WithNear(0))
	assert.ErrorIs(t, err, ErrInvalidProjection)

	_, err = NewCamera(WithNear(10), WithFar(5))
	assert.ErrorIs(t, err, ErrInvalidProjection)

	_, err = NewCamera(WithAspect(-1))
	assert.ErrorIs(t, err, ErrInvalidProjection)
}

func TestCameraResize(t *testing.T) {
	c, err := NewCamera()
	require.NoError(t, err)
	require.NoError(t, c.Resize(1920, 1080))
	assert.InDelta(t, 1920.0/1080.0, c.Aspect(), 1e-6)

	p := c.ProjectionMatrix()
	assert.InDelta(t, p[5]/c.Aspect(), p[0], 1e-6)

	assert.ErrorIs(t, c.Resize(0, 1080), ErrInvalidProjection)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect(), 1e-6, "failed resize keeps the old aspect")
}

func TestCameraUniforms(t *testing.T) {
	c, err := NewCamera(WithTranslation(0, 0, -8))
	require.NoError(t, err)

	u := c.Uniforms(identity())
	assert.Equal(t, c.ProjectionMatrix(), u.ProjectionMatrix)
	assert.Equal(t, c.ViewMatrix(), u.ModelViewMatrix)
	assert.Equal(t, float32(-8), u.ModelViewMatrix[14])

	var model [16]float32
	common.Translation(model[:], 1, 2, 3)
	u = c.Uniforms(model)
	assert.Equal(t, float32(1), u.ModelViewMatrix[12])
	assert.Equal(t, float32(2), u.ModelViewMatrix[13])
	assert.Equal(t, float32(-5), u.ModelViewMatrix[14])
}
