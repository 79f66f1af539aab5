package variant

import "github.com/Carmen-Shannon/oxy-mesh/engine/renderer/shader"

func MeshSourceForTest() string {
	return shader.MeshSource
}
