package pipeline

import (
	"github.com/Carmen-Shannon/oxy-mesh/engine/camera"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/material"
)

// BufferWrite describes a single GPU buffer write targeting a contract buffer slot at a
// given byte offset.
type BufferWrite struct {
	Buffer contract.BufferIndex
	Offset uint64
	Data   []byte
}

// DrawWrites returns the buffer writes for one draw: the per-draw uniforms into this frame's
// slot of the uniform ring, and the material block at the start of its storage buffer.
//
// Parameters:
//   - frame: the frame counter, selects the uniform ring slot
//   - u: the per-draw uniforms
//   - m: the material block
//
// Returns:
//   - []BufferWrite: writes in BufferIndex order
func DrawWrites(frame uint64, u *camera.GPUUniforms, m *material.GPUMaterialUniforms) []BufferWrite {
	return []BufferWrite{
		{Buffer: contract.BufferIndexUniforms, Offset: camera.UniformRingOffset(frame), Data: u.Marshal()},
		{Buffer: contract.BufferIndexMaterialUniforms, Offset: 0, Data: m.Marshal()},
	}
}
