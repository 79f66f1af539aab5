package material

import (
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
)

// material is the implementation of the Material interface.
type material struct {
	name             string
	baseColor        [3]float32
	irradiatedColor  [3]float32
	roughness        [3]float32
	metalness        [3]float32
	ambientOcclusion float32
	maps             contract.FunctionConstantSet
}

// Material defines a mesh material as the mesh shaders see it: the scalar and vector
// defaults written to GPUMaterialUniforms and the set of texture maps it provides. The
// maps actually sampled by a draw are the provided maps the quality policy enables.
//
// Materials are immutable after construction and safe for concurrent use.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the linear RGB albedo used when the base color map is not sampled.
	BaseColor() [3]float32

	// IrradiatedColor retrieves the precomputed ambient/indirect RGB contribution.
	IrradiatedColor() [3]float32

	// Roughness retrieves the per-channel roughness.
	Roughness() [3]float32

	// Metalness retrieves the per-channel metalness.
	Metalness() [3]float32

	// AmbientOcclusion retrieves the scalar ambient occlusion factor.
	AmbientOcclusion() float32

	// Maps retrieves the texture maps this material provides, as the switches that gate them.
	//
	// Returns:
	//   - contract.FunctionConstantSet: one switch per provided map
	Maps() contract.FunctionConstantSet

	// HasMap reports whether the material provides a texture for slot t.
	//
	// Parameters:
	//   - t: the texture slot
	//
	// Returns:
	//   - bool: true if a texture is provided for t
	HasMap(t contract.TextureIndex) bool

	// Uniforms builds the GPU block for drawing this material at quality q.
	//
	// Parameters:
	//   - policy: the host's tier → switch policy
	//   - q: the quality tier of the draw
	//   - globalWeight: blend weight of sampled maps, see ComputeTextureWeights
	//
	// Returns:
	//   - GPUMaterialUniforms: the filled block
	Uniforms(policy contract.QualityPolicy, q contract.QualityLevel, globalWeight float32) GPUMaterialUniforms
}

var _ Material = &material{}

// NewMaterial creates a new Material with all specified options applied. Defaults are a
// white base color, black irradiance, roughness 1, metalness 0, ambient occlusion 1 and
// no texture maps.
//
// Parameters:
//   - name: the material identifier
//   - options: functional options applied in order
//
// Returns:
//   - Material: the configured material
func NewMaterial(name string, options ...MaterialBuilderOption) Material {
	m := &material{
		name:             name,
		baseColor:        [3]float32{1, 1, 1},
		roughness:        [3]float32{1, 1, 1},
		ambientOcclusion: 1,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [3]float32 {
	return m.baseColor
}

func (m *material) IrradiatedColor() [3]float32 {
	return m.irradiatedColor
}

func (m *material) Roughness() [3]float32 {
	return m.roughness
}

func (m *material) Metalness() [3]float32 {
	return m.metalness
}

func (m *material) AmbientOcclusion() float32 {
	return m.ambientOcclusion
}

func (m *material) Maps() contract.FunctionConstantSet {
	return m.maps
}

func (m *material) HasMap(t contract.TextureIndex) bool {
	return t.IsValid() && m.maps.Has(t.FunctionConstant())
}

func (m *material) Uniforms(policy contract.QualityPolicy, q contract.QualityLevel, globalWeight float32) GPUMaterialUniforms {
	return GPUMaterialUniforms{
		BaseColor:        m.baseColor,
		IrradiatedColor:  m.irradiatedColor,
		Roughness:        m.roughness,
		Metalness:        m.metalness,
		AmbientOcclusion: m.ambientOcclusion,
		MapWeights:       ComputeTextureWeights(policy, q, globalWeight),
	}
}

// ComputeTextureWeights sets, per weighted map, how much the sampled texture overrides the
// material's default value. Maps whose switch the policy enables at q get globalWeight so a
// tier transition can fade them in; maps the tier does not sample get 1.
//
// Parameters:
//   - policy: the host's tier → switch policy
//   - q: the quality tier being drawn
//   - globalWeight: the blend weight, clamped to [0, 1]
//
// Returns:
//   - [contract.NumMeshTextureIndices]float32: weights indexed by contract.TextureIndex
func ComputeTextureWeights(policy contract.QualityPolicy, q contract.QualityLevel, globalWeight float32) [contract.NumMeshTextureIndices]float32 {
	globalWeight = min(max(globalWeight, 0), 1)
	enabled := policy.Enabled(q)

	var weights [contract.NumMeshTextureIndices]float32
	for _, t := range contract.MeshTextureIndexValues() {
		if enabled.Has(t.FunctionConstant()) {
			weights[t] = globalWeight
		} else {
			weights[t] = 1
		}
	}
	return weights
}
