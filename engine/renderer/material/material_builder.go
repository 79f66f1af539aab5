package material

import "github.com/Carmen-Shannon/oxy-mesh/engine/contract"

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*material)

// WithBaseColor sets the linear RGB albedo.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - MaterialBuilderOption: a function that sets the base color
func WithBaseColor(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = [3]float32{r, g, b}
	}
}

// WithIrradiatedColor sets the precomputed ambient/indirect contribution.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - MaterialBuilderOption: a function that sets the irradiated color
func WithIrradiatedColor(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.irradiatedColor = [3]float32{r, g, b}
	}
}

// WithRoughness sets the same roughness on all three channels.
//
// Parameters:
//   - roughness: roughness factor (0 = smooth, 1 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that sets the roughness
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = [3]float32{roughness, roughness, roughness}
	}
}

// WithRoughnessRGB sets per-channel roughness.
func WithRoughnessRGB(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = [3]float32{r, g, b}
	}
}

// WithMetalness sets the same metalness on all three channels.
//
// Parameters:
//   - metalness: metalness factor (0 = dielectric, 1 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that sets the metalness
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = [3]float32{metalness, metalness, metalness}
	}
}

// WithMetalnessRGB sets per-channel metalness.
func WithMetalnessRGB(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = [3]float32{r, g, b}
	}
}

// WithAmbientOcclusion sets the scalar ambient occlusion factor.
func WithAmbientOcclusion(ao float32) MaterialBuilderOption {
	return func(m *material) {
		m.ambientOcclusion = ao
	}
}

// WithMaps declares the texture slots this material provides. Invalid slots are ignored.
//
// Parameters:
//   - slots: the provided texture slots
//
// Returns:
//   - MaterialBuilderOption: a function that adds the slots to the material's maps
func WithMaps(slots ...contract.TextureIndex) MaterialBuilderOption {
	return func(m *material) {
		for _, t := range slots {
			if t.IsValid() {
				m.maps = m.maps.With(t.FunctionConstant())
			}
		}
	}
}
