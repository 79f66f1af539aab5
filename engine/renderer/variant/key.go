// Package variant selects and builds the specialized mesh shaders. A variant is identified
// by the set of function constants it was expanded with; the set for a draw is the maps the
// material provides intersected with the maps the host's policy enables at the draw's tier.
package variant

import (
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
)

// Key identifies the variant used for a draw.
type Key struct {
	// Quality is the tier the draw was selected at.
	Quality contract.QualityLevel

	// Flags are the function constants enabled for the draw.
	Flags contract.FunctionConstantSet
}

// String returns "<tier>/<flags>", e.g. "medium/base_color+normal".
func (k Key) String() string {
	return k.Quality.String() + "/" + k.Flags.String()
}

// Select picks the variant for a draw. Only maps that are both available and enabled by the
// policy at q are switched on, so a shader never samples a texture that was not bound.
//
// Parameters:
//   - policy: the host's tier → switch policy
//   - q: the draw's quality tier
//   - available: the maps the material provides
//
// Returns:
//   - Key: the selected variant
func Select(policy contract.QualityPolicy, q contract.QualityLevel, available contract.FunctionConstantSet) Key {
	return Key{
		Quality: q,
		Flags:   available.Intersect(policy.Enabled(q)),
	}
}
