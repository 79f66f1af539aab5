package contract

import (
	"math/bits"
	"strconv"
	"strings"
)

// QualityLevel selects how many optional texture lookups a shader variant compiles in.
// Lower values are higher fidelity; tiers are contiguous and never skipped.
type QualityLevel int32

const (
	QualityLevelHigh QualityLevel = iota
	QualityLevelMedium
	QualityLevelLow

	// NumQualityLevels is the number of quality tiers.
	NumQualityLevels int = iota
)

var qualityLevelNames = [...]string{"high", "medium", "low"}

// String returns the stable lower-case name of the tier.
func (q QualityLevel) String() string {
	if !q.IsValid() {
		return "QualityLevel(" + strconv.Itoa(int(q)) + ")"
	}
	return qualityLevelNames[q]
}

// IsValid reports whether q is one of the declared tiers.
func (q QualityLevel) IsValid() bool {
	return q >= 0 && int(q) < NumQualityLevels
}

// ParseQualityLevel resolves a tier from its String form.
func ParseQualityLevel(name string) (QualityLevel, bool) {
	for i, n := range qualityLevelNames {
		if n == name {
			return QualityLevel(i), true
		}
	}
	return 0, false
}

// QualityLevelValues returns every QualityLevel from highest to lowest fidelity.
func QualityLevelValues() []QualityLevel {
	out := make([]QualityLevel, NumQualityLevels)
	for i := range out {
		out[i] = QualityLevel(i)
	}
	return out
}

// FunctionConstant identifies a specialization switch that enables the sampling path for
// one optional texture map when a shader variant is built.
type FunctionConstant int32

const (
	FunctionConstantBaseColorMapIndex FunctionConstant = iota
	FunctionConstantNormalMapIndex
	FunctionConstantMetallicMapIndex
	FunctionConstantRoughnessMapIndex
	FunctionConstantAmbientOcclusionMapIndex
	FunctionConstantIrradianceMapIndex

	// NumFunctionConstants is the number of specialization switches.
	NumFunctionConstants int = iota
)

var functionConstantNames = [...]string{
	"base_color",
	"normal",
	"metallic",
	"roughness",
	"ambient_occlusion",
	"irradiance",
}

// constantToTexture and textureToConstant translate between the switch order and the
// texture slot order, which differ.
var constantToTexture = [NumFunctionConstants]TextureIndex{
	FunctionConstantBaseColorMapIndex:        TextureIndexBaseColor,
	FunctionConstantNormalMapIndex:           TextureIndexNormal,
	FunctionConstantMetallicMapIndex:         TextureIndexMetallic,
	FunctionConstantRoughnessMapIndex:        TextureIndexRoughness,
	FunctionConstantAmbientOcclusionMapIndex: TextureIndexAmbientOcclusion,
	FunctionConstantIrradianceMapIndex:       TextureIndexIrradianceMap,
}

var textureToConstant = [NumTextureIndices]FunctionConstant{
	TextureIndexBaseColor:        FunctionConstantBaseColorMapIndex,
	TextureIndexMetallic:         FunctionConstantMetallicMapIndex,
	TextureIndexRoughness:        FunctionConstantRoughnessMapIndex,
	TextureIndexNormal:           FunctionConstantNormalMapIndex,
	TextureIndexAmbientOcclusion: FunctionConstantAmbientOcclusionMapIndex,
	TextureIndexIrradianceMap:    FunctionConstantIrradianceMapIndex,
}

// String returns the stable snake_case name of the switch, which is also the name of the
// map it gates.
func (f FunctionConstant) String() string {
	if !f.IsValid() {
		return "FunctionConstant(" + strconv.Itoa(int(f)) + ")"
	}
	return functionConstantNames[f]
}

// IsValid reports whether f is one of the declared switches.
func (f FunctionConstant) IsValid() bool {
	return f >= 0 && int(f) < NumFunctionConstants
}

// TextureIndex returns the texture slot whose sampling f gates, or an invalid
// TextureIndex(-1) when f is not a declared switch.
func (f FunctionConstant) TextureIndex() TextureIndex {
	if !f.IsValid() {
		return -1
	}
	return constantToTexture[f]
}

// WGSLName returns the name of the boolean constant injected into shader variants,
// e.g. HAS_BASE_COLOR_MAP.
func (f FunctionConstant) WGSLName() string {
	return "HAS_" + strings.ToUpper(f.String()) + "_MAP"
}

// ParseFunctionConstant resolves a switch from its String form.
func ParseFunctionConstant(name string) (FunctionConstant, bool) {
	for i, n := range functionConstantNames {
		if n == name {
			return FunctionConstant(i), true
		}
	}
	return 0, false
}

// FunctionConstantValues returns every FunctionConstant in ascending order.
func FunctionConstantValues() []FunctionConstant {
	out := make([]FunctionConstant, NumFunctionConstants)
	for i := range out {
		out[i] = FunctionConstant(i)
	}
	return out
}

// FunctionConstantSet is a set of enabled specialization switches. Switches are independent;
// the set carries no ordering between them.
type FunctionConstantSet uint32

// AllFunctionConstants has every switch enabled.
const AllFunctionConstants FunctionConstantSet = 1<<NumFunctionConstants - 1

// NewFunctionConstantSet returns a set with the given switches enabled.
func NewFunctionConstantSet(constants ...FunctionConstant) FunctionConstantSet {
	var s FunctionConstantSet
	for _, c := range constants {
		s = s.With(c)
	}
	return s
}

// Has reports whether c is enabled.
func (s FunctionConstantSet) Has(c FunctionConstant) bool {
	return c.IsValid() && s&(1<<uint(c)) != 0
}

// With returns s with c enabled. Invalid switches are ignored.
func (s FunctionConstantSet) With(c FunctionConstant) FunctionConstantSet {
	if !c.IsValid() {
		return s
	}
	return s | 1<<uint(c)
}

// Without returns s with c disabled.
func (s FunctionConstantSet) Without(c FunctionConstant) FunctionConstantSet {
	if !c.IsValid() {
		return s
	}
	return s &^ (1 << uint(c))
}

// Intersect returns the switches enabled in both s and o.
func (s FunctionConstantSet) Intersect(o FunctionConstantSet) FunctionConstantSet {
	return s & o & AllFunctionConstants
}

// Len returns the number of enabled switches.
func (s FunctionConstantSet) Len() int {
	return bits.OnesCount32(uint32(s & AllFunctionConstants))
}

// Constants returns the enabled switches in ascending order.
func (s FunctionConstantSet) Constants() []FunctionConstant {
	out := make([]FunctionConstant, 0, s.Len())
	for _, c := range FunctionConstantValues() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// String returns the enabled switch names joined by '+', or "none".
func (s FunctionConstantSet) String() string {
	cs := s.Constants()
	if len(cs) == 0 {
		return "none"
	}
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return strings.Join(names, "+")
}

// QualityPolicy decides which specialization switches a quality tier enables. The contract
// ships no default policy; the host supplies one.
type QualityPolicy interface {
	// Enabled returns the switches active at quality q. It must return the same set every
	// time it is called with the same tier.
	//
	// Parameters:
	//   - q: the quality tier being built
	//
	// Returns:
	//   - FunctionConstantSet: the switches enabled at q
	Enabled(q QualityLevel) FunctionConstantSet
}

// PolicyFunc adapts a plain function to QualityPolicy.
type PolicyFunc func(QualityLevel) FunctionConstantSet

// Enabled calls f(q).
func (f PolicyFunc) Enabled(q QualityLevel) FunctionConstantSet {
	return f(q)
}
