// Package config loads the host's quality policy: which texture maps each quality tier
// samples. The renderer ships no default policy; the table always comes from the host.
//
// The file format is TOML with one table per tier:
//
//	[quality.high]
//	maps = ["base_color", "normal", "metallic", "roughness", "ambient_occlusion", "irradiance"]
//
//	[quality.medium]
//	maps = ["base_color", "normal"]
//
//	[quality.low]
//	maps = []
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidPolicy is returned when a policy file names an unknown tier or map, or omits a tier.
var ErrInvalidPolicy = errors.New("config: invalid quality policy")

// PolicyTable is a quality policy with one switch set per tier, indexed by contract.QualityLevel.
type PolicyTable [contract.NumQualityLevels]contract.FunctionConstantSet

var _ contract.QualityPolicy = PolicyTable{}

// Enabled returns the switches enabled at q. Unknown tiers enable nothing.
func (t PolicyTable) Enabled(q contract.QualityLevel) contract.FunctionConstantSet {
	if !q.IsValid() {
		return 0
	}
	return t[q]
}

type policyFile struct {
	Quality map[string]tierEntry `toml:"quality"`
}

type tierEntry struct {
	Maps []string `toml:"maps"`
}

// Parse decodes a TOML policy. Unknown keys, tiers or map names are errors, and every tier
// must be listed.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - PolicyTable: the decoded policy
//   - error: a decode error or ErrInvalidPolicy
func Parse(data []byte) (PolicyTable, error) {
	var f policyFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return PolicyTable{}, fmt.Errorf("%w: %s", ErrInvalidPolicy, strict.String())
		}
		return PolicyTable{}, fmt.Errorf("config: decode policy: %w", err)
	}

	var table PolicyTable
	seen := make(map[contract.QualityLevel]bool, contract.NumQualityLevels)
	for tierName, entry := range f.Quality {
		q, ok := contract.ParseQualityLevel(tierName)
		if !ok {
			return PolicyTable{}, fmt.Errorf("%w: unknown tier %q", ErrInvalidPolicy, tierName)
		}
		seen[q] = true
		for _, mapName := range entry.Maps {
			c, ok := contract.ParseFunctionConstant(mapName)
			if !ok {
				return PolicyTable{}, fmt.Errorf("%w: tier %s: unknown map %q", ErrInvalidPolicy, q, mapName)
			}
			table[q] = table[q].With(c)
		}
	}
	for _, q := range contract.QualityLevelValues() {
		if !seen[q] {
			return PolicyTable{}, fmt.Errorf("%w: tier %s missing", ErrInvalidPolicy, q)
		}
	}
	return table, nil
}

// Load reads and parses a TOML policy file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - PolicyTable: the decoded policy
//   - error: a read error or any error from Parse
func Load(path string) (PolicyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PolicyTable{}, fmt.Errorf("config: read policy: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return PolicyTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Marshal encodes the policy in the format Parse reads, maps listed in constant order.
//
// Returns:
//   - []byte: the TOML document
//   - error: an encode error
func (t PolicyTable) Marshal() ([]byte, error) {
	f := policyFile{Quality: make(map[string]tierEntry, contract.NumQualityLevels)}
	for _, q := range contract.QualityLevelValues() {
		maps := make([]string, 0, t[q].Len())
		for _, c := range t[q].Constants() {
			maps = append(maps, c.String())
		}
		f.Quality[q.String()] = tierEntry{Maps: maps}
	}
	return toml.Marshal(f)
}
