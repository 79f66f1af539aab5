package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tieredPolicy = `
[quality.high]
maps = ["base_color", "normal", "metallic", "roughness", "ambient_occlusion", "irradiance"]

[quality.medium]
maps = ["base_color", "normal"]

[quality.low]
maps = []
`

func TestParse(t *testing.T) {
	table, err := Parse([]byte(tieredPolicy))
	require.NoError(t, err)

	assert.Equal(t, contract.AllFunctionConstants, table.Enabled(contract.QualityLevelHigh))
	assert.Equal(t, contract.NewFunctionConstantSet(
		contract.FunctionConstantBaseColorMapIndex,
		contract.FunctionConstantNormalMapIndex,
	), table.Enabled(contract.QualityLevelMedium))
	assert.Equal(t, contract.FunctionConstantSet(0), table.Enabled(contract.QualityLevelLow))
	assert.Equal(t, contract.FunctionConstantSet(0), table.Enabled(contract.QualityLevel(7)))
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown tier": tieredPolicy + `
[quality.ultra]
maps = []
`,
		"unknown map": `
[quality.high]
maps = ["base_color", "emissive"]
[quality.medium]
maps = []
[quality.low]
maps = []
`,
		"missing tier": `
[quality.high]
maps = []
[quality.medium]
maps = []
`,
		"unknown key": `
[quality.high]
maps = []
shadows = true
[quality.medium]
maps = []
[quality.low]
maps = []
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidPolicy)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("[quality.high\nmaps = ["))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPolicy)
}

func TestMarshalRoundTrip(t *testing.T) {
	want := PolicyTable{
		contract.AllFunctionConstants,
		contract.NewFunctionConstantSet(contract.FunctionConstantIrradianceMapIndex, contract.FunctionConstantBaseColorMapIndex),
		0,
	}
	data, err := want.Marshal()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.toml")
	require.NoError(t, os.WriteFile(path, []byte(tieredPolicy), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.True(t, table.Enabled(contract.QualityLevelMedium).Has(contract.FunctionConstantNormalMapIndex))

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
