package contract

// Build-time checks. Each line indexes a one-element array with a constant that is zero
// only while the invariant holds, so any drift fails compilation instead of corrupting a
// binding at runtime.
var (
	_ = [1]struct{}{}[len(bufferIndexNames)-NumBufferIndices]
	_ = [1]struct{}{}[len(vertexAttributeNames)-NumVertexAttributes]
	_ = [1]struct{}{}[len(textureIndexNames)-NumTextureIndices]
	_ = [1]struct{}{}[len(qualityLevelNames)-NumQualityLevels]
	_ = [1]struct{}{}[len(functionConstantNames)-NumFunctionConstants]

	// Every texture slot, environment maps included, has a switch.
	_ = [1]struct{}{}[NumTextureIndices-NumFunctionConstants]

	// The irradiance map sits past the weighted maps.
	_ = [1]struct{}{}[int(TextureIndexIrradianceMap)-NumMeshTextureIndices]

	_ = [1]struct{}{}[NumQualityLevels-3]

	// FunctionConstantSet must have a bit per switch.
	_ = [1]struct{}{}[NumFunctionConstants/33]
)
