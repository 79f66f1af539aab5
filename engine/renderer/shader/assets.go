package shader

import _ "embed"

// MeshSource is the annotated WGSL template for the mesh pipeline. Both stages live in the
// one module: vs_main reads VertexInput, fs_main samples the maps its variant enables.
//
//go:embed assets/mesh.wgsl
var MeshSource string
