// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// StandardVertexShader transforms lit meshes.
//
//go:embed standard.vert
var StandardVertexShader string

// StandardFragmentShader shades meshes with a directional light and an
// optional equirectangular environment map.
//
//go:embed standard.frag
var StandardFragmentShader string

// KnotVertexShader displaces the torus knot over time.
//
//go:embed knot.vert
var KnotVertexShader string

// KnotFragmentShader colors the torus knot.
//
//go:embed knot.frag
var KnotFragmentShader string

// DepthVertexShader projects casters into light space for the shadow pass.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// OverlaySolidVertexShader and OverlaySolidFragmentShader fill 2D quads.
//
//go:embed overlay_solid.vert
var OverlaySolidVertexShader string

//go:embed overlay_solid.frag
var OverlaySolidFragmentShader string

// OverlayTextVertexShader and OverlayTextFragmentShader draw glyphs from
// a single-channel atlas.
//
//go:embed overlay_text.vert
var OverlayTextVertexShader string

//go:embed overlay_text.frag
var OverlayTextFragmentShader string
