// Package mesh builds geometry on the CPU and draws it with OpenGL.
package mesh

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is indexed triangle data. Positions and normals hold 3 floats
// per vertex, UVs hold 2.
type Geometry struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

func (g *Geometry) push(p, n mgl32.Vec3, u, v float32) {
	g.Positions = append(g.Positions, p[0], p[1], p[2])
	g.Normals = append(g.Normals, n[0], n[1], n[2])
	g.UVs = append(g.UVs, u, v)
}

// Bounds returns the axis-aligned bounding box.
func (g *Geometry) Bounds() (minV, maxV mgl32.Vec3) {
	if len(g.Positions) < 3 {
		return
	}
	minV = mgl32.Vec3{g.Positions[0], g.Positions[1], g.Positions[2]}
	maxV = minV
	for i := 3; i+2 < len(g.Positions); i += 3 {
		for a := 0; a < 3; a++ {
			minV[a] = min(minV[a], g.Positions[i+a])
			maxV[a] = max(maxV[a], g.Positions[i+a])
		}
	}
	return
}

// Interleaved returns position, normal, uv per vertex. Missing normals or
// UVs are zero-filled.
func (g *Geometry) Interleaved() []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, g.Positions[i*3:i*3+3]...)
		if len(g.Normals) >= (i+1)*3 {
			out = append(out, g.Normals[i*3:i*3+3]...)
		} else {
			out = append(out, 0, 0, 0)
		}
		if len(g.UVs) >= (i+1)*2 {
			out = append(out, g.UVs[i*2:i*2+2]...)
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

// Box returns a box centered on the origin with one quad per face.
func Box(width, height, depth float32) *Geometry {
	hw, hh, hd := width/2, height/2, depth/2
	faces := []struct{ normal, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	half := mgl32.Vec3{hw, hh, hd}
	scale := func(v mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{v[0] * half[0], v[1] * half[1], v[2] * half[2]}
	}

	g := &Geometry{}
	for _, f := range faces {
		base := uint32(g.VertexCount())
		center := scale(f.normal)
		u, v := scale(f.u), scale(f.v)
		g.push(center.Sub(u).Sub(v), f.normal, 0, 0)
		g.push(center.Add(u).Sub(v), f.normal, 1, 0)
		g.push(center.Add(u).Add(v), f.normal, 1, 1)
		g.push(center.Sub(u).Add(v), f.normal, 0, 1)
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// Plane returns an XY plane facing +Z, subdivided into segW x segH quads.
func Plane(width, height float32, segW, segH int) *Geometry {
	segW, segH = max(segW, 1), max(segH, 1)
	g := &Geometry{}
	normal := mgl32.Vec3{0, 0, 1}
	for iy := 0; iy <= segH; iy++ {
		v := float32(iy) / float32(segH)
		for ix := 0; ix <= segW; ix++ {
			u := float32(ix) / float32(segW)
			g.push(mgl32.Vec3{(u - 0.5) * width, (v - 0.5) * height, 0}, normal, u, v)
		}
	}
	row := uint32(segW + 1)
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := uint32(iy)*row + uint32(ix)
			b := a + 1
			c := a + row
			d := c + 1
			g.Indices = append(g.Indices, a, b, d, a, d, c)
		}
	}
	return g
}

// TorusKnot returns a (p, q) torus knot tube.
func TorusKnot(radius, tube float32, tubularSegments, radialSegments, p, q int) *Geometry {
	tubularSegments, radialSegments = max(tubularSegments, 3), max(radialSegments, 3)
	g := &Geometry{}

	for i := 0; i <= tubularSegments; i++ {
		u := float64(i) / float64(tubularSegments) * float64(p) * 2 * gomath.Pi
		p1 := knotPoint(u, p, q, radius)
		p2 := knotPoint(u+0.01, p, q, radius)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n)
		n = b.Cross(t)
		b = b.Normalize()
		n = n.Normalize()

		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * 2 * gomath.Pi
			cx := -tube * float32(gomath.Cos(v))
			cy := tube * float32(gomath.Sin(v))

			pos := p1.Add(n.Mul(cx)).Add(b.Mul(cy))
			g.push(pos, pos.Sub(p1).Normalize(),
				float32(i)/float32(tubularSegments), float32(j)/float32(radialSegments))
		}
	}

	row := uint32(radialSegments + 1)
	for j := 1; j <= tubularSegments; j++ {
		for i := 1; i <= radialSegments; i++ {
			a := row*uint32(j-1) + uint32(i-1)
			b := row*uint32(j) + uint32(i-1)
			c := row*uint32(j) + uint32(i)
			d := row*uint32(j-1) + uint32(i)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

func knotPoint(u float64, p, q int, radius float32) mgl32.Vec3 {
	cu, su := gomath.Cos(u), gomath.Sin(u)
	quOverP := float64(q) / float64(p) * u
	cs := gomath.Cos(quOverP)
	r := float64(radius)
	return mgl32.Vec3{
		float32(r * (2 + cs) * 0.5 * cu),
		float32(r * (2 + cs) * su * 0.5),
		float32(r * gomath.Sin(quOverP) * 0.5),
	}
}
