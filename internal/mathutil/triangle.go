package mathutil

// TriangleNormal returns the unnormalized face normal of triangle (a, b, c).
// Returns the zero vector for degenerate triangles.
func TriangleNormal(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// ClosestPointTriangle returns the point on triangle (a, b, c) closest to p,
// together with its barycentric coordinates (u, v, w) such that
// point = u*a + v*b + w*c. Handles all vertex/edge/interior regions
// (Ericson, Real-Time Collision Detection §5.1.5).
func ClosestPointTriangle(p, a, b, c Vec3) (Vec3, [3]float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, [3]float64{1, 0, 0}
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, [3]float64{0, 1, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		// Edge AB
		t := d1 / (d1 - d3)
		return a.Add(ab.Scale(t)), [3]float64{1 - t, t, 0}
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, [3]float64{0, 0, 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		// Edge AC
		t := d2 / (d2 - d6)
		return a.Add(ac.Scale(t)), [3]float64{1 - t, 0, t}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		// Edge BC
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(t)), [3]float64{0, 1 - t, t}
	}

	// Interior
	denom := va + vb + vc
	if denom == 0 {
		// Degenerate triangle, fall back to vertex A
		return a, [3]float64{1, 0, 0}
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w)), [3]float64{1 - v - w, v, w}
}
