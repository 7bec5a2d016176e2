package core

import "math"

// BalanceHeuristic combines two sampling-strategy densities evaluated at the
// same point using the balance heuristic, weight = a / (a + b). By
// convention 0/0 is defined as 0 (neither strategy could have produced the
// sample, so it contributes nothing).
func BalanceHeuristic(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return a / (a + b)
}

// SampleCosineHemisphere draws a direction in the local frame (z = normal)
// with density proportional to cos(theta), using the Malley concentric-disk
// construction. Returns the direction and its pdf with respect to solid angle.
func SampleCosineHemisphere(u1, u2 float64) (Vec3, float64) {
	x, y := sampleConcentricDisk(u1, u2)
	z := math.Sqrt(math.Max(0, 1-x*x-y*y))
	pdf := z / math.Pi
	return Vec3{X: x, Y: y, Z: z}, pdf
}

// CosineHemispherePDF returns the pdf of SampleCosineHemisphere for a
// direction whose cosine with the normal is cosTheta.
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

func sampleConcentricDisk(u1, u2 float64) (float64, float64) {
	ox := 2*u1 - 1
	oy := 2*u2 - 1
	if ox == 0 && oy == 0 {
		return 0, 0
	}
	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math.Pi / 2) - (math.Pi/4)*(ox/oy)
	}
	return r * math.Cos(theta), r * math.Sin(theta)
}

// SampleUniformSphere draws a direction uniformly over the full sphere.
// pdf is constant, 1/(4*pi).
func SampleUniformSphere(u1, u2 float64) (Vec3, float64) {
	z := 1 - 2*u1
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u2
	return Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}, UniformSpherePDF()
}

// UniformSpherePDF is the constant solid-angle density of SampleUniformSphere.
func UniformSpherePDF() float64 {
	return 1.0 / (4 * math.Pi)
}

// SampleGGXVNDF importance-samples the visible normal distribution for the
// Smith GGX microfacet model, given local-frame view direction wo (z-up) and
// roughness alphaX, alphaY (anisotropic). Returns the sampled half vector in
// the local frame. Reference: Heitz 2018, "Sampling the GGX Distribution of
// Visible Normals".
func SampleGGXVNDF(wo Vec3, alphaX, alphaY, u1, u2 float64) Vec3 {
	vh := Vec3{X: alphaX * wo.X, Y: alphaY * wo.Y, Z: wo.Z}.Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	var t1 Vec3
	if lensq > 0 {
		t1 = Vec3{X: -vh.Y, Y: vh.X, Z: 0}.Multiply(1 / math.Sqrt(lensq))
	} else {
		t1 = Vec3{X: 1, Y: 0, Z: 0}
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u1)
	phi := 2 * math.Pi * u2
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))
	return Vec3{X: alphaX * nh.X, Y: alphaY * nh.Y, Z: math.Max(1e-6, nh.Z)}.Normalize()
}

// GGXD evaluates the anisotropic GGX normal distribution function for a
// local-frame half vector wh.
func GGXD(wh Vec3, alphaX, alphaY float64) float64 {
	cos2Theta := wh.Z * wh.Z
	if cos2Theta <= 0 {
		return 0
	}
	tan2Theta := (1 - cos2Theta) / cos2Theta
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	cos4Theta := cos2Theta * cos2Theta
	sinTheta := math.Sqrt(math.Max(0, 1-cos2Theta))
	var cosPhi, sinPhi float64
	if sinTheta == 0 {
		cosPhi, sinPhi = 1, 0
	} else {
		cosPhi, sinPhi = wh.X/sinTheta, wh.Y/sinTheta
	}
	e := tan2Theta * ((cosPhi*cosPhi)/(alphaX*alphaX) + (sinPhi*sinPhi)/(alphaY*alphaY))
	return 1 / (math.Pi * alphaX * alphaY * cos4Theta * (1 + e) * (1 + e))
}

// GGXLambda is the Smith masking auxiliary function for direction w
// (local frame, z-up) under anisotropic GGX roughness.
func GGXLambda(w Vec3, alphaX, alphaY float64) float64 {
	cos2Theta := w.Z * w.Z
	if cos2Theta >= 1 {
		return 0
	}
	sin2Theta := 1 - cos2Theta
	tanTheta := math.Sqrt(sin2Theta) / w.Z
	if math.IsInf(tanTheta, 0) || math.IsNaN(tanTheta) {
		return 0
	}
	sinTheta := math.Sqrt(sin2Theta)
	var cosPhi, sinPhi float64
	if sinTheta == 0 {
		cosPhi, sinPhi = 1, 0
	} else {
		cosPhi, sinPhi = w.X/sinTheta, w.Y/sinTheta
	}
	alpha2 := cosPhi*cosPhi*alphaX*alphaX + sinPhi*sinPhi*alphaY*alphaY
	a2 := 1 / (alpha2 * tanTheta * tanTheta)
	return (math.Sqrt(1+1/a2) - 1) / 2
}

// GGXG1 is the Smith masking function for a single direction.
func GGXG1(w Vec3, alphaX, alphaY float64) float64 {
	return 1 / (1 + GGXLambda(w, alphaX, alphaY))
}

// GGXG is the Smith height-correlated joint masking-shadowing function for a
// view/light pair.
func GGXG(wo, wi Vec3, alphaX, alphaY float64) float64 {
	return 1 / (1 + GGXLambda(wo, alphaX, alphaY) + GGXLambda(wi, alphaX, alphaY))
}

// SampleHenyeyGreenstein draws the cosine of a scattering angle relative to
// the incoming direction for a Henyey-Greenstein phase function with
// asymmetry g.
func SampleHenyeyGreenstein(g, u1, u2 float64) (cosTheta float64) {
	if math.Abs(g) < 1e-3 {
		return 1 - 2*u1
	}
	sqr := (1 - g*g) / (1 + g - 2*g*u1)
	return -(1 + g*g - sqr*sqr) / (2 * g)
}

// HenyeyGreenstein evaluates the phase function density for scattering
// angle cosine cosTheta and asymmetry parameter g.
func HenyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(denom))
}

// SchlickFresnel returns the Schlick approximation to the Fresnel
// reflectance at normal-incidence reflectance r0, for a cosine of the
// incidence angle.
func SchlickFresnel(r0, cosTheta float64) float64 {
	c := Clamp1(1-cosTheta, 0, 1)
	c2 := c * c
	return r0 + (1-r0)*c2*c2*c
}

// Clamp1 clamps a scalar to [lo, hi].
func Clamp1(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// PowerHeuristic2 computes the squared-power heuristic weight, retained
// alongside BalanceHeuristic for callers that want lower variance at the
// cost of the balance heuristic's theoretical guarantees.
func PowerHeuristic2(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return (a * a) / (a*a + b*b)
}
