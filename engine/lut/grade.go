package lut

import (
	"math"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
)

type vec3 [3]float32

func (a vec3) add(b vec3) vec3       { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a vec3) sub(b vec3) vec3       { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a vec3) mul(b vec3) vec3       { return vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]} }
func (a vec3) scale(s float32) vec3  { return vec3{a[0] * s, a[1] * s, a[2] * s} }
func (a vec3) offset(s float32) vec3 { return vec3{a[0] + s, a[1] + s, a[2] + s} }

func (a vec3) apply(f func(float32) float32) vec3 {
	return vec3{f(a[0]), f(a[1]), f(a[2])}
}

func (a vec3) max(s float32) vec3 {
	return a.apply(func(v float32) float32 { return max(v, s) })
}

func mulRows(m [3]vec3, v vec3) vec3 {
	return vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// LogC (ALEXA LogC EI 1000) encoding constants.
const (
	logCCut    = 0.011361
	logCA      = 5.555556
	logCB      = 0.047996
	logCC      = 0.244161
	logCD      = 0.386036
	logCE      = 5.301883
	logCF      = 0.092819
	acesccMid  = 0.4135884
	log10Of2   = 0.30103
	maxHDRLuma = 60
)

func luminance(c vec3) float32 {
	return c[0]*0.2126729 + c[1]*0.7151522 + c[2]*0.0721750
}

func linearToLogC(x float32) float32 {
	if x > logCCut {
		return logCC*(float32(math.Log2(float64(max(logCA*x+logCB, 1e-6))))*log10Of2) + logCD
	}
	return logCE*x + logCF
}

func logCToLinear(x float32) float32 {
	if x > logCE*logCCut+logCF {
		return (float32(math.Pow(10, float64((x-logCD)/logCC))) - logCB) / logCA
	}
	return (x - logCF) / logCE
}

func cieXYToLMS(x, y float32) vec3 {
	bigX := x / y
	bigZ := (1 - x - y) / y
	return vec3{
		0.7328*bigX + 0.4296 - 0.1624*bigZ,
		-0.7036*bigX + 1.6975 + 0.0061*bigZ,
		0.0030*bigX + 0.0136 + 0.9834*bigZ,
	}
}

func whiteBalanceCoefficients(temperature, tint float32) vec3 {
	t1 := temperature * 100 / 65
	t2 := tint * 100 / 65
	step := float32(0.05)
	if t1 < 0 {
		step = 0.1
	}
	x := 0.31271 - t1*step
	y := 2.87*x - 3*x*x - 0.27509507 + t2*0.05
	lms := cieXYToLMS(x, y)
	return vec3{0.949237 / lms[0], 1.03542 / lms[1], 1.08728 / lms[2]}
}

// The WGSL matrices are column-major and multiplied as v * M, which reads the columns as rows here.
var (
	linearToLMS = [3]vec3{
		{3.90405e-1, 5.49941e-1, 8.92632e-3},
		{7.08416e-2, 9.63172e-1, 1.35775e-3},
		{2.31082e-2, 1.28021e-1, 9.36245e-1},
	}
	lmsToLinear = [3]vec3{
		{2.85847e+0, -1.62879e+0, -2.48910e-2},
		{-2.10182e-1, 1.15820e+0, 3.24281e-4},
		{-4.18120e-2, -1.18169e-1, 1.06867e+0},
	}
)

func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := common.Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func fract(x float32) float32 {
	return x - floorf(x)
}

func rgbToHSV(c vec3) vec3 {
	k := [4]float32{0, -1.0 / 3, 2.0 / 3, -1}
	p := [4]float32{c[1], c[2], k[0], k[1]}
	if c[1] < c[2] {
		p = [4]float32{c[2], c[1], k[3], k[2]}
	}
	q := [4]float32{c[0], p[1], p[2], p[0]}
	if p[0] < c[0] {
		q = [4]float32{p[0], p[1], p[3], c[0]}
	}
	d := q[0] - min(q[3], q[1])
	const e = 1.0e-10
	return vec3{float32(math.Abs(float64(q[2] + (q[3]-q[1])/(6*d+e)))), d / (q[0] + e), q[0]}
}

func hsvToRGB(c vec3) vec3 {
	k := [4]float32{1, 2.0 / 3, 1.0 / 3, 3}
	var out vec3
	for i := 0; i < 3; i++ {
		p := float32(math.Abs(float64(fract(c[0]+k[i])*6 - k[3])))
		out[i] = c[2] * (k[0] + (common.Saturate(p-k[0])-k[0])*c[1])
	}
	return out
}

// colorGrade mirrors the shader's color_grade function.
func (g *Grading) colorGrade(in vec3) vec3 {
	c := in.apply(func(v float32) float32 { return min(v, maxHDRLuma) })
	c = c.scale(g.adjustments[0])

	lms := mulRows(linearToLMS, c).mul(g.balance)
	c = mulRows(lmsToLinear, lms)

	c = c.apply(func(v float32) float32 {
		return logCToLinear((linearToLogC(v)-acesccMid)*g.adjustments[1] + acesccMid)
	})
	c = c.mul(g.filter).max(0)

	lum := luminance(c)
	shadows := 1 - smoothstep(g.smhRange[0], g.smhRange[1], lum)
	highlights := smoothstep(g.smhRange[2], g.smhRange[3], lum)
	midtones := 1 - shadows - highlights
	c = c.mul(g.shadows).scale(shadows).
		add(c.mul(g.midtones).scale(midtones)).
		add(c.mul(g.highlights).scale(highlights))

	hsv := rgbToHSV(c)
	hsv[0] = fract(hsv[0] + g.adjustments[2])
	c = hsvToRGB(hsv)

	lum = luminance(c)
	c = c.offset(-lum).scale(g.adjustments[3]).offset(lum)
	return c.max(0)
}

func toneMapReinhard(c vec3) vec3 {
	return c.apply(func(v float32) float32 { return v / (v + 1) })
}

func neutralCurve(x float32) float32 {
	const a, b, c, d, e, f = 0.2, 0.29, 0.24, 0.272, 0.02, 0.3
	return ((x*(a*x+c*b) + d*e) / (x*(a*x+b) + d*f)) - e/f
}

func toneMapNeutral(c vec3) vec3 {
	whiteScale := 1 / neutralCurve(5.3)
	return c.apply(func(v float32) float32 { return neutralCurve(v*whiteScale) * whiteScale })
}

func toneMapACES(c vec3) vec3 {
	return c.apply(func(v float32) float32 {
		return common.Saturate((v * (2.51*v + 0.03)) / (v*(2.43*v+0.59) + 0.14))
	})
}

// toneMap applies the curve of mode.
func toneMap(mode postfx.ToneMappingMode, c vec3) vec3 {
	switch mode {
	case postfx.ToneMappingACES:
		return toneMapACES(c)
	case postfx.ToneMappingNeutral:
		return toneMapNeutral(c)
	case postfx.ToneMappingReinhard:
		return toneMapReinhard(c)
	default:
		return c
	}
}

func floorf(x float32) float32 {
	return float32(math.Floor(float64(x)))
}
