package lut

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
)

// ErrResolution is returned for a LUT size other than 16, 32 or 64.
var ErrResolution = errors.New("unsupported LUT resolution")

// Grading is the resolved grading state a LUT is baked from, the CPU counterpart of the post-processing
// globals.
type Grading struct {
	ToneMapping postfx.ToneMappingMode
	// LogC bakes the LUT over LogC encoded input, as the GPU does for HDR buffers with tone mapping.
	LogC bool

	adjustments [4]float32
	balance     vec3
	filter      vec3
	shadows     vec3
	midtones    vec3
	highlights  vec3
	smhRange    [4]float32
}

// NewGrading resolves post-processing settings into the values the bake uses.
//
// Parameters:
//   - s: the post-processing settings
//   - hdr: whether the graded buffer is HDR
//
// Returns:
//   - Grading: the resolved grading
func NewGrading(s *postfx.Settings, hdr bool) Grading {
	linear := func(c [4]float32) vec3 {
		l := common.ColorToLinear(c)
		return vec3{l[0], l[1], l[2]}
	}
	wb := postfx.WhiteBalanceVector(s.WhiteBalance)
	smh := s.ShadowsMidtonesHighlights
	return Grading{
		ToneMapping: s.ToneMapping,
		LogC:        hdr && s.ToneMapping != postfx.ToneMappingNone,
		adjustments: postfx.ColorAdjustmentsVector(s.ColorAdjustments),
		balance:     whiteBalanceCoefficients(wb[0], wb[1]),
		filter:      linear(s.ColorAdjustments.ColorFilter),
		shadows:     linear(smh.Shadows),
		midtones:    linear(smh.Midtones),
		highlights:  linear(smh.Highlights),
		smhRange:    [4]float32{smh.ShadowsStart, smh.ShadowsEnd, smh.HighlightsStart, smh.HighlightsEnd},
	}
}

// LUT is a color grading lookup table flattened into a strip of size slices: size² texels wide and size
// texels high. Red runs along x inside a slice, green along y and blue selects the slice.
type LUT struct {
	size   int
	logC   bool
	texels []vec3
}

// Size returns the cube edge length.
func (l *LUT) Size() int {
	return l.size
}

// Dimensions returns the strip width and height.
func (l *LUT) Dimensions() (width, height int) {
	return l.size * l.size, l.size
}

// At returns the texel at strip coordinate (x, y).
func (l *LUT) At(x, y int) [3]float32 {
	return l.texels[y*l.size*l.size+x]
}

type bakeImpl struct {
	workers     int
	idleTimeout time.Duration
}

// Bake evaluates the grading at every LUT texel, one strip row per worker task.
//
// Parameters:
//   - resolution: the cube edge length
//   - g: the grading
//   - opts: variadic list of BakeBuilderOption functions
//
// Returns:
//   - *LUT: the baked table
//   - error: ErrResolution for an unsupported size
func Bake(resolution postfx.LUTResolution, g Grading, opts ...BakeBuilderOption) (*LUT, error) {
	if !resolution.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrResolution, int(resolution))
	}
	b := &bakeImpl{workers: runtime.NumCPU(), idleTimeout: time.Second}
	for _, opt := range opts {
		opt(b)
	}

	size := int(resolution)
	l := &LUT{size: size, logC: g.LogC, texels: make([]vec3, size*size*size)}
	width := size * size
	scale := 1 / float32(size-1)

	pool := worker.NewDynamicWorkerPool(max(b.workers, 1), size, b.idleTimeout)
	var wg sync.WaitGroup
	for y := 0; y < size; y++ {
		wg.Add(1)
		row := y
		pool.SubmitTask(worker.Task{
			ID: row,
			Do: func() (any, error) {
				defer wg.Done()
				for x := 0; x < width; x++ {
					in := vec3{float32(x%size) * scale, float32(row) * scale, float32(x/size) * scale}
					if g.LogC {
						in = in.apply(logCToLinear)
					}
					l.texels[row*width+x] = toneMap(g.ToneMapping, g.colorGrade(in))
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	common.Logger().Debug("LUT baked", "size", size, "toneMapping", g.ToneMapping.String(), "logC", g.LogC)
	return l, nil
}

// bilinear samples the strip with clamped texel coordinates, matching a linear sampler.
func (l *LUT) bilinear(u, v float32) vec3 {
	w, h := l.Dimensions()
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0 := int(floorf(fx))
	y0 := int(floorf(fy))
	tx, ty := fx-float32(x0), fy-float32(y0)
	at := func(x, y int) vec3 {
		return l.texels[common.Clamp(y, 0, h-1)*w+common.Clamp(x, 0, w-1)]
	}
	top := lerp(at(x0, y0), at(x0+1, y0), tx)
	bottom := lerp(at(x0, y0+1), at(x0+1, y0+1), tx)
	return lerp(top, bottom, ty)
}

// Sample grades a linear color through the LUT the way the apply pass does: LogC encoded when the LUT
// was baked for LogC input, clamped to [0, 1] otherwise.
//
// Parameters:
//   - c: the linear input color
//
// Returns:
//   - [3]float32: the graded color
func (l *LUT) Sample(c [3]float32) [3]float32 {
	in := vec3(c)
	if l.logC {
		in = in.apply(linearToLogC)
	} else {
		in = in.apply(common.Saturate)
	}
	w, h := l.Dimensions()
	pw, ph, span := 1/float32(w), 1/float32(h), float32(l.size-1)

	z := in[2] * span
	shift := floorf(z)
	u := in[0]*span*pw + pw*0.5 + shift*ph
	v := in[1]*span*ph + ph*0.5
	a := l.bilinear(u, v)
	b := l.bilinear(u+ph, v)
	return lerp(a, b, z-shift)
}

func lerp(a, b vec3, t float32) vec3 {
	return a.add(b.sub(a).scale(t))
}
