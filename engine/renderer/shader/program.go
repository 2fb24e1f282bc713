package shader

import (
	_ "embed"
	"fmt"
)

// Program is one of the full-screen shader programs. Each program is a single WGSL module with a shared
// vertex stage and one fragment entry point per pass.
type Program int

const (
	// ProgramCameraCopy blits camera attachments: pass 0 copies color, pass 1 copies depth.
	ProgramCameraCopy Program = iota
	// ProgramPostFX holds every post-processing pass.
	ProgramPostFX
	// ProgramSky draws a procedural HDR background lit by the first directional light.
	ProgramSky
)

// Camera copy passes.
const (
	PassCopy      = 0
	PassCopyDepth = 1
)

// VertexEntryPoint is the full-screen triangle vertex stage shared by every program.
const VertexEntryPoint = "vs_fullscreen"

//go:embed assets/fullscreen.wgsl
var fullscreenSource string

//go:embed assets/color.wgsl
var colorSource string

//go:embed assets/lighting.wgsl
var lightingSource string

//go:embed assets/camera_copy.wgsl
var cameraCopySource string

//go:embed assets/post_fx.wgsl
var postFXSource string

//go:embed assets/sky.wgsl
var skySource string

// LightingSource is the WGSL declaration of the lighting uniform block filled by the light collector.
// Lit surface shaders include it with "// @oxy:include lighting".
var LightingSource = lightingSource

type passInfo struct {
	name       string
	entryPoint string
}

var programPasses = map[Program][]passInfo{
	ProgramCameraCopy: {
		{"Copy", "fs_copy"},
		{"CopyDepth", "fs_copy_depth"},
	},
	// order matches postfx.Pass
	ProgramPostFX: {
		{"BloomAdd", "fs_bloom_add"},
		{"BloomHorizontal", "fs_bloom_horizontal"},
		{"BloomPrefilter", "fs_bloom_prefilter"},
		{"BloomPrefilterFireflies", "fs_bloom_prefilter_fireflies"},
		{"BloomScatter", "fs_bloom_scatter"},
		{"BloomVertical", "fs_bloom_vertical"},
		{"ColorGradingNone", "fs_color_grading_none"},
		{"ColorGradingACES", "fs_color_grading_aces"},
		{"ColorGradingNeutral", "fs_color_grading_neutral"},
		{"ColorGradingReinhard", "fs_color_grading_reinhard"},
		{"Copy", "fs_copy"},
		{"FinalRescale", "fs_final_rescale"},
		{"FXAA", "fs_fxaa"},
		{"FXAAWithLuma", "fs_fxaa_with_luma"},
		{"ApplyColorGrading", "fs_apply_color_grading"},
		{"ApplyColorGradingWithLuma", "fs_apply_color_grading_with_luma"},
	},
	ProgramSky: {
		{"Sky", "fs_sky"},
	},
}

func (p Program) String() string {
	switch p {
	case ProgramCameraCopy:
		return "CameraCopy"
	case ProgramPostFX:
		return "PostFX"
	case ProgramSky:
		return "Sky"
	default:
		return fmt.Sprintf("Program(%d)", int(p))
	}
}

// PassCount returns the number of passes in the program.
func (p Program) PassCount() int {
	return len(programPasses[p])
}

// PassName returns the display name of a pass, used for sample labels and pipeline keys.
//
// Parameters:
//   - pass: the pass index
//
// Returns:
//   - string: the pass name
//   - error: an error if the program has no such pass
func (p Program) PassName(pass int) (string, error) {
	info, err := p.pass(pass)
	if err != nil {
		return "", err
	}
	return info.name, nil
}

// EntryPoint returns the fragment entry point of a pass.
//
// Parameters:
//   - pass: the pass index
//
// Returns:
//   - string: the WGSL fragment entry point
//   - error: an error if the program has no such pass
func (p Program) EntryPoint(pass int) (string, error) {
	info, err := p.pass(pass)
	if err != nil {
		return "", err
	}
	return info.entryPoint, nil
}

func (p Program) pass(pass int) (passInfo, error) {
	passes, ok := programPasses[p]
	if !ok {
		return passInfo{}, fmt.Errorf("unknown shader program %d", int(p))
	}
	if pass < 0 || pass >= len(passes) {
		return passInfo{}, fmt.Errorf("program %s has no pass %d", p, pass)
	}
	return passes[pass], nil
}

// Source returns the complete WGSL module of the program with its includes expanded.
//
// Returns:
//   - string: the WGSL source
//   - error: an error if an include cannot be resolved
func (p Program) Source() (string, error) {
	var body string
	switch p {
	case ProgramCameraCopy:
		body = cameraCopySource
	case ProgramPostFX:
		body = postFXSource
	case ProgramSky:
		body = skySource
	default:
		return "", fmt.Errorf("unknown shader program %d", int(p))
	}
	return NewPreProcessor().Process(body)
}
