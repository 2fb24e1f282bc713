package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// Op identifies a recorded command.
type Op int

const (
	OpAcquire Op = iota
	OpRelease
	OpCopy
	OpSetRenderTarget
	OpClear
	OpSetViewport
	OpSetTexture
	OpSetVector
	OpSetFloat
	OpSetInt
	OpSetVectorArray
	OpSetKeyword
	OpDraw
	OpBeginSample
	OpEndSample
	OpSubmit
)

var opNames = [...]string{
	OpAcquire:         "Acquire",
	OpRelease:         "Release",
	OpCopy:            "Copy",
	OpSetRenderTarget: "SetRenderTarget",
	OpClear:           "Clear",
	OpSetViewport:     "SetViewport",
	OpSetTexture:      "SetTexture",
	OpSetVector:       "SetVector",
	OpSetFloat:        "SetFloat",
	OpSetInt:          "SetInt",
	OpSetVectorArray:  "SetVectorArray",
	OpSetKeyword:      "SetKeyword",
	OpDraw:            "Draw",
	OpBeginSample:     "BeginSample",
	OpEndSample:       "EndSample",
	OpSubmit:          "Submit",
}

func (o Op) String() string {
	if int(o) < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Command is one recorded call. Only the fields relevant to Op are set.
type Command struct {
	Op        Op
	Target    TargetID
	Source    TargetID
	Depth     TargetID
	ColorLoad LoadAction
	DepthLoad LoadAction
	Desc      TextureDescriptor
	Property  shader.Property
	Vector    [4]float32
	Float     float32
	Int       int32
	Array     [][4]float32
	Keyword   shader.Keyword
	Enabled   bool
	Program   shader.Program
	Pass      int
	PassName  string
	Name      string
	Rect      common.Rect
	ClearMask [2]bool // depth, color
}

// Recorder is an in-memory Context. It records every command, tracks temporary lifetimes and reports
// lifetime violations: re-acquiring a held slot, releasing a slot that is not held, drawing from or into a
// released target and submitting with temporaries still held. It backs headless runs and tests.
type Recorder struct {
	copySupported bool

	commands   []Command
	held       map[TargetID]TextureDescriptor
	textures   map[shader.Property]TargetID
	vectors    map[shader.Property][4]float32
	floats     map[shader.Property]float32
	ints       map[shader.Property]int32
	arrays     map[shader.Property][][4]float32
	keywords   map[shader.Keyword]bool
	color      TargetID
	depth      TargetID
	samples    []string
	acquired   int
	released   int
	maxHeld    int
	violations []error
}

var _ Context = &Recorder{}

// NewRecorder creates an empty recorder. Hardware copies are reported as supported unless disabled with
// WithCopySupport(false).
//
// Parameters:
//   - opts: variadic list of RecorderBuilderOption functions
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder(opts ...RecorderBuilderOption) *Recorder {
	r := &Recorder{copySupported: true}
	for _, opt := range opts {
		opt(r)
	}
	r.Reset()
	return r
}

// Reset clears all recorded commands and state, keeping the options.
func (r *Recorder) Reset() {
	r.commands = nil
	r.held = make(map[TargetID]TextureDescriptor)
	r.textures = make(map[shader.Property]TargetID)
	r.vectors = make(map[shader.Property][4]float32)
	r.floats = make(map[shader.Property]float32)
	r.ints = make(map[shader.Property]int32)
	r.arrays = make(map[shader.Property][][4]float32)
	r.keywords = make(map[shader.Keyword]bool)
	r.color, r.depth = CameraTarget, NoTarget
	r.samples = nil
	r.acquired, r.released, r.maxHeld = 0, 0, 0
	r.violations = nil
}

func (r *Recorder) violate(err error) error {
	r.violations = append(r.violations, err)
	return err
}

func (r *Recorder) usable(id TargetID) bool {
	if id.Builtin() {
		return true
	}
	_, ok := r.held[id]
	return ok
}

func (r *Recorder) AcquireTemporary(id TargetID, desc TextureDescriptor) error {
	r.commands = append(r.commands, Command{Op: OpAcquire, Target: id, Desc: desc})
	if id.Builtin() {
		return r.violate(fmt.Errorf("acquire built-in target %s", id))
	}
	if _, ok := r.held[id]; ok {
		return r.violate(fmt.Errorf("acquire %s: %w", id, ErrTargetHeld))
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return r.violate(fmt.Errorf("acquire %s with size %dx%d", id, desc.Width, desc.Height))
	}
	r.held[id] = desc
	r.acquired++
	r.maxHeld = max(r.maxHeld, len(r.held))
	return nil
}

func (r *Recorder) ReleaseTemporary(id TargetID) error {
	r.commands = append(r.commands, Command{Op: OpRelease, Target: id})
	if _, ok := r.held[id]; !ok {
		return r.violate(fmt.Errorf("release %s: %w", id, ErrTargetNotHeld))
	}
	delete(r.held, id)
	r.released++
	return nil
}

func (r *Recorder) CopySupported() bool {
	return r.copySupported
}

func (r *Recorder) CopyImage(src, dst TargetID) error {
	r.commands = append(r.commands, Command{Op: OpCopy, Source: src, Target: dst})
	if !r.copySupported {
		return r.violate(errors.New("copy image is not supported"))
	}
	if !r.usable(src) || !r.usable(dst) {
		return r.violate(fmt.Errorf("copy %s -> %s: %w", src, dst, ErrTargetNotHeld))
	}
	return nil
}

func (r *Recorder) SetRenderTarget(color TargetID, colorLoad LoadAction, depth TargetID, depthLoad LoadAction) {
	r.commands = append(r.commands, Command{Op: OpSetRenderTarget, Target: color, ColorLoad: colorLoad, Depth: depth, DepthLoad: depthLoad})
	if !r.usable(color) || !r.usable(depth) {
		r.violate(fmt.Errorf("bind %s/%s: %w", color, depth, ErrTargetNotHeld))
	}
	r.color, r.depth = color, depth
}

func (r *Recorder) ClearRenderTarget(clearDepth, clearColor bool, color [4]float32) {
	r.commands = append(r.commands, Command{Op: OpClear, ClearMask: [2]bool{clearDepth, clearColor}, Vector: color})
}

func (r *Recorder) SetViewport(rect common.Rect) {
	r.commands = append(r.commands, Command{Op: OpSetViewport, Rect: rect})
}

func (r *Recorder) SetGlobalTexture(p shader.Property, id TargetID) {
	r.commands = append(r.commands, Command{Op: OpSetTexture, Property: p, Target: id})
	r.textures[p] = id
}

func (r *Recorder) SetGlobalVector(p shader.Property, v [4]float32) {
	r.commands = append(r.commands, Command{Op: OpSetVector, Property: p, Vector: v})
	r.vectors[p] = v
}

func (r *Recorder) SetGlobalFloat(p shader.Property, f float32) {
	r.commands = append(r.commands, Command{Op: OpSetFloat, Property: p, Float: f})
	r.floats[p] = f
}

func (r *Recorder) SetGlobalInt(p shader.Property, i int32) {
	r.commands = append(r.commands, Command{Op: OpSetInt, Property: p, Int: i})
	r.ints[p] = i
}

func (r *Recorder) SetGlobalVectorArray(p shader.Property, v [][4]float32) {
	if capacity := shader.Lookup(p).Length; capacity > 0 && len(v) > capacity {
		v = v[:capacity]
	}
	cp := slices.Clone(v)
	r.commands = append(r.commands, Command{Op: OpSetVectorArray, Property: p, Array: cp})
	r.arrays[p] = cp
}

func (r *Recorder) SetKeyword(k shader.Keyword, enabled bool) {
	r.commands = append(r.commands, Command{Op: OpSetKeyword, Keyword: k, Enabled: enabled})
	r.keywords[k] = enabled
}

func (r *Recorder) DrawFullscreen(program shader.Program, pass int) error {
	name, err := program.PassName(pass)
	if err != nil {
		return r.violate(err)
	}
	r.commands = append(r.commands, Command{Op: OpDraw, Program: program, Pass: pass, PassName: name, Target: r.color, Depth: r.depth})
	if !r.usable(r.color) || !r.usable(r.depth) {
		return r.violate(fmt.Errorf("draw %s into %s: %w", name, r.color, ErrTargetNotHeld))
	}
	for _, p := range passInputs(program, name) {
		if src, ok := r.textures[p]; !ok || !r.usable(src) {
			return r.violate(fmt.Errorf("draw %s reads %s=%s: %w", name, p, src, ErrTargetNotHeld))
		}
	}
	return nil
}

// passInputs lists the texture properties a pass samples, for lifetime checks.
func passInputs(program shader.Program, pass string) []shader.Property {
	switch program {
	case shader.ProgramCameraCopy:
		if pass == "CopyDepth" {
			return []shader.Property{shader.SourceDepthTexture}
		}
		return []shader.Property{shader.SourceTexture}
	case shader.ProgramPostFX:
		switch pass {
		case "BloomAdd", "BloomScatter":
			return []shader.Property{shader.FXSource, shader.FXSource2}
		case "ApplyColorGrading", "ApplyColorGradingWithLuma":
			return []shader.Property{shader.FXSource, shader.ColorGradingLUT}
		default:
			return []shader.Property{shader.FXSource}
		}
	}
	return nil
}

func (r *Recorder) BeginSample(name string) {
	r.commands = append(r.commands, Command{Op: OpBeginSample, Name: name})
	r.samples = append(r.samples, name)
}

func (r *Recorder) EndSample(name string) {
	r.commands = append(r.commands, Command{Op: OpEndSample, Name: name})
	if n := len(r.samples); n == 0 || r.samples[n-1] != name {
		r.violate(fmt.Errorf("end sample %q does not match the open sample", name))
		return
	}
	r.samples = r.samples[:len(r.samples)-1]
}

func (r *Recorder) Submit() error {
	r.commands = append(r.commands, Command{Op: OpSubmit})
	if len(r.held) > 0 {
		return r.violate(fmt.Errorf("%w: %v", ErrTargetsLeaked, r.Held()))
	}
	if len(r.samples) > 0 {
		return r.violate(fmt.Errorf("samples still open at submit: %v", r.samples))
	}
	return nil
}

// Commands returns the recorded commands in order.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Filter returns the recorded commands with the given op, in order.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of recorded commands with the given op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Held returns the currently held temporaries in ascending order.
func (r *Recorder) Held() []TargetID {
	ids := make([]TargetID, 0, len(r.held))
	for id := range r.held {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Acquired returns the number of successful acquisitions.
func (r *Recorder) Acquired() int {
	return r.acquired
}

// Released returns the number of successful releases.
func (r *Recorder) Released() int {
	return r.released
}

// MaxHeld returns the largest number of temporaries held at once.
func (r *Recorder) MaxHeld() int {
	return r.maxHeld
}

// Violations returns every lifetime violation observed so far.
func (r *Recorder) Violations() []error {
	return r.violations
}

// Vector returns the last value set for a vector property.
func (r *Recorder) Vector(p shader.Property) ([4]float32, bool) {
	v, ok := r.vectors[p]
	return v, ok
}

// Float returns the last value set for a float property.
func (r *Recorder) Float(p shader.Property) (float32, bool) {
	f, ok := r.floats[p]
	return f, ok
}

// Int returns the last value set for an integer property.
func (r *Recorder) Int(p shader.Property) (int32, bool) {
	i, ok := r.ints[p]
	return i, ok
}

// VectorArray returns the last value set for a vector array property.
func (r *Recorder) VectorArray(p shader.Property) ([][4]float32, bool) {
	v, ok := r.arrays[p]
	return v, ok
}

// Texture returns the target last bound to a texture property.
func (r *Recorder) Texture(p shader.Property) (TargetID, bool) {
	id, ok := r.textures[p]
	return id, ok
}

// Keyword returns the last state set for a keyword.
func (r *Recorder) Keyword(k shader.Keyword) (bool, bool) {
	v, ok := r.keywords[k]
	return v, ok
}
