package shader

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestLookupNamesAreUnique(t *testing.T) {
	seen := make(map[string]Property)
	for i := 0; i < PropertyCount; i++ {
		p := Property(i)
		b := Lookup(p)
		if b.Name == "" {
			t.Fatalf("property %d has no name", i)
		}
		if prev, ok := seen[b.Name]; ok {
			t.Fatalf("name %q used by %d and %d", b.Name, prev, p)
		}
		seen[b.Name] = p

		back, ok := PropertyByName(b.Name)
		if !ok || back != p {
			t.Errorf("PropertyByName(%q) = %d, %v; want %d", b.Name, back, ok, p)
		}
	}
}

func TestBlockLayoutDoesNotOverlap(t *testing.T) {
	sizes := map[Block]uint32{BlockPostFX: PostFXBlockSize, BlockLighting: LightingBlockSize}
	type span struct {
		p          Property
		start, end uint32
	}
	spans := make(map[Block][]span)
	for i := 0; i < PropertyCount; i++ {
		b := Lookup(Property(i))
		if b.Block == BlockNone {
			continue
		}
		width := uint32(4)
		switch b.Kind {
		case KindVector:
			width = 16
		case KindVectorArray:
			width = uint32(b.Length) * 16
		}
		end := b.Offset + width
		if end > sizes[b.Block] {
			t.Errorf("%s ends at %d, past block size %d", b.Name, end, sizes[b.Block])
		}
		for _, s := range spans[b.Block] {
			if b.Offset < s.end && s.start < end {
				t.Errorf("%s [%d,%d) overlaps %s [%d,%d)", b.Name, b.Offset, end, s.p, s.start, s.end)
			}
		}
		spans[b.Block] = append(spans[b.Block], span{Property(i), b.Offset, end})
	}
}

func TestBloomPyramidBlock(t *testing.T) {
	first, ok := BloomPyramid(0)
	if !ok || first != BloomPyramid0 {
		t.Fatalf("BloomPyramid(0) = %d, %v", first, ok)
	}
	last, ok := BloomPyramid(BloomPyramidSlots - 1)
	if !ok || last.Name() != "_BloomPyramid31" {
		t.Fatalf("last pyramid slot = %q, %v", last.Name(), ok)
	}
	if _, ok := BloomPyramid(BloomPyramidSlots); ok {
		t.Fatal("slot past the reserved block should not resolve")
	}
	if _, ok := BloomPyramid(-1); ok {
		t.Fatal("negative slot should not resolve")
	}
}

func TestProgramPasses(t *testing.T) {
	if got := ProgramPostFX.PassCount(); got != 16 {
		t.Fatalf("post-fx pass count = %d, want 16", got)
	}
	name, err := ProgramPostFX.PassName(6)
	if err != nil || name != "ColorGradingNone" {
		t.Fatalf("pass 6 = %q, %v", name, err)
	}
	if _, err := ProgramPostFX.EntryPoint(16); err == nil {
		t.Fatal("expected an error for an out of range pass")
	}
	if _, err := Program(42).Source(); err == nil {
		t.Fatal("expected an error for an unknown program")
	}
}

func TestProgramSourceDeclaresEveryEntryPoint(t *testing.T) {
	for _, p := range []Program{ProgramCameraCopy, ProgramPostFX, ProgramSky} {
		src, err := p.Source()
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if strings.Contains(src, includeDirective) {
			t.Errorf("%s: unexpanded include left in source", p)
		}
		if !strings.Contains(src, "fn "+VertexEntryPoint+"(") {
			t.Errorf("%s: missing vertex entry point", p)
		}
		for i := 0; i < p.PassCount(); i++ {
			entry, _ := p.EntryPoint(i)
			if !strings.Contains(src, "fn "+entry+"(") {
				t.Errorf("%s: missing fragment entry point %q", p, entry)
			}
		}
	}
}

func TestPreProcessor(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("// @oxy:include lighting\n// @oxy:include lighting\nfn f() {}")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "struct Lighting") != 1 {
		t.Errorf("lighting block expanded %d times", strings.Count(out, "struct Lighting"))
	}
	if got := pp.Included(); len(got) != 1 || got[0] != "lighting" {
		t.Errorf("Included() = %v", got)
	}

	if _, err := pp.Process("fn f() {}\n// @oxy:include nope"); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("unknown include error = %v", err)
	}
}

func TestValidateCompilesPrograms(t *testing.T) {
	for _, p := range []Program{ProgramCameraCopy, ProgramPostFX, ProgramSky} {
		t.Run(p.String(), func(t *testing.T) {
			spirv, err := Validate(p)
			if err != nil {
				if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
					t.Skipf("naga limitation: %v", err)
				}
				t.Fatal(err)
			}
			if len(spirv) < 4 {
				t.Fatal("empty SPIR-V output")
			}
			if magic := binary.LittleEndian.Uint32(spirv[:4]); magic != 0x07230203 {
				t.Errorf("SPIR-V magic = %#x", magic)
			}
		})
	}
}
