package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

var testDesc = TextureDescriptor{Width: 8, Height: 4, Filter: FilterBilinear, Format: FormatDefault}

func TestTemporaryScopeAcquireRelease(t *testing.T) {
	rec := NewRecorder()
	scope := NewTemporaryScope(rec)

	a, b := Target(shader.BloomPrefilter), Target(shader.BloomResult)
	if err := scope.Acquire(a, testDesc); err != nil {
		t.Fatal(err)
	}
	if err := scope.Acquire(b, testDesc); err != nil {
		t.Fatal(err)
	}
	if err := scope.Acquire(a, testDesc); !errors.Is(err, ErrTargetHeld) {
		t.Fatalf("re-acquire error = %v, want ErrTargetHeld", err)
	}
	if scope.Held() != 2 || !scope.Holds(a) {
		t.Fatalf("Held() = %d", scope.Held())
	}
	if err := scope.Release(a); err != nil {
		t.Fatal(err)
	}
	if err := scope.Release(a); !errors.Is(err, ErrTargetNotHeld) {
		t.Fatalf("double release error = %v, want ErrTargetNotHeld", err)
	}
	if err := scope.ReleaseAll(); err != nil {
		t.Fatal(err)
	}
	if err := scope.ReleaseAll(); err != nil {
		t.Fatalf("second ReleaseAll: %v", err)
	}
	if scope.Acquired() != 2 || scope.Released() != 2 {
		t.Errorf("acquired=%d released=%d", scope.Acquired(), scope.Released())
	}
	if len(rec.Held()) != 0 || len(rec.Violations()) != 0 {
		t.Errorf("recorder held=%v violations=%v", rec.Held(), rec.Violations())
	}
}

func TestTemporaryScopeReleaseAllOrder(t *testing.T) {
	rec := NewRecorder()
	scope := NewTemporaryScope(rec)
	ids := []TargetID{Target(shader.CameraColorAttachment), Target(shader.CameraDepthAttachment), Target(shader.FinalResult)}
	for _, id := range ids {
		if err := scope.Acquire(id, testDesc); err != nil {
			t.Fatal(err)
		}
	}
	if err := scope.ReleaseAll(); err != nil {
		t.Fatal(err)
	}
	releases := rec.Filter(OpRelease)
	if len(releases) != len(ids) {
		t.Fatalf("got %d releases", len(releases))
	}
	for i, c := range releases {
		if want := ids[len(ids)-1-i]; c.Target != want {
			t.Errorf("release %d = %s, want %s", i, c.Target, want)
		}
	}
}
