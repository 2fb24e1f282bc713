package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
)

func TestTickDuration(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{fps: 60, want: time.Second / 60},
		{fps: 0, want: time.Second / 60},
		{fps: -5, want: time.Second / 60},
		{fps: 120, want: time.Second / 120},
	}
	for _, tt := range tests {
		if got := tickDuration(tt.fps); got != tt.want {
			t.Errorf("tickDuration(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestFrameLimit(t *testing.T) {
	if got := frameLimit(0); got != 0 {
		t.Fatalf("frameLimit(0) = %v, want uncapped", got)
	}
	if got := frameLimit(30); got != time.Second/30 {
		t.Fatalf("frameLimit(30) = %v", got)
	}
}

func TestAddCameraKeepsOrder(t *testing.T) {
	e := NewEngine()
	first := camera.NewCamera(camera.WithName("first"), camera.WithPixelRect(common.Rect{Width: 64, Height: 64}))
	second := camera.NewCamera(camera.WithName("second"))
	e.AddCamera(first)
	e.AddCamera(second)

	cams := e.Cameras()
	if len(cams) != 2 || cams[0].Name() != "first" || cams[1].Name() != "second" {
		t.Fatalf("cameras out of order: %v", cams)
	}
	// without a window an empty rect stays empty
	if !cams[1].PixelRect().Size().Empty() {
		t.Fatalf("rect = %+v, want empty", cams[1].PixelRect())
	}
	cams[0] = nil
	if e.Cameras()[0] == nil {
		t.Fatal("Cameras returned the internal slice")
	}
}

func TestRunWithoutWindow(t *testing.T) {
	if err := NewEngine().Run(); err == nil {
		t.Fatal("Run without a window succeeded")
	}
}

func TestSetTickRateReplacesPending(t *testing.T) {
	e := NewEngine().(*engine)
	e.SetTickRate(30)
	e.SetTickRate(90)
	if got := <-e.tickRateChannel; got != time.Second/90 {
		t.Fatalf("pending rate = %v, want %v", got, time.Second/90)
	}
}
