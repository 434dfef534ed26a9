package term

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/render"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func cellColors(t *testing.T, s tcell.Screen, x, y int) (fg, bg [3]int32) {
	t.Helper()
	r, _, style, _ := s.GetContent(x, y)
	if r != upperHalfBlock {
		t.Fatalf("cell (%d,%d) rune = %q, want %q", x, y, r, upperHalfBlock)
	}
	f, b, _ := style.Decompose()
	fr, fg1, fb := f.RGB()
	br, bg1, bb := b.RGB()
	return [3]int32{fr, fg1, fb}, [3]int32{br, bg1, bb}
}

func TestLayoutSize(t *testing.T) {
	s := newScreen(t, 40, 12)
	h := New(s, WithDevicePixelRatio(2))
	if w, ht := h.LayoutSize(); w != 40 || ht != 24 {
		t.Errorf("LayoutSize() = %v, %v, want 40, 24", w, ht)
	}
	if h.DevicePixelRatio() != 2 {
		t.Errorf("DevicePixelRatio() = %v, want 2", h.DevicePixelRatio())
	}
}

func TestPresentHalfBlocks(t *testing.T) {
	s := newScreen(t, 2, 1)
	h := New(s)
	ps := render.NewPixmapSurface(2, 2)
	img := ps.Image()
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{G: 255, A: 255})
	// Half-transparent premultiplied blue over black.
	img.SetRGBA(1, 0, color.RGBA{B: 128, A: 128})
	h.Attach(ps)
	h.Present()

	fg, bg := cellColors(t, s, 0, 0)
	if fg != [3]int32{255, 0, 0} || bg != [3]int32{0, 255, 0} {
		t.Errorf("cell 0 fg = %v, bg = %v, want red over green", fg, bg)
	}
	fg, bg = cellColors(t, s, 1, 0)
	if fg != [3]int32{0, 0, 128} || bg != [3]int32{0, 0, 0} {
		t.Errorf("cell 1 fg = %v, bg = %v, want [0 0 128] over black", fg, bg)
	}
}

func TestPresentBackground(t *testing.T) {
	s := newScreen(t, 1, 1)
	h := New(s, WithBackground(color.RGBA{R: 200, G: 100, B: 50, A: 255}))
	h.Attach(render.NewPixmapSurface(1, 2))
	h.Present()

	fg, _ := cellColors(t, s, 0, 0)
	if fg != [3]int32{200, 100, 50} {
		t.Errorf("transparent pixel = %v, want background", fg)
	}
}

func TestPresentScalesDown(t *testing.T) {
	s := newScreen(t, 2, 1)
	h := New(s, WithDevicePixelRatio(2))
	ps := render.NewPixmapSurface(4, 4)
	ps.Clear(color.RGBA{R: 255, A: 255})
	h.Attach(ps)
	h.Present()

	fg, bg := cellColors(t, s, 1, 0)
	if fg != [3]int32{255, 0, 0} || bg != [3]int32{255, 0, 0} {
		t.Errorf("scaled cell fg = %v, bg = %v, want red", fg, bg)
	}
}

func TestPresentFallback(t *testing.T) {
	s := newScreen(t, 3, 2)
	h := New(s)
	h.ApplyFallback(host.FallbackStyle{Background: color.RGBA{R: 10, G: 20, B: 30, A: 255}})
	h.Present()

	fg, bg := cellColors(t, s, 2, 1)
	if fg != [3]int32{10, 20, 30} || bg != [3]int32{10, 20, 30} {
		t.Errorf("fallback cell fg = %v, bg = %v, want background", fg, bg)
	}
}

func TestAttachDetach(t *testing.T) {
	h := New(newScreen(t, 1, 1))
	ps := render.NewPixmapSurface(1, 1)
	if h.Detach(ps) {
		t.Error("Detach before Attach = true")
	}
	h.Attach(ps)
	if !h.Detach(ps) {
		t.Error("Detach after Attach = false")
	}
}

func TestHandleEvent(t *testing.T) {
	s := newScreen(t, 4, 4)
	h := New(s)

	win, layout := 0, 0
	h.AddResizeListener(func() { win++ })
	h.ObserveResize(func() { layout++ })

	if !h.HandleEvent(tcell.NewEventResize(4, 4)) {
		t.Error("resize event stopped the host")
	}
	if win != 1 || layout != 1 {
		t.Errorf("resize notifications = %d window, %d layout, want 1, 1", win, layout)
	}

	tests := []struct {
		name string
		ev   tcell.Event
		want bool
	}{
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"other", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), true},
	}
	for _, tt := range tests {
		if got := h.HandleEvent(tt.ev); got != tt.want {
			t.Errorf("HandleEvent(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTickRunsFrames(t *testing.T) {
	h := New(newScreen(t, 1, 1))
	var got []float64
	h.RequestFrame(func(ts float64) { got = append(got, ts) })
	id := h.RequestFrame(func(float64) { t.Error("cancelled frame ran") })
	h.CancelFrame(id)
	h.Tick(42)
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("frames = %v, want [42]", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := New(newScreen(t, 2, 2), WithFPS(100))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ticks := 0
	var fn host.FrameFunc
	fn = func(float64) {
		ticks++
		h.RequestFrame(fn)
	}
	h.RequestFrame(fn)

	if err := h.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() = %v, want context.DeadlineExceeded", err)
	}
	if ticks == 0 {
		t.Error("no frames ran")
	}
}

func TestAcquirers(t *testing.T) {
	h := New(newScreen(t, 1, 1))
	modern, baseline := h.Acquirers()
	if modern != nil || baseline == nil {
		t.Error("default acquirers should be nil modern, software baseline")
	}
}
