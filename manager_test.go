package aurora

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/aurora/host/headless"
	"github.com/gogpu/aurora/kernel"
	"github.com/gogpu/aurora/render"
)

func newTestHost(w, h float64) *headless.Host {
	return headless.New(w, h)
}

// fakeContext is a render.Context that records calls.
type fakeContext struct {
	tier     render.Tier
	buildErr error
	drawErr  error

	width, height int
	sizes         [][2]int
	draws         int
	last          kernel.Uniforms
	lost          bool
	destroyed     bool
}

type fakeProgram struct{ ctx *fakeContext }

func (p *fakeProgram) Destroy() { p.ctx.destroyed = true }

func (c *fakeContext) Tier() render.Tier       { return c.tier }
func (c *fakeContext) Dialect() kernel.Dialect { return kernel.DialectNative }
func (c *fakeContext) Size() (int, int)        { return c.width, c.height }
func (c *fakeContext) Lose()                   { c.lost = true }

func (c *fakeContext) SetSize(width, height int) {
	c.width, c.height = width, height
	c.sizes = append(c.sizes, [2]int{width, height})
}

func (c *fakeContext) BuildProgram(kernel.Source) (render.Program, error) {
	if c.buildErr != nil {
		return nil, c.buildErr
	}
	return &fakeProgram{ctx: c}, nil
}

func (c *fakeContext) Draw(_ render.Program, u *kernel.Uniforms) error {
	if c.drawErr != nil {
		return c.drawErr
	}
	c.draws++
	c.last = *u
	return nil
}

func withFake(c *fakeContext) Option {
	return WithAcquirers(func(render.Surface) (render.Context, error) { return c, nil }, nil)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateRunning, "running"},
		{StateStopped, "stopped"},
		{StateFallback, "fallback"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int32(tt.s), got, tt.want)
		}
	}
}

func TestDevicePixels(t *testing.T) {
	tests := []struct {
		name         string
		w, h, dpr    float64
		wantW, wantH int
	}{
		{"unit", 800, 600, 1, 800, 600},
		{"retina", 800, 600, 2, 1600, 1200},
		{"floor", 101, 51, 1.5, 151, 76},
		{"zero ratio", 320, 200, 0, 320, 200},
		{"negative ratio", 320, 200, -2, 320, 200},
		{"nan ratio", 320, 200, math.NaN(), 320, 200},
		{"zero width", 0, 200, 1, 0, 0},
		{"zero height", 320, 0, 1, 0, 0},
		{"infinite", math.Inf(1), 200, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := devicePixels(tt.w, tt.h, tt.dpr)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("devicePixels(%v, %v, %v) = %d, %d, want %d, %d",
					tt.w, tt.h, tt.dpr, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFrameTime(t *testing.T) {
	pinned := 5.0
	tests := []struct {
		name  string
		props Props
		ts    float64
		want  float32
	}{
		{"clock", Props{Speed: 1}, 1000, 1.0},
		{"speed", Props{Speed: 2}, 1000, 2.0},
		{"pinned", Props{Speed: 1, Time: &pinned}, 1000, 0.5},
		{"pinned speed", Props{Speed: 4, Time: &pinned}, 0, 2.0},
		{"still", Props{Speed: 0}, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frameTime(tt.props, tt.ts)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("frameTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMountSoftwareEndToEnd(t *testing.T) {
	h := newTestHost(800, 600)
	a := Mount(h.Container, h.Window, h.Scheduler, WithTime(0))
	t.Cleanup(a.Unmount)

	if a.State() != StateRunning {
		t.Fatalf("State() = %v, want running", a.State())
	}
	if a.Tier() != render.TierBaseline {
		t.Errorf("Tier() = %v, want baseline", a.Tier())
	}
	if n := h.Scheduler.Step(0); n != 1 {
		t.Fatalf("Step ran %d callbacks, want 1", n)
	}

	s := h.Container.Surface()
	if s == nil {
		t.Fatal("no surface attached")
	}
	if s.Width() != 800 || s.Height() != 600 {
		t.Fatalf("surface = %dx%d, want 800x600", s.Width(), s.Height())
	}

	u := kernel.Uniforms{
		Amplitude:  DefaultAmplitude,
		Blend:      DefaultBlend,
		Resolution: [2]float32{800, 600},
		Colors:     defaultStopColors,
	}
	img := s.Image()
	for _, p := range [][2]int{{0, 0}, {400, 300}, {799, 599}, {123, 450}, {700, 100}} {
		x, y := p[0], p[1]
		r, g, b, al := render.PackPixel(kernel.Shade(float32(x)+0.5, float32(600-y)-0.5, &u))
		got := img.RGBAAt(x, y)
		if got.R != r || got.G != g || got.B != b || got.A != al {
			t.Errorf("pixel (%d,%d) = %v, want {%d %d %d %d}", x, y, got, r, g, b, al)
		}
	}

	// The bottom row lies below the band, the top row inside it.
	if a := img.RGBAAt(400, 599).A; a != 0 {
		t.Errorf("bottom row alpha = %d, want 0", a)
	}
	if a := img.RGBAAt(400, 0).A; a == 0 {
		t.Error("top row alpha = 0, want > 0")
	}
}

func TestMountSingleOutstandingFrame(t *testing.T) {
	h := newTestHost(64, 64)
	a := Mount(h.Container, h.Window, h.Scheduler)
	t.Cleanup(a.Unmount)

	if n := h.Scheduler.Outstanding(); n != 1 {
		t.Fatalf("after Mount Outstanding() = %d, want 1", n)
	}
	h.Container.SetLayoutSize(32, 32)
	h.Window.FireResize()
	if n := h.Scheduler.Outstanding(); n != 1 {
		t.Errorf("after resize Outstanding() = %d, want 1", n)
	}
	for i := 0; i < 3; i++ {
		h.Scheduler.Step(float64(i) * 16)
		if n := h.Scheduler.Outstanding(); n != 1 {
			t.Errorf("after frame %d Outstanding() = %d, want 1", i, n)
		}
	}
}

func TestMountNoContextFallback(t *testing.T) {
	h := newTestHost(200, 100)
	a := Mount(h.Container, h.Window, h.Scheduler, WithAcquirers(nil, nil))

	if a.State() != StateFallback {
		t.Errorf("State() = %v, want fallback", a.State())
	}
	if a.Tier() != render.TierNone {
		t.Errorf("Tier() = %v, want none", a.Tier())
	}
	if h.Container.Fallback() == nil {
		t.Error("fallback style was not applied")
	}
	if n := h.Scheduler.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
	if n := len(h.Container.Attached()); n != 0 {
		t.Errorf("attached surfaces = %d, want 0", n)
	}
	if h.Window.Listeners() != 0 || h.Container.Observers() != 0 {
		t.Error("fallback mount left resize subscriptions")
	}

	// Resize and Unmount stay harmless.
	a.Resize()
	a.Unmount()
	if a.State() != StateStopped {
		t.Errorf("State() after Unmount = %v, want stopped", a.State())
	}
}

func TestMountProbeOrder(t *testing.T) {
	modern := &fakeContext{tier: render.TierModern}
	baseline := &fakeContext{tier: render.TierBaseline}

	h := newTestHost(10, 10)
	a := Mount(h.Container, h.Window, h.Scheduler, WithAcquirers(
		func(render.Surface) (render.Context, error) { return nil, errors.New("no modern") },
		func(render.Surface) (render.Context, error) { return baseline, nil },
	))
	t.Cleanup(a.Unmount)
	if a.Tier() != render.TierBaseline {
		t.Errorf("Tier() = %v, want baseline", a.Tier())
	}

	h2 := newTestHost(10, 10)
	a2 := Mount(h2.Container, h2.Window, h2.Scheduler, WithAcquirers(
		func(render.Surface) (render.Context, error) { return modern, nil },
		func(render.Surface) (render.Context, error) { return baseline, nil },
	))
	t.Cleanup(a2.Unmount)
	if a2.Tier() != render.TierModern {
		t.Errorf("Tier() = %v, want modern", a2.Tier())
	}
}

func TestMountBuildFailureFallback(t *testing.T) {
	fc := &fakeContext{buildErr: render.ErrProgramBuild}
	h := newTestHost(100, 100)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc))

	if a.State() != StateFallback {
		t.Errorf("State() = %v, want fallback", a.State())
	}
	if !fc.lost {
		t.Error("context not released after build failure")
	}
	if h.Container.Fallback() == nil {
		t.Error("fallback style was not applied")
	}
	if n := h.Scheduler.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
}

func TestDrawErrorEngagesFallback(t *testing.T) {
	fc := &fakeContext{}
	h := newTestHost(100, 100)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc))

	h.Scheduler.Step(0)
	if fc.draws != 1 {
		t.Fatalf("draws = %d, want 1", fc.draws)
	}

	fc.drawErr = render.ErrContextLost
	h.Scheduler.Step(16)

	if a.State() != StateFallback {
		t.Errorf("State() = %v, want fallback", a.State())
	}
	if !fc.lost || !fc.destroyed {
		t.Errorf("lost = %v, destroyed = %v, want both true", fc.lost, fc.destroyed)
	}
	if n := h.Scheduler.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
	if h.Window.Listeners() != 0 || h.Container.Observers() != 0 {
		t.Error("draw failure left resize subscriptions")
	}
	if n := len(h.Container.Attached()); n != 0 {
		t.Errorf("attached surfaces = %d, want 0", n)
	}
	if h.Container.Fallback() == nil {
		t.Error("fallback style was not applied")
	}
}

func TestUnmount(t *testing.T) {
	fc := &fakeContext{}
	h := newTestHost(100, 100)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc))

	// Before the first frame.
	a.Unmount()
	if a.State() != StateStopped {
		t.Errorf("State() = %v, want stopped", a.State())
	}
	if n := h.Scheduler.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
	if h.Window.Listeners() != 0 || h.Container.Observers() != 0 {
		t.Error("Unmount left resize subscriptions")
	}
	if n := len(h.Container.Attached()); n != 0 {
		t.Errorf("attached surfaces = %d, want 0", n)
	}
	if !fc.lost || !fc.destroyed {
		t.Errorf("lost = %v, destroyed = %v, want both true", fc.lost, fc.destroyed)
	}

	// Second call is a no-op.
	a.Unmount()
	h.Scheduler.Step(0)
	if fc.draws != 0 {
		t.Errorf("draws after Unmount = %d, want 0", fc.draws)
	}
}

func TestUnmountCancelsQueuedFrame(t *testing.T) {
	fc := &fakeContext{}
	h := newTestHost(100, 100)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc))
	h.Scheduler.Step(0)
	a.Unmount()
	if n := h.Scheduler.Step(16); n != 0 {
		t.Errorf("Step after Unmount ran %d callbacks, want 0", n)
	}
	if fc.draws != 1 {
		t.Errorf("draws = %d, want 1", fc.draws)
	}
}

func TestResize(t *testing.T) {
	fc := &fakeContext{}
	h := newTestHost(100, 50)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc))
	t.Cleanup(a.Unmount)

	if fc.width != 100 || fc.height != 50 {
		t.Fatalf("initial size = %dx%d, want 100x50", fc.width, fc.height)
	}

	h.Container.SetLayoutSize(101, 51)
	h.Container.SetDevicePixelRatio(1.5)
	h.Window.FireResize()
	if fc.width != 151 || fc.height != 76 {
		t.Errorf("size = %dx%d, want 151x76", fc.width, fc.height)
	}

	h.Scheduler.Step(0)
	if fc.last.Resolution != [2]float32{151, 76} {
		t.Errorf("resolution uniform = %v, want [151 76]", fc.last.Resolution)
	}

	// A collapsed box keeps the previous size.
	calls := len(fc.sizes)
	h.Container.SetLayoutSize(0, 40)
	if len(fc.sizes) != calls {
		t.Errorf("zero-area layout resized the surface to %v", fc.sizes[len(fc.sizes)-1])
	}
	h.Scheduler.Step(16)
	if fc.last.Resolution != [2]float32{151, 76} {
		t.Errorf("resolution uniform after collapse = %v, want [151 76]", fc.last.Resolution)
	}
}

func TestSetPropsNextFrame(t *testing.T) {
	fc := &fakeContext{}
	h := newTestHost(10, 10)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc), WithAmplitude(0.5), WithTime(1))
	t.Cleanup(a.Unmount)

	h.Scheduler.Step(0)
	if fc.last.Amplitude != 0.5 {
		t.Errorf("amplitude = %v, want 0.5", fc.last.Amplitude)
	}

	p := a.Props().Load()
	p.Amplitude = 2
	p.ColorStops = []string{"#000000", "not a color"}
	a.SetProps(p)
	h.Scheduler.Step(16)

	if fc.last.Amplitude != 2 {
		t.Errorf("amplitude = %v, want 2", fc.last.Amplitude)
	}
	if fc.last.Colors[0] != (kernel.RGB{}) {
		t.Errorf("stop 0 = %v, want black", fc.last.Colors[0])
	}
	if fc.last.Colors[1] != defaultStopColors[1] || fc.last.Colors[2] != defaultStopColors[2] {
		t.Errorf("stops 1,2 = %v, %v, want defaults", fc.last.Colors[1], fc.last.Colors[2])
	}
	if math.Abs(float64(fc.last.Time-0.1)) > 1e-6 {
		t.Errorf("time = %v, want 0.1", fc.last.Time)
	}
}

func TestFrameObserver(t *testing.T) {
	fc := &fakeContext{tier: render.TierModern}
	var got []FrameStats
	h := newTestHost(40, 30)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc),
		WithFrameObserver(FrameObserverFunc(func(s FrameStats) { got = append(got, s) })))
	t.Cleanup(a.Unmount)

	h.Scheduler.Step(0)
	h.Scheduler.Step(1000)

	if len(got) != 2 {
		t.Fatalf("observed %d frames, want 2", len(got))
	}
	if got[0].Frame != 1 || got[1].Frame != 2 {
		t.Errorf("frame numbers = %d, %d, want 1, 2", got[0].Frame, got[1].Frame)
	}
	if got[1].TimestampMS != 1000 {
		t.Errorf("TimestampMS = %v, want 1000", got[1].TimestampMS)
	}
	if math.Abs(float64(got[1].TimeUniform-1)) > 1e-6 {
		t.Errorf("TimeUniform = %v, want 1", got[1].TimeUniform)
	}
	if got[1].Width != 40 || got[1].Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", got[1].Width, got[1].Height)
	}
	if got[1].Tier != render.TierModern {
		t.Errorf("Tier = %v, want modern", got[1].Tier)
	}
}

func TestWithPropsCellShared(t *testing.T) {
	fc := &fakeContext{}
	cell := NewPropsCell(DefaultProps())
	h := newTestHost(10, 10)
	a := Mount(h.Container, h.Window, h.Scheduler, withFake(fc), WithPropsCell(cell), WithAmplitude(9))
	t.Cleanup(a.Unmount)

	if a.Props() != cell {
		t.Fatal("Props() is not the supplied cell")
	}
	amp := 3.0
	cell.Update(PropsPatch{Amplitude: &amp})
	h.Scheduler.Step(0)
	if fc.last.Amplitude != 3 {
		t.Errorf("amplitude = %v, want 3", fc.last.Amplitude)
	}
}
