package kernel

import (
	"math"
	"testing"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name       string
		e0, e1, x  float32
		want       float32
	}{
		{"below", 0, 1, -1, 0},
		{"above", 0, 1, 2, 1},
		{"middle", 0, 1, 0.5, 0.5},
		{"lower edge", 0, 1, 0, 0},
		{"upper edge", 0, 1, 1, 1},
		{"degenerate below", 0.2, 0.2, 0.1, 0},
		{"degenerate at edge", 0.2, 0.2, 0.2, 1},
		{"degenerate above", 0.2, 0.2, 0.3, 1},
		{"inverted", 0.3, 0.1, 0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Smoothstep(tt.e0, tt.e1, tt.x)
			if got != tt.want {
				t.Errorf("Smoothstep(%v, %v, %v) = %v, want %v", tt.e0, tt.e1, tt.x, got, tt.want)
			}
		})
	}
}

func TestSnoise_Bounded(t *testing.T) {
	for yi := 0; yi < 64; yi++ {
		for xi := 0; xi < 64; xi++ {
			x := float32(xi)*0.37 - 11
			y := float32(yi)*0.29 - 7
			n := Snoise(x, y)
			if math.IsNaN(float64(n)) || n < -1.05 || n > 1.05 {
				t.Fatalf("Snoise(%v, %v) = %v, want within [-1, 1]", x, y, n)
			}
		}
	}
}

func TestSnoise_Continuous(t *testing.T) {
	const step = 1e-3
	for i := 0; i < 200; i++ {
		x := float32(i) * 0.05
		y := float32(i) * 0.013
		d := abs32(Snoise(x+step, y) - Snoise(x, y))
		if d > 0.05 {
			t.Errorf("Snoise jumps by %v at (%v, %v)", d, x, y)
		}
	}
}

func TestSnoise_Deterministic(t *testing.T) {
	a := Snoise(1.25, -3.5)
	b := Snoise(1.25, -3.5)
	if a != b {
		t.Errorf("Snoise not deterministic: %v != %v", a, b)
	}
}

func flatUniforms() *Uniforms {
	return &Uniforms{
		Time:       0,
		Amplitude:  0,
		Blend:      0.5,
		Resolution: [2]float32{100, 100},
		Colors:     [StopCount]RGB{testRed, testGreen, testBlue},
	}
}

func TestShade_FlatBand(t *testing.T) {
	// With zero amplitude the band height is exactly 1 everywhere.
	u := flatUniforms()

	bottom := Shade(50.5, 0.5, u)
	if bottom.A != 0 || bottom.R != 0 || bottom.G != 0 || bottom.B != 0 {
		t.Errorf("bottom pixel = %+v, want transparent", bottom)
	}

	top := Shade(0.5, 99.5, u)
	if top.A != 1 {
		t.Errorf("top pixel alpha = %v, want 1", top.A)
	}
	// Left edge is almost the first stop, scaled by intensity.
	intensity := float32(IntensityScale * (2*0.995 - 1 + HeightBias))
	if abs32(top.R-intensity) > 0.02 {
		t.Errorf("top-left red = %v, want ~%v", top.R, intensity)
	}
}

func TestShade_Premultiplied(t *testing.T) {
	u := flatUniforms()
	u.Amplitude = 1
	u.Time = 3.7
	s := NewShader(u)
	for y := float32(0.5); y < 100; y += 7 {
		for x := float32(0.5); x < 100; x += 9 {
			p := s.Shade(x, y)
			if p.A < 0 || p.A > 1 {
				t.Fatalf("alpha at (%v, %v) = %v, want in [0, 1]", x, y, p.A)
			}
			if p.A == 0 && (p.R != 0 || p.G != 0 || p.B != 0) {
				t.Fatalf("transparent pixel at (%v, %v) has color %+v", x, y, p)
			}
		}
	}
}

func TestShade_ZeroBlendIsHardEdge(t *testing.T) {
	u := flatUniforms()
	u.Amplitude = 1
	u.Time = 12
	u.Blend = 0
	s := NewShader(u)
	for y := float32(0.5); y < 100; y++ {
		p := s.Shade(40.5, y)
		if p.A != 0 && p.A != 1 {
			t.Fatalf("alpha at row %v = %v, want 0 or 1", y, p.A)
		}
	}
}

func TestShader_MatchesShade(t *testing.T) {
	u := flatUniforms()
	u.Amplitude = 1.3
	u.Time = 0.42
	s := NewShader(u)
	for _, xy := range [][2]float32{{0.5, 0.5}, {33.5, 80.5}, {99.5, 99.5}} {
		if got, want := s.Shade(xy[0], xy[1]), Shade(xy[0], xy[1], u); got != want {
			t.Errorf("Shader.Shade%v = %+v, want %+v", xy, got, want)
		}
	}
}
