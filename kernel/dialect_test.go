package kernel

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerate_Markers(t *testing.T) {
	tests := []struct {
		dialect     Dialect
		vertex      []string
		fragment    []string
		module      []string
		notFragment []string
	}{
		{
			dialect:  DialectGLSL300ES,
			vertex:   []string{"#version 300 es", "in vec2 position;"},
			fragment: []string{"#version 300 es", "out vec4 fragColor;", "fragColor = vec4("},
		},
		{
			dialect:     DialectGLSL100,
			vertex:      []string{"attribute vec2 position;"},
			fragment:    []string{"gl_FragColor = vec4(", "uniform vec3 uColorStops[3];"},
			notFragment: []string{"#version", "fragColor ="},
		},
		{
			dialect: DialectWGSL,
			module:  []string{"@group(0) @binding(0)", "@vertex", "@fragment", "fn " + VertexEntry, "fn " + FragmentEntry},
		},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			src, err := Generate(tt.dialect)
			if err != nil {
				t.Fatalf("Generate(%v) error: %v", tt.dialect, err)
			}
			if src.Dialect != tt.dialect {
				t.Errorf("Source.Dialect = %v, want %v", src.Dialect, tt.dialect)
			}
			check := func(part, text string, markers []string) {
				for _, m := range markers {
					if !strings.Contains(text, m) {
						t.Errorf("%s missing %q", part, m)
					}
				}
			}
			check("vertex", src.Vertex, tt.vertex)
			check("fragment", src.Fragment, tt.fragment)
			check("module", src.Module, tt.module)
			for _, m := range tt.notFragment {
				if strings.Contains(src.Fragment, m) {
					t.Errorf("fragment contains %q", m)
				}
			}
			for _, text := range []string{src.Vertex, src.Fragment, src.Module} {
				if strings.Contains(text, "{{") || strings.Contains(text, "<no value>") {
					t.Errorf("unexpanded template text in %v source", tt.dialect)
				}
			}
		})
	}
}

func TestGenerate_VersionFirstLine(t *testing.T) {
	src, err := Generate(DialectGLSL300ES)
	if err != nil {
		t.Fatal(err)
	}
	for name, text := range map[string]string{"vertex": src.Vertex, "fragment": src.Fragment} {
		if !strings.HasPrefix(text, "#version 300 es\n") {
			t.Errorf("%s does not start with the version directive: %q", name, text[:20])
		}
	}
}

func TestGenerate_SharedConstants(t *testing.T) {
	src, err := Generate(DialectWGSL)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{simplexSkewX, NoiseDriftY, IntensityScale, MidPoint} {
		if lit := floatLiteral(v); !strings.Contains(src.Module, lit) {
			t.Errorf("WGSL module missing constant %s", lit)
		}
	}
}

func TestGenerate_Native(t *testing.T) {
	src, err := Generate(DialectNative)
	if err != nil {
		t.Fatal(err)
	}
	if src.Vertex != "" || src.Fragment != "" || src.Module != "" {
		t.Errorf("native source has text: %+v", src)
	}
}

func TestGenerate_UnknownDialect(t *testing.T) {
	_, err := Generate(Dialect(99))
	if !errors.Is(err, ErrUnknownDialect) {
		t.Errorf("Generate(99) error = %v, want ErrUnknownDialect", err)
	}
}

func TestFloatLiteral(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{-1, "-1.0"},
		{0.25, "0.25"},
		{289, "289.0"},
		{1e-7, "1e-07"},
	}
	for _, tt := range tests {
		if got := floatLiteral(tt.in); got != tt.want {
			t.Errorf("floatLiteral(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
