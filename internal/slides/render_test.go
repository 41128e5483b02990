package slides

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen/courseforge/internal/domain"
)

func TestRenderProducesFixedSizePNG(t *testing.T) {
	r := NewRenderer("")
	path := filepath.Join(t.TempDir(), "slide-1.png")

	err := r.Render(domain.Slide{
		Title:       "Welcome",
		KeyPoints:   []string{"first point", "second point"},
		ColorAccent: "#4A90E2",
	}, path)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1600 || bounds.Dy() != 900 {
		t.Fatalf("size = %dx%d, want 1600x900", bounds.Dx(), bounds.Dy())
	}

	// The accent bar covers the top rows.
	r8, g8, b8, _ := img.At(800, 5).RGBA()
	got := color.RGBA{R: uint8(r8 >> 8), G: uint8(g8 >> 8), B: uint8(b8 >> 8)}
	want := color.RGBA{R: 0x4A, G: 0x90, B: 0xE2}
	if got != want {
		t.Fatalf("accent pixel = %+v, want %+v", got, want)
	}
}

// TestRenderEmptySlide renders a slide with no optional fields at all.
func TestRenderEmptySlide(t *testing.T) {
	r := NewRenderer("")
	path := filepath.Join(t.TempDir(), "slide-1.png")

	if err := r.Render(domain.Slide{}, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	// No accent means the top edge stays white.
	r8, g8, b8, _ := img.At(0, 0).RGBA()
	if r8>>8 != 0xFF || g8>>8 != 0xFF || b8>>8 != 0xFF {
		t.Fatalf("top-left pixel = %d,%d,%d, want white", r8>>8, g8>>8, b8>>8)
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		input string
		want  color.RGBA
		ok    bool
	}{
		{"#4A90E2", color.RGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 255}, true},
		{"#ffffff", color.RGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{"#000", color.RGBA{A: 255}, true},
		{"#f00", color.RGBA{R: 255, A: 255}, true},
		{"", color.RGBA{}, false},
		{"4A90E2", color.RGBA{}, false},
		{"#12345", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
	}

	for _, tc := range cases {
		got, ok := parseHexColor(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseHexColor(%q) = %+v, %v; want %+v, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

// TestNewRendererFontFallback checks an unreadable font path still yields a
// usable renderer.
func TestNewRendererFontFallback(t *testing.T) {
	r := NewRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	path := filepath.Join(t.TempDir(), "slide-1.png")
	if err := r.Render(domain.Slide{Title: "fallback"}, path); err != nil {
		t.Fatal(err)
	}
}
