package slides

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/lumen/courseforge/internal/domain"
)

const (
	slideWidth  = 1600
	slideHeight = 900

	titleX  = 80
	titleY  = 80
	bulletX = 120
	bulletY = 200
	lineGap = 70

	accentHeight = 12
)

// Renderer rasterizes slides to fixed-size PNG images: title near the top,
// one bullet per line below, an accent bar when the slide carries a valid
// color accent. Slides missing optional fields render fine.
type Renderer struct {
	titleFace font.Face
	bodyFace  font.Face
}

// NewRenderer loads the preferred font from fontPath. When the font is
// missing or unreadable it falls back to the built-in monospaced bitmap
// face, so rendering always works.
func NewRenderer(fontPath string) *Renderer {
	title, body, err := loadFaces(fontPath)
	if err != nil {
		slog.Warn("preferred font unavailable, using bitmap fallback", "path", fontPath, "error", err)
		title, body = basicfont.Face7x13, basicfont.Face7x13
	}
	return &Renderer{titleFace: title, bodyFace: body}
}

func loadFaces(fontPath string) (font.Face, font.Face, error) {
	if fontPath == "" {
		return nil, nil, fmt.Errorf("no font configured")
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse font: %w", err)
	}

	title, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: 60, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, nil, fmt.Errorf("title face: %w", err)
	}
	body, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: 42, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, nil, fmt.Errorf("body face: %w", err)
	}
	return title, body, nil
}

// Render rasterizes one slide into the file at path.
func (r *Renderer) Render(slide domain.Slide, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, slideWidth, slideHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if accent, ok := parseHexColor(slide.ColorAccent); ok {
		bar := image.Rect(0, 0, slideWidth, accentHeight)
		draw.Draw(img, bar, image.NewUniform(accent), image.Point{}, draw.Src)
	}

	drawText(img, r.titleFace, titleX, titleY, slide.Title)

	y := bulletY
	for _, bullet := range slide.KeyPoints {
		drawText(img, r.bodyFace, bulletX, y, "• "+bullet)
		y += lineGap
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create slide image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode slide image: %w", err)
	}
	return nil
}

// drawText draws s with its top edge at y, matching how the layout
// constants are expressed.
func drawText(img *image.RGBA, face font.Face, x, y int, s string) {
	baseline := y + face.Metrics().Ascent.Ceil()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// parseHexColor accepts #RRGGBB and #RGB accents. Anything else, including
// the empty default, reports false and renders neutral.
func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}

	hex := s[1:]
	var r, g, b int
	switch len(hex) {
	case 6:
		r, g, b = parseHexByte(hex[0:2]), parseHexByte(hex[2:4]), parseHexByte(hex[4:6])
	case 3:
		r, g, b = parseHexNibble(hex[0]), parseHexNibble(hex[1]), parseHexNibble(hex[2])
		r, g, b = r*17, g*17, b*17
	default:
		return color.RGBA{}, false
	}
	if r < 0 || g < 0 || b < 0 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, true
}

func parseHexByte(s string) int {
	hi, lo := parseHexNibble(s[0]), parseHexNibble(s[1])
	if hi < 0 || lo < 0 {
		return -1
	}
	return hi<<4 | lo
}

func parseHexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
