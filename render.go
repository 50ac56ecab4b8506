// Package charify converts images and GIF animations into character art
// suitable for an ANSI terminal.
package charify

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

const (
	// DefaultRamp orders glyphs from darkest to brightest.
	DefaultRamp = " .:-=+*#%@"

	// DefaultAspectRatio compensates for terminal character cells being
	// taller than wide when deriving output height from input aspect ratio.
	DefaultAspectRatio = 0.55

	// DefaultBlurSigma is the gaussian blur applied before sampling colors,
	// to suppress resampling noise. Grayscale output is never blurred.
	DefaultBlurSigma = 0.6

	// DefaultWidth is the output width in characters.
	DefaultWidth = 100
)

type Option func(r *Renderer)

// WithWidth sets the output width in characters. Widths below 1 are ignored.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width >= 1 {
			r.width = width
		}
	}
}

// WithInvertedColors inverts the brightness-to-glyph mapping. Useful for
// dark terminal backgrounds.
func WithInvertedColors() Option {
	return func(r *Renderer) {
		r.invert = true
	}
}

// WithContrast sets the contrast multiplier around the luminance midpoint.
// 1.0 gives the original image.
func WithContrast(contrast float64) Option {
	return func(r *Renderer) {
		r.contrast = contrast
	}
}

// WithColors emits a 24-bit foreground color escape before every glyph and
// a reset at the end of every row.
func WithColors() Option {
	return func(r *Renderer) {
		r.color = true
	}
}

// WithRamp replaces the glyph ramp. Empty ramps are ignored.
func WithRamp(ramp string) Option {
	return func(r *Renderer) {
		if ramp != "" {
			r.ramp = []rune(ramp)
		}
	}
}

// WithAspectRatio replaces the aspect-ratio correction factor.
func WithAspectRatio(ratio float64) Option {
	return func(r *Renderer) {
		if ratio > 0 {
			r.aspect = ratio
		}
	}
}

// WithBlurSigma replaces the color-mode blur sigma. Zero disables the blur.
func WithBlurSigma(sigma float64) Option {
	return func(r *Renderer) {
		if sigma >= 0 {
			r.sigma = sigma
		}
	}
}

// Renderer converts one pixel frame into a character grid. It holds only
// read-only configuration and is safe to reuse across frames.
type Renderer struct {
	width    int
	ramp     []rune
	aspect   float64
	contrast float64
	sigma    float64
	invert   bool
	color    bool
}

func NewRenderer(opts ...Option) *Renderer {
	r := Renderer{
		width:    DefaultWidth,
		ramp:     []rune(DefaultRamp),
		aspect:   DefaultAspectRatio,
		contrast: 1.0,
		sigma:    DefaultBlurSigma,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return &r
}

// Render returns the character-art representation of img: height rows of
// width glyphs, each row terminated by a newline. In color mode every glyph
// is preceded by a foreground color code and every row ends with a reset.
func (r *Renderer) Render(img image.Image) string {
	bounds := img.Bounds()
	height := targetHeight(bounds.Dx(), bounds.Dy(), r.width, r.aspect)
	resized := resize.Resize(uint(r.width), uint(height), img, resize.Lanczos3)

	var buf strings.Builder
	if r.color {
		rgba := imaging.Blur(resized, r.sigma)
		buf.Grow((r.width*20 + 5) * height)
		b := rgba.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				px := rgba.NRGBAAt(x, y)
				fmt.Fprintf(&buf, "\x1b[38;2;%d;%d;%dm%c", px.R, px.G, px.B, r.glyph(rgbSample(px.R, px.G, px.B)))
			}
			buf.WriteString("\x1b[0m\n")
		}
	} else {
		gray := imaging.Grayscale(resized)
		buf.Grow((r.width + 1) * height)
		b := gray.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				buf.WriteRune(r.glyph(lumaSample(gray.NRGBAAt(x, y).R)))
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// Encode writes the rendered character art to w.
func (r *Renderer) Encode(w io.Writer, img image.Image) error {
	_, err := io.WriteString(w, r.Render(img))
	return err
}

// A sample is the pixel value fed into the glyph mapper: either an RGB
// triple or a single luminance channel.
type sample struct {
	r, g, b uint8
	rgb     bool
}

func rgbSample(r, g, b uint8) sample {
	return sample{r: r, g: g, b: b, rgb: true}
}

func lumaSample(v uint8) sample {
	return sample{r: v}
}

// luminance reduces the sample to a single brightness value in [0, 255].
// RGB samples use ITU-R BT.709 luma weights.
func (s sample) luminance() float64 {
	if s.rgb {
		return 0.2126*float64(s.r) + 0.7152*float64(s.g) + 0.0722*float64(s.b)
	}
	return float64(s.r)
}

func (r *Renderer) glyph(s sample) rune {
	return r.ramp[r.rampIndex(s.luminance())]
}

// rampIndex maps a luminance in [0, 255] to an index into the ramp,
// applying contrast and inversion first. The result is always within the
// ramp's bounds regardless of rounding.
func (r *Renderer) rampIndex(lum float64) int {
	if r.contrast != 1.0 {
		lum = clamp(r.contrast*(lum-128)+128, 0, 255)
	}
	if r.invert {
		lum = 255 - lum
	}
	i := int(math.Round(lum / 255 * float64(len(r.ramp)-1)))
	if i < 0 {
		return 0
	}
	if i > len(r.ramp)-1 {
		return len(r.ramp) - 1
	}
	return i
}

// targetHeight derives the output height from the source aspect ratio, the
// target width, and the aspect-ratio correction factor. Never below 1.
func targetHeight(srcW, srcH, width int, aspect float64) int {
	h := int(math.Round(float64(srcH) * float64(width) * aspect / float64(srcW)))
	if h < 1 {
		return 1
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
