package charify

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

var testPalette = color.Palette{color.White, color.Black}

func palettedFrame(rect image.Rectangle, idx uint8) *image.Paletted {
	frame := image.NewPaletted(rect, testPalette)
	for i := range frame.Pix {
		frame.Pix[i] = idx
	}
	return frame
}

func TestDecodeStillPNG(t *testing.T) {
	g := NewWithT(t)

	img := solidImage(3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	g.Expect(png.Encode(&buf, img)).To(Succeed())

	src, err := Decode(&buf)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(src.Animated).To(BeFalse())
	g.Expect(src.Frames).To(HaveLen(1))
	g.Expect(src.Frames[0].Delay).To(Equal(time.Duration(0)))
	g.Expect(src.Frames[0].Image.Bounds().Dx()).To(Equal(3))
	g.Expect(src.Frames[0].Image.Bounds().Dy()).To(Equal(2))
}

func TestDecodeGIFAnimation(t *testing.T) {
	g := NewWithT(t)

	giff := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 2, 2), 0),
			palettedFrame(image.Rect(0, 0, 2, 2), 1),
		},
		Delay: []int{7, 0},
	}
	var buf bytes.Buffer
	g.Expect(gif.EncodeAll(&buf, giff)).To(Succeed())

	src, err := Decode(&buf)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(src.Animated).To(BeTrue())
	g.Expect(src.Frames).To(HaveLen(2))
	// Delays arrive in 100ths of a second.
	g.Expect(src.Frames[0].Delay).To(Equal(70 * time.Millisecond))
	g.Expect(src.Frames[1].Delay).To(Equal(time.Duration(0)))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	g := NewWithT(t)

	_, err := Decode(strings.NewReader("definitely not an image"))
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("decode image"))
}

func TestDecodeFileMissingPath(t *testing.T) {
	g := NewWithT(t)

	_, err := DecodeFile("/no/such/path.gif")
	g.Expect(err).To(HaveOccurred())
}

func TestCoalesceEmptyGIF(t *testing.T) {
	g := NewWithT(t)

	_, err := coalesce(&gif.GIF{})
	g.Expect(err).To(MatchError("gif contains no frames"))
}

func TestCoalesceOverlaysPartialFrames(t *testing.T) {
	g := NewWithT(t)

	giff := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 2, 2), 0), // all white
			palettedFrame(image.Rect(0, 0, 1, 1), 1), // one black pixel
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 2, Height: 2},
	}

	frames, err := coalesce(giff)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames).To(HaveLen(2))

	// The second frame only painted (0,0); the rest persists from the first.
	second := frames[1].Image.(*image.RGBA)
	g.Expect(second.RGBAAt(0, 0)).To(Equal(color.RGBA{A: 255}))
	g.Expect(second.RGBAAt(1, 1)).To(Equal(color.RGBA{R: 255, G: 255, B: 255, A: 255}))
}

func TestCoalesceDisposalBackground(t *testing.T) {
	g := NewWithT(t)

	giff := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 2, 2), 0), // all white, then cleared
			palettedFrame(image.Rect(0, 0, 1, 1), 1), // one black pixel
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{Width: 2, Height: 2},
	}

	frames, err := coalesce(giff)
	g.Expect(err).NotTo(HaveOccurred())

	first := frames[0].Image.(*image.RGBA)
	g.Expect(first.RGBAAt(1, 1)).To(Equal(color.RGBA{R: 255, G: 255, B: 255, A: 255}))

	// The first frame's region was cleared before the second frame drew.
	second := frames[1].Image.(*image.RGBA)
	g.Expect(second.RGBAAt(0, 0)).To(Equal(color.RGBA{A: 255}))
	g.Expect(second.RGBAAt(1, 1)).To(Equal(color.RGBA{}))
}

func TestCoalesceDisposalPrevious(t *testing.T) {
	g := NewWithT(t)

	giff := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 2, 2), 0), // all white, then undone
			palettedFrame(image.Rect(0, 0, 1, 1), 1), // one black pixel
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalPrevious, gif.DisposalNone},
		Config:   image.Config{Width: 2, Height: 2},
	}

	frames, err := coalesce(giff)
	g.Expect(err).NotTo(HaveOccurred())

	// The screen reverted to its pre-first-frame state before frame two.
	second := frames[1].Image.(*image.RGBA)
	g.Expect(second.RGBAAt(0, 0)).To(Equal(color.RGBA{A: 255}))
	g.Expect(second.RGBAAt(1, 1)).To(Equal(color.RGBA{}))
}
