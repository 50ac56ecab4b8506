package charify

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Frame is one decoded image plus the delay it should be displayed for.
// Still images carry a zero delay.
type Frame struct {
	Image image.Image
	Delay time.Duration
}

// Source is a decoded input: a single still frame, or an ordered animation
// with per-frame delays.
type Source struct {
	Frames   []Frame
	Animated bool
}

var gifHeaders = [][]byte{
	[]byte("GIF87a"),
	[]byte("GIF89a"),
}

// DecodeFile decodes the image or animation at path.
func DecodeFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode sniffs the container format and decodes r. A GIF header selects
// the animated path; anything else is decoded as a single still frame.
// Decode failures abort with a descriptive error, no partial decoding.
func Decode(r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(6)
	if err != nil {
		return nil, fmt.Errorf("detect image format: %w", err)
	}
	for _, header := range gifHeaders {
		if bytes.Equal(magic, header) {
			return decodeGIF(br)
		}
	}
	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Source{Frames: []Frame{{Image: img}}}, nil
}

func decodeGIF(r io.Reader) (*Source, error) {
	giff, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	frames, err := coalesce(giff)
	if err != nil {
		return nil, err
	}
	return &Source{Frames: frames, Animated: true}, nil
}

// coalesce eagerly flattens every gif frame onto a full-size canvas,
// honoring the frame's disposal method, so each Frame holds a complete
// picture. Delays arrive in 100ths of a second.
func coalesce(giff *gif.GIF) ([]Frame, error) {
	if len(giff.Image) == 0 {
		return nil, errors.New("gif contains no frames")
	}

	width, height := giff.Config.Width, giff.Config.Height
	if width == 0 || height == 0 {
		b := giff.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	screen := image.NewRGBA(image.Rect(0, 0, width, height))
	frames := make([]Frame, 0, len(giff.Image))
	for i, src := range giff.Image {
		// Dispose previous means draw, snapshot, then undo.
		var previous *image.RGBA
		if giff.Disposal[i] == gif.DisposalPrevious {
			previous = image.NewRGBA(screen.Rect)
			copy(previous.Pix, screen.Pix)
		}

		draw.Draw(screen, src.Bounds(), src, src.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(screen.Rect)
		copy(snapshot.Pix, screen.Pix)
		frames = append(frames, Frame{
			Image: snapshot,
			Delay: time.Duration(giff.Delay[i]) * 10 * time.Millisecond,
		})

		switch giff.Disposal[i] {
		case gif.DisposalBackground:
			draw.Draw(screen, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			screen = previous
		}
	}
	return frames, nil
}
