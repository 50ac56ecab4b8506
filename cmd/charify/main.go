package main

import (
	"bufio"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/codegangsta/cli"
	"github.com/lmittmann/tint"
	"github.com/ss-sonic/charify"
)

func main() {
	// Art goes to stdout; progress and errors go to stderr so animations
	// don't overwrite them.
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))

	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "charify"
	app.Usage = "A command-line tool for rendering images and GIF animations as character art."
	app.UsageText = "charify [options] --input [file]"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "input,i",
			Usage: "`PATH` to a still image or animated gif. Use - for stdin.",
		},
		cli.UintFlag{
			Name:  "width,w",
			Usage: "Output `WIDTH` in characters.",
			Value: 100,
		},
		cli.BoolFlag{
			Name:  "invert",
			Usage: "Inverts the brightness-to-glyph mapping, for dark terminal backgrounds.",
		},
		cli.Float64Flag{
			Name:  "contrast,c",
			Usage: "`CONTRAST` multiplier around the luminance midpoint. 1.0 gives the original image.",
			Value: 1.0,
		},
		cli.BoolFlag{
			Name:  "loop-gif",
			Usage: "Repeats animation playback indefinitely instead of once. CTRL-C to quit.",
		},
		cli.BoolFlag{
			Name:  "color",
			Usage: "Emits 24-bit foreground color codes per glyph.",
		},
		cli.StringFlag{
			Name:  "profile,p",
			Usage: "`PATH` to a yaml rendering profile (ramp, aspect ratio, delays).",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	input := c.String("input")
	if input == "" {
		return errors.New("the --input flag is required")
	}

	profile := charify.DefaultProfile()
	if path := c.String("profile"); path != "" {
		p, err := charify.LoadProfile(path)
		if err != nil {
			return err
		}
		profile = p
	}

	slog.Info("processing input", "path", input)

	var src *charify.Source
	var err error
	if input == "-" {
		src, err = charify.Decode(os.Stdin)
	} else {
		src, err = charify.DecodeFile(input)
	}
	if err != nil {
		return err
	}

	opts := []charify.Option{
		charify.WithWidth(int(c.Uint("width"))),
		charify.WithContrast(c.Float64("contrast")),
		charify.WithRamp(profile.Ramp),
		charify.WithAspectRatio(profile.AspectRatio),
		charify.WithBlurSigma(profile.BlurSigma),
	}
	if c.Bool("invert") {
		opts = append(opts, charify.WithInvertedColors())
	}
	if c.Bool("color") {
		opts = append(opts, charify.WithColors())
	}
	renderer := charify.NewRenderer(opts...)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if !src.Animated {
		frame := src.Frames[0]
		bounds := frame.Image.Bounds()
		slog.Info("image decoded", "width", bounds.Dx(), "height", bounds.Dy())
		return charify.NewPlayer(out).Show(charify.RenderedFrame{
			Text: renderer.Render(frame.Image),
		})
	}

	slog.Info("gif decoded", "frames", len(src.Frames))
	rendered := make([]charify.RenderedFrame, 0, len(src.Frames))
	for i, frame := range src.Frames {
		slog.Info("converting frame", "frame", i+1, "total", len(src.Frames))
		rendered = append(rendered, charify.RenderedFrame{
			Text:  renderer.Render(frame.Image),
			Delay: frame.Delay,
		})
	}

	slog.Info("starting animation", "loop", c.Bool("loop-gif"))
	popts := []charify.PlayerOption{
		charify.WithMinDelay(profile.MinDelay()),
	}
	if c.Bool("loop-gif") {
		popts = append(popts, charify.WithLooping())
	}
	return charify.NewPlayer(out, popts...).Play(rendered)
}
