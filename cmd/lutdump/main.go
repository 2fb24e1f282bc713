// Command lutdump bakes the color grading LUT of the post-processing stack on the CPU and writes it as an
// image strip, or grades an image with it.
package main

import (
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "lutdump"
	app.Usage = "bake and apply the render pipeline's color grading LUT"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.GlobalBool("v") {
			level = slog.LevelDebug
		}
		common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "bake",
			Usage: "bake a LUT strip",
			Description: `
Bake the LUT the post-processing stack would upload for the given grading and
tone mapping settings. The strip is size² pixels wide and size pixels high; each
size×size tile is one blue slice.`,
			Flags:  append(gradingFlags(), outputFlags("lut.png")...),
			Action: bakeLUT,
		},
		{
			Name:      "grade",
			Usage:     "grade an image with a baked LUT",
			ArgsUsage: "input_image",
			Description: `
Decode a PNG, JPEG, TGA or WebP image, convert it from sRGB to linear, and look
every pixel up in the baked LUT. HDR LUTs encode the input as LogC first.`,
			Flags:  append(gradingFlags(), outputFlags("graded.png")...),
			Action: gradeImage,
		},
	}

	if err := app.Run(os.Args); err != nil {
		common.Logger().Error("lutdump", "error", err)
		os.Exit(1)
	}
}

func gradingFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "size", Value: 32, Usage: "LUT resolution: 16, 32 or 64"},
		cli.StringFlag{Name: "tone, t", Value: "none", Usage: "tone mapping: none, aces, neutral or reinhard"},
		cli.BoolFlag{Name: "hdr", Usage: "bake the HDR variant with LogC input"},
		cli.Float64Flag{Name: "exposure", Usage: "post exposure in stops"},
		cli.Float64Flag{Name: "contrast", Usage: "contrast, -100 to 100"},
		cli.Float64Flag{Name: "saturation", Usage: "saturation, -100 to 100"},
		cli.Float64Flag{Name: "hue", Usage: "hue shift in degrees, -180 to 180"},
		cli.Float64Flag{Name: "temperature", Usage: "white balance temperature, -100 to 100"},
		cli.Float64Flag{Name: "tint", Usage: "white balance tint, -100 to 100"},
		cli.IntFlag{Name: "workers", Value: 0, Usage: "bake workers (0 = one per CPU)"},
	}
}

func outputFlags(defaultOut string) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "out, o", Value: defaultOut, Usage: "output file; the extension selects png, webp or tga"},
		cli.StringFlag{Name: "format, f", Usage: "override the output format"},
		cli.IntFlag{Name: "scale", Value: 1, Usage: "nearest-neighbour upscale factor for the LUT strip"},
	}
}
