package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// decoders for the grade command
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/lut"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
	"github.com/urfave/cli"
)

var toneMappingNames = map[string]postfx.ToneMappingMode{
	"none":     postfx.ToneMappingNone,
	"aces":     postfx.ToneMappingACES,
	"neutral":  postfx.ToneMappingNeutral,
	"reinhard": postfx.ToneMappingReinhard,
}

// bakeFromFlags builds post-processing settings from the grading flags and bakes their LUT.
func bakeFromFlags(c *cli.Context) (*lut.LUT, error) {
	tone, ok := toneMappingNames[strings.ToLower(c.String("tone"))]
	if !ok {
		return nil, fmt.Errorf("unknown tone mapping %q", c.String("tone"))
	}
	adjustments := postfx.NeutralColorAdjustments()
	adjustments.PostExposure = float32(c.Float64("exposure"))
	adjustments.Contrast = float32(c.Float64("contrast"))
	adjustments.Saturation = float32(c.Float64("saturation"))
	adjustments.HueShift = float32(c.Float64("hue"))

	settings := postfx.NewSettings(
		postfx.WithToneMapping(tone),
		postfx.WithColorAdjustments(adjustments),
		postfx.WithWhiteBalance(postfx.WhiteBalance{
			Temperature: float32(c.Float64("temperature")),
			Tint:        float32(c.Float64("tint")),
		}),
	)
	var opts []lut.BakeBuilderOption
	if n := c.Int("workers"); n > 0 {
		opts = append(opts, lut.WithWorkers(n))
	}
	return lut.Bake(postfx.LUTResolution(c.Int("size")), lut.NewGrading(settings, c.Bool("hdr")), opts...)
}

// outputFormat resolves the format flag, falling back to the output file extension.
func outputFormat(c *cli.Context) (lut.Format, error) {
	if f := c.String("format"); f != "" {
		return lut.ParseFormat(f)
	}
	return lut.ParseFormat(filepath.Ext(c.String("out")))
}

func bakeLUT(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	table, err := bakeFromFlags(c)
	if err != nil {
		return err
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()
	if err := table.Encode(out, format, c.Int("scale")); err != nil {
		return err
	}
	w, h := table.Dimensions()
	common.Logger().Info("LUT written", "file", c.String("out"), "format", format.String(), "width", w, "height", h)
	return nil
}

func gradeImage(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("grade takes exactly one input image", 2)
	}
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	table, err := bakeFromFlags(c)
	if err != nil {
		return err
	}

	in, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()
	src, kind, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.Args().First(), err)
	}
	common.Logger().Debug("input decoded", "format", kind, "bounds", src.Bounds().String())

	out, err := os.Create(c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()
	if err := lut.EncodeImage(out, table.Apply(src), format); err != nil {
		return err
	}
	common.Logger().Info("image graded", "file", c.String("out"), "format", format.String())
	return nil
}
