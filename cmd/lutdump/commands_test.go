package main

import (
	"flag"
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/engine/lut"
	"github.com/urfave/cli"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("lutdump", flag.ContinueOnError)
	for _, f := range append(gradingFlags(), outputFlags("lut.png")...) {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestBakeFromFlags(t *testing.T) {
	table, err := bakeFromFlags(newContext(t, "-size", "16", "-tone", "ACES", "-workers", "2"))
	if err != nil {
		t.Fatalf("bake: %v", err)
	}
	if table.Size() != 16 {
		t.Fatalf("size = %d, want 16", table.Size())
	}
}

func TestBakeFromFlagsRejectsBadInput(t *testing.T) {
	if _, err := bakeFromFlags(newContext(t, "-tone", "filmic")); err == nil {
		t.Fatal("unknown tone mapping accepted")
	}
	if _, err := bakeFromFlags(newContext(t, "-size", "24")); err == nil {
		t.Fatal("unsupported size accepted")
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		args []string
		want lut.Format
	}{
		{args: nil, want: lut.FormatPNG},
		{args: []string{"-out", "strip.webp"}, want: lut.FormatWebP},
		{args: []string{"-out", "strip.png", "-format", "tga"}, want: lut.FormatTGA},
	}
	for _, tt := range tests {
		got, err := outputFormat(newContext(t, tt.args...))
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if got != tt.want {
			t.Fatalf("%v: format = %s, want %s", tt.args, got, tt.want)
		}
	}
	if _, err := outputFormat(newContext(t, "-out", "strip.bmp")); err == nil {
		t.Fatal("unknown extension accepted")
	}
}
