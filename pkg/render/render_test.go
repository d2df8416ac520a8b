package render

import (
	"bytes"
	"context"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/landforge/pkg/colormap"
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/mesh"
)

// disk has elevation 100 inside the unit disk around the origin and no
// value elsewhere.
var disk = ElevationFunc(func(x, y float64) (float64, bool) {
	if x*x+y*y > 1 {
		return 0, false
	}
	return 100, true
})

func TestPixelCoord(t *testing.T) {
	b := mesh.Centered(100, 100)
	tests := []struct {
		i, j  int
		wantX float64
		wantY float64
	}{
		{0, 0, -50 + 100*0.5/11, -50 + 100*0.5/11},
		{9, 0, -50 + 100*9.5/11, -50 + 100*0.5/11},
		{4, 7, -50 + 100*4.5/11, -50 + 100*7.5/11},
	}
	for _, tt := range tests {
		x, y := PixelCoord(b, 10, 10, tt.i, tt.j)
		if math.Abs(x-tt.wantX) > 1e-12 || math.Abs(y-tt.wantY) > 1e-12 {
			t.Errorf("PixelCoord(%d, %d) = (%v, %v), want (%v, %v)", tt.i, tt.j, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestRasterize(t *testing.T) {
	b := mesh.Centered(4, 4)
	img, err := Rasterize(context.Background(), disk, b, colormap.Default(), Options{Width: 15, Height: 15})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 15 || got.Y != 15 {
		t.Fatalf("size = %v, want 15x15", got)
	}

	for j := 0; j < 15; j++ {
		for i := 0; i < 15; i++ {
			x, y := PixelCoord(b, 15, 15, i, j)
			c := img.NRGBAAt(i, j)
			if x*x+y*y <= 1 {
				if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
					t.Errorf("pixel (%d, %d) = %v, want opaque white", i, j, c)
				}
			} else if c.A != 0 {
				t.Errorf("pixel (%d, %d) = %v, want transparent", i, j, c)
			}
		}
	}
}

func TestRasterizeSupersample(t *testing.T) {
	img, err := Rasterize(context.Background(), disk, mesh.Centered(4, 4), nil, Options{Width: 8, Height: 6, Supersample: 3})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 8 || got.Y != 6 {
		t.Errorf("size = %v, want 8x6", got)
	}
}

func TestRasterizeInvalid(t *testing.T) {
	for _, opts := range []Options{
		{Width: 0, Height: 10},
		{Width: 10, Height: 10, Supersample: -1},
		{Width: 10, Height: 10, Supersample: MaxSupersample + 1},
	} {
		_, err := Rasterize(context.Background(), disk, mesh.Centered(1, 1), nil, opts)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Rasterize(%+v) error = %v, want INVALID_CONFIG", opts, err)
		}
	}
}

func TestRasterizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Rasterize(ctx, disk, mesh.Centered(4, 4), nil, Options{Width: 10, Height: 10}); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestSampleAndCSV(t *testing.T) {
	g, err := Sample(context.Background(), disk, mesh.Centered(4, 4), Options{Width: 3, Height: 3})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if !math.IsNaN(g.At(0, 0)) {
		t.Errorf("corner = %v, want NaN", g.At(0, 0))
	}
	if g.At(1, 1) != 100 {
		t.Errorf("center = %v, want 100", g.At(1, 1))
	}

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, g); err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	// Pixel centers sit at x = -1.5, -0.5, 0.5.
	if lines[0] != ",," || lines[1] != ",100,100" {
		t.Errorf("rows = %q, want [\",,\" \",100,100\" ...]", lines)
	}
}

func TestEncodeImage(t *testing.T) {
	img, err := Rasterize(context.Background(), disk, mesh.Centered(4, 4), nil, Options{Width: 16, Height: 16})
	if err != nil {
		t.Fatal(err)
	}

	data, err := EncodeImage(img, "png", 0)
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("decode png: %v", err)
	}

	data, err = EncodeImage(img, "jpg", 80)
	if err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("decode jpeg: %v", err)
	}

	if _, err := EncodeImage(img, "csv", 0); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("csv: error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
		ext     string
		ctype   string
	}{
		{"png", false, ".png", "image/png"},
		{"JPEG", false, ".jpg", "image/jpeg"},
		{"jpg", false, ".jpg", "image/jpeg"},
		{"csv", false, ".csv", "text/csv"},
		{"svg", true, ".png", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := Extension(tt.format); got != tt.ext {
				t.Errorf("Extension() = %q, want %q", got, tt.ext)
			}
			if got := ContentType(tt.format); got != tt.ctype {
				t.Errorf("ContentType() = %q, want %q", got, tt.ctype)
			}
		})
	}
}
