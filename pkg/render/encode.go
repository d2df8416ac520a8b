package render

import (
	"bytes"
	"encoding/csv"
	"image"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/landforge/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatCSV  = "csv"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 95

// Formats lists the supported output formats.
var Formats = []string{FormatPNG, FormatJPEG, FormatCSV}

// NormalizeFormat lowercases format and maps "jpg" to "jpeg".
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "jpg" {
		return FormatJPEG
	}
	return f
}

// ValidateFormat checks that format names a supported output format.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, NormalizeFormat(format)) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// Extension returns the file extension for format, with the leading dot.
func Extension(format string) string {
	switch NormalizeFormat(format) {
	case FormatJPEG:
		return ".jpg"
	case FormatCSV:
		return ".csv"
	}
	return ".png"
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch NormalizeFormat(format) {
	case FormatJPEG:
		return "image/jpeg"
	case FormatCSV:
		return "text/csv"
	}
	return "image/png"
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// EncodeJPEG writes img as JPEG. quality outside [1, 100] selects
// DefaultJPEGQuality.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode jpeg")
	}
	return nil
}

// EncodeCSV writes g as comma-separated rows of elevations. Missing values
// are written as empty fields.
func EncodeCSV(w io.Writer, g *Grid) error {
	cw := csv.NewWriter(w)
	record := make([]string, g.Width)
	for j := 0; j < g.Height; j++ {
		for i := range record {
			v := g.At(i, j)
			if math.IsNaN(v) {
				record[i] = ""
			} else {
				record[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode csv")
	}
	return nil
}

// EncodeImage encodes img in an image format and returns the bytes.
func EncodeImage(img image.Image, format string, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch NormalizeFormat(format) {
	case FormatPNG:
		err = EncodePNG(&buf, img)
	case FormatJPEG:
		err = EncodeJPEG(&buf, img, jpegQuality)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%q is not an image format", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
