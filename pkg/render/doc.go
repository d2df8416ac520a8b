// Package render turns an elevation field into raster output.
//
// # Overview
//
// [Rasterize] samples an [ElevationSource] on a regular pixel grid over a
// domain rectangle and colors each sample with a [colormap.ColorMap]. Pixel
// (i, j) samples the domain point
//
//	x = MinX + Width  · (i + 0.5) / (w + 1)
//	y = MinY + Height · (j + 0.5) / (h + 1)
//
// and is left fully transparent when the source has no elevation there.
// [Sample] produces the same grid as raw elevations, with NaN for missing
// values.
//
// # Formats
//
// Three output formats are supported:
//
//   - png: lossless RGBA, transparency preserved
//   - jpeg: lossy RGB, missing pixels become black
//   - csv: one row of elevations per image row, empty cells for missing
//
// PNG and JPEG encoding goes through github.com/disintegration/imaging, which
// also performs the downsampling when [Options.Supersample] is above 1.
//
// [colormap.ColorMap]: github.com/matzehuels/landforge/pkg/colormap.ColorMap
package render
