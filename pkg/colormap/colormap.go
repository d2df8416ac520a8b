// Package colormap maps elevations to colors with a piecewise-linear table.
//
// A table is a JSON array of breakpoints:
//
//	[
//	  {"color": [0, 0, 128], "elevation": 0},
//	  {"color": [240, 220, 160], "elevation": 5},
//	  {"color": [255, 255, 255], "elevation": 100}
//	]
//
// Breakpoints may appear in any order; [New], [Load] and [Read] sort them by
// elevation. Elevations below the first breakpoint take its color, and
// elevations at or above the last breakpoint take the last color.
package colormap

import (
	"bytes"
	"encoding/json"
	"image/color"
	"io"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/matzehuels/landforge/pkg/errors"
)

// Entry is a single breakpoint.
type Entry struct {
	Color     [3]uint8 `json:"color" toml:"color"`
	Elevation float64  `json:"elevation" toml:"elevation"`
}

// ColorMap is an immutable, sorted breakpoint table.
type ColorMap struct {
	entries []Entry
}

// Default returns the grayscale map used when no table is configured:
// black at 0, white at 100.
func Default() *ColorMap {
	return &ColorMap{entries: []Entry{
		{Color: [3]uint8{0, 0, 0}, Elevation: 0},
		{Color: [3]uint8{255, 255, 255}, Elevation: 100},
	}}
}

// New builds a map from entries, sorted stably by elevation.
// It rejects an empty table and non-finite elevations.
func New(entries []Entry) (*ColorMap, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColormap, "colormap must have at least one entry")
	}
	for i, e := range entries {
		if math.IsNaN(e.Elevation) || math.IsInf(e.Elevation, 0) {
			return nil, errors.New(errors.ErrCodeInvalidColormap, "entry %d has non-finite elevation", i)
		}
	}
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case a.Elevation < b.Elevation:
			return -1
		case a.Elevation > b.Elevation:
			return 1
		}
		return 0
	})
	return &ColorMap{entries: sorted}, nil
}

// Read decodes a JSON table from r.
func Read(r io.Reader) (*ColorMap, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColormap, err, "parse colormap")
	}
	return New(entries)
}

// Parse decodes a JSON table from data.
func Parse(data []byte) (*ColorMap, error) {
	return Read(bytes.NewReader(data))
}

// Load reads a JSON table from the file at path. Any open or parse error is
// returned; there is no fallback to the default map.
func Load(path string) (*ColorMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColormap, err, "open colormap %s", strconv.Quote(path))
	}
	defer f.Close()

	cm, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColormap, err, "load colormap %s", strconv.Quote(path))
	}
	return cm, nil
}

// Entries returns a copy of the sorted breakpoints.
func (m *ColorMap) Entries() []Entry { return slices.Clone(m.entries) }

// Len returns the number of breakpoints.
func (m *ColorMap) Len() int { return len(m.entries) }

// Color returns the RGB color for elevation.
func (m *ColorMap) Color(elevation float64) [3]uint8 {
	i := 0
	for i < len(m.entries) && elevation >= m.entries[i].Elevation {
		i++
	}
	switch i {
	case 0:
		return m.entries[0].Color
	case len(m.entries):
		return m.entries[len(m.entries)-1].Color
	}

	a, b := m.entries[i-1], m.entries[i]
	prop := (elevation - a.Elevation) / (b.Elevation - a.Elevation)
	return blend(a.Color, b.Color, prop)
}

// NRGBA returns the opaque color for elevation.
func (m *ColorMap) NRGBA(elevation float64) color.NRGBA {
	c := m.Color(elevation)
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

// MarshalJSON encodes the sorted table.
func (m *ColorMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.entries)
}

func blend(a, b [3]uint8, prop float64) [3]uint8 {
	var out [3]uint8
	for c := range out {
		out[c] = uint8(float64(a[c]) + (float64(b[c])-float64(a[c]))*prop)
	}
	return out
}
