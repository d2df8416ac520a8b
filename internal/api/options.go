package api

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/landforge/pkg/colormap"
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/pipeline"
)

// queryParams lists the accepted query parameters.
var queryParams = []string{
	"all_boundary_outlets",
	"bound",
	"colormap",
	"erodibility_power",
	"fault_scale",
	"format",
	"image",
	"jpeg_quality",
	"land_ratio",
	"max_slope",
	"noise",
	"particles",
	"refresh",
	"relaxations",
	"seed",
	"supersample",
}

// setParam applies one query parameter to o.
func setParam(o *pipeline.Options, name, v string) error {
	switch name {
	case "bound":
		o.Bound = v
	case "seed":
		return parseInt64(name, v, &o.Seed)
	case "particles":
		return parseInt(name, v, &o.Sites)
	case "relaxations":
		return parseInt(name, v, &o.Relaxations)
	case "noise":
		o.Noise = v
	case "fault_scale":
		return parseFloat(name, v, &o.FaultScale)
	case "erodibility_power":
		return parseFloat(name, v, &o.ErodibilityPower)
	case "land_ratio":
		return parseFloat(name, v, &o.LandRatio)
	case "all_boundary_outlets":
		return parseBool(name, v, &o.AllBoundaryOutlets)
	case "max_slope":
		return parseFloat(name, v, &o.MaxSlope)
	case "image":
		o.ImageSize = v
	case "format":
		o.Format = v
	case "jpeg_quality":
		return parseInt(name, v, &o.JPEGQuality)
	case "supersample":
		return parseInt(name, v, &o.Supersample)
	case "colormap":
		cm, err := colormap.Parse([]byte(v))
		if err != nil {
			return err
		}
		o.ColormapEntries = cm.Entries()
	case "refresh":
		return parseBool(name, v, &o.Refresh)
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown parameter %q (accepted: %s)", name, strings.Join(queryParams, ", "))
	}
	return nil
}

// OptionsFromQuery builds pipeline options from URL query parameters,
// starting from [pipeline.DefaultOptions]. Unknown or repeated parameters
// are rejected. Colormaps are accepted only inline, as a JSON table in the
// colormap parameter; the API never reads server-side files.
func OptionsFromQuery(q url.Values) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if len(q[k]) != 1 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "parameter %q given %d times", k, len(q[k]))
		}
		if err := setParam(&opts, k, q[k][0]); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func parseInt(name, v string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s: %q", name, v)
	}
	*dst = n
	return nil
}

func parseInt64(name, v string, dst *int64) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s: %q", name, v)
	}
	*dst = n
	return nil
}

func parseFloat(name, v string, dst *float64) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s: %q", name, v)
	}
	*dst = f
	return nil
}

func parseBool(name, v string, dst *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s: %q", name, v)
	}
	*dst = b
	return nil
}
