package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// ToolsOptions configures reg_tools image operations.
// The arithmetic operands (-add, -sub, -mul, -div) take either an image
// path or a number, so they are passed through as strings.
type ToolsOptions struct {
	Output string // -out

	Float      bool // -float
	Downsample bool // -down
	Isotropic  bool // -iso

	ChangeResolution Triplet // -chgres
	SmoothSpline     Triplet // -smoS
	SmoothGaussian   Triplet // -smoG
	SmoothLabel      Triplet // -smoL

	Add      string // -add
	Subtract string // -sub
	Multiply string // -mul
	Divide   string // -div

	Binarise         bool     // -bin
	Threshold        *float64 // -thr
	NaNMask          string   // -nan
	RMS              string   // -rms
	RemoveNaNInf     *float64 // -rmNanInf
	NoScaling        bool     // -noscl
	RGBFrom4D        bool     // -4d2rgb
	MIND             bool     // -mind
	MINDSSC          bool     // -mindssc
	TestActiveBlocks bool     // -testActiveBlocks
	Interpolation    *int     // -interp
	OMPThreads       *int     // -omp
}

// ToolsArgs renders the reg_tools argument list.
func ToolsArgs(input string, o ToolsOptions) ([]string, error) {
	if err := required("input", input); err != nil {
		return nil, err
	}
	for _, t := range []struct {
		field string
		v     Triplet
	}{
		{"chgres", o.ChangeResolution},
		{"smoS", o.SmoothSpline},
		{"smoG", o.SmoothGaussian},
		{"smoL", o.SmoothLabel},
	} {
		if err := checkTriplet(t.field, t.v); err != nil {
			return nil, err
		}
	}

	a := argv{"-in", input}
	a.path("-out", o.Output)
	a.flag("-float", o.Float)
	a.flag("-down", o.Downsample)
	a.flag("-iso", o.Isotropic)
	a.triplet("-chgres", o.ChangeResolution)
	a.triplet("-smoS", o.SmoothSpline)
	a.triplet("-smoG", o.SmoothGaussian)
	a.triplet("-smoL", o.SmoothLabel)
	a.str("-add", o.Add)
	a.str("-sub", o.Subtract)
	a.str("-mul", o.Multiply)
	a.str("-div", o.Divide)
	a.flag("-bin", o.Binarise)
	a.number("-thr", o.Threshold)
	a.path("-nan", o.NaNMask)
	a.path("-rms", o.RMS)
	a.number("-rmNanInf", o.RemoveNaNInf)
	a.flag("-noscl", o.NoScaling)
	a.flag("-4d2rgb", o.RGBFrom4D)
	a.flag("-mind", o.MIND)
	a.flag("-mindssc", o.MINDSSC)
	a.flag("-testActiveBlocks", o.TestActiveBlocks)
	a.integer("-interp", o.Interpolation)
	a.integer("-omp", o.OMPThreads)
	return a, nil
}

// Tools runs reg_tools on input.
func (c *Client) Tools(ctx context.Context, input string, o ToolsOptions) (runner.Result, error) {
	args, err := ToolsArgs(input, o)
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolTools, args...)
}
