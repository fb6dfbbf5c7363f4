package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// ResampleOptions configures reg_resample.
type ResampleOptions struct {
	Transformation string   // -trans, affine or deformation; identity when empty
	Result         string   // -res
	Blank          string   // -blank
	Interpolation  *int     // -inter: 0 nearest, 1 linear, 3 cubic, 4 sinc
	Padding        *float64 // -pad
	Tensor         bool     // -tensor
	PSF            bool     // -psf
	PSFAlgorithm   *int     // -psf_alg
	VerboseOff     bool     // -voff
	OMPThreads     *int     // -omp
}

// ResampleArgs renders the reg_resample argument list.
func ResampleArgs(reference, floating string, o ResampleOptions) ([]string, error) {
	if err := required("reference", reference); err != nil {
		return nil, err
	}
	if err := required("floating", floating); err != nil {
		return nil, err
	}
	a := argv{"-ref", reference, "-flo", floating}
	a.path("-trans", o.Transformation)
	a.path("-res", o.Result)
	a.path("-blank", o.Blank)
	a.integer("-inter", o.Interpolation)
	a.number("-pad", o.Padding)
	a.flag("-tensor", o.Tensor)
	a.flag("-psf", o.PSF)
	a.integer("-psf_alg", o.PSFAlgorithm)
	a.flag("-voff", o.VerboseOff)
	a.integer("-omp", o.OMPThreads)
	return a, nil
}

// Resample resamples a floating image into the reference space.
func (c *Client) Resample(ctx context.Context, reference, floating string, o ResampleOptions) (runner.Result, error) {
	args, err := ResampleArgs(reference, floating, o)
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolResample, args...)
}
