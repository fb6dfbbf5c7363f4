package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// AverageMode selects what reg_average computes.
type AverageMode string

const (
	// AverageImages averages images or affine matrices.
	AverageImages AverageMode = "avg"
	// AverageLTS averages affine matrices with a least trimmed squares fit.
	AverageLTS AverageMode = "avg_lts"
	// AverageTransformed resamples each floating image through its
	// transformation into the reference space, then averages.
	AverageTransformed AverageMode = "avg_tran"
	// Demean is AverageTransformed with the average deformation removed.
	Demean AverageMode = "demean"
	// DemeanNoAffine is Demean without the affine component.
	DemeanNoAffine AverageMode = "demean_noaff"
	// AverageCommandFile reads its operation from a command file.
	AverageCommandFile AverageMode = "cmd_file"
)

// Interpolation for the resampling averaging modes.
type Interpolation string

const (
	InterpolationDefault Interpolation = ""
	InterpolationNearest Interpolation = "NN"
	InterpolationLinear  Interpolation = "LIN"
)

// AverageRequest describes one reg_average invocation.
// Inputs are image or matrix paths for avg and avg_lts, and
// transformation/floating pairs flattened in order for the others.
type AverageRequest struct {
	Mode          AverageMode
	Output        string
	Reference     string // avg_tran, demean, demean_noaff
	Inputs        []string
	CommandFile   string // cmd_file
	Interpolation Interpolation
}

func (m AverageMode) needsReference() bool {
	switch m {
	case AverageTransformed, Demean, DemeanNoAffine:
		return true
	}
	return false
}

func (m AverageMode) acceptsInterpolation() bool {
	return m == AverageImages || m.needsReference()
}

// ParseAverageMode accepts the native mode names.
func ParseAverageMode(s string) (AverageMode, error) {
	switch m := AverageMode(s); m {
	case AverageImages, AverageLTS, AverageTransformed, Demean, DemeanNoAffine, AverageCommandFile:
		return m, nil
	}
	return "", invalid("mode", "unknown average mode %q", s)
}

// Args renders the reg_average argument list.
func (r AverageRequest) Args() ([]string, error) {
	if err := required("output", r.Output); err != nil {
		return nil, err
	}
	if _, err := ParseAverageMode(string(r.Mode)); err != nil {
		return nil, err
	}

	switch r.Interpolation {
	case InterpolationDefault, InterpolationNearest, InterpolationLinear:
	default:
		return nil, invalid("interpolation", "want NN or LIN, got %q", r.Interpolation)
	}
	if r.Interpolation != InterpolationDefault && !r.Mode.acceptsInterpolation() {
		return nil, invalid("interpolation", "not supported by %s", r.Mode)
	}

	a := argv{r.Output}
	if r.Mode == AverageCommandFile {
		if err := required("command file", r.CommandFile); err != nil {
			return nil, err
		}
		a.add("--cmd_file", r.CommandFile)
		return a, nil
	}

	if len(r.Inputs) == 0 {
		return nil, invalid("inputs", "at least one input is required")
	}
	a.add("-" + string(r.Mode))
	if r.Mode.needsReference() {
		if err := required("reference", r.Reference); err != nil {
			return nil, err
		}
		a.add(r.Reference)
	}
	a.add(r.Inputs...)
	if r.Interpolation != InterpolationDefault {
		a.add("--" + string(r.Interpolation))
	}
	return a, nil
}

// Average runs reg_average.
func (c *Client) Average(ctx context.Context, r AverageRequest) (runner.Result, error) {
	args, err := r.Args()
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolAverage, args...)
}
