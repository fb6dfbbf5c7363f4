package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// MeasureOptions selects the similarity measures reg_measure reports.
type MeasureOptions struct {
	NCC        bool   // -ncc
	LNCC       bool   // -lncc
	NMI        bool   // -nmi
	SSD        bool   // -ssd
	Output     string // -out, text file for the values
	OMPThreads *int   // -omp
}

// MeasureArgs renders the reg_measure argument list.
func MeasureArgs(reference, floating string, o MeasureOptions) ([]string, error) {
	if err := required("reference", reference); err != nil {
		return nil, err
	}
	if err := required("floating", floating); err != nil {
		return nil, err
	}
	a := argv{"-ref", reference, "-flo", floating}
	a.flag("-ncc", o.NCC)
	a.flag("-lncc", o.LNCC)
	a.flag("-nmi", o.NMI)
	a.flag("-ssd", o.SSD)
	a.path("-out", o.Output)
	a.integer("-omp", o.OMPThreads)
	return a, nil
}

// Measure computes similarity between two images.
func (c *Client) Measure(ctx context.Context, reference, floating string, o MeasureOptions) (runner.Result, error) {
	args, err := MeasureArgs(reference, floating, o)
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolMeasure, args...)
}
