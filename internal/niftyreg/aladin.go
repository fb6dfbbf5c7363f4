package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// AladinOptions configures reg_aladin block-matching affine registration.
// Empty paths, nil numbers and false flags are omitted.
type AladinOptions struct {
	// Output
	OutputAffine string // -aff
	OutputResult string // -res

	// Input
	InputAffine   string // -inaff
	ReferenceMask string // -rmask
	FloatingMask  string // -fmask

	// Algorithm
	NoSymmetric        bool     // -noSym
	RigidOnly          bool     // -rigOnly
	AffineDirect       bool     // -affDirect
	MaxIterations      *int     // -maxit
	NumLevels          *int     // -ln
	NumLevelsToPerform *int     // -lp
	SmoothReference    *float64 // -smooR
	SmoothFloating     *float64 // -smooF
	ReferenceLowerThr  *float64 // -refLowThr
	ReferenceUpperThr  *float64 // -refUpThr
	FloatingLowerThr   *float64 // -floLowThr
	FloatingUpperThr   *float64 // -floUpThr
	Padding            *float64 // -pad

	// Initialisation
	UseNiftiOrigin        bool // -nac
	UseMasksCentreOfMass  bool // -comm
	UseImagesCentreOfMass bool // -comi

	// Other
	Interpolation      *int // -interp
	Isotropic          bool // -iso
	PercentBlocksToUse *int // -pv
	PercentInliers     *int // -pi
	BlockStepSize2     bool // -speeeeed
	OMPThreads         *int // -omp
	VerboseOff         bool // -voff
}

// AladinArgs renders the reg_aladin argument list.
func AladinArgs(reference, floating string, o AladinOptions) ([]string, error) {
	if err := required("reference", reference); err != nil {
		return nil, err
	}
	if err := required("floating", floating); err != nil {
		return nil, err
	}

	a := argv{"-ref", reference, "-flo", floating}
	a.path("-aff", o.OutputAffine)
	a.path("-res", o.OutputResult)
	a.path("-inaff", o.InputAffine)
	a.path("-rmask", o.ReferenceMask)
	a.path("-fmask", o.FloatingMask)
	a.flag("-noSym", o.NoSymmetric)
	a.flag("-rigOnly", o.RigidOnly)
	a.flag("-affDirect", o.AffineDirect)
	a.integer("-maxit", o.MaxIterations)
	a.integer("-ln", o.NumLevels)
	a.integer("-lp", o.NumLevelsToPerform)
	a.number("-smooR", o.SmoothReference)
	a.number("-smooF", o.SmoothFloating)
	a.number("-refLowThr", o.ReferenceLowerThr)
	a.number("-refUpThr", o.ReferenceUpperThr)
	a.number("-floLowThr", o.FloatingLowerThr)
	a.number("-floUpThr", o.FloatingUpperThr)
	a.number("-pad", o.Padding)
	a.flag("-nac", o.UseNiftiOrigin)
	a.flag("-comm", o.UseMasksCentreOfMass)
	a.flag("-comi", o.UseImagesCentreOfMass)
	a.integer("-interp", o.Interpolation)
	a.flag("-iso", o.Isotropic)
	a.integer("-pv", o.PercentBlocksToUse)
	a.integer("-pi", o.PercentInliers)
	a.flag("-speeeeed", o.BlockStepSize2)
	a.integer("-omp", o.OMPThreads)
	a.flag("-voff", o.VerboseOff)
	return a, nil
}

// Aladin runs block-matching global (affine or rigid) registration.
func (c *Client) Aladin(ctx context.Context, reference, floating string, o AladinOptions) (runner.Result, error) {
	args, err := AladinArgs(reference, floating, o)
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolAladin, args...)
}
