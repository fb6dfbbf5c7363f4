package niftyreg

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// DefaultF3DOutput is where reg_f3d writes its control point grid when -cpp is not given.
const DefaultF3DOutput = "outputCPP.nii"

// F3DOptions configures reg_f3d free-form deformation registration.
type F3DOptions struct {
	// Initial transformation
	InputAffine string // -aff
	InputCPP    string // -incpp

	// Output
	OutputCPP    string // -cpp
	OutputResult string // -res

	// Input image
	ReferenceMask     string   // -rmask
	SmoothReference   *float64 // -smooR
	SmoothFloating    *float64 // -smooF
	ReferenceLowerThr *float64 // --rLwTh
	ReferenceUpperThr *float64 // --rUpTh
	FloatingLowerThr  *float64 // --fLwTh
	FloatingUpperThr  *float64 // --fUpTh

	// Spline
	SpacingX *float64 // -sx
	SpacingY *float64 // -sy
	SpacingZ *float64 // -sz

	// Regularisation
	BendingEnergy       *float64 // -be
	LinearEnergy        *float64 // -le
	JacobianLogWeight   *float64 // -jl
	NoApproxJacobianLog bool     // -noAppJL
	// LandmarksWeight and LandmarksFile render as -land <weight> <file>
	// and must be set together.
	LandmarksWeight *float64
	LandmarksFile   string

	// Similarity
	UseNMI                bool     // --nmi
	ReferenceBins         *int     // --rbn
	FloatingBins          *int     // --fbn
	LNCCSigma             *float64 // --lncc
	UseSSD                bool     // --ssd
	UseSSDNoNorm          bool     // --ssdn
	MINDOffset            *int     // --mind
	MINDSSCOffset         *int     // --mindssc
	UseKLD                bool     // --kld
	SimilarityWeightImage string   // -wSim
	RobustRange           bool     // -rr

	// Optimisation
	MaxIterations       *int // -maxit
	NumLevels           *int // -ln
	NumLevelsToPerform  *int // -lp
	NoPyramid           bool // -nopy
	NoConjugateGradient bool // -noConj
	PerturbationSteps   *int // -pert

	// F3D2
	VelocityField          bool   // -vel
	NoGradientAccumulation bool   // -nogce
	FloatingMask           string // -fmask

	// Other
	SmoothGradient *float64 // -smoothGrad
	Padding        *float64 // -pad
	VerboseOff     bool     // -voff
	OMPThreads     *int     // -omp
}

// F3DArgs renders the reg_f3d argument list.
func F3DArgs(reference, floating string, o F3DOptions) ([]string, error) {
	if err := required("reference", reference); err != nil {
		return nil, err
	}
	if err := required("floating", floating); err != nil {
		return nil, err
	}
	if (o.LandmarksWeight != nil) != (o.LandmarksFile != "") {
		return nil, invalid("landmarks", "weight and file must be provided together")
	}

	a := argv{"-ref", reference, "-flo", floating}
	a.path("-aff", o.InputAffine)
	a.path("-incpp", o.InputCPP)
	a.path("-cpp", o.OutputCPP)
	a.path("-res", o.OutputResult)
	a.path("-rmask", o.ReferenceMask)
	a.number("-smooR", o.SmoothReference)
	a.number("-smooF", o.SmoothFloating)
	a.number("--rLwTh", o.ReferenceLowerThr)
	a.number("--rUpTh", o.ReferenceUpperThr)
	a.number("--fLwTh", o.FloatingLowerThr)
	a.number("--fUpTh", o.FloatingUpperThr)
	a.number("-sx", o.SpacingX)
	a.number("-sy", o.SpacingY)
	a.number("-sz", o.SpacingZ)
	a.number("-be", o.BendingEnergy)
	a.number("-le", o.LinearEnergy)
	a.number("-jl", o.JacobianLogWeight)
	a.flag("-noAppJL", o.NoApproxJacobianLog)
	if o.LandmarksWeight != nil {
		a.add("-land", FormatFloat(*o.LandmarksWeight), o.LandmarksFile)
	}
	a.flag("--nmi", o.UseNMI)
	a.integer("--rbn", o.ReferenceBins)
	a.integer("--fbn", o.FloatingBins)
	a.number("--lncc", o.LNCCSigma)
	a.flag("--ssd", o.UseSSD)
	a.flag("--ssdn", o.UseSSDNoNorm)
	a.integer("--mind", o.MINDOffset)
	a.integer("--mindssc", o.MINDSSCOffset)
	a.flag("--kld", o.UseKLD)
	a.path("-wSim", o.SimilarityWeightImage)
	a.flag("-rr", o.RobustRange)
	a.integer("-maxit", o.MaxIterations)
	a.integer("-ln", o.NumLevels)
	a.integer("-lp", o.NumLevelsToPerform)
	a.flag("-nopy", o.NoPyramid)
	a.flag("-noConj", o.NoConjugateGradient)
	a.integer("-pert", o.PerturbationSteps)
	a.flag("-vel", o.VelocityField)
	a.flag("-nogce", o.NoGradientAccumulation)
	a.path("-fmask", o.FloatingMask)
	a.number("-smoothGrad", o.SmoothGradient)
	a.number("-pad", o.Padding)
	a.flag("-voff", o.VerboseOff)
	a.integer("-omp", o.OMPThreads)
	return a, nil
}

// F3D runs free-form deformation registration.
//
// reg_f3d always writes a control point grid. When the caller did not ask
// for outputCPP.nii and that file did not exist before the run, it is
// removed afterwards.
func (c *Client) F3D(ctx context.Context, reference, floating string, o F3DOptions) (runner.Result, error) {
	args, err := F3DArgs(reference, floating, o)
	if err != nil {
		return runner.Result{}, err
	}

	existedBefore := fileExists(DefaultF3DOutput)
	requested := samePath(o.OutputCPP, DefaultF3DOutput)

	res, runErr := c.Run(ctx, ToolF3D, args...)

	if !existedBefore && !requested && fileExists(DefaultF3DOutput) {
		w := c.logger.For(WrapperLabel)
		if err := os.Remove(DefaultF3DOutput); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.Warn("Failed to clean up "+DefaultF3DOutput, "error", err)
		} else {
			w.Debug("Cleaned up default output file: " + DefaultF3DOutput)
		}
	}
	return res, runErr
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// samePath compares two paths after making them absolute. Unresolvable
// paths are treated as different.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return absA == absB
}
