package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

func newF3DCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "f3d",
		Short: "Fast free-form deformation (non-rigid) registration",
		Long: `Run reg_f3d to register a floating image to a reference image with a
cubic B-spline free-form deformation.

When --output-cpp is not given, reg_f3d writes outputCPP.nii into the
current directory; niftyregw removes it after the run unless it was there
before.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolF3D); done {
				return err
			}
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.F3D(cmd.Context(), optString(cmd, "reference"), optString(cmd, "floating"), f3dOptions(cmd))
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("reference", "r", "", "reference image")
	f.StringP("floating", "f", "", "floating image")

	f.StringP("input-affine", "a", "", "input affine transformation")
	f.String("input-cpp", "", "input control point grid")
	f.String("output-cpp", "", "output control point grid [outputCPP.nii]")
	f.StringP("output-result", "o", "", "resampled image [outputResult.nii]")

	f.StringP("reference-mask", "m", "", "mask image in the reference space")
	f.Float64("smooth-reference", 0, "Gaussian smoothing of the reference, in voxels")
	f.Float64("smooth-floating", 0, "Gaussian smoothing of the floating, in voxels")
	f.Float64("reference-lower-threshold", 0, "lower threshold applied to the reference")
	f.Float64("reference-upper-threshold", 0, "upper threshold applied to the reference")
	f.Float64("floating-lower-threshold", 0, "lower threshold applied to the floating")
	f.Float64("floating-upper-threshold", 0, "upper threshold applied to the floating")

	f.Float64("spacing-x", 0, "final grid spacing along x, in mm (voxels if negative) [5]")
	f.Float64("spacing-y", 0, "final grid spacing along y [spacing-x]")
	f.Float64("spacing-z", 0, "final grid spacing along z [spacing-x]")

	f.Float64("bending-energy", 0, "weight of the bending energy penalty [0.001]")
	f.Float64("linear-energy", 0, "weight of the linear elasticity penalty [0.01]")
	f.Float64("jacobian-log-weight", 0, "weight of the log of the Jacobian determinant penalty")
	f.Bool("no-approx-jacobian-log", false, "compute the Jacobian penalty at every voxel")
	f.Float64("landmarks-weight", 0, "weight of the landmark distance term (needs --landmarks-file)")
	f.String("landmarks-file", "", "landmark file (needs --landmarks-weight)")

	f.Bool("use-nmi", false, "normalised mutual information (default similarity)")
	f.Int("reference-bins", 0, "histogram bins for the reference [64]")
	f.Int("floating-bins", 0, "histogram bins for the floating [64]")
	f.Float64("lncc-sigma", 0, "local normalised cross correlation, Gaussian sigma")
	f.Bool("use-ssd", false, "sum of squared differences, normalised")
	f.Bool("use-ssd-no-norm", false, "sum of squared differences, not normalised")
	f.Int("mind-offset", 0, "MIND with the given offset")
	f.Int("mindssc-offset", 0, "MIND-SSC with the given offset")
	f.Bool("use-kld", false, "Kullback-Leibler divergence")
	f.String("similarity-weight-image", "", "weight image for the similarity measure")
	f.Bool("robust-range", false, "clamp intensities to the 2nd and 98th percentiles")

	f.Int("max-iterations", 0, "maximum iterations at the final level [150]")
	f.Int("num-levels", 0, "number of pyramid levels [3]")
	f.Int("num-levels-to-perform", 0, "levels to perform, starting from the coarsest")
	f.Bool("no-pyramid", false, "do not use a pyramid approach")
	f.Bool("no-conjugate-gradient", false, "use simple gradient ascent instead of conjugate gradient")
	f.Int("perturbation-steps", 0, "random perturbations after convergence")

	f.Bool("velocity-field", false, "use a stationary velocity field parametrisation")
	f.Bool("no-gradient-accumulation", false, "do not accumulate the gradient (velocity field only)")
	f.String("floating-mask", "", "mask image in the floating space (velocity field only)")

	f.Float64("smooth-gradient", 0, "Gaussian smoothing of the metric derivative, in mm")
	f.Float64("padding", 0, "padding value [nan]")
	f.Bool("verbose-off", false, "turn verbose off")

	infoFlags(cmd, niftyreg.ToolF3D)
	ompFlag(cmd)
	return cmd
}

func f3dOptions(cmd *cobra.Command) niftyreg.F3DOptions {
	return niftyreg.F3DOptions{
		InputAffine:            optString(cmd, "input-affine"),
		InputCPP:               optString(cmd, "input-cpp"),
		OutputCPP:              optString(cmd, "output-cpp"),
		OutputResult:           optString(cmd, "output-result"),
		ReferenceMask:          optString(cmd, "reference-mask"),
		SmoothReference:        optFloat(cmd, "smooth-reference"),
		SmoothFloating:         optFloat(cmd, "smooth-floating"),
		ReferenceLowerThr:      optFloat(cmd, "reference-lower-threshold"),
		ReferenceUpperThr:      optFloat(cmd, "reference-upper-threshold"),
		FloatingLowerThr:       optFloat(cmd, "floating-lower-threshold"),
		FloatingUpperThr:       optFloat(cmd, "floating-upper-threshold"),
		SpacingX:               optFloat(cmd, "spacing-x"),
		SpacingY:               optFloat(cmd, "spacing-y"),
		SpacingZ:               optFloat(cmd, "spacing-z"),
		BendingEnergy:          optFloat(cmd, "bending-energy"),
		LinearEnergy:           optFloat(cmd, "linear-energy"),
		JacobianLogWeight:      optFloat(cmd, "jacobian-log-weight"),
		NoApproxJacobianLog:    optBool(cmd, "no-approx-jacobian-log"),
		LandmarksWeight:        optFloat(cmd, "landmarks-weight"),
		LandmarksFile:          optString(cmd, "landmarks-file"),
		UseNMI:                 optBool(cmd, "use-nmi"),
		ReferenceBins:          optInt(cmd, "reference-bins"),
		FloatingBins:           optInt(cmd, "floating-bins"),
		LNCCSigma:              optFloat(cmd, "lncc-sigma"),
		UseSSD:                 optBool(cmd, "use-ssd"),
		UseSSDNoNorm:           optBool(cmd, "use-ssd-no-norm"),
		MINDOffset:             optInt(cmd, "mind-offset"),
		MINDSSCOffset:          optInt(cmd, "mindssc-offset"),
		UseKLD:                 optBool(cmd, "use-kld"),
		SimilarityWeightImage:  optString(cmd, "similarity-weight-image"),
		RobustRange:            optBool(cmd, "robust-range"),
		MaxIterations:          optInt(cmd, "max-iterations"),
		NumLevels:              optInt(cmd, "num-levels"),
		NumLevelsToPerform:     optInt(cmd, "num-levels-to-perform"),
		NoPyramid:              optBool(cmd, "no-pyramid"),
		NoConjugateGradient:    optBool(cmd, "no-conjugate-gradient"),
		PerturbationSteps:      optInt(cmd, "perturbation-steps"),
		VelocityField:          optBool(cmd, "velocity-field"),
		NoGradientAccumulation: optBool(cmd, "no-gradient-accumulation"),
		FloatingMask:           optString(cmd, "floating-mask"),
		SmoothGradient:         optFloat(cmd, "smooth-gradient"),
		Padding:                optFloat(cmd, "padding"),
		VerboseOff:             optBool(cmd, "verbose-off"),
		OMPThreads:             optInt(cmd, "omp-threads"),
	}
}
