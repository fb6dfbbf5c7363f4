package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

func newAladinCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aladin",
		Short: "Block-matching global (affine or rigid) registration",
		Long: `Run reg_aladin to register a floating image to a reference image with an
affine or rigid transformation.

Examples:
  niftyregw aladin -r ref.nii.gz -f flo.nii.gz -a affine.txt
  niftyregw aladin -r ref.nii.gz -f flo.nii.gz --rigid-only --omp-threads 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolAladin); done {
				return err
			}
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.Aladin(cmd.Context(), optString(cmd, "reference"), optString(cmd, "floating"), aladinOptions(cmd))
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("reference", "r", "", "reference image (also called target or fixed)")
	f.StringP("floating", "f", "", "floating image (also called source or moving)")

	f.StringP("output-affine", "a", "", "output affine transformation [outputAffine.txt]")
	f.StringP("output-result", "o", "", "resampled image [outputResult.nii.gz]")

	f.String("input-affine", "", "input affine transformation (Affine*Reference=Floating)")
	f.String("reference-mask", "", "mask image in the reference space")
	f.String("floating-mask", "", "mask image in the floating space (symmetric only)")

	f.Bool("no-symmetric", false, "disable the symmetric version of the algorithm")
	f.Bool("rigid-only", false, "rigid registration only (rigid then affine by default)")
	f.Bool("affine-direct", false, "directly optimise 12 DoF affine")
	f.Int("max-iterations", 0, "iterations per level [5]")
	f.Int("num-levels", 0, "number of pyramid levels [3]")
	f.Int("num-levels-to-perform", 0, "levels to perform, starting from the coarsest")
	f.Float64("smooth-reference", 0, "Gaussian smoothing of the reference, in voxels")
	f.Float64("smooth-floating", 0, "Gaussian smoothing of the floating, in voxels")
	f.Float64("reference-lower-threshold", 0, "lower threshold applied to the reference")
	f.Float64("reference-upper-threshold", 0, "upper threshold applied to the reference")
	f.Float64("floating-lower-threshold", 0, "lower threshold applied to the floating")
	f.Float64("floating-upper-threshold", 0, "upper threshold applied to the floating")
	f.Float64("padding", 0, "padding value [nan]")

	f.Bool("use-nifti-origin", false, "use the NIfTI header origins to initialise the translation")
	f.Bool("use-masks-centre-of-mass", false, "use the input masks' centre of mass to initialise")
	f.Bool("use-images-centre-of-mass", false, "use the input images' centre of mass to initialise")

	f.Int("interpolation", 0, "interpolation order: 0, 1 or 3 [1]")
	f.Bool("isotropic", false, "resample both images to an isotropic voxel size")
	f.Int("percent-blocks-to-use", 0, "percentage of blocks to use [50]")
	f.Int("percent-inliers", 0, "percentage of inlier blocks [50]")
	f.Bool("block-step-size-2", false, "use a block step size of 2 (speeeeed)")
	f.Bool("verbose-off", false, "turn verbose off")

	infoFlags(cmd, niftyreg.ToolAladin)
	ompFlag(cmd)
	return cmd
}

func aladinOptions(cmd *cobra.Command) niftyreg.AladinOptions {
	return niftyreg.AladinOptions{
		OutputAffine:          optString(cmd, "output-affine"),
		OutputResult:          optString(cmd, "output-result"),
		InputAffine:           optString(cmd, "input-affine"),
		ReferenceMask:         optString(cmd, "reference-mask"),
		FloatingMask:          optString(cmd, "floating-mask"),
		NoSymmetric:           optBool(cmd, "no-symmetric"),
		RigidOnly:             optBool(cmd, "rigid-only"),
		AffineDirect:          optBool(cmd, "affine-direct"),
		MaxIterations:         optInt(cmd, "max-iterations"),
		NumLevels:             optInt(cmd, "num-levels"),
		NumLevelsToPerform:    optInt(cmd, "num-levels-to-perform"),
		SmoothReference:       optFloat(cmd, "smooth-reference"),
		SmoothFloating:        optFloat(cmd, "smooth-floating"),
		ReferenceLowerThr:     optFloat(cmd, "reference-lower-threshold"),
		ReferenceUpperThr:     optFloat(cmd, "reference-upper-threshold"),
		FloatingLowerThr:      optFloat(cmd, "floating-lower-threshold"),
		FloatingUpperThr:      optFloat(cmd, "floating-upper-threshold"),
		Padding:               optFloat(cmd, "padding"),
		UseNiftiOrigin:        optBool(cmd, "use-nifti-origin"),
		UseMasksCentreOfMass:  optBool(cmd, "use-masks-centre-of-mass"),
		UseImagesCentreOfMass: optBool(cmd, "use-images-centre-of-mass"),
		Interpolation:         optInt(cmd, "interpolation"),
		Isotropic:             optBool(cmd, "isotropic"),
		PercentBlocksToUse:    optInt(cmd, "percent-blocks-to-use"),
		PercentInliers:        optInt(cmd, "percent-inliers"),
		BlockStepSize2:        optBool(cmd, "block-step-size-2"),
		OMPThreads:            optInt(cmd, "omp-threads"),
		VerboseOff:            optBool(cmd, "verbose-off"),
	}
}
