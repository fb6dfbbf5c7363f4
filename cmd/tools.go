package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

func newToolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Image manipulation tools",
		Long: `Run reg_tools on an image.

Triplet options take three comma separated values, for example
--smooth-gaussian 1,1,1. Arithmetic operands take an image or a number.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolTools); done {
				return err
			}
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.Tools(cmd.Context(), optString(cmd, "input"), toolsOptions(cmd))
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", "", "input image")
	f.StringP("output", "o", "", "output image [output.nii]")
	f.Bool("float", false, "convert the input to float")
	f.Bool("downsample", false, "downsample by a factor of 2")
	f.Bool("isotropic", false, "resample to an isotropic voxel size")
	f.Float64Slice("change-resolution", nil, "resample to the given voxel size (x,y,z)")
	f.Float64Slice("smooth-spline", nil, "cubic spline smoothing, kernel width in voxels (x,y,z)")
	f.Float64Slice("smooth-gaussian", nil, "Gaussian smoothing, sigma in voxels (x,y,z)")
	f.Float64Slice("smooth-labels", nil, "Gaussian smoothing of labels, sigma in voxels (x,y,z)")
	f.String("add", "", "add an image or a value")
	f.String("subtract", "", "subtract an image or a value")
	f.String("multiply", "", "multiply by an image or a value")
	f.String("divide", "", "divide by an image or a value")
	f.Bool("binarize", false, "binarise the input")
	f.Float64("threshold", 0, "threshold the input at the given value")
	f.String("nan-mask", "", "set voxels outside the mask to NaN")
	f.String("rms", "", "print the RMS between the input and this image")
	f.Float64("remove-nan-inf", 0, "replace NaN and Inf with the given value")
	f.Bool("no-scaling", false, "reset the scaling slope and intercept")
	f.Bool("to-rgb", false, "convert a 4D or 5D image to RGB")
	f.Bool("mind", false, "compute MIND descriptors")
	f.Bool("mindssc", false, "compute MIND-SSC descriptors")
	f.Bool("test-active-blocks", false, "write the blocks used for block matching")
	f.Int("interpolation", 0, "interpolation order for resampling")

	infoFlags(cmd, niftyreg.ToolTools)
	ompFlag(cmd)
	return cmd
}

func toolsOptions(cmd *cobra.Command) niftyreg.ToolsOptions {
	return niftyreg.ToolsOptions{
		Output:           optString(cmd, "output"),
		Float:            optBool(cmd, "float"),
		Downsample:       optBool(cmd, "downsample"),
		Isotropic:        optBool(cmd, "isotropic"),
		ChangeResolution: optTriplet(cmd, "change-resolution"),
		SmoothSpline:     optTriplet(cmd, "smooth-spline"),
		SmoothGaussian:   optTriplet(cmd, "smooth-gaussian"),
		SmoothLabel:      optTriplet(cmd, "smooth-labels"),
		Add:              optString(cmd, "add"),
		Subtract:         optString(cmd, "subtract"),
		Multiply:         optString(cmd, "multiply"),
		Divide:           optString(cmd, "divide"),
		Binarise:         optBool(cmd, "binarize"),
		Threshold:        optFloat(cmd, "threshold"),
		NaNMask:          optString(cmd, "nan-mask"),
		RMS:              optString(cmd, "rms"),
		RemoveNaNInf:     optFloat(cmd, "remove-nan-inf"),
		NoScaling:        optBool(cmd, "no-scaling"),
		RGBFrom4D:        optBool(cmd, "to-rgb"),
		MIND:             optBool(cmd, "mind"),
		MINDSSC:          optBool(cmd, "mindssc"),
		TestActiveBlocks: optBool(cmd, "test-active-blocks"),
		Interpolation:    optInt(cmd, "interpolation"),
		OMPThreads:       optInt(cmd, "omp-threads"),
	}
}
