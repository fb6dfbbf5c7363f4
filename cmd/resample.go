package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

func newResampleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resample",
		Short: "Resample an image with a transformation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolResample); done {
				return err
			}
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.Resample(cmd.Context(), optString(cmd, "reference"), optString(cmd, "floating"), niftyreg.ResampleOptions{
				Transformation: optString(cmd, "transformation"),
				Result:         optString(cmd, "output-result"),
				Blank:          optString(cmd, "output-blank"),
				Interpolation:  optInt(cmd, "interpolation"),
				Padding:        optFloat(cmd, "padding"),
				Tensor:         optBool(cmd, "tensor"),
				PSF:            optBool(cmd, "psf"),
				PSFAlgorithm:   optInt(cmd, "psf-algorithm"),
				VerboseOff:     optBool(cmd, "verbose-off"),
				OMPThreads:     optInt(cmd, "omp-threads"),
			})
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("reference", "r", "", "reference image")
	f.StringP("floating", "f", "", "floating image")
	f.StringP("transformation", "t", "", "affine or non-rigid transformation [identity]")
	f.StringP("output-result", "o", "", "resampled image")
	f.String("output-blank", "", "resampled blank grid")
	f.Int("interpolation", 0, "interpolation order: 0 nearest, 1 linear, 3 cubic, 4 sinc [3]")
	f.Float64("padding", 0, "padding value [0]")
	f.Bool("tensor", false, "the floating image is a tensor image")
	f.Bool("psf", false, "apply a point spread function before resampling")
	f.Int("psf-algorithm", 0, "PSF algorithm: 0 minimise matrix, 1 minimise determinant [0]")
	f.Bool("verbose-off", false, "turn verbose off")

	infoFlags(cmd, niftyreg.ToolResample)
	ompFlag(cmd)
	return cmd
}
