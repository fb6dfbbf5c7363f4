package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

type averageSpec struct {
	use       string
	mode      niftyreg.AverageMode
	short     string
	inputs    string
	reference bool
	interp    bool
}

var averageSpecs = []averageSpec{
	{"avg", niftyreg.AverageImages, "Average images or affine matrices", "IMAGE_OR_AFFINE...", false, true},
	{"avg-lts", niftyreg.AverageLTS, "Robust (LTS) average of affine matrices, half are treated as outliers", "AFFINE...", false, false},
	{"avg-tran", niftyreg.AverageTransformed, "Resample every image into the reference space and average", "TRANS FLO [TRANS FLO]...", true, true},
	{"demean", niftyreg.Demean, "Demean transformations so that their mean is the identity", "TRANS FLO [TRANS FLO]...", true, true},
	{"demean-noaff", niftyreg.DemeanNoAffine, "Demean non-rigid transformations after removing the affine part", "AFF NRR FLO [AFF NRR FLO]...", true, true},
}

func newAverageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Average images or transformations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolAverage); done {
				return err
			}
			return cmd.Help()
		},
	}
	infoFlags(cmd, niftyreg.ToolAverage)

	for _, spec := range averageSpecs {
		cmd.AddCommand(newAverageModeCmd(a, spec))
	}
	cmd.AddCommand(newAverageCmdFileCmd(a))
	return cmd
}

func newAverageModeCmd(a *app, spec averageSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.use + " " + spec.inputs,
		Short: spec.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := niftyreg.AverageRequest{
				Mode:   spec.mode,
				Output: optString(cmd, "output"),
				Inputs: args,
			}
			if spec.reference {
				req.Reference = optString(cmd, "reference")
			}
			if spec.interp {
				switch {
				case optBool(cmd, "nn"):
					req.Interpolation = niftyreg.InterpolationNearest
				case optBool(cmd, "lin"):
					req.Interpolation = niftyreg.InterpolationLinear
				}
			}
			return a.average(cmd, req)
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "output file")
	if spec.reference {
		f.StringP("reference", "r", "", "reference image")
	}
	if spec.interp {
		f.Bool("nn", false, "nearest neighbour interpolation")
		f.Bool("lin", false, "linear interpolation")
		cmd.MarkFlagsMutuallyExclusive("nn", "lin")
	}
	return cmd
}

func newAverageCmdFileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmd-file",
		Short: "Run an average described by a command file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.average(cmd, niftyreg.AverageRequest{
				Mode:        niftyreg.AverageCommandFile,
				Output:      optString(cmd, "output"),
				CommandFile: optString(cmd, "command-file"),
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file")
	cmd.Flags().String("command-file", "", "text file containing the full command")
	return cmd
}

func (a *app) average(cmd *cobra.Command, req niftyreg.AverageRequest) error {
	client, err := a.niftyreg()
	if err != nil {
		return err
	}
	_, err = client.Average(cmd.Context(), req)
	return err
}
