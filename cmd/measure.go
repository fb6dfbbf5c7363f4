package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

func newMeasureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Compute similarity measures between two images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolMeasure); done {
				return err
			}
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.Measure(cmd.Context(), optString(cmd, "reference"), optString(cmd, "floating"), niftyreg.MeasureOptions{
				NCC:        optBool(cmd, "ncc"),
				LNCC:       optBool(cmd, "lncc"),
				NMI:        optBool(cmd, "nmi"),
				SSD:        optBool(cmd, "ssd"),
				Output:     optString(cmd, "output"),
				OMPThreads: optInt(cmd, "omp-threads"),
			})
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("reference", "r", "", "reference image")
	f.StringP("floating", "f", "", "floating image")
	f.Bool("ncc", false, "normalised cross correlation")
	f.Bool("lncc", false, "local normalised cross correlation")
	f.Bool("nmi", false, "normalised mutual information")
	f.Bool("ssd", false, "sum of squared differences")
	f.StringP("output", "o", "", "text file for the measures [stdout]")

	infoFlags(cmd, niftyreg.ToolMeasure)
	ompFlag(cmd)
	return cmd
}
