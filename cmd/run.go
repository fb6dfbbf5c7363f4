package cmd

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run TOOL [ARGS...]",
		Short: "Run any NiftyReg tool with raw arguments",
		Long: `Run a NiftyReg tool with arguments passed through untouched, except that
empty arguments and trailing line continuations are dropped. niftyregw
flags must come before the tool name.

Examples:
  niftyregw run reg_aladin -ref ref.nii -flo flo.nii -rigOnly
  niftyregw --log info run reg_tools -in img.nii -smoG 1 1 1 -out smooth.nii`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.Run(cmd.Context(), args[0], args[1:]...)
			return err
		},
	}
	// everything after the tool name belongs to the tool
	cmd.Flags().SetInterspersed(false)
	return cmd
}
