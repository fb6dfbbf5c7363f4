package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

func newJacobianCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jacobian",
		Short: "Compute Jacobian-based maps from a transformation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolJacobian); done {
				return err
			}
			client, err := a.niftyreg()
			if err != nil {
				return err
			}
			_, err = client.Jacobian(cmd.Context(), optString(cmd, "transformation"), niftyreg.JacobianOptions{
				Reference:      optString(cmd, "reference"),
				JacobianMap:    optString(cmd, "jacobian-determinant"),
				JacobianMatrix: optString(cmd, "jacobian-matrix"),
				LogJacobianMap: optString(cmd, "jacobian-log-determinant"),
				OMPThreads:     optInt(cmd, "omp-threads"),
			})
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("transformation", "t", "", "transformation file")
	f.StringP("reference", "r", "", "reference image, required when the transformation is a spline grid")
	f.String("jacobian-determinant", "", "output Jacobian determinant map")
	f.String("jacobian-matrix", "", "output Jacobian matrix map")
	f.String("jacobian-log-determinant", "", "output log of the Jacobian determinant map")

	infoFlags(cmd, niftyreg.ToolJacobian)
	ompFlag(cmd)
	return cmd
}
