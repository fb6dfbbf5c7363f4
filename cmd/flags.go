package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

// Optional values are only forwarded when the user set the flag, so the
// tool's own defaults apply otherwise.

func optString(cmd *cobra.Command, name string) string {
	if !cmd.Flags().Changed(name) {
		return ""
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func optInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func optFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func optBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func optTriplet(cmd *cobra.Command, name string) niftyreg.Triplet {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64Slice(name)
	return niftyreg.Triplet(v)
}

// infoFlags adds --print-help and --version.
func infoFlags(cmd *cobra.Command, tool string) {
	cmd.Flags().Bool("print-help", false, "print the native "+tool+" help and exit")
	cmd.Flags().Bool("version", false, "print the native "+tool+" version and exit")
}

func ompFlag(cmd *cobra.Command) {
	cmd.Flags().Int("omp-threads", 0, "number of OpenMP threads")
}

// nativeInfo handles --print-help and --version. It reports whether the
// command is done.
func (a *app) nativeInfo(cmd *cobra.Command, tool string) (bool, error) {
	var fn func(*niftyreg.Client) error
	switch {
	case optBool(cmd, "print-help"):
		fn = func(c *niftyreg.Client) error {
			_, err := c.Help(cmd.Context(), tool)
			return err
		}
	case optBool(cmd, "version"):
		fn = func(c *niftyreg.Client) error {
			_, err := c.Version(cmd.Context(), tool)
			return err
		}
	default:
		return false, nil
	}

	client, err := a.niftyreg()
	if err != nil {
		return true, err
	}
	return true, fn(client)
}
