package cmd

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/install"
)

func newInstallCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download and install the NiftyReg binaries",
		Long: `Download the NiftyReg release archive for this platform and install the
reg_* executables. The CUDA build is chosen on Linux and Windows when
nvidia-smi runs successfully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst := install.New(a.cfg.Install.ReleaseURL,
				install.WithHTTPClient(&http.Client{Timeout: a.cfg.Install.Timeout}),
				install.WithLogger(a.wrapperLog()),
			)
			out := cmd.OutOrStdout()

			platform, err := inst.DetectPlatform(cmd.Context())
			if err != nil {
				return err
			}
			if optBool(cmd, "platform") {
				_, _ = fmt.Fprintf(out, "Platform: %s\n", platform)
				return nil
			}

			dir := a.cfg.InstallDir
			if cmd.Flags().Changed("output-dir") {
				dir, _ = cmd.Flags().GetString("output-dir")
			}

			_, _ = fmt.Fprintf(out, "Downloading NiftyReg binaries to %s...\n", dir)
			installed, err := inst.Install(cmd.Context(), dir, platform)
			if err != nil {
				return err
			}
			// paths resolved before the install are stale
			a.getLocator().Forget(install.Binaries...)

			for _, path := range installed {
				_, _ = fmt.Fprintf(out, "  Installed %s → %s\n", filepath.Base(path), path)
			}
			_, _ = fmt.Fprintf(out, "Done! %d binaries installed.\n", len(installed))
			return nil
		},
	}

	cmd.Flags().StringP("output-dir", "o", "", "directory to install into (default: install_dir from config)")
	cmd.Flags().Bool("platform", false, "print the detected platform and exit without installing")
	return cmd
}
