package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/niftyregw/internal/config"
	"github.com/zjrosen/niftyregw/internal/history"
	"github.com/zjrosen/niftyregw/internal/locate"
	"github.com/zjrosen/niftyregw/internal/log"
	"github.com/zjrosen/niftyregw/internal/niftyreg"
	"github.com/zjrosen/niftyregw/internal/runner"
	"github.com/zjrosen/niftyregw/internal/tracing"
)

var version = "dev"

// skipConfigAnnotation marks commands that must run without a readable config file.
const skipConfigAnnotation = "niftyregw/skip-config"

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile  string
	logLevel string

	viper  *viper.Viper
	cfg    config.Config
	logger *log.Logger
	stdout io.Writer

	locator  *locate.Locator
	store    *history.Store
	provider *tracing.Provider
	client   *niftyreg.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "niftyregw",
		Short: "A wrapper around the NiftyReg registration tools",
		Long: `niftyregw locates, installs and runs the NiftyReg command line tools.

Tool output is streamed line by line and logged with the name of the tool
that produced it. NiftyReg warnings and errors are logged at their own level.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/niftyregw/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log", "",
		"log level: debug, info, warning or error (default from config)")

	root.AddCommand(
		newInstallCmd(a),
		newAladinCmd(a),
		newF3DCmd(a),
		newAverageCmd(a),
		newJacobianCmd(a),
		newMeasureCmd(a),
		newResampleCmd(a),
		newToolsCmd(a),
		newTransformCmd(a),
		newRunCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger. Collaborators that
// touch the filesystem or network are created on first use.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Defaults()
	if cmd.Annotations[skipConfigAnnotation] == "" {
		if a.viper == nil {
			a.viper = viper.New()
		}
		loaded, err := config.Load(a.viper, a.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("log") {
		if _, err := log.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	a.stdout = cmd.OutOrStdout()
	a.logger = log.New(cmd.ErrOrStderr(),
		log.WithMinLevel(cfg.Level()),
		log.WithColor(cfg.Color),
	)
	return nil
}

func (a *app) wrapperLog() log.ToolSink {
	return a.logger.For(niftyreg.WrapperLabel)
}

func (a *app) getLocator() *locate.Locator {
	if a.locator == nil {
		a.locator = locate.New(
			locate.WithInstallDir(a.cfg.InstallDir),
			locate.WithCacheTTL(a.cfg.Locator.CacheTTL),
			locate.WithLogger(a.wrapperLog()),
		)
	}
	return a.locator
}

func (a *app) getStore() (*history.Store, error) {
	if a.store == nil {
		store, err := history.Open(a.cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}
	return a.store, nil
}

// niftyreg returns the Client, building it on first use.
func (a *app) niftyreg() (*niftyreg.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	provider, err := tracing.NewProvider(a.cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}
	a.provider = provider

	r := runner.New(
		runner.WithTracer(provider.Tracer()),
		runner.WithFallbackWriter(a.stdout),
	)

	var opts []niftyreg.Option
	if a.cfg.History.Enabled {
		store, err := a.getStore()
		if err != nil {
			// history is best effort
			a.wrapperLog().Warn("run history disabled", "error", err)
		} else {
			opts = append(opts, niftyreg.WithHistory(store))
		}
	}

	a.client = niftyreg.New(a.getLocator(), r, a.logger, opts...)
	return a.client, nil
}

// close flushes spans and closes the history database.
func (a *app) close(ctx context.Context) error {
	var firstErr error
	if a.provider != nil {
		if err := a.provider.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("flushing traces: %w", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Execute runs args against a fresh command tree.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
