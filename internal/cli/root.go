package cli

import (
	"context"
	"errors"
	"fmt"

	"design-canvas/internal/config"
	"design-canvas/internal/version"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// ErrNoWindow is returned by the root command when it was built without a
// window launcher.
var ErrNoWindow = errors.New("no window launcher in this build")

// LaunchOptions is handed to the window launcher by the root command.
type LaunchOptions struct {
	Config     config.Config
	ConfigPath string
	// Watch reloads ConfigPath while the window is open.
	Watch bool
	// Demo seeds the workspace with a few shapes.
	Demo bool
}

// LaunchFunc opens the editor window and blocks until it is closed.
type LaunchFunc func(ctx context.Context, opts LaunchOptions) error

// NewRootCmd builds the command tree. launch may be nil for headless
// builds; the root command then fails with ErrNoWindow.
func NewRootCmd(launch LaunchFunc) *cobra.Command {
	var (
		verbose    bool
		configPath string
		opts       LaunchOptions
	)

	root := &cobra.Command{
		Use:          "design-canvas",
		Short:        "Design canvas with snapping guides and rulers",
		Long:         `Design canvas is a fixed-size workspace editor: drag shapes and they snap to the workspace edges and center and to each other, with alignment guides and rulers that follow pan and zoom.`,
		Version:      version.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			installLogger(logger)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if launch == nil {
				return ErrNoWindow
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.Config = cfg
			opts.ConfigPath = configPath
			loggerFromContext(cmd.Context()).Debug("starting editor", "config", configPath, "watch", opts.Watch)
			return launch(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("design-canvas %s\n", version.String()))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	root.Flags().BoolVar(&opts.Watch, "watch", false, "reload the configuration file when it changes")
	root.Flags().BoolVar(&opts.Demo, "demo", true, "start with a few demo shapes")

	root.AddCommand(newConfigCmd(&configPath))
	root.AddCommand(newSnapshotCmd(&configPath))
	return root
}

// Execute runs the design-canvas CLI.
func Execute(ctx context.Context, launch LaunchFunc) error {
	return NewRootCmd(launch).ExecuteContext(ctx)
}

// ExecuteSnapshot runs the snapshot command with args, as the standalone
// snapshot program does.
func ExecuteSnapshot(ctx context.Context, args []string) error {
	root := NewRootCmd(nil)
	root.SetArgs(append([]string{"snapshot"}, args...))
	return root.ExecuteContext(ctx)
}

func newConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return cfg.Write(cmd.OutOrStdout())
		},
	}
}
