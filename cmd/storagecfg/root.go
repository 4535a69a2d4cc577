package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-acquire-storage/internal/config"
	"github.com/robert-malhotra/go-acquire-storage/storage"
)

// NewRootCmd creates the root storagecfg command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storagecfg",
		Short: "Inspect storage properties for acquisition streams",
		Long: "storagecfg loads storage properties from defaults, a YAML file and " +
			config.EnvPrefix + "_* environment variables, then validates or describes them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			initLogging(cmd)
			return nil
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newValidateCmd(),
		newShowCmd(),
		newGeometryCmd(),
		newVersionCmd(),
	)

	return root
}

// initLogging sends storage diagnostics to the command's stderr.
func initLogging(cmd *cobra.Command) {
	storage.SetLogger(newLogger(cmd))
}

// newLogger writes text records to stderr. Without --verbose only failures
// are reported.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelError
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadProperties loads the configuration named by --config and builds it.
// The caller must Destroy the result.
func loadProperties(cmd *cobra.Command) (*storage.StorageProperties, error) {
	path, _ := cmd.Flags().GetString("config")
	log := newLogger(cmd)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	props, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	log.Debug("loaded storage properties",
		"config", path,
		"filename", props.Filename.String(),
		"dimensions", props.Dimensions.Count(),
		"append_dimension", props.AppendDimension)
	return props, nil
}
