package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/anyswap/cmd/anyswap/serve"
	"github.com/walteh/anyswap/cmd/anyswap/swap"
	"github.com/walteh/anyswap/cmd/anyswap/tree"
	"github.com/walteh/anyswap/pkg/config"
	logging "github.com/walteh/anyswap/pkg/debug"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	fs := afero.NewOsFs()
	rootCmd := newRootCommand(fs)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	var (
		configFile string
		verbosity  int
	)

	rootCmd := &cobra.Command{
		Use:           "anyswap",
		Short:         "Swap the syntactic element under a cursor with its neighbor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "dialect config file (.yaml, .toml or .hcl)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "debug", "d", "log more (repeat for trace)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		switch {
		case verbosity == 1:
			level = zerolog.DebugLevel
		case verbosity > 1:
			level = zerolog.TraceLevel
		}

		logger := logging.NewLogger(os.Stderr, logging.Options{
			Level:  level,
			Color:  true,
			Caller: verbosity > 0,
		})
		ctx := logger.WithContext(cmd.Context())

		cfg := config.Default()
		if configFile != "" {
			loaded, err := config.Load(ctx, fs, configFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		cmd.SetContext(config.WithContext(ctx, cfg))
		return nil
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(swap.NewSwapCommand(fs))
	rootCmd.AddCommand(tree.NewTreeCommand(fs))
	rootCmd.AddCommand(serve.NewServeCommand())

	return rootCmd
}
