package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vito/stimpl/pkg/ioctx"
	"github.com/vito/stimpl/pkg/stimpl"
)

const version = "v0.1.0"

// Config holds the application configuration
type Config struct {
	Debug      bool
	Parallel   int
	NoColor    bool
	ConfigFile string
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "stimpl [flags] FILE...",
		Short: "Evaluate stimpl programs",
		Long: `stimpl evaluates programs written as AST documents (YAML or JSON).

Each file is evaluated independently from an empty environment. Output of
every program is printed in argument order.`,
		Example: `  # Run a program
  stimpl program.yaml

  # Run several programs, two at a time
  stimpl -j 2 a.yaml b.yaml c.json

  # Print the program, final value and final environment
  stimpl --debug program.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setup(cmd, &cfg)
			if err != nil {
				return err
			}
			return stimpl.RunFiles(ctx, args, stimpl.RunOptions{
				Parallel: cfg.Parallel,
				Debug:    cfg.Debug,
			})
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Print diagnostics and enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", false, "Disable styled output")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Path to stimpl.toml (searched upward from the working directory if not specified)")
	rootCmd.Flags().IntVarP(&cfg.Parallel, "parallel", "j", stimpl.DefaultParallel, "Number of programs to evaluate at once")

	rootCmd.AddCommand(serveCmd(&cfg))
	rootCmd.AddCommand(dumpCmd())

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(version),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, formatError(err, !cfg.NoColor))
		}),
	); err != nil {
		os.Exit(1)
	}
}

// setup merges stimpl.toml with the command line and installs the logger.
// Flags given explicitly win over the file.
func setup(cmd *cobra.Command, cfg *Config) (context.Context, error) {
	ctx := cmd.Context()

	project, err := loadProjectConfig(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyProjectConfig(cmd, cfg, project)

	level, err := project.Level()
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(ioctx.StderrFromContext(ctx), &tint.Options{
		Level:   level,
		NoColor: cfg.NoColor,
	}))
	slog.SetDefault(logger)

	return ioctx.LoggerToContext(ctx, logger), nil
}

func loadProjectConfig(path string) (*stimpl.ProjectConfig, error) {
	if path != "" {
		return stimpl.LoadProjectConfig(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	found, project, err := stimpl.FindProjectConfig(cwd)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return stimpl.DefaultProjectConfig(), nil
	}
	slog.Debug("loaded project config", "path", found)
	return project, nil
}

func applyProjectConfig(cmd *cobra.Command, cfg *Config, project *stimpl.ProjectConfig) {
	flags := cmd.Flags()
	if !flags.Changed("debug") {
		cfg.Debug = project.Debug
	}
	if !flags.Changed("no-color") {
		cfg.NoColor = project.NoColor
	}
	if flags.Lookup("parallel") != nil && !flags.Changed("parallel") {
		cfg.Parallel = project.Parallel
	}
}
