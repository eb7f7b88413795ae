package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/internal/config"
	"github.com/askiada/go-recordpipe/internal/logger"
)

var (
	version = "0.1.0"

	configFile string
	envFile    string
	logLevel   string

	appCfg    *config.Config
	appLogger = zerolog.Nop()

	rootCmd = &cobra.Command{
		Use:   "recordpipe",
		Short: "Compose record cleaning pipelines",
		Long: `recordpipe reads records, one per line, applies an ordered list of cleaning
stages and prints the result. It can also reduce records to a single value, draw a
pipeline as a DOT graph, load records into SQLite and print the lessons the
library is built around.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the configuration")

	rootCmd.AddCommand(runCmd, reduceCmd, drawCmd, etlCmd, stagesCmd, lessonsCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	opts := []config.Option{}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	var lg zerolog.Logger
	if cfg.Log.Output == "stdout" {
		lg, err = logger.New(cfg.Log)
	} else {
		lg, err = logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	appCfg, appLogger = cfg, lg

	return nil
}
