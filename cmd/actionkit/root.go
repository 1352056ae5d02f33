package main

import (
	"fmt"
	"os"

	"github.com/aretw0/actionkit/internal/cli"
	"github.com/aretw0/actionkit/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "actionkit",
	Short: "actionkit serves declarative controller actions over HTTP",
	Long: `actionkit compiles YAML controller definitions into actions answering
html, json, xml and Turbo Stream requests, and serves them over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Project directory; config, definitions and templates are resolved inside it")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFile, "Config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config")
}

// loadApp reads the config and prepares the application for a command.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	dir, _ := cmd.Flags().GetString("dir")
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)
	cfg, err := config.Load(fsys, path)
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(cfg, level)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(fsys, cfg, logger), nil
}
