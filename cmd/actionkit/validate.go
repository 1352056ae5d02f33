package main

import (
	"github.com/aretw0/actionkit/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config and every definition",
	Long: `Loads the config, parses every definition and checks services,
error categories and templates. Exits non-zero on the first invalid file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return app.Validate(cmd.OutOrStdout())
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of definition files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Schema(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd, schemaCmd)
}
