package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes of every definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return app.Routes(cmd.OutOrStdout())
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe controllers, their services and response formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		width := 100
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
		return app.DescribeTo(cmd.OutOrStdout(), width)
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print a Mermaid flowchart of how each action answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return app.Graph(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(routesCmd, describeCmd, graphCmd)
}
