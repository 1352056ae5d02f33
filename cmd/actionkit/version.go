package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/actionkit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of actionkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "actionkit version %s\n", strings.TrimSpace(actionkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
