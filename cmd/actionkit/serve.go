package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/actionkit"
	"github.com/aretw0/actionkit/internal/cli"
	"github.com/aretw0/actionkit/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Compiles the configured definitions and serves them. With --watch,
definitions and templates are reloaded when they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			app.Config.Addr = addr
		}
		watch, _ := cmd.Flags().GetBool("watch")

		out := cmd.OutOrStdout()
		if cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(out, cli.Profile(os.Stdout), actionkit.Version)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		var handler http.Handler
		if watch {
			reloader, err := cli.NewReloader(app, time.Second)
			if err != nil {
				return err
			}
			go reloader.Run(ctx)
			handler = reloader
		} else {
			asm, err := app.Build()
			if err != nil {
				return err
			}
			defer asm.Close()
			handler = asm.Handler
		}

		err = cli.Serve(ctx, handler, cli.ServeOptions{
			Addr:            app.Config.Addr,
			ShutdownTimeout: app.Config.ShutdownTimeout,
			Out:             out,
			Logger:          app.Logger,
		})
		if sig := ctx.Signal(); sig != nil {
			app.Logger.Info("stopped by signal", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on; overrides the config")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload definitions and templates on change")
}
