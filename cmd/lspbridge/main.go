// Command lspbridge is the agent-facing process: it reads a server
// configuration, supervises the downstream LSP children it describes,
// and exposes code-intelligence operations as agent-channel tools over
// stdio.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "lspbridge",
		Short: "Supervises LSP servers and exposes code-intelligence tools over stdio",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "lspbridge.toml", "path to the server configuration file")

	serve := serveCmd()
	root.AddCommand(serve)
	root.AddCommand(checkConfigCmd())
	root.AddCommand(versionCmd())
	root.RunE = serve.RunE // serve is the default action when no subcommand is given

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
