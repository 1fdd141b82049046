package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codereef/lspbridge/internal/config"
)

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration file without starting any servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			for _, s := range cfg.Servers {
				root, err := config.ResolveRootDir(s)
				if err != nil {
					return err
				}
				fmt.Printf("server %v: extensions=%v rootDir=%s\n", s.Command, s.Extensions, root)
			}
			fmt.Printf("%d server(s) configured, all valid\n", len(cfg.Servers))
			return nil
		},
	}
}
