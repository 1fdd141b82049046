package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codereef/lspbridge/internal/config"
	"github.com/codereef/lspbridge/internal/corectx"
	"github.com/codereef/lspbridge/internal/edits"
	"github.com/codereef/lspbridge/internal/operations"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/router"
	"github.com/codereef/lspbridge/internal/supervisor"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the bridge and serve code-intelligence tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func buildCore(cfg *config.Config) *corectx.Core {
	log := corectx.NewLogger()
	sup := supervisor.New(log)
	r := router.New(log, sup, cfg.Servers)

	sup.SetEditApplier(func(we protocol.WorkspaceEdit) error {
		_, err := edits.ApplyWorkspaceEdit(we, false)
		return err
	})

	return &corectx.Core{
		Log:        log,
		Supervisor: sup,
		Router:     r,
		Ops:        operations.New(r, log),
	}
}

func runServe() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	core := buildCore(cfg)

	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go watchParent(done, core)
	go func() {
		<-sigCh
		core.Log.Info().Msg("received shutdown signal")
		shutdown(core)
		close(done)
	}()

	mcpServer := newToolServer(core)
	core.Log.Info().Int("servers", len(cfg.Servers)).Msg("serving agent-channel tools over stdio")
	if err := mcpServer.Serve(); err != nil {
		shutdown(core)
		return err
	}

	<-done
	return nil
}

// watchParent mirrors the original prototype's defense against editors
// that don't reliably kill child MCP processes: if our parent's pid
// becomes unreachable (reparented to pid 1), we shut ourselves down
// rather than leaking supervised language-server children forever.
func watchParent(done chan struct{}, core *corectx.Core) {
	ppid := os.Getppid()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if cur := os.Getppid(); cur != ppid && cur == 1 {
				core.Log.Warn().Msg("parent process gone, shutting down")
				shutdown(core)
				close(done)
				return
			}
		case <-done:
			return
		}
	}
}

func shutdown(core *corectx.Core) {
	core.Supervisor.ShutdownAll()
}
