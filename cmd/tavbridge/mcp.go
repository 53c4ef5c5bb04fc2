package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tavbridge-ai/tavbridge/pkg/config"
	"github.com/tavbridge-ai/tavbridge/pkg/mcp"
	"github.com/tavbridge-ai/tavbridge/pkg/tracker"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start tavbridge as an MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// stdout carries the protocol; all diagnostics go to stderr.
			log.SetOutput(os.Stderr)

			client, cache := buildClient(cfg)
			if client == nil {
				log.Printf("no Tavily API key configured; tools will not be advertised")
			}

			tr, err := tracker.New(cfg.Usage.DBPath)
			if err != nil {
				return fmt.Errorf("init tracker: %w", err)
			}
			defer func() { _ = tr.Close() }()

			srv := mcp.New(client, cache, tr, version)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}
