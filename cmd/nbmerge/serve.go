package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/nbmerge/internal/mcptools"
	"github.com/dusk-indust/nbmerge/internal/merge"
)

// runServeMCP serves the merge tools over MCP until interrupted.
func runServeMCP(addr string, policy merge.ResolutionPolicy) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("nbmerge MCP server listening on %s\n", addr)

	svc := mcptools.NewMergeService(policy)
	return mcptools.RunMCPServer(ctx, svc, addr)
}
