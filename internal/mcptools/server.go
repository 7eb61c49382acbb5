// Package mcptools exposes the notebook merge pipeline over the Model
// Context Protocol, so agent tooling can drive merges programmatically.
package mcptools

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMergeMCPServer creates an MCP server with the notebook merge tools
// registered.
func NewMergeMCPServer(svc *MergeService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "nbmerge",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_notebook",
		Description: "Run a three-way merge over notebook files. Matches cells across versions, auto-resolves transient conflicts (execution counts, outputs, whitespace, kernel version) per policy, and returns the remaining conflicts. Optionally writes the provisional merged notebook.",
	}, svc.HandleMergeNotebook)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_conflicts",
		Description: "Reconcile notebook versions and classify the semantic conflicts without applying any auto-resolution. Returns every conflict with its kind and a human-readable description.",
	}, svc.HandleClassifyConflicts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_conflicted",
		Description: "List files with unresolved merge conflicts in a git repository. Useful for finding notebooks that need a structural merge during an interrupted git merge.",
	}, svc.HandleListConflicted)

	return server
}

// RunMCPServer serves the notebook merge MCP tools over HTTP until ctx is
// cancelled, then drains in-flight sessions with a bounded shutdown.
func RunMCPServer(ctx context.Context, svc *MergeService, addr string) error {
	server := NewMergeMCPServer(svc)

	httpServer := &http.Server{
		Addr: addr,
		Handler: mcp.NewStreamableHTTPHandler(
			func(*http.Request) *mcp.Server { return server },
			nil,
		),
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
