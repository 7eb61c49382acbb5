package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/nbmerge/internal/export"
	"github.com/dusk-indust/nbmerge/internal/gitio"
	"github.com/dusk-indust/nbmerge/internal/ipynb"
	"github.com/dusk-indust/nbmerge/internal/merge"
)

// MergeService backs the MCP tool handlers. It carries the resolution
// policy applied to every merge_notebook call.
type MergeService struct {
	policy merge.ResolutionPolicy
}

// NewMergeService creates a service that merges with the given policy.
func NewMergeService(policy merge.ResolutionPolicy) *MergeService {
	return &MergeService{policy: policy}
}

func (s *MergeService) loadInput(basePath, currentPath, incomingPath string) (merge.Input, error) {
	var in merge.Input
	var err error

	if basePath != "" {
		if in.Base, err = ipynb.ParseFile(basePath); err != nil {
			return in, fmt.Errorf("base: %w", err)
		}
	}
	if in.Current, err = ipynb.ParseFile(currentPath); err != nil {
		return in, fmt.Errorf("current: %w", err)
	}
	if in.Incoming, err = ipynb.ParseFile(incomingPath); err != nil {
		return in, fmt.Errorf("incoming: %w", err)
	}
	return in, nil
}

// HandleMergeNotebook runs the full merge pipeline over three notebook
// files and optionally writes the provisional merged document.
func (s *MergeService) HandleMergeNotebook(ctx context.Context, req *mcp.CallToolRequest, in MergeNotebookInput) (*mcp.CallToolResult, MergeNotebookOutput, error) {
	input, err := s.loadInput(in.BasePath, in.CurrentPath, in.IncomingPath)
	if err != nil {
		return nil, MergeNotebookOutput{}, err
	}

	result, mappings, err := merge.Merge(input, s.policy)
	if err != nil {
		return nil, MergeNotebookOutput{}, err
	}

	report := export.BuildReport(in.CurrentPath, mappings, result)
	out := MergeNotebookOutput{
		Stats:          report.Stats,
		KernelResolved: result.KernelResolved,
		Resolved:       result.Resolved,
		Conflicts:      report.Conflicts,
	}

	if in.OutputPath != "" {
		if err := ipynb.WriteFile(in.OutputPath, result.Merged); err != nil {
			return nil, MergeNotebookOutput{}, err
		}
		out.WroteOutput = true
	}
	return nil, out, nil
}

// HandleClassifyConflicts reconciles and classifies without applying any
// auto-resolution, so callers can inspect the raw conflict set.
func (s *MergeService) HandleClassifyConflicts(ctx context.Context, req *mcp.CallToolRequest, in ClassifyConflictsInput) (*mcp.CallToolResult, ClassifyConflictsOutput, error) {
	input, err := s.loadInput(in.BasePath, in.CurrentPath, in.IncomingPath)
	if err != nil {
		return nil, ClassifyConflictsOutput{}, err
	}

	mappings, err := merge.Reconcile(input)
	if err != nil {
		return nil, ClassifyConflictsOutput{}, err
	}

	var out ClassifyConflictsOutput
	for _, c := range merge.Classify(mappings) {
		if c.Kind == merge.ConflictCellReordered {
			out.Reordered = true
		}
		out.Conflicts = append(out.Conflicts, ClassifiedConflict{
			ID:          c.ID,
			Kind:        string(c.Kind),
			Description: c.Description,
		})
	}
	return nil, out, nil
}

// HandleListConflicted lists notebook paths with unresolved merge
// conflicts in a git repository.
func (s *MergeService) HandleListConflicted(ctx context.Context, req *mcp.CallToolRequest, in ListConflictedInput) (*mcp.CallToolResult, ListConflictedOutput, error) {
	staged := gitio.NewStaged(in.RepoPath)
	paths, err := staged.Conflicted()
	if err != nil {
		return nil, ListConflictedOutput{}, err
	}
	return nil, ListConflictedOutput{Paths: paths}, nil
}
