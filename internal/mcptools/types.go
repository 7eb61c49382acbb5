package mcptools

import "github.com/dusk-indust/nbmerge/internal/export"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// MergeNotebookInput is the input for the merge_notebook MCP tool.
type MergeNotebookInput struct {
	BasePath     string `json:"basePath,omitempty" jsonschema:"path to the common-ancestor notebook; omit when no ancestor exists"`
	CurrentPath  string `json:"currentPath" jsonschema:"path to the local (current) notebook"`
	IncomingPath string `json:"incomingPath" jsonschema:"path to the remote (incoming) notebook"`
	OutputPath   string `json:"outputPath,omitempty" jsonschema:"where to write the provisional merged notebook; omit to skip writing"`
}

// MergeNotebookOutput is the result of the merge_notebook MCP tool.
type MergeNotebookOutput struct {
	Stats          export.MergeStats       `json:"stats"`
	KernelResolved bool                    `json:"kernelResolved"`
	Resolved       []string                `json:"resolved,omitempty"`
	Conflicts      []export.ConflictExport `json:"conflicts,omitempty"`
	WroteOutput    bool                    `json:"wroteOutput"`
}

// ClassifyConflictsInput is the input for the classify_conflicts MCP tool.
type ClassifyConflictsInput struct {
	BasePath     string `json:"basePath,omitempty" jsonschema:"path to the common-ancestor notebook; omit when no ancestor exists"`
	CurrentPath  string `json:"currentPath" jsonschema:"path to the local (current) notebook"`
	IncomingPath string `json:"incomingPath" jsonschema:"path to the remote (incoming) notebook"`
}

// ClassifiedConflict is one conflict before any auto-resolution.
type ClassifiedConflict struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// ClassifyConflictsOutput is the result of the classify_conflicts MCP tool.
type ClassifyConflictsOutput struct {
	Conflicts []ClassifiedConflict `json:"conflicts"`
	Reordered bool                 `json:"reordered"`
}

// ListConflictedInput is the input for the list_conflicted MCP tool.
type ListConflictedInput struct {
	RepoPath string `json:"repoPath" jsonschema:"path to a git repository with a merge in progress"`
}

// ListConflictedOutput is the result of the list_conflicted MCP tool.
type ListConflictedOutput struct {
	Paths []string `json:"paths"`
}
