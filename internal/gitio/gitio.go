// Package gitio retrieves the three versions of a conflicted notebook from a
// git repository's merge state. During a merge, the index holds the common
// ancestor at stage 1, the local side at stage 2, and the remote side at
// stage 3; gitio reads them via the git CLI.
package gitio

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dusk-indust/nbmerge/internal/ipynb"
	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// Index stages used by git during a merge.
const (
	stageBase     = 1
	stageCurrent  = 2
	stageIncoming = 3
)

// Runner executes git commands. The CLI implementation shells out; tests
// substitute a recorder.
type Runner interface {
	Run(dir string, args ...string) ([]byte, error)
}

// CLIRunner runs git via os/exec.
type CLIRunner struct{}

func (CLIRunner) Run(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return out, nil
}

// Staged reads base, current, and incoming versions of one conflicted path.
type Staged struct {
	repoDir string
	runner  Runner
}

// NewStaged creates a Staged reader for the repository at repoDir.
func NewStaged(repoDir string) *Staged {
	return &Staged{repoDir: repoDir, runner: CLIRunner{}}
}

// NewStagedWithRunner creates a Staged reader with a custom Runner.
func NewStagedWithRunner(repoDir string, runner Runner) *Staged {
	return &Staged{repoDir: repoDir, runner: runner}
}

// Versions retrieves all three versions of path from the merge state. Base
// is nil when the index has no stage-1 entry (both sides added the file).
// Current and incoming must exist; a merge without them is not in progress
// for this path.
func (s *Staged) Versions(path string) (base, current, incoming *notebook.Notebook, err error) {
	base, err = s.stage(path, stageBase)
	if err != nil {
		// No common ancestor is a legal merge state for added-on-both-sides
		// files; anything else propagates.
		if !isMissingStage(err) {
			return nil, nil, nil, err
		}
		base = nil
	}

	current, err = s.stage(path, stageCurrent)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("no local version of %s in merge state: %w", path, err)
	}
	incoming, err = s.stage(path, stageIncoming)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("no remote version of %s in merge state: %w", path, err)
	}
	return base, current, incoming, nil
}

// Conflicted lists paths with unmerged index entries.
func (s *Staged) Conflicted() ([]string, error) {
	out, err := s.runner.Run(s.repoDir, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

func (s *Staged) stage(path string, stage int) (*notebook.Notebook, error) {
	out, err := s.runner.Run(s.repoDir, "show", fmt.Sprintf(":%d:%s", stage, path))
	if err != nil {
		return nil, err
	}
	nb, err := ipynb.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("stage %d of %s: %w", stage, path, err)
	}
	return nb, nil
}

// isMissingStage detects the git error for a stage entry that does not
// exist in the index.
func isMissingStage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "is in the index, but not at stage")
}
