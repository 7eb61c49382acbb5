package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/nbmerge/internal/merge"
	"github.com/dusk-indust/nbmerge/internal/watch"
)

// runWatch merges once, then re-runs the merge whenever one of the input
// notebooks changes, until interrupted.
func runWatch(paths []string, policy merge.ResolutionPolicy, flags cliFlags) error {
	if len(paths) != 2 && len(paths) != 3 {
		return fmt.Errorf("usage: nbmerge -watch [flags] [base] current incoming")
	}
	if flags.Output == "" {
		return fmt.Errorf("-watch requires -output (refusing to overwrite a watched input)")
	}

	remerge := func() {
		in, label, err := loadMergeInput(paths)
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := mergeAndWrite(in, label, flags.Output, policy, flags); err != nil {
			fmt.Println(err)
		}
	}
	remerge()

	w, err := watch.New(paths, remerge)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
