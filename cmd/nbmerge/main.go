package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/nbmerge/internal/config"
	"github.com/dusk-indust/nbmerge/internal/merge"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Output    string
	Report    string
	GitRepo   string
	Batch     bool
	Watch     bool
	ServeMCP  bool
	Addr      string
	Kernel    string
	NoResolve bool
	Verbose   bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("nbmerge", flag.ContinueOnError)
	fs.StringVar(&flags.Output, "output", "", "path for the merged notebook (default: overwrite current)")
	fs.StringVar(&flags.Report, "report", "", "write a JSON merge report to this path")
	fs.StringVar(&flags.GitRepo, "git", "", "merge the staged versions of a conflicted notebook in this repository")
	fs.BoolVar(&flags.Batch, "batch", false, "treat arguments as three directories and merge matching notebooks")
	fs.BoolVar(&flags.Watch, "watch", false, "re-run the merge whenever an input notebook changes")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server")
	fs.StringVar(&flags.Addr, "addr", "localhost:8422", "listen address for -serve-mcp")
	fs.StringVar(&flags.Kernel, "kernel", "", "kernel-version precedence: current or incoming")
	fs.BoolVar(&flags.NoResolve, "no-resolve", false, "disable all auto-resolution")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if cfg.Verbose {
		flags.Verbose = true
	}
	if flags.Output == "" {
		flags.Output = cfg.OutputPath
	}
	if flags.Report == "" {
		flags.Report = cfg.ReportPath
	}

	policy, err := buildPolicy(cfg, flags)
	if err != nil {
		return err
	}

	rest := fs.Args()
	switch {
	case flags.ServeMCP:
		return runServeMCP(flags.Addr, policy)
	case flags.GitRepo != "":
		return runGit(flags.GitRepo, rest, policy, flags)
	case flags.Batch:
		return runBatch(rest, policy, flags)
	case flags.Watch:
		return runWatch(rest, policy, flags)
	default:
		return runMergeFiles(rest, policy, flags)
	}
}

// buildPolicy layers CLI overrides on top of the project config.
func buildPolicy(cfg *config.ProjectConfig, flags cliFlags) (merge.ResolutionPolicy, error) {
	policy := cfg.ResolvedPolicy()

	if flags.NoResolve {
		policy = merge.ResolutionPolicy{}
	}

	switch flags.Kernel {
	case "":
	case "current":
		policy.KernelPrecedence = merge.KernelPreferCurrent
	case "incoming":
		policy.KernelPrecedence = merge.KernelPreferIncoming
	default:
		return policy, fmt.Errorf("unknown -kernel value %q (want current or incoming)", flags.Kernel)
	}

	return policy, nil
}
