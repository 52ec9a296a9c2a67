package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"droidbuild/internal/config"
	"droidbuild/internal/gradle"
	"droidbuild/internal/logx"
	"droidbuild/internal/paths"
	"droidbuild/internal/sdk"
	"droidbuild/internal/tui"
)

var (
	adaptBuildTools     string
	adaptDryRun         bool
	adaptDescriptorOnly bool
	adaptNoProgress     bool
)

var newSDKServiceWithStatus = sdk.NewServiceWithStatus

func newAdaptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adapt [directory]",
		Short: "Pin the resolved build-tools release in gradle descriptors",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAdapt,
	}

	cmd.Flags().StringVar(&adaptBuildTools, "build-tools", "", "Pin this release instead of resolving one from the SDK")
	cmd.Flags().BoolVar(&adaptDryRun, "dry-run", false, "Report what would change without rewriting descriptors")
	cmd.Flags().BoolVar(&adaptDescriptorOnly, "descriptor-only", false, "Patch only the root build.gradle descriptor")
	cmd.Flags().BoolVar(&adaptNoProgress, "no-progress", false, "Disable interactive progress output")

	return cmd
}

func runAdapt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	glog, gcloser, _ := logx.NewGlobal("adapt")
	if gcloser != nil {
		defer gcloser.Close()
	}
	glogf := func(format string, v ...any) {
		if glog != nil {
			glog.Printf(format, v...)
		}
	}
	glogf("adapt started")

	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	defer status.Stop()

	status.Update("Resolving session...")
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	glogf("session resolved: %s", pp.Root)

	buildDir, err := resolveBuildDir(pp, args)
	if err != nil {
		return err
	}
	exists, err := paths.DirExists(buildDir)
	if err != nil {
		return fmt.Errorf("stat build dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("build directory does not exist: %s", buildDir)
	}

	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}
	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logf := commandLogf(cmd, logger)

	var (
		version  string
		ignore   []string
		warnings []string
	)
	if adaptBuildTools != "" {
		version = adaptBuildTools
		cfg, err := config.Load(pp.ConfigFile)
		if err != nil {
			return err
		}
		ignore = cfg.ScanIgnorePatterns()
		logf("using pinned build-tools %s", version)
	} else {
		status.Update("Resolving build-tools...")
		svc, err := newSDKServiceWithStatus(ctx, pp, logger, nil, status.Update)
		if err != nil {
			return err
		}
		version = svc.BuildTools()
		ignore = svc.Config().ScanIgnorePatterns()
		for _, warn := range []string{svc.Advisory(), svc.AaptWarning()} {
			if warn != "" {
				warnings = append(warnings, warn)
			}
		}
		logf("resolved build-tools %s under %s", version, svc.SDKRoot())
	}

	var descriptors []string
	if adaptDescriptorOnly {
		descriptors = []string{filepath.Join(buildDir, gradle.DescriptorName)}
	} else {
		status.Update("Scanning gradle descriptors...")
		tree, err := gradle.ScanTree(buildDir, ignore)
		if err != nil {
			return err
		}
		descriptors = tree.Descriptors
	}
	if len(descriptors) == 0 {
		return fmt.Errorf("no gradle descriptors found under %s", buildDir)
	}
	glogf("adapting %d descriptors to build-tools %s", len(descriptors), version)

	outWriter := cmd.OutOrStdout()
	mode := tui.DetectMode(outWriter, adaptNoProgress, outputJSON)
	status.Stop() // Hand off to TUI or plain output

	for _, warn := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warn)
	}

	var results []gradle.FileResult
	adaptWork := func(send func(tea.Msg)) {
		reporter := &adaptProgress{logf: logger.Printf, errOut: cmd.ErrOrStderr()}
		if send != nil {
			reporter.tui = tui.NewAdaptReporter(send)
		}
		results = gradle.AdaptFiles(buildDir, version, descriptors, gradle.AdaptOptions{
			Ignore:   ignore,
			DryRun:   adaptDryRun,
			Reporter: reporter,
		})
	}

	if mode == tui.ModeTUI {
		glogf("starting TUI (mode=tui)")
		fmt.Fprintf(outWriter, "Project: %s\n", pp.Root)
		model := buildAdaptProgressModel(buildDir, descriptors)
		if err := tui.RunWithWork(outWriter, model, adaptWork); err != nil {
			return err
		}
		glogf("TUI finished")
	} else {
		adaptWork(nil)
	}

	counts := tallyAdaptCounts(results)
	glogf("adapt finished: %+v", counts)

	if mode == tui.ModeJSON {
		if err := writeAdaptJSON(cmd, pp.Root, version, results, counts); err != nil {
			return err
		}
	} else if !quietOutput {
		if mode == tui.ModeTUI {
			printAdaptSummary(outWriter, version, counts)
		} else {
			writeAdaptTable(cmd, pp.Root, version, results, counts)
		}
	}

	if counts.Failed > 0 {
		if mode != tui.ModeJSON {
			writeAdaptFailures(cmd, results)
		}
		return fmt.Errorf("%d of %d descriptors failed", counts.Failed, len(results))
	}
	return nil
}

// resolveBuildDir picks the tree to adapt: the positional argument when
// given, otherwise the session root.
func resolveBuildDir(pp paths.SessionPaths, args []string) (string, error) {
	if len(args) == 0 {
		return pp.Root, nil
	}
	if filepath.IsAbs(args[0]) {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return filepath.Join(cwd, args[0]), nil
}

// adaptProgress feeds per-file outcomes to the session log and, when a TUI
// is running, to its table.
type adaptProgress struct {
	logf   func(format string, v ...any)
	errOut io.Writer
	tui    *tui.AdaptReporter
}

func (r *adaptProgress) FileStarted(path string) {
	if r.tui != nil {
		r.tui.FileStarted(path)
	}
}

func (r *adaptProgress) FileFinished(result gradle.FileResult) {
	if result.Err != "" {
		r.logf("adapt %s: %s (%s)", result.Path, result.Status, result.Err)
	} else {
		r.logf("adapt %s: %s", result.Path, result.Status)
	}
	if result.Status == gradle.StatusError {
		fmt.Fprintf(r.errOut, "adapt %s failed: %s\n", result.Path, result.Err)
	}
	if r.tui != nil {
		r.tui.FileFinished(result)
	}
}

var adaptColumns = []tui.Column{
	{Header: "FILE", Width: 40},
	{Header: "STATUS", Width: 12},
	{Header: "DETAIL", Width: 24},
}

func buildAdaptProgressModel(root string, descriptors []string) tui.ProgressModel {
	model := tui.NewProgressModel("Adapting build descriptors", adaptColumns)
	for _, path := range descriptors {
		rel := displayPath(root, path)
		model.AddRow(rel, []string{rel, "pending", "-"})
	}
	return model
}

// displayPath mirrors how adapt results name files: relative to the tree
// root, slash-separated. Progress rows are keyed the same way so updates
// land on the right row.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

type adaptCounts struct {
	Patched    int `json:"patched"`
	WouldPatch int `json:"would_patch"`
	Unchanged  int `json:"unchanged"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

func tallyAdaptCounts(results []gradle.FileResult) adaptCounts {
	counts := adaptCounts{}
	for _, r := range results {
		switch r.Status {
		case gradle.StatusPatched:
			counts.Patched++
		case gradle.StatusWouldPatch:
			counts.WouldPatch++
		case gradle.StatusUnchanged:
			counts.Unchanged++
		case gradle.StatusSkipped:
			counts.Skipped++
		case gradle.StatusError:
			counts.Failed++
		}
	}
	return counts
}

func writeAdaptJSON(cmd *cobra.Command, project, version string, results []gradle.FileResult, counts adaptCounts) error {
	payload := struct {
		Project    string              `json:"project"`
		BuildTools string              `json:"build_tools"`
		DryRun     bool                `json:"dry_run,omitempty"`
		Files      []gradle.FileResult `json:"files"`
		Summary    adaptCounts         `json:"summary"`
	}{
		Project:    project,
		BuildTools: version,
		DryRun:     adaptDryRun,
		Files:      results,
		Summary:    counts,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode adapt json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeAdaptTable(cmd *cobra.Command, project, version string, results []gradle.FileResult, counts adaptCounts) {
	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", project)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTATUS\tERROR")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Status, r.Err)
	}
	w.Flush()

	printAdaptSummary(cmd.OutOrStdout(), version, counts)
}

func printAdaptSummary(w io.Writer, version string, counts adaptCounts) {
	fmt.Fprintf(w, "Build tools: %s\n", version)
	fmt.Fprintf(w, "Patched: %d, Would patch: %d, Unchanged: %d, Skipped: %d, Failed: %d\n",
		counts.Patched, counts.WouldPatch, counts.Unchanged, counts.Skipped, counts.Failed,
	)
}

func writeAdaptFailures(cmd *cobra.Command, results []gradle.FileResult) {
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Failures:")
	for _, r := range results {
		if r.Status != gradle.StatusError {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", r.Path, r.Err)
	}
}
