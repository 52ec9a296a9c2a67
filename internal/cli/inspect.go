package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"droidbuild/internal/config"
	"droidbuild/internal/gradle"
	"droidbuild/internal/logx"
	"droidbuild/internal/manifest"
	"droidbuild/internal/paths"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [directory]",
		Short: "Report the gradle layout and application identity of a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
}

type inspectReport struct {
	Project     string `json:"project"`
	BuildDir    string `json:"build_dir"`
	Subdir      string `json:"subdir,omitempty"`
	Descriptors int    `json:"descriptors"`
	Manifests   int    `json:"manifests"`
	Package     string `json:"package,omitempty"`
	VersionName string `json:"version_name,omitempty"`
	VersionCode int    `json:"version_code,omitempty"`
	ParseError  string `json:"parse_error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	glog, gcloser, _ := logx.NewGlobal("inspect")
	if gcloser != nil {
		defer gcloser.Close()
	}
	glogf := func(format string, v ...any) {
		if glog != nil {
			glog.Printf(format, v...)
		}
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
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
	glogf("inspecting %s", buildDir)

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	tree, err := gradle.ScanTree(buildDir, cfg.ScanIgnorePatterns())
	if err != nil {
		return err
	}
	glogf("found %d descriptors, %d manifests", len(tree.Descriptors), len(tree.Manifests))

	report := inspectReport{
		Project:     pp.Root,
		BuildDir:    buildDir,
		Subdir:      gradle.SubprojectDir(buildDir, tree),
		Descriptors: len(tree.Descriptors),
		Manifests:   len(tree.Manifests),
	}

	info, err := manifest.Parse(tree.Paths(), inspectLogger{glogf: glogf, errOut: cmd.ErrOrStderr()})
	if err != nil {
		// Identity is informational here; a tree without one still has a
		// reportable layout.
		report.ParseError = err.Error()
		glogf("identity parse failed: %v", err)
	} else {
		report.Package = info.Package
		report.VersionName = info.VersionName
		report.VersionCode = info.VersionCode
	}

	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printInspectReport(cmd, report)
	return nil
}

// inspectLogger routes manifest parse warnings to both the global log and the
// user's terminal, where skipped files would otherwise go unnoticed.
type inspectLogger struct {
	glogf  func(format string, v ...any)
	errOut io.Writer
}

func (l inspectLogger) Printf(format string, v ...any) {
	l.glogf(format, v...)
	fmt.Fprintf(l.errOut, format+"\n", v...)
}

func printInspectReport(cmd *cobra.Command, report inspectReport) {
	subdir := report.Subdir
	if subdir == "" {
		subdir = "."
	}

	cmd.Printf("Project: %s\n", report.Project)
	if report.BuildDir != report.Project {
		cmd.Printf("Build dir: %s\n", report.BuildDir)
	}
	cmd.Printf("Subproject: %s\n", subdir)
	cmd.Printf("Descriptors: %d\n", report.Descriptors)
	cmd.Printf("Manifests: %d\n", report.Manifests)

	switch {
	case report.ParseError != "":
		cmd.Printf("Package: (%s)\n", report.ParseError)
	default:
		cmd.Printf("Package: %s\n", report.Package)
		version := report.VersionName
		if version == "" {
			version = "-"
		}
		if report.VersionCode > 0 {
			cmd.Printf("Version: %s (%d)\n", version, report.VersionCode)
		} else {
			cmd.Printf("Version: %s\n", version)
		}
	}
}
