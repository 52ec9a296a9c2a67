package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"droidbuild/internal/config"
	"droidbuild/internal/paths"
	"droidbuild/internal/sdk"
)

// doctorRunner executes the aapt probe; tests substitute a stub.
var doctorRunner sdk.Runner = sdk.CmdRunner{}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check session health",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat session dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("session directory does not exist: %s", pp.Root)
	}

	var checks []healthCheck

	cfg, cfgErr := config.Load(pp.ConfigFile)
	checks = append(checks, checkConfig(pp, cfg, cfgErr))

	// The remaining checks all read the config, so stop at a parse failure.
	if cfgErr != nil {
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	// SDK root check
	roots := sdk.CandidateRoots(cfg, pp)
	checks = append(checks, checkSDKRoots(roots))

	// Toolchain resolution and the checks that hang off it
	svc, svcErr := newSDKServiceWithStatus(ctx, pp, nil, doctorRunner, nil)
	if svcErr != nil {
		checks = append(checks, healthCheck{Name: "Build tools", Status: "error", Summary: svcErr.Error()})
		checks = append(checks, checkToolAvailability(sdk.NewResolver(&cfg, "").Statuses()))
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	checks = append(checks, healthCheck{
		Name:    "Build tools",
		Status:  "ok",
		Summary: fmt.Sprintf("%s under %s", svc.BuildTools(), svc.SDKRoot()),
	})
	checks = append(checks, checkOrdering(svc))
	checks = append(checks, checkAapt(ctx, svc))
	checks = append(checks, checkToolAvailability(svc.Statuses()))

	return writeDoctorResult(cmd, pp.Root, checks)
}

func checkConfig(pp paths.SessionPaths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.ValidateStrict(pp.Root, sdk.ToolNames())
	var warnCount, errCount int
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnCount++
		case "error":
			errCount++
		}
	}

	summary := fmt.Sprintf("sdk_path %s", cfg.SDKPath)
	if pinned := cfg.BuildToolsVersion(); pinned != "" {
		summary += fmt.Sprintf(", build_tools %s", pinned)
	}

	if errCount > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errCount)}
	}
	if warnCount > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnCount)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkSDKRoots(roots []string) healthCheck {
	if len(roots) == 0 {
		return healthCheck{
			Name:    "SDK root",
			Status:  "error",
			Summary: "sdk_path is not set and $ANDROID_HOME is empty",
		}
	}
	for _, root := range roots {
		if ok, err := paths.DirExists(root); err == nil && ok {
			return healthCheck{Name: "SDK root", Status: "ok", Summary: root}
		}
	}
	return healthCheck{
		Name:    "SDK root",
		Status:  "error",
		Summary: fmt.Sprintf("no candidate exists: %s", joinComma(roots)),
	}
}

func checkOrdering(svc *sdk.Service) healthCheck {
	if adv := svc.Advisory(); adv != "" {
		return healthCheck{Name: "Ordering", Status: "warning", Summary: adv}
	}
	return healthCheck{Name: "Ordering", Status: "ok", Summary: "selection matches semantic order"}
}

func checkAapt(ctx context.Context, svc *sdk.Service) healthCheck {
	path, err := svc.FindTool("aapt")
	if err != nil {
		if errors.Is(err, sdk.ErrToolNotFound) {
			return healthCheck{Name: "aapt", Status: "warning", Summary: "aapt not found"}
		}
		return healthCheck{Name: "aapt", Status: "error", Summary: err.Error()}
	}

	line, err := sdk.AaptVersion(ctx, doctorRunner, path)
	if err != nil {
		return healthCheck{Name: "aapt", Status: "warning", Summary: err.Error()}
	}
	if warn := svc.AaptWarning(); warn != "" {
		return healthCheck{Name: "aapt", Status: "warning", Summary: warn}
	}
	return healthCheck{Name: "aapt", Status: "ok", Summary: line}
}

func checkToolAvailability(statuses []sdk.Status) healthCheck {
	var found int
	var names []string
	for _, st := range statuses {
		if st.Found {
			found++
			names = append(names, st.Tool)
		}
	}
	if found == len(statuses) && found > 0 {
		return healthCheck{Name: "Tools", Status: "ok", Summary: joinComma(names)}
	}
	return healthCheck{
		Name:    "Tools",
		Status:  "warning",
		Summary: fmt.Sprintf("%d of %d tools found", found, len(statuses)),
	}
}

func writeDoctorResult(cmd *cobra.Command, sessionRoot string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("SESSION HEALTH:")+" "+sessionRoot)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("✓ OK")
		case "warning":
			statusStr = yellow.Render("! WARN")
		case "error":
			statusStr = red.Render("✗ ERROR")
		}
		fmt.Fprintf(out, "  %-13s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}

func joinComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += ", " + item
	}
	return result
}
