package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"droidbuild/internal/config"
	"droidbuild/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit session configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigEditCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  runConfigShow,
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the session configuration in an editor",
		RunE:  runConfigEdit,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	if outputJSON {
		return writeConfigJSON(cmd, cfg)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}

// writeConfigJSON emits the configuration with path expansion applied:
// sdk_root carries the expanded form of sdk_path.
func writeConfigJSON(cmd *cobra.Command, cfg config.Config) error {
	payload := struct {
		SDKPath    string            `json:"sdk_path"`
		SDKRoot    string            `json:"sdk_root,omitempty"`
		BuildTools string            `json:"build_tools,omitempty"`
		ToolPaths  map[string]string `json:"tool_paths,omitempty"`
		ScanIgnore []string          `json:"scan_ignore"`
	}{
		SDKPath:    cfg.SDKPath,
		SDKRoot:    cfg.SDKRoot(),
		BuildTools: cfg.BuildToolsVersion(),
		ToolPaths:  cfg.ToolPaths,
		ScanIgnore: cfg.ScanIgnorePatterns(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := seedConfigFile(pp); err != nil {
		return err
	}

	argv := append(editorCommand(), pp.ConfigFile)
	editCmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	editCmd.Stdin = cmd.InOrStdin()
	editCmd.Stdout = cmd.OutOrStdout()
	editCmd.Stderr = cmd.ErrOrStderr()
	editCmd.Dir = pp.Root

	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	if _, err := config.Load(pp.ConfigFile); err != nil {
		return fmt.Errorf("edited config does not parse: %w", err)
	}
	return nil
}

// seedConfigFile writes a default config for edit to open when the session
// has none yet.
func seedConfigFile(pp paths.SessionPaths) error {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists {
		return nil
	}
	return config.Default().Save(pp.ConfigFile)
}

// editorCommand picks the editor invocation from $VISUAL, then $EDITOR,
// then vi, split on whitespace for values like "code -w".
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			return strings.Fields(value)
		}
	}
	return []string{"vi"}
}
