package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"droidbuild/internal/config"
	"droidbuild/internal/logx"
	"droidbuild/internal/paths"
	"droidbuild/internal/sdk"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List resolved SDK tool statuses",
		RunE:  runTools,
	}
}

func runTools(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	glog, gcloser, _ := logx.NewGlobal("tools")
	if gcloser != nil {
		defer gcloser.Close()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	var slog sdk.Logger
	if glog != nil {
		slog = glog
	}

	var (
		root     string
		version  string
		statuses []sdk.Status
	)
	svc, err := newSDKServiceWithStatus(ctx, pp, slog, nil, nil)
	switch {
	case err == nil:
		root = svc.SDKRoot()
		version = svc.BuildTools()
		statuses = svc.Statuses()
	case errors.Is(err, sdk.ErrUnresolved):
		// No SDK is not fatal for a listing; distro packages of the tools
		// may still be on the system path.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		cfg, cfgErr := config.Load(pp.ConfigFile)
		if cfgErr != nil {
			return cfgErr
		}
		statuses = sdk.NewResolver(&cfg, "").Statuses()
	default:
		return err
	}

	if outputJSON {
		payload := struct {
			SDKRoot    string       `json:"sdk_root,omitempty"`
			BuildTools string       `json:"build_tools,omitempty"`
			Tools      []sdk.Status `json:"tools"`
		}{
			SDKRoot:    root,
			BuildTools: version,
			Tools:      statuses,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printToolTable(cmd, root, version, statuses)
	return nil
}

func printToolTable(cmd *cobra.Command, root, version string, statuses []sdk.Status) {
	if root != "" {
		cmd.Printf("SDK root: %s\n", root)
		cmd.Printf("Build tools: %s\n", version)
	}
	if len(statuses) == 0 {
		cmd.Println("(no tool statuses)")
		return
	}

	cmd.Printf("%-10s %-7s %s\n", "Tool", "Found", "Path")
	for _, st := range statuses {
		found := "no"
		if st.Found {
			found = "yes"
		}
		path := st.Path
		if path == "" {
			path = "(missing)"
		}
		cmd.Printf("%-10s %-7s %s\n", st.Tool, found, path)
		if st.Error != "" {
			cmd.Printf("  error: %s\n", st.Error)
		}
	}
}
