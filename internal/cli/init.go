package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"droidbuild/internal/config"
	"droidbuild/internal/logx"
	"droidbuild/internal/paths"
	"droidbuild/internal/sdk"
)

var (
	initSDKPath string
	initForce   bool
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a droidbuild session",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	cmd.Flags().StringVar(&initSDKPath, "sdk-path", "", "Android SDK root to record in the config")
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yml")

	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		if filepath.IsAbs(args[0]) {
			return args[0], nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return cwd, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
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
	logf("droidbuild init: session=%s", pp.Root)

	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", pp.ConfigFile)
	}

	cfg := config.Default()
	cfg.ApplyDefaults()
	if initSDKPath != "" {
		cfg.SDKPath = initSDKPath
	}

	root, version := detectBuildTools(cfg, pp, logf)
	if version != "" {
		cfg.BuildTools = version
		if !quietOutput {
			cmd.Printf("Detected build-tools %s under %s\n", version, root)
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no usable build-tools release found; set sdk_path in config.yml")
	}

	if err := cfg.Save(pp.ConfigFile); err != nil {
		return err
	}
	logf("wrote config: %s", pp.ConfigFile)

	if !quietOutput {
		cmd.Printf("Initialized session at %s\n", pp.Root)
		cmd.Printf("  created %s\n", filepath.Base(pp.ConfigFile))
	}
	return nil
}

// detectBuildTools scans the candidate SDK roots for the session and returns
// the first root holding a usable build-tools release, with that release.
// Detection failure is normal here; init still writes a config the user can
// fill in.
func detectBuildTools(cfg config.Config, pp paths.SessionPaths, logf func(string, ...any)) (string, string) {
	for _, root := range sdk.CandidateRoots(cfg, pp) {
		version, err := sdk.LocateBuildTools(root)
		if err != nil {
			logf("no usable build-tools under %s: %v", root, err)
			continue
		}
		logf("detected build-tools %s under %s", version, root)
		return root, version
	}
	return "", ""
}
